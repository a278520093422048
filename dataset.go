package wkbraster

import (
	"math"

	"github.com/cockroachdb/errors"
)

// Dataset describes a raster source for the write path. It is the
// abstract view of a geospatial dataset handle: the surrounding tooling
// is responsible for populating one from a file, this package only
// consumes it.
type Dataset interface {
	// Size returns the raster dimensions in pixels.
	Size() (width, height int)

	// GeoTransform returns the affine transform components in the
	// order scaleX, scaleY, ipX, ipY, skewX, skewY.
	GeoTransform() [6]float64

	// SRID returns the spatial reference id, opaque to the codec.
	SRID() int32

	// NumBands returns the number of bands.
	NumBands() int

	// Band returns the i-th band source, 0-based.
	Band(i int) BandSource
}

// BandSource describes one band of a Dataset.
type BandSource interface {
	PixelType() PixelType

	// Nodata returns the band's nodata value, if one is defined.
	Nodata() (float64, bool)

	// ReadPixels returns the band's pixels in row-major order. The
	// result must hold exactly width*height values.
	ReadPixels() ([]float64, error)
}

// WriteRaster encodes the dataset as a WKB raster buffer.
func WriteRaster(ds Dataset) ([]byte, error) {
	r, err := NewRaster(ds)
	if err != nil {
		return nil, err
	}
	return Marshal(r)
}

// NewRaster builds an in-memory raster from a dataset, copying its
// metadata and reading every band's pixels.
func NewRaster(ds Dataset) (*Raster, error) {
	width, height := ds.Size()
	if width < 0 || width > math.MaxUint16 {
		return nil, errors.Errorf("raster width %d out of range", width)
	}
	if height < 0 || height > math.MaxUint16 {
		return nil, errors.Errorf("raster height %d out of range", height)
	}

	gt := ds.GeoTransform()
	r := Raster{
		Header: Header{
			ScaleX: gt[0],
			ScaleY: gt[1],
			IPX:    gt[2],
			IPY:    gt[3],
			SkewX:  gt[4],
			SkewY:  gt[5],
			SRID:   ds.SRID(),
			Width:  uint16(width),
			Height: uint16(height),
		},
	}

	for i := 0; i < ds.NumBands(); i++ {
		src := ds.Band(i)

		b := Band{PixelType: src.PixelType()}
		if v, ok := src.Nodata(); ok {
			b.Nodata = &v
		}

		values, err := src.ReadPixels()
		if err != nil {
			return nil, errors.Wrapf(err, "band %d", i)
		}
		if len(values) != width*height {
			return nil, errors.Errorf("band %d: source returned %d values, want %d", i, len(values), width*height)
		}
		b.Data = &Pixels{Values: values}

		r.Bands = append(r.Bands, b)
	}

	return &r, nil
}

// MemDataset is an in-memory Dataset, the programmatic way to build a
// raster for encoding without a geospatial file behind it.
type MemDataset struct {
	Width, Height int
	Transform     [6]float64
	Srid          int32
	Bands         []MemBand
}

// MemBand is one band of a MemDataset.
type MemBand struct {
	Type        PixelType
	NodataValue *float64
	Values      []float64
}

func (d *MemDataset) Size() (int, int)         { return d.Width, d.Height }
func (d *MemDataset) GeoTransform() [6]float64 { return d.Transform }
func (d *MemDataset) SRID() int32              { return d.Srid }
func (d *MemDataset) NumBands() int            { return len(d.Bands) }
func (d *MemDataset) Band(i int) BandSource    { return &d.Bands[i] }

func (b *MemBand) PixelType() PixelType { return b.Type }

func (b *MemBand) Nodata() (float64, bool) {
	if b.NodataValue == nil {
		return 0, false
	}
	return *b.NodataValue, true
}

func (b *MemBand) ReadPixels() ([]float64, error) { return b.Values, nil }
