package wkbraster

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

// FormatVersion is the only defined version of the WKB raster format.
const FormatVersion = 0

// Header holds the fixed-size raster metadata: format version, the
// six-parameter affine transform mapping pixel coordinates to
// georeferenced coordinates, the spatial reference id (opaque to the
// codec) and the grid dimensions in pixels.
//
// Byte order and band count are wire-level concerns and are not part of
// the in-memory header: the encoder picks the byte order and derives
// the band count from the actual band sequence.
type Header struct {
	Version uint16

	ScaleX, ScaleY float64
	IPX, IPY       float64
	SkewX, SkewY   float64

	SRID          int32
	Width, Height uint16
}

// Raster is a decoded WKB raster: a header plus an ordered sequence of
// bands. It is a plain value; the codec never mutates a raster after
// decoding it, and concurrent use is safe as long as each encode or
// decode call gets its own buffer.
type Raster struct {
	Header Header
	Bands  []Band
}

// Band is one layer of a raster, holding one scalar per pixel.
type Band struct {
	PixelType PixelType

	// Nodata is the band's nodata value, or nil if none is defined.
	Nodata *float64

	// IsNodataValue is the format's dirty flag hinting that every pixel
	// equals the nodata value. It is preserved verbatim on round-trip
	// and never interpreted by the codec.
	IsNodataValue bool

	// Data is either *Pixels or *OfflineRef.
	Data BandData
}

// Offline reports whether the band's pixel data lives outside the
// buffer.
func (b *Band) Offline() bool {
	_, ok := b.Data.(*OfflineRef)
	return ok
}

// BandData is the payload of a band: in-memory pixels or a reference to
// pixels stored in an external file. Exactly one of the two concrete
// types is present per band.
type BandData interface {
	bandData()
}

// Pixels holds an owned, contiguous pixel grid in row-major order: row
// 0 is the topmost row, left to right within a row.
type Pixels struct {
	Values []float64
}

func (*Pixels) bandData() {}

// OfflineRef points at pixel data stored outside the WKB buffer.
type OfflineRef struct {
	BandNumber int8
	Path       string
}

func (*OfflineRef) bandData() {}

// At returns the pixel value of the given band at column x, row y. The
// second return value is false if the band is offline or the
// coordinates are out of bounds.
func (r *Raster) At(band, x, y int) (float64, bool) {
	if band < 0 || band >= len(r.Bands) {
		return 0, false
	}
	if x < 0 || x >= int(r.Header.Width) || y < 0 || y >= int(r.Header.Height) {
		return 0, false
	}
	px, ok := r.Bands[band].Data.(*Pixels)
	if !ok {
		return 0, false
	}
	return px.Values[y*int(r.Header.Width)+x], true
}

// Validate checks the structural invariants required for encoding:
// version, band count, pixel types, nodata domains, grid sizes and
// offline paths. Per-pixel domain checks happen during encoding.
func (r *Raster) Validate() error {
	if r.Header.Version != FormatVersion {
		return errors.Wrapf(ErrUnsupportedVersion, "version %d", r.Header.Version)
	}
	if len(r.Bands) > math.MaxUint16 {
		return errors.Errorf("too many bands: %d", len(r.Bands))
	}

	for i := range r.Bands {
		b := &r.Bands[i]

		if !b.PixelType.Valid() {
			return errors.Wrapf(ErrUnknownPixelType, "band %d: ordinal %d", i, uint8(b.PixelType))
		}
		if b.Nodata != nil {
			if err := b.PixelType.CheckValue(*b.Nodata); err != nil {
				return errors.Wrapf(err, "band %d: nodata value", i)
			}
		}

		switch d := b.Data.(type) {
		case *Pixels:
			want := int(r.Header.Width) * int(r.Header.Height)
			if len(d.Values) != want {
				return errors.Errorf("band %d: pixel grid has %d values, want %d", i, len(d.Values), want)
			}
		case *OfflineRef:
			if strings.IndexByte(d.Path, 0) >= 0 {
				return errors.Errorf("band %d: offline path contains a NUL byte", i)
			}
		case nil:
			return errors.Errorf("band %d: no band data", i)
		}
	}

	return nil
}
