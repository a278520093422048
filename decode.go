package wkbraster

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/nathancahill/wkb-raster/internal/encoding"
)

// Wire-level constants. The flags byte of each band carries the pixel
// type ordinal in its low 4 bits and three flags in its high bits.
const (
	headerSize = 61

	flagIsOffline = 1 << 7
	flagHasNodata = 1 << 6
	flagIsNodata  = 1 << 5
	pixelTypeMask = 0x0F
)

// ReadRaster decodes a WKB raster from rd, which must contain a
// complete buffer as produced by a spatial database's binary export.
func ReadRaster(rd io.Reader) (*Raster, error) {
	buf, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, "reading raster source")
	}
	return Unmarshal(buf)
}

// Unmarshal decodes a WKB raster from buf. Trailing bytes past the last
// band are ignored.
func Unmarshal(buf []byte) (*Raster, error) {
	cur := encoding.NewReader(buf)

	hdr, nbands, err := decodeHeader(cur)
	if err != nil {
		return nil, err
	}

	rast := Raster{
		Header: *hdr,
		Bands:  make([]Band, 0, nbands),
	}
	for i := 0; i < int(nbands); i++ {
		band, err := decodeBand(cur, hdr)
		if err != nil {
			return nil, errors.Wrapf(err, "band %d", i)
		}
		rast.Bands = append(rast.Bands, *band)
	}

	return &rast, nil
}

// decodeHeader reads the fixed-size header and establishes the byte
// order of the rest of the stream. It returns the band count separately
// since it is not part of the in-memory header.
func decodeHeader(cur *encoding.Reader) (*Header, uint16, error) {
	if err := cur.Need(headerSize); err != nil {
		return nil, 0, errors.Wrap(err, "header")
	}

	marker := cur.Byte()
	switch marker {
	case 0:
		cur.SetOrder(binary.BigEndian)
	case 1:
		cur.SetOrder(binary.LittleEndian)
	default:
		return nil, 0, errors.Wrapf(ErrMalformedHeader, "leading byte 0x%02x", marker)
	}

	var h Header
	h.Version = cur.Uint16()
	if h.Version != FormatVersion {
		return nil, 0, errors.Wrapf(ErrUnsupportedVersion, "version %d", h.Version)
	}

	nbands := cur.Uint16()

	h.ScaleX = cur.Float64()
	h.ScaleY = cur.Float64()
	h.IPX = cur.Float64()
	h.IPY = cur.Float64()
	h.SkewX = cur.Float64()
	h.SkewY = cur.Float64()

	h.SRID = cur.Int32()
	h.Width = cur.Uint16()
	h.Height = cur.Uint16()

	return &h, nbands, nil
}

func decodeBand(cur *encoding.Reader, h *Header) (*Band, error) {
	if err := cur.Need(1); err != nil {
		return nil, errors.Wrap(err, "flags")
	}
	flags := cur.Byte()

	var b Band
	b.PixelType = PixelType(flags & pixelTypeMask)
	b.IsNodataValue = flags&flagIsNodata != 0

	if !b.PixelType.Valid() {
		return nil, errors.Wrapf(ErrUnknownPixelType, "ordinal %d at offset %d", flags&pixelTypeMask, cur.Offset()-1)
	}

	if flags&flagHasNodata != 0 {
		if err := cur.Need(b.PixelType.valueBytes()); err != nil {
			return nil, errors.Wrap(err, "nodata value")
		}
		v := readScalar(cur, b.PixelType)
		b.Nodata = &v
	}

	if flags&flagIsOffline != 0 {
		ref, err := decodeOfflineRef(cur)
		if err != nil {
			return nil, err
		}
		b.Data = ref
		return &b, nil
	}

	px, err := decodePixels(cur, b.PixelType, int(h.Width), int(h.Height))
	if err != nil {
		return nil, err
	}
	b.Data = px
	return &b, nil
}

func decodeOfflineRef(cur *encoding.Reader) (*OfflineRef, error) {
	if err := cur.Need(1); err != nil {
		return nil, errors.Wrap(err, "offline band number")
	}
	ref := OfflineRef{BandNumber: cur.Int8()}

	path, err := cur.CString()
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedOfflinePath, "at offset %d", cur.Offset())
	}
	ref.Path = path

	return &ref, nil
}

func decodePixels(cur *encoding.Reader, t PixelType, width, height int) (*Pixels, error) {
	if t.Packed() {
		// Each row starts on a byte boundary; padding bits in a row's
		// last byte are discarded.
		rowBytes := (width*t.Bits() + 7) / 8
		if err := cur.Need(rowBytes * height); err != nil {
			return nil, errors.Wrap(err, "pixel data")
		}
		values := make([]float64, 0, width*height)
		for y := 0; y < height; y++ {
			br := encoding.NewBitReader(cur)
			for x := 0; x < width; x++ {
				values = append(values, float64(br.ReadBits(uint(t.Bits()))))
			}
		}
		return &Pixels{Values: values}, nil
	}

	if err := cur.Need(width * height * t.Bits() / 8); err != nil {
		return nil, errors.Wrap(err, "pixel data")
	}
	values := make([]float64, 0, width*height)
	for i := 0; i < width*height; i++ {
		values = append(values, readScalar(cur, t))
	}
	return &Pixels{Values: values}, nil
}

// readScalar reads one value at the storage width of t. The caller must
// have reserved the bytes. Standalone values of packed types occupy a
// full byte; only the type's low bits are kept.
func readScalar(cur *encoding.Reader, t PixelType) float64 {
	switch t {
	case PT1BB:
		return float64(cur.Byte() & 1)
	case PT2BUI:
		return float64(cur.Byte() & 3)
	case PT4BUI:
		return float64(cur.Byte() & 15)
	case PT8BSI:
		return float64(cur.Int8())
	case PT8BUI:
		return float64(cur.Byte())
	case PT16BSI:
		return float64(cur.Int16())
	case PT16BUI:
		return float64(cur.Uint16())
	case PT32BSI:
		return float64(cur.Int32())
	case PT32BUI:
		return float64(cur.Uint32())
	case PT32BF:
		return float64(cur.Float32())
	case PT64BF:
		return cur.Float64()
	}
	panic("unreachable")
}
