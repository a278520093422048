package wkbraster

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/nathancahill/wkb-raster/internal/encoding"
)

// Marshal encodes r as a WKB raster buffer. The buffer is written
// little-endian, the codec's fixed convention; use MarshalOrder for an
// explicit byte order.
func Marshal(r *Raster) ([]byte, error) {
	return MarshalOrder(r, binary.LittleEndian)
}

// MarshalOrder encodes r using the given byte order. Only
// binary.LittleEndian and binary.BigEndian are supported.
func MarshalOrder(r *Raster, order binary.ByteOrder) ([]byte, error) {
	var marker byte
	switch order {
	case binary.LittleEndian:
		marker = 1
	case binary.BigEndian:
		marker = 0
	default:
		return nil, errors.Errorf("unsupported byte order %v", order)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	w := encoding.NewWriter(order)

	w.Byte(marker)
	w.Uint16(r.Header.Version)
	// The band count comes from the actual band sequence, never from a
	// caller-supplied field.
	w.Uint16(uint16(len(r.Bands)))

	w.Float64(r.Header.ScaleX)
	w.Float64(r.Header.ScaleY)
	w.Float64(r.Header.IPX)
	w.Float64(r.Header.IPY)
	w.Float64(r.Header.SkewX)
	w.Float64(r.Header.SkewY)

	w.Int32(r.Header.SRID)
	w.Uint16(r.Header.Width)
	w.Uint16(r.Header.Height)

	for i := range r.Bands {
		if err := encodeBand(w, &r.Bands[i], int(r.Header.Width)); err != nil {
			return nil, errors.Wrapf(err, "band %d", i)
		}
	}

	return w.Bytes(), nil
}

func encodeBand(w *encoding.Writer, b *Band, width int) error {
	ref, offline := b.Data.(*OfflineRef)

	flags := byte(b.PixelType) & pixelTypeMask
	if offline {
		flags |= flagIsOffline
	}
	if b.Nodata != nil {
		flags |= flagHasNodata
	}
	if b.IsNodataValue {
		flags |= flagIsNodata
	}
	w.Byte(flags)

	if b.Nodata != nil {
		writeScalar(w, b.PixelType, *b.Nodata)
	}

	if offline {
		w.Int8(ref.BandNumber)
		w.CString(ref.Path)
		return nil
	}

	return encodePixels(w, b.PixelType, b.Data.(*Pixels).Values, width)
}

func encodePixels(w *encoding.Writer, t PixelType, values []float64, width int) error {
	for i, v := range values {
		if err := t.CheckValue(v); err != nil {
			return errors.Wrapf(err, "pixel %d", i)
		}
	}

	if t.Packed() {
		// Rows are packed independently so every row starts on a byte
		// boundary, with the last byte of each row zero-padded.
		if width == 0 {
			return nil
		}
		for row := 0; row < len(values); row += width {
			bw := encoding.NewBitWriter(w)
			for _, v := range values[row : row+width] {
				bw.WriteBits(byte(v), uint(t.Bits()))
			}
			bw.Flush()
		}
		return nil
	}

	for _, v := range values {
		writeScalar(w, t, v)
	}
	return nil
}

// writeScalar writes one value at the storage width of t. Standalone
// values of packed types occupy a full byte. The value must have been
// checked against the type's domain beforehand.
func writeScalar(w *encoding.Writer, t PixelType, v float64) {
	switch t {
	case PT1BB, PT2BUI, PT4BUI, PT8BUI:
		w.Byte(byte(v))
	case PT8BSI:
		w.Int8(int8(v))
	case PT16BSI:
		w.Int16(int16(v))
	case PT16BUI:
		w.Uint16(uint16(v))
	case PT32BSI:
		w.Int32(int32(v))
	case PT32BUI:
		w.Uint32(uint32(v))
	case PT32BF:
		w.Float32(float32(v))
	case PT64BF:
		w.Float64(v)
	default:
		panic("unreachable")
	}
}
