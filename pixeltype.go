package wkbraster

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// PixelType identifies the storage type of a band's pixels on the wire
// and the numeric domain of its values.
type PixelType uint8

// Pixel types defined by the WKB raster format, in ordinal order.
const (
	PT1BB   PixelType = iota // 1-bit boolean
	PT2BUI                   // 2-bit unsigned integer
	PT4BUI                   // 4-bit unsigned integer
	PT8BSI                   // 8-bit signed integer
	PT8BUI                   // 8-bit unsigned integer
	PT16BSI                  // 16-bit signed integer
	PT16BUI                  // 16-bit unsigned integer
	PT32BSI                  // 32-bit signed integer
	PT32BUI                  // 32-bit unsigned integer
	PT32BF                   // 32-bit float
	PT64BF                   // 64-bit float
)

type pixelTypeDef struct {
	name     string
	bits     int // storage width of one pixel
	floating bool
	min, max float64
}

// pixelTypes is the single source of truth for width and domain logic.
// Both directions of the codec route through it.
var pixelTypes = [...]pixelTypeDef{
	PT1BB:   {"1BB", 1, false, 0, 1},
	PT2BUI:  {"2BUI", 2, false, 0, 3},
	PT4BUI:  {"4BUI", 4, false, 0, 15},
	PT8BSI:  {"8BSI", 8, false, math.MinInt8, math.MaxInt8},
	PT8BUI:  {"8BUI", 8, false, 0, math.MaxUint8},
	PT16BSI: {"16BSI", 16, false, math.MinInt16, math.MaxInt16},
	PT16BUI: {"16BUI", 16, false, 0, math.MaxUint16},
	PT32BSI: {"32BSI", 32, false, math.MinInt32, math.MaxInt32},
	PT32BUI: {"32BUI", 32, false, 0, math.MaxUint32},
	PT32BF:  {"32BF", 32, true, -math.MaxFloat32, math.MaxFloat32},
	PT64BF:  {"64BF", 64, true, -math.MaxFloat64, math.MaxFloat64},
}

// Valid reports whether t is one of the defined pixel types.
func (t PixelType) Valid() bool {
	return int(t) < len(pixelTypes)
}

func (t PixelType) String() string {
	if !t.Valid() {
		panic(fmt.Sprintf("unsupported pixel type %#v", uint8(t)))
	}
	return pixelTypes[t].name
}

// Bits returns the storage width of one pixel in bits.
func (t PixelType) Bits() int {
	return pixelTypes[t].bits
}

// Packed reports whether pixels of this type occupy less than a byte
// and are bit-packed on the wire.
func (t PixelType) Packed() bool {
	return pixelTypes[t].bits < 8
}

// Floating reports whether the type holds floating point values.
func (t PixelType) Floating() bool {
	return pixelTypes[t].floating
}

// Min returns the smallest value representable by t.
func (t PixelType) Min() float64 {
	return pixelTypes[t].min
}

// Max returns the largest finite value representable by t.
func (t PixelType) Max() float64 {
	return pixelTypes[t].max
}

// valueBytes returns the wire size of a single standalone value such as
// a nodata value. Packed types store standalone values in a full byte.
func (t PixelType) valueBytes() int {
	if t.Packed() {
		return 1
	}
	return pixelTypes[t].bits / 8
}

// CheckValue returns ErrValueOutOfRange if v cannot be stored in a band
// of type t. Integer types additionally reject non-integral values.
// Floating types accept NaN and infinities.
func (t PixelType) CheckValue(v float64) error {
	def := &pixelTypes[t]

	if def.floating {
		if t == PT64BF || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		if v < def.min || v > def.max {
			return errors.Wrapf(ErrValueOutOfRange, "%v does not fit pixel type %s", v, t)
		}
		return nil
	}

	if math.IsNaN(v) || math.Trunc(v) != v {
		return errors.Wrapf(ErrValueOutOfRange, "%v is not an integer, required by pixel type %s", v, t)
	}
	if v < def.min || v > def.max {
		return errors.Wrapf(ErrValueOutOfRange, "%v does not fit pixel type %s", v, t)
	}
	return nil
}
