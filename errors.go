package wkbraster

import (
	"github.com/cockroachdb/errors"

	"github.com/nathancahill/wkb-raster/internal/encoding"
)

// Errors returned by the codec. All of them are permanent for a given
// buffer: a malformed band invalidates the whole raster since later
// band offsets cannot be trusted. Match them with errors.Is; wrapped
// instances carry byte offset and band index context.
var (
	// ErrUnexpectedEOF is returned when the buffer is shorter than a
	// declared or fixed-size field requires.
	ErrUnexpectedEOF = encoding.ErrShortBuffer

	// ErrMalformedHeader is returned when the leading byte is not a
	// valid endianness marker.
	ErrMalformedHeader = errors.New("malformed header: invalid endianness marker")

	// ErrUnsupportedVersion is returned when the header declares a
	// format version other than FormatVersion.
	ErrUnsupportedVersion = errors.New("unsupported format version")

	// ErrUnknownPixelType is returned when a band flags byte encodes a
	// pixel type ordinal outside the defined range.
	ErrUnknownPixelType = errors.New("unknown pixel type")

	// ErrMalformedOfflinePath is returned when an offline band's path
	// has no NUL terminator within the remaining buffer.
	ErrMalformedOfflinePath = errors.New("offline band path is not NUL-terminated")

	// ErrValueOutOfRange is returned on encode when a value does not
	// fit the numeric domain of the target pixel type.
	ErrValueOutOfRange = errors.New("value out of range for pixel type")
)
