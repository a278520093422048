// Package encoding implements the byte cursor used by the WKB raster
// codec. A Reader walks a byte slice under a switchable byte order, a
// Writer appends to a growing buffer, and the bit reader/writer pair
// handles the sub-byte packed pixel types.
package encoding

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
)

// Common errors returned by the cursor.
var (
	// ErrShortBuffer is returned by Need when fewer bytes remain than a
	// field requires.
	ErrShortBuffer = errors.New("unexpected end of buffer")

	// ErrNoTerminator is returned by CString when no NUL byte is found
	// before the end of the buffer.
	ErrNoTerminator = errors.New("unterminated string")
)

// Reader is a positional cursor over a byte slice. Multi-byte reads use
// the reader's current byte order.
//
// Fixed-size reads do not check bounds themselves; callers must reserve
// bytes with Need first. Reading past a successful Need is a bug and
// panics via the runtime bounds check.
type Reader struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

// NewReader creates a Reader over buf. The byte order defaults to
// little-endian until SetOrder is called.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf, order: binary.LittleEndian}
}

// SetOrder changes the byte order of all subsequent multi-byte reads.
func (r *Reader) SetOrder(order binary.ByteOrder) {
	r.order = order
}

// Offset returns the number of bytes consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Need returns ErrShortBuffer if fewer than n bytes remain.
func (r *Reader) Need(n int) error {
	if len(r.buf)-r.off < n {
		return errors.Wrapf(ErrShortBuffer, "need %d bytes at offset %d, have %d", n, r.off, len(r.buf)-r.off)
	}
	return nil
}

func (r *Reader) Byte() byte {
	v := r.buf[r.off]
	r.off++
	return v
}

func (r *Reader) Int8() int8 {
	return int8(r.Byte())
}

func (r *Reader) Uint16() uint16 {
	v := r.order.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

func (r *Reader) Int16() int16 {
	return int16(r.Uint16())
}

func (r *Reader) Uint32() uint32 {
	v := r.order.Uint32(r.buf[r.off:])
	r.off += 4
	return v
}

func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

func (r *Reader) Uint64() uint64 {
	v := r.order.Uint64(r.buf[r.off:])
	r.off += 8
	return v
}

func (r *Reader) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

func (r *Reader) Float64() float64 {
	return math.Float64frombits(r.Uint64())
}

// CString reads bytes up to and including the next NUL and returns them
// without the terminator. It returns ErrNoTerminator if the buffer ends
// before a NUL is found.
func (r *Reader) CString() (string, error) {
	for i := r.off; i < len(r.buf); i++ {
		if r.buf[i] == 0 {
			s := string(r.buf[r.off:i])
			r.off = i + 1
			return s, nil
		}
	}
	return "", errors.Wrapf(ErrNoTerminator, "at offset %d", r.off)
}

// Writer appends encoded values to a growing buffer. Multi-byte writes
// use the writer's byte order, fixed at creation.
type Writer struct {
	buf   []byte
	order binary.ByteOrder
}

// NewWriter creates a Writer using the given byte order.
func NewWriter(order binary.ByteOrder) *Writer {
	return &Writer{order: order}
}

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Byte(v byte) {
	w.buf = append(w.buf, v)
}

func (w *Writer) Int8(v int8) {
	w.Byte(byte(v))
}

func (w *Writer) Uint16(v uint16) {
	var b [2]byte
	w.order.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	w.order.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Int32(v int32) {
	w.Uint32(uint32(v))
}

func (w *Writer) Uint64(v uint64) {
	var b [8]byte
	w.order.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Float32(v float32) {
	w.Uint32(math.Float32bits(v))
}

func (w *Writer) Float64(v float64) {
	w.Uint64(math.Float64bits(v))
}

// CString writes s followed by a NUL terminator.
func (w *Writer) CString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}
