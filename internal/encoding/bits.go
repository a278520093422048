package encoding

// BitReader unpacks sub-byte values from a Reader, most significant bit
// first within each byte. Widths must divide 8 so values never straddle
// a byte boundary.
//
// A BitReader is meant to live for a single row of packed pixels: the
// caller creates a fresh one per row, so each row starts on a byte
// boundary and any padding bits in the row's last byte are discarded
// when the reader is dropped.
type BitReader struct {
	r    *Reader
	cur  byte
	left uint
}

func NewBitReader(r *Reader) *BitReader {
	return &BitReader{r: r}
}

// ReadBits returns the next value of the given width. The underlying
// bytes must have been reserved with Need beforehand.
func (br *BitReader) ReadBits(width uint) byte {
	if br.left == 0 {
		br.cur = br.r.Byte()
		br.left = 8
	}
	v := br.cur >> (8 - width)
	br.cur <<= width
	br.left -= width
	return v
}

// BitWriter packs sub-byte values into a Writer, most significant bit
// first within each byte. Like BitReader it is used per row: Flush
// zero-pads and emits the partial trailing byte.
type BitWriter struct {
	w    *Writer
	cur  byte
	used uint
}

func NewBitWriter(w *Writer) *BitWriter {
	return &BitWriter{w: w}
}

// WriteBits appends the low width bits of v.
func (bw *BitWriter) WriteBits(v byte, width uint) {
	v &= 1<<width - 1
	bw.cur |= v << (8 - bw.used - width)
	bw.used += width
	if bw.used == 8 {
		bw.w.Byte(bw.cur)
		bw.cur, bw.used = 0, 0
	}
}

// Flush emits the current partial byte, if any, zero-padded.
func (bw *BitWriter) Flush() {
	if bw.used > 0 {
		bw.w.Byte(bw.cur)
		bw.cur, bw.used = 0, 0
	}
}
