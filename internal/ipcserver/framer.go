package ipcserver

import "bytes"

// Framer accumulates raw socket bytes and splits them into
// newline-terminated messages. It keeps a trailing partial line across
// reads. A Framer is owned by a single session goroutine.
type Framer struct {
	buf []byte
	max int // pending-buffer cap, 0 = unlimited
}

// NewFramer creates a Framer. maxLineBytes caps the pending buffer; 0
// disables the cap.
func NewFramer(maxLineBytes int) *Framer {
	return &Framer{max: maxLineBytes}
}

// Feed appends bytes to the pending buffer.
func (f *Framer) Feed(p []byte) {
	f.buf = append(f.buf, p...)
}

// Next extracts the next complete line, without its trailing newline.
// It returns false when no full line is buffered. Call it repeatedly
// after each Feed: one read may carry several lines. The returned slice
// is only valid until the next Feed.
func (f *Framer) Next() ([]byte, bool) {
	i := bytes.IndexByte(f.buf, '\n')
	if i < 0 {
		return nil, false
	}
	line := f.buf[:i]
	f.buf = f.buf[i+1:]
	return line, true
}

// Overflowed reports whether the pending buffer exceeds the configured
// cap without containing a complete line. The session treats this as a
// fatal connection error.
func (f *Framer) Overflowed() bool {
	return f.max > 0 && len(f.buf) > f.max
}

// Pending returns the number of buffered bytes not yet framed.
func (f *Framer) Pending() int {
	return len(f.buf)
}
