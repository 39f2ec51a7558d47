package socks5

import (
	"io"
)

// readExact reads exactly n bytes from r. Any short read is reported as
// UnexpectedEOF wrapping the underlying error.
func readExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, &ProtocolError{Kind: UnexpectedEOF, Err: err}
	}
	return buf, nil
}

func readByte(r io.Reader) (byte, error) {
	b, err := readExact(r, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// writeAll writes b in full or fails with WriteFailed.
func writeAll(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err == nil && n != len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &ProtocolError{Kind: WriteFailed, Err: err}
	}
	return nil
}
