package archive

import (
	"io"
)

// copyBuffer is the chunk size used when moving payload bytes between a
// source and a sink. Tuning it trades syscalls for memory; correctness does
// not depend on it.
const copyBuffer = 4096

type flusher interface {
	Flush() error
}

// Copy drains src into dst through a fixed-size intermediate buffer,
// flushing dst once the source is exhausted when the sink supports it.
//
// A nil endpoint makes Copy a no-op, so callers can hand it the result of
// an operation that might legitimately produce nothing.
func Copy(dst io.Writer, src io.Reader) (err error) {
	if dst == nil || src == nil {
		return
	}

	buf := make([]byte, copyBuffer)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			_, werr := dst.Write(buf[:n])
			if werr != nil {
				err = werr
				return
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			err = rerr
			return
		}
	}

	if f, ok := dst.(flusher); ok {
		err = f.Flush()
	}

	return
}
