package archive

import (
	"hash/crc32"
	"io"
	"os"

	"github.com/pkg/errors"
)

const checksumBuffer = 8192

// Checksum accumulates a CRC-32 (IEEE) over the whole of r in fixed-size
// chunks, never holding more than one chunk in memory.
func Checksum(r io.Reader) (sum uint32, err error) {
	crc := crc32.NewIEEE()

	buf := make([]byte, checksumBuffer)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			crc.Write(buf[:n])
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			err = rerr
			return
		}
	}

	sum = crc.Sum32()
	return
}

// FileChecksum computes the CRC-32 of the contents of the file at filename.
func FileChecksum(filename string) (sum uint32, err error) {
	f, err := os.Open(filename)
	if err != nil {
		err = errors.Wrapf(err,
			"failed opening %s for checksumming", filename)
		return
	}

	defer f.Close()

	return Checksum(f)
}
