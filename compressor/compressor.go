// Package compressor wraps the external whole-file xz compressor behind
// the level-based knob the repackaging pipeline consumes. The container
// format produced here is opaque to the rest of the tool.
package compressor

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// dictCaps mirrors the xz CLI dictionary ladder for presets 0 through 9.
var dictCaps = []int{
	256 << 10,
	1 << 20,
	2 << 20,
	4 << 20,
	4 << 20,
	8 << 20,
	8 << 20,
	16 << 20,
	32 << 20,
	64 << 20,
}

// Compress streams the file at src into an xz container at dst. level
// selects the preset, 0 through 9, higher being smaller and slower.
func Compress(dst, src string, level int) (err error) {
	if level < 0 || level >= len(dictCaps) {
		err = errors.Errorf(
			"compression level %d outside the supported 0-9 range", level)
		return
	}

	in, err := os.Open(src)
	if err != nil {
		err = errors.Wrapf(err,
			"failed opening %s for compression", src)
		return
	}

	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		err = errors.Wrapf(err,
			"failed creating compressed file %s", dst)
		return
	}

	defer out.Close()

	bw := bufio.NewWriter(out)

	xw, err := xz.WriterConfig{DictCap: dictCaps[level]}.NewWriter(bw)
	if err != nil {
		err = errors.Wrapf(err,
			"failed initializing xz writer for %s", dst)
		return
	}

	_, err = io.Copy(xw, in)
	if err != nil {
		err = errors.Wrapf(err,
			"failed compressing %s into %s", src, dst)
		return
	}

	err = xw.Close()
	if err != nil {
		err = errors.Wrapf(err,
			"failed finishing xz stream for %s", dst)
		return
	}

	err = bw.Flush()
	if err != nil {
		err = errors.Wrapf(err,
			"failed flushing %s", dst)
		return
	}

	return
}

// Decompress expands the xz container at src into dst, reversing Compress.
func Decompress(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		err = errors.Wrapf(err,
			"failed opening %s for decompression", src)
		return
	}

	defer in.Close()

	xr, err := xz.NewReader(bufio.NewReader(in))
	if err != nil {
		err = errors.Wrapf(err,
			"failed initializing xz reader for %s", src)
		return
	}

	out, err := os.Create(dst)
	if err != nil {
		err = errors.Wrapf(err,
			"failed creating decompressed file %s", dst)
		return
	}

	defer out.Close()

	_, err = io.Copy(out, xr)
	if err != nil {
		err = errors.Wrapf(err,
			"failed decompressing %s into %s", src, dst)
		return
	}

	return
}
