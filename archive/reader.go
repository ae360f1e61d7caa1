package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// entrySource yields container entries one at a time together with a reader
// over their payload bytes. A nil payload means the entry carries none.
type entrySource interface {
	Next() (entry Entry, payload io.Reader, done bool, err error)
}

// Extract reconstructs the container read sequentially from r under dir,
// creating missing ancestor directories on demand. Zero-entry containers
// leave dir untouched. When r is also a closer it is released before
// Extract returns, success or not; failures to release are ignored.
//
// Entry names are used as-is: a name carrying `..` segments or rooted
// outside dir escapes it. Inputs are trusted by contract, there is no
// sanitization here.
func Extract(r io.Reader, dir string) (err error) {
	if r == nil {
		return
	}

	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	return extract(newStreamSource(r), dir)
}

// ExtractFile reconstructs the contents of the container at zipfile under
// dir. The outcome is the same as handing Extract the container's bytes,
// but entries are driven from the central directory instead of being
// discovered one at a time. The same trust caveats apply.
func ExtractFile(zipfile, dir string) (err error) {
	r, err := zip.OpenReader(zipfile)
	if err != nil {
		err = errors.Wrapf(err,
			"failed opening archive %s", zipfile)
		return
	}

	defer r.Close()

	src := &containerSource{files: r.File}
	defer src.release()

	return extract(src, dir)
}

// extract is the single reconstruction routine both extraction modes feed.
func extract(src entrySource, dir string) (err error) {
	for {
		entry, payload, done, serr := src.Next()
		if serr != nil {
			err = serr
			return
		}
		if done {
			return
		}

		err = place(entry, payload, dir)
		if err != nil {
			return
		}
	}
}

func place(entry Entry, payload io.Reader, dir string) (err error) {
	target := filepath.Join(dir, filepath.FromSlash(entry.Name))

	if entry.Directory {
		err = os.MkdirAll(target, 0755)
		if err != nil {
			err = errors.Wrapf(err,
				"failed creating directory %s", target)
		}
		return
	}

	err = os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		err = errors.Wrapf(err,
			"failed creating directory structure for %s", target)
		return
	}

	f, err := os.Create(target)
	if err != nil {
		err = errors.Wrapf(err,
			"failed creating file %s", target)
		return
	}

	defer f.Close()

	err = Copy(f, payload)
	if err != nil {
		err = errors.Wrapf(err,
			"failed writing entry %s to %s", entry.Name, target)
		return
	}

	return
}

// containerSource adapts the random-access entry list of an opened zip
// container to the sequential entrySource contract.
type containerSource struct {
	files []*zip.File
	idx   int
	open  io.ReadCloser
}

func (s *containerSource) Next() (entry Entry, payload io.Reader, done bool, err error) {
	s.release()

	if s.idx >= len(s.files) {
		done = true
		return
	}

	f := s.files[s.idx]
	s.idx++

	entry = Entry{
		Name:             f.Name,
		Directory:        strings.HasSuffix(f.Name, "/"),
		UncompressedSize: f.UncompressedSize64,
		CompressedSize:   f.CompressedSize64,
		CRC32:            f.CRC32,
	}

	if entry.Directory {
		return
	}

	rc, oerr := f.Open()
	if oerr != nil {
		err = errors.Wrapf(oerr,
			"failed opening entry %s", f.Name)
		return
	}

	s.open = rc
	payload = rc
	return
}

func (s *containerSource) release() {
	if s.open != nil {
		s.open.Close()
		s.open = nil
	}
}
