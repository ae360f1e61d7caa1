package archive

import (
	"archive/zip"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
)

// Write rewrites the contents of dir as a zip container at zipfile with
// every entry stored verbatim, no internal compression.
//
// Empty directories are preserved as explicit zero-size entries with a
// trailing-slash name; non-empty directories are implied by the paths of
// their files and get no entry of their own. Entry order mirrors the
// traversal order of a Walker over dir.
//
// Any failure aborts the whole write, possibly leaving a partially written
// zipfile behind; removing it is the caller's responsibility.
func Write(dir, zipfile string) (err error) {
	out, err := os.Create(zipfile)
	if err != nil {
		err = errors.Wrapf(err,
			"failed creating archive %s", zipfile)
		return
	}

	defer out.Close()

	zw := zip.NewWriter(out)
	walker := NewWalker(dir)

	for {
		item, done, werr := walker.Next()
		if werr != nil {
			err = werr
			return
		}
		if done {
			break
		}

		if item.Info.IsDir() {
			err = writeDirEntry(zw, item)
		} else {
			err = writeFileEntry(zw, item)
		}
		if err != nil {
			return
		}
	}

	err = zw.Close()
	if err != nil {
		err = errors.Wrapf(err,
			"failed finishing archive %s", zipfile)
		return
	}

	return
}

// writeDirEntry emits a zero-size marker entry for dir items that have no
// children at all. Anything else is left implicit.
func writeDirEntry(zw *zip.Writer, item Item) (err error) {
	children, err := ioutil.ReadDir(item.Path)
	if err != nil {
		err = errors.Wrapf(err,
			"failed listing directory %s", item.Path)
		return
	}

	if len(children) != 0 {
		return
	}

	_, err = zw.CreateRaw(&zip.FileHeader{
		Name:   item.Rel + "/",
		Method: zip.Store,
	})
	if err != nil {
		err = errors.Wrapf(err,
			"failed writing directory entry %s", item.Rel)
		return
	}

	return
}

func writeFileEntry(zw *zip.Writer, item Item) (err error) {
	sum, err := FileChecksum(item.Path)
	if err != nil {
		return
	}

	size := uint64(item.Info.Size())

	// CreateRaw writes the payload bytes untouched, so the header must
	// already carry the exact sizes and checksum.
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               item.Rel,
		Method:             zip.Store,
		CRC32:              sum,
		CompressedSize64:   size,
		UncompressedSize64: size,
	})
	if err != nil {
		err = errors.Wrapf(err,
			"failed creating entry %s", item.Rel)
		return
	}

	f, err := os.Open(item.Path)
	if err != nil {
		err = errors.Wrapf(err,
			"failed opening %s", item.Path)
		return
	}

	defer f.Close()

	err = Copy(w, f)
	if err != nil {
		err = errors.Wrapf(err,
			"failed storing %s", item.Rel)
		return
	}

	return
}
