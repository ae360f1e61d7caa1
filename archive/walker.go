package archive

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Item is a single filesystem entry produced by a Walker.
type Item struct {
	// Path locates the entry on disk.
	Path string

	// Rel is the entry's path relative to the walk root, slash-separated.
	Rel string

	// Info is the entry's metadata as observed when its parent was listed.
	Info os.FileInfo
}

// Walker enumerates a directory subtree without recursing, keeping the
// directories still to be expanded on an explicit stack so that arbitrarily
// deep trees cannot exhaust the call stack.
//
// Directories are yielded before any of their contents; beyond that, the
// traversal order follows whatever the directory listings return and must
// not be relied upon.
type Walker struct {
	root    string
	pending []string
	items   []Item
}

// NewWalker returns a walker over the subtree rooted at root. The root
// itself is never yielded.
func NewWalker(root string) *Walker {
	return &Walker{
		root:    root,
		pending: []string{root},
	}
}

// Next returns the next entry of the traversal. done reports that the
// subtree has been exhausted; the walker cannot be restarted.
func (w *Walker) Next() (item Item, done bool, err error) {
	for len(w.items) == 0 {
		if len(w.pending) == 0 {
			done = true
			return
		}

		dir := w.pending[len(w.pending)-1]
		w.pending = w.pending[:len(w.pending)-1]

		err = w.list(dir)
		if err != nil {
			return
		}
	}

	item = w.items[0]
	w.items = w.items[1:]

	if item.Info.IsDir() {
		w.pending = append(w.pending, item.Path)
	}

	return
}

func (w *Walker) list(dir string) (err error) {
	infos, err := ioutil.ReadDir(dir)
	if err != nil {
		err = errors.Wrapf(err,
			"failed listing directory %s", dir)
		return
	}

	for _, info := range infos {
		path := filepath.Join(dir, info.Name())

		rel, rerr := filepath.Rel(w.root, path)
		if rerr != nil {
			err = errors.Wrapf(rerr,
				"failed relativizing %s against root %s", path, w.root)
			return
		}

		w.items = append(w.items, Item{
			Path: path,
			Rel:  filepath.ToSlash(rel),
			Info: info,
		})
	}

	return
}
