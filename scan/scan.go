// Package scan selects the candidate archives a repack run operates on,
// matching ant-like inclusion and exclusion globs against paths relative to
// a base directory.
package scan

import (
	"sort"

	"github.com/bmatcuk/doublestar"
	"github.com/pkg/errors"

	"github.com/cirocosta/xzpack/archive"
)

// DefaultIncludes matches jar- and war-style archives anywhere under the
// scanned directory.
var DefaultIncludes = []string{"**/*.?ar"}

// Files returns the archives under dir selected by the include patterns and
// not rejected by the exclude patterns. With no include patterns,
// DefaultIncludes applies. Paths come back relative to dir, slash-separated
// and sorted.
func Files(dir string, includes, excludes []string) (files []string, err error) {
	if len(includes) == 0 {
		includes = DefaultIncludes
	}

	walker := archive.NewWalker(dir)
	for {
		item, done, werr := walker.Next()
		if werr != nil {
			err = errors.Wrapf(werr,
				"failed scanning %s for archives", dir)
			return
		}
		if done {
			break
		}

		if item.Info.IsDir() {
			continue
		}

		var ok bool

		ok, err = matches(item.Rel, includes)
		if err != nil {
			return
		}
		if !ok {
			continue
		}

		ok, err = matches(item.Rel, excludes)
		if err != nil {
			return
		}
		if ok {
			continue
		}

		files = append(files, item.Rel)
	}

	sort.Strings(files)
	return
}

func matches(rel string, patterns []string) (ok bool, err error) {
	for _, pattern := range patterns {
		ok, err = doublestar.Match(pattern, rel)
		if err != nil {
			err = errors.Wrapf(err,
				"failed matching %s against pattern %s", rel, pattern)
			return
		}
		if ok {
			return
		}
	}

	return
}
