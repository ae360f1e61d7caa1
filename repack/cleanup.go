package repack

import (
	"os"

	"code.cloudfoundry.org/lager"
)

// Scratch artifacts are removed best-effort: a removal that fails gets
// logged and swallowed so that it can never mask the failure (or success)
// of the work that produced it. Every swallowed failure in this package
// goes through one of these helpers.

func removeAll(logger lager.Logger, path string) {
	err := os.RemoveAll(path)
	if err != nil {
		logger.Error("remove-scratch", err, lager.Data{"path": path})
	}
}

func remove(logger lager.Logger, path string) {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		logger.Error("remove-intermediate", err, lager.Data{"path": path})
	}
}
