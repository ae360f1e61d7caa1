package command

import (
	"os"

	"code.cloudfoundry.org/lager"
)

var Xzpack struct {
	Repack repackCommand `command:"repack" description:"repackages zip archives as xz-compressed stored containers"`
}

var (
	logger = lager.NewLogger("xzpack")
)

func init() {
	logger.RegisterSink(lager.NewWriterSink(os.Stdout, lager.INFO))
}
