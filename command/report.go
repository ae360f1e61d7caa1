package command

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type jobResult struct {
	Name           string `yaml:"name"`
	Output         string `yaml:"output"`
	OriginalSize   int64  `yaml:"original_size"`
	CompressedSize int64  `yaml:"compressed_size,omitempty"`
	Error          string `yaml:"error,omitempty"`
}

// RepackV1 is the manifest describing the outcome of a whole repack run.
type RepackV1 struct {
	Kind string      `yaml:"kind"`
	Data []jobResult `yaml:"data"`
}

func NewRepackV1(results []jobResult) RepackV1 {
	return RepackV1{
		Kind: "repack/v1",
		Data: results,
	}
}

func writeRepackManifest(fname string, results []jobResult) (err error) {
	w, err := writer(fname)
	if err != nil {
		err = errors.Wrapf(err,
			"failed creating writer for file %s", fname)
		return
	}

	b, err := yaml.Marshal(NewRepackV1(results))
	if err != nil {
		err = errors.Wrapf(err,
			"failed marshalling repack manifest")
		return
	}

	_, err = fmt.Fprintf(w, "%s", string(b))
	if err != nil {
		err = errors.Wrapf(err,
			"failed writing repack manifest to %s", fname)
		return
	}

	return
}

func writer(output string) (w io.Writer, err error) {
	if output == "-" {
		w = os.Stdout
		return
	}

	w, err = os.Create(output)
	return
}
