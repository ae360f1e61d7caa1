// Package repack chains the archive codec and the external compressor into
// the repackaging pipeline: extract the source archive into a scratch
// directory, rewrite the scratch directory as an uncompressed container,
// compress that container with xz, and clean up every intermediate
// artifact along the way.
package repack

import (
	"os"
	"path/filepath"
	"strings"

	"code.cloudfoundry.org/lager"
	"github.com/pkg/errors"

	"github.com/cirocosta/xzpack/archive"
	"github.com/cirocosta/xzpack/compressor"
)

var (
	logger = lager.NewLogger("xzpack")
)

func init() {
	logger.RegisterSink(lager.NewWriterSink(os.Stdout, lager.INFO))
}

// Job describes one repackaging unit: the source archive, the scratch
// locations used while rewriting it, and the final compressed output.
//
// The scratch directory and the intermediate container belong exclusively
// to the Run that consumes the job and are gone, best-effort, by the time
// Run returns. Only Output survives a successful run.
type Job struct {
	// Source is the archive to repackage.
	Source string

	// ScratchDir receives the extracted contents of Source.
	ScratchDir string

	// Intermediate is where the uncompressed rewrite of Source goes.
	Intermediate string

	// Output is the final xz-compressed file.
	Output string

	// Level is the xz preset, 0 through 9.
	Level int
}

// NewJob derives the scratch, intermediate and output paths for the
// archive at relative path name under dir, placing the final file under
// outputDir: `lib/a.jar` extracts into `lib/a`, rewrites into
// `lib/a.jar.zip` and ends up at `<outputDir>/lib/a.jar.xz`.
func NewJob(dir, outputDir, name string, level int) Job {
	source := filepath.Join(dir, filepath.FromSlash(name))

	return Job{
		Source:       source,
		ScratchDir:   strings.TrimSuffix(source, filepath.Ext(source)),
		Intermediate: source + ".zip",
		Output:       filepath.Join(outputDir, filepath.FromSlash(name)+".xz"),
		Level:        level,
	}
}

// Run drives a single job through extraction, stored rewrite and xz
// compression, in that order. The job fails on the first extraction,
// rewrite or compression error; removal of scratch artifacts is
// best-effort and never changes the outcome.
func Run(job Job) (err error) {
	sess := logger.Session("repack", lager.Data{"source": job.Source})

	sess.Debug("extract", lager.Data{"scratch": job.ScratchDir})
	err = archive.ExtractFile(job.Source, job.ScratchDir)
	if err != nil {
		removeAll(sess, job.ScratchDir)
		err = errors.Wrapf(err,
			"failed extracting archive %s into %s", job.Source, job.ScratchDir)
		return
	}

	sess.Debug("rewrite", lager.Data{"intermediate": job.Intermediate})
	err = archive.Write(job.ScratchDir, job.Intermediate)
	if err != nil {
		removeAll(sess, job.ScratchDir)
		err = errors.Wrapf(err,
			"failed rewriting %s as stored archive %s",
			job.ScratchDir, job.Intermediate)
		return
	}

	removeAll(sess, job.ScratchDir)

	sess.Debug("compress", lager.Data{"output": job.Output, "level": job.Level})
	err = compressor.Compress(job.Output, job.Intermediate, job.Level)
	if err != nil {
		err = errors.Wrapf(err,
			"failed compressing %s into %s", job.Intermediate, job.Output)
	}

	remove(sess, job.Intermediate)

	return
}
