package command

import (
	"fmt"
	"os"
	"path/filepath"

	"code.cloudfoundry.org/lager"
	"github.com/fatih/color"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/cirocosta/xzpack/config"
	"github.com/cirocosta/xzpack/repack"
	"github.com/cirocosta/xzpack/scan"
)

type repackCommand struct {
	ArchiveDirectory string            `long:"archive-directory" short:"d" description:"directory to scan for archives"`
	OutputDirectory  string            `long:"output-directory"  short:"o" description:"where to place compressed files (defaults to the archive directory)"`
	Includes         []string          `long:"include"           short:"i" description:"glob pattern selecting archives (default: **/*.?ar)"`
	Excludes         []string          `long:"exclude"           short:"x" description:"glob pattern rejecting archives"`
	Level            int               `long:"level"             short:"l" default:"9" description:"xz preset - 0 through 9, higher is smaller and slower"`
	Jobs             int               `long:"jobs"              short:"j" default:"1" description:"how many archives to repackage at once"`
	Config           string            `long:"config"            short:"f" description:"hcl file with repack settings"`
	Variables        map[string]string `long:"var"               short:"v" description:"variables to interpolate in the config file"`
	Report           string            `long:"report"            description:"where to write the run manifest to ('-' for stdout)"`
}

func (c *repackCommand) Execute(args []string) (err error) {
	if c.Config != "" {
		var cfg *config.Config

		cfg, err = config.ParseFile(c.Config, c.Variables)
		if err != nil {
			diagsErr, ok := errors.Cause(err).(hcl.Diagnostics)
			if ok {
				fmt.Fprintln(os.Stderr,
					config.PrettyDiagnosticFile(c.Config, diagsErr[0]))
			}

			err = errors.Wrapf(err,
				"failed to parse config file %s", c.Config)
			return
		}

		c.apply(cfg)
	}

	if c.ArchiveDirectory == "" {
		err = errors.Errorf(
			"an archive directory must be given via `--archive-directory` or a config file")
		return
	}

	if c.OutputDirectory == "" {
		c.OutputDirectory = c.ArchiveDirectory
	}

	files, err := scan.Files(c.ArchiveDirectory, c.Includes, c.Excludes)
	if err != nil {
		err = errors.Wrapf(err,
			"failed selecting archives under %s", c.ArchiveDirectory)
		return
	}

	logger.Info("repack", lager.Data{
		"archives": len(files),
		"level":    c.Level,
	})

	results, err := c.run(files)

	serr := c.summarize(results)
	if err == nil {
		err = serr
	}

	return
}

// apply fills whatever the flags left unset with the config file's values.
func (c *repackCommand) apply(cfg *config.Config) {
	if c.ArchiveDirectory == "" {
		c.ArchiveDirectory = cfg.ArchiveDirectory
	}

	if c.OutputDirectory == "" {
		c.OutputDirectory = cfg.OutputDirectory
	}

	if len(c.Includes) == 0 {
		c.Includes = cfg.Includes
	}

	if len(c.Excludes) == 0 {
		c.Excludes = cfg.Excludes
	}

	if cfg.Level != nil {
		c.Level = *cfg.Level
	}
}

// run fans the discovered archives out over a bounded number of workers.
// Jobs are independent of each other - their scratch and intermediate paths
// derive from their own source path - so failures don't stop the rest of
// the batch; the first one decides the command's exit status.
func (c *repackCommand) run(files []string) (results []jobResult, err error) {
	workers := c.Jobs
	if workers < 1 {
		workers = 1
	}

	results = make([]jobResult, len(files))
	sem := make(chan struct{}, workers)

	var eg errgroup.Group

	for idx, name := range files {
		idx, name := idx, name

		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			res, perr := c.process(name)
			results[idx] = res
			return perr
		})
	}

	err = eg.Wait()
	return
}

func (c *repackCommand) process(name string) (res jobResult, err error) {
	job := repack.NewJob(c.ArchiveDirectory, c.OutputDirectory, name, c.Level)

	res.Name = name
	res.Output = job.Output

	if info, serr := os.Stat(job.Source); serr == nil {
		res.OriginalSize = info.Size()
	}

	err = os.MkdirAll(filepath.Dir(job.Output), 0755)
	if err != nil {
		err = errors.Wrapf(err,
			"failed creating output directory for %s", job.Output)
		res.Error = err.Error()
		return
	}

	err = repack.Run(job)
	if err != nil {
		res.Error = err.Error()
		return
	}

	if info, serr := os.Stat(job.Output); serr == nil {
		res.CompressedSize = info.Size()
	}

	return
}

func (c *repackCommand) summarize(results []jobResult) (err error) {
	var (
		green = color.New(color.FgGreen).SprintFunc()
		red   = color.New(color.FgRed, color.Bold).SprintFunc()
	)

	for _, res := range results {
		if res.Error != "" {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n",
				red("failed"), res.Name, res.Error)
			continue
		}

		fmt.Fprintf(os.Stderr, "%s %s (%d -> %d bytes)\n",
			green("packed"), res.Name, res.OriginalSize, res.CompressedSize)
	}

	if c.Report == "" {
		return
	}

	err = writeRepackManifest(c.Report, results)
	return
}
