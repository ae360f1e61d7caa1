package config

import (
	"bufio"
	"io/ioutil"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/hcl2/gohcl"
	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hcl/hclsyntax"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

func ParseFile(filename string, vars map[string]string) (cfg *Config, err error) {
	content, err := ioutil.ReadFile(filename)
	if err != nil {
		err = errors.Wrapf(err,
			"failed reading config file %s", filename)
		return
	}

	return Parse(content, filename, vars)
}

// Parse parses the contents of a given file `filename`, interpolating
// variables (`vars`), performing not only syntax, but also semantic checks.
//
func Parse(content []byte, filename string, vars map[string]string) (cfg *Config, err error) {
	f, diags := hclsyntax.ParseConfig(content, filename, hcl.Pos{})
	if diags.HasErrors() {
		err = errors.Wrapf(diags, "failed to parse")
		return
	}

	cfg = new(Config)

	diags = gohcl.DecodeBody(f.Body, createEvalContext(vars), cfg)
	if diags.HasErrors() {
		err = errors.Wrapf(diags, "failed to decode")
		return
	}

	err = validate(cfg)
	if err != nil {
		return
	}

	return
}

func validate(cfg *Config) (err error) {
	if cfg.ArchiveDirectory == "" {
		err = errors.Errorf("`archive_directory` must not be empty")
		return
	}

	if cfg.Level != nil && (*cfg.Level < 0 || *cfg.Level > 9) {
		err = errors.Errorf(
			"`level` must lie within 0-9, not %d", *cfg.Level)
		return
	}

	return
}

// PrettyDiagnosticFile generates a human-readable diagnostic for a failure
// to parse the config file at `filename`, underlining the offending span.
func PrettyDiagnosticFile(filename string, diag *hcl.Diagnostic) (res string) {
	content, err := ioutil.ReadFile(filename)
	if err != nil {
		panic(err)
	}

	return PrettyDiagnostic(string(content), diag)
}

// PrettyDiagnostic generates a human-readable pretty diagnostic.
//
func PrettyDiagnostic(content string, diag *hcl.Diagnostic) (res string) {
	var (
		lines     = newLines(content)
		red       = color.New(color.FgRed, color.Bold).SprintFunc()
		lineBytes = []byte{}
	)

	for i := 1; i < diag.Subject.Start.Column; i++ {
		lineBytes = append(lineBytes, ' ')
	}

	for i := diag.Subject.Start.Column; i < diag.Subject.End.Column; i++ {
		lineBytes = append(lineBytes, '^')
	}

	lines.addLineAt(diag.Subject.End.Line+1, red(string(lineBytes)))

	res = lines.String()
	return
}

type lineSet struct {
	lines []string
}

func newLines(content string) (l *lineSet) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	l = new(lineSet)

	for scanner.Scan() {
		l.lines = append(l.lines, scanner.Text())
	}

	return
}

func (l *lineSet) addLineAt(i int, line string) {
	if i > len(l.lines) {
		i = len(l.lines)
	}

	l.lines = append(l.lines[:i], append([]string{line}, l.lines[i:]...)...)
}

func (l *lineSet) String() string {
	return strings.Join(l.lines, "\n")
}

func createEvalContext(vars map[string]string) *hcl.EvalContext {
	var variables = map[string]cty.Value{}

	for key, value := range vars {
		variables[key] = cty.StringVal(value)
	}

	return &hcl.EvalContext{Variables: variables}
}
