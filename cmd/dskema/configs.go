package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/reoring/dskema/source"
	"github.com/reoring/dskema/types"
)

type MainConfig struct {
	Verbose bool `cli:"name=v aliases=verbose desc='debug logging to stderr'"`
	Color   bool `cli:"name=color desc='colorize error output'"`

	Main *cli.Command
}

// useColor enables color when asked for or when w is a terminal.
func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

type TypesConfig struct {
	*MainConfig
	Types *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Type     string `cli:"name=type desc='type of the document root (or of each element with -each)'"`
	Each     bool   `cli:"name=each desc='the document is a list; validate every element'"`
	Extra    bool   `cli:"name=x desc='allow properties the schema does not name'"`
	FailFast bool   `cli:"name=failfast desc='stop each document at its first error'"`
	Options  string `cli:"name=options desc='JSON or YAML file with allowExtraneous/throwOnError'"`
	Quiet    bool   `cli:"name=q desc='print nothing for valid documents'"`

	Fields []fieldSpec
	Exprs  []exprSpec
	Format *source.Format

	Check *cli.Command
}

type fieldSpec struct {
	Path     []string
	Type     string
	Optional bool
	Unique   bool
}

type exprSpec struct {
	Name, Code string
}

// parseField reads name:type[,optional][,unique].
func parseField(v string) (fieldSpec, error) {
	name, rest, ok := strings.Cut(v, ":")
	if !ok || name == "" || rest == "" {
		return fieldSpec{}, fmt.Errorf("%w: field %q must be name:type", cli.ErrUsage, v)
	}
	parts := strings.Split(rest, ",")
	fs := fieldSpec{Path: strings.Split(name, "."), Type: parts[0]}
	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "optional":
			fs.Optional = true
		case "unique":
			fs.Unique = true
		default:
			return fieldSpec{}, fmt.Errorf("%w: field %q: unknown flag %q", cli.ErrUsage, v, p)
		}
	}
	return fs, nil
}

func (cfg *CheckConfig) fieldOpt(_ *cli.Context, v string) (any, error) {
	fs, err := parseField(v)
	if err != nil {
		return nil, err
	}
	cfg.Fields = append(cfg.Fields, fs)
	return v, nil
}

func (cfg *CheckConfig) exprOpt(_ *cli.Context, v string) (any, error) {
	name, code, ok := strings.Cut(v, ":")
	if !ok || name == "" || code == "" {
		return nil, fmt.Errorf("%w: expr %q must be name:code", cli.ErrUsage, v)
	}
	if _, builtin := types.Lookup(name); builtin {
		return nil, fmt.Errorf("%w: expr %q shadows a built-in type", cli.ErrUsage, name)
	}
	cfg.Exprs = append(cfg.Exprs, exprSpec{Name: name, Code: code})
	return v, nil
}

func (cfg *CheckConfig) formatOpt(_ *cli.Context, v string) (any, error) {
	f, err := source.ParseFormat(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Format = &f
	return f, nil
}
