package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/reoring/dskema"
	"github.com/reoring/dskema/source"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		cfg.Check.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	s, err := buildSchema(cfg)
	if err != nil {
		return err
	}
	opts, err := cfg.validateOpts()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	// One validator for every document so $unique spans files.
	v := dskema.NewValidator(dskema.WithLogger(theLog))
	pr := newPrinter(cc.Out, cfg.useColor(cc.Out), cfg.Quiet)
	failed := 0
	for _, arg := range args {
		n, err := checkArg(cfg, v, s, opts, pr, arg)
		if err != nil {
			return fmt.Errorf("error checking %s: %w", arg, err)
		}
		failed += n
	}
	for _, key := range v.Tracked(s) {
		theLog.Debug("unique", "key", key, "seen", len(v.Seen(s, key)))
	}
	theLog.Debug("check done", "files", len(args), "failed", failed)
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// validateOpts reads -options, then applies -x and -failfast over it.
func (cfg *CheckConfig) validateOpts() ([]dskema.Option, error) {
	var opts []dskema.Option
	if cfg.Options != "" {
		f, err := os.Open(cfg.Options)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		docs, err := source.Decode(f, source.FormatFromPath(cfg.Options))
		if err != nil {
			return nil, err
		}
		if len(docs) != 1 {
			return nil, fmt.Errorf("%w: %s must hold exactly one document", cli.ErrUsage, cfg.Options)
		}
		m, ok := docs[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s must hold an object", cli.ErrUsage, cfg.Options)
		}
		if opts, err = dskema.OptionsFromMap(m); err != nil {
			return nil, err
		}
	}
	if cfg.Extra {
		opts = append(opts, dskema.AllowExtraneous(true))
	}
	if cfg.FailFast {
		opts = append(opts, dskema.ThrowOnError(true))
	}
	return opts, nil
}

// checkArg validates every document of one input and returns how many failed.
func checkArg(cfg *CheckConfig, v *dskema.Validator, s *dskema.Schema, opts []dskema.Option, pr *printer, arg string) (int, error) {
	var r io.Reader
	name := arg
	if arg == "-" {
		r = os.Stdin
		name = "stdin"
	} else {
		f, err := os.Open(arg)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		r = f
		name = filepath.Clean(arg)
	}
	format := source.FormatFromPath(arg)
	if cfg.Format != nil {
		format = *cfg.Format
	}
	docs, err := source.Decode(r, format)
	if err != nil {
		return 0, err
	}
	failed := 0
	for i, doc := range docs {
		docName := name
		if len(docs) > 1 {
			docName = fmt.Sprintf("%s#%d", name, i)
		}
		rep, err := v.Validate(s, doc, opts...)
		if err != nil {
			e, ok := dskema.AsValidationError(err)
			if !ok {
				return failed, err
			}
			rep.Errors = dskema.Errors{e}
		}
		if !rep.Valid() {
			failed++
		}
		pr.report(docName, rep.Errors)
	}
	return failed, nil
}

type printer struct {
	w     io.Writer
	quiet bool
	kind  func(a ...any) string
	key   func(a ...any) string
	ok    func(a ...any) string
}

func newPrinter(w io.Writer, useColor, quiet bool) *printer {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return &printer{
		w:     w,
		quiet: quiet,
		kind:  mk(color.FgRed, color.Bold),
		key:   mk(color.FgCyan),
		ok:    mk(color.FgGreen),
	}
}

func (p *printer) report(name string, errs dskema.Errors) {
	if len(errs) == 0 {
		if !p.quiet {
			fmt.Fprintf(p.w, "%s: %s\n", name, p.ok("ok"))
		}
		return
	}
	for _, e := range errs {
		key := e.Key
		if key == "" {
			key = "(root)"
		}
		fmt.Fprintf(p.w, "%s: %s at %s", name, p.kind(string(e.Kind)), p.key(key))
		if e.HasValue {
			fmt.Fprintf(p.w, " value=%v", e.Value)
		}
		if e.ExpectedType != "" {
			fmt.Fprintf(p.w, " expected=%s", e.ExpectedType)
		}
		fmt.Fprintln(p.w)
	}
}
