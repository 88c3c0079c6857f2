// Command wrangle turns an SM83 opcode description into Go source for a
// decode table.
//
//	wrangle -i opcodes.json -pkg opcodes -o opcodes_gen.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/atexit"
	"golang.org/x/term"

	"github.com/apparentlymart/sm83-meta/isa"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: wrangle [-config file] [-i opcodes.json] [-o out.go] [-pkg name] [-mode static|embedded] [-list] [-dump]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	cfg, err := resolveConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "wrangle: %s\n", err)
		usage()
	}

	log := newLogger(os.Stderr, cfg.Verbose)
	err = run(cfg, log, os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		log.Error(err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func newLogger(w *os.File, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	if term.IsTerminal(int(w.Fd())) {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	}
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func run(cfg config, log logrus.FieldLogger, stdout io.Writer, styled bool) error {
	var schema isa.Schema
	if cfg.Schema != "auto" && cfg.Schema != "" {
		var ok bool
		schema, ok = isa.Schemas[cfg.Schema]
		if !ok {
			return fmt.Errorf("unsupported schema %q", cfg.Schema)
		}
	}

	t, err := isa.LoadFile(cfg.Input, schema)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"input":      cfg.Input,
		"unprefixed": t.Len(isa.Unprefixed),
		"prefixed":   t.Len(isa.Prefixed),
	}).Info("loaded opcode description")
	for _, d := range t.All() {
		log.WithFields(logrus.Fields{
			"plane": d.Plane,
			"addr":  fmt.Sprintf("0x%02x", d.Opcode),
		}).Debug(d.String())
	}

	names, err := isa.AssignNames(t)
	if err != nil {
		return err
	}

	if cfg.Dump {
		spew.Fdump(stdout, t)
	}
	if cfg.List {
		writeListing(stdout, t, names, styled)
	}
	if cfg.JSON != "" {
		err = writeFile(cfg.JSON, t.WriteJSON)
		if err != nil {
			return err
		}
		log.WithField("file", cfg.JSON).Info("wrote canonical description")
	}

	gen := func(w io.Writer) error {
		return generateGo(w, t, names, goConfig{
			Package: cfg.Package,
			Mode:    cfg.Mode,
			Source:  filepath.Base(cfg.Input),
		})
	}
	switch {
	case cfg.Output == "" && (cfg.List || cfg.Dump):
		// Only a report was asked for.
	case cfg.Output == "" || cfg.Output == "-":
		err = gen(stdout)
	default:
		err = writeFile(cfg.Output, gen)
		if err == nil {
			log.WithFields(logrus.Fields{
				"file": cfg.Output,
				"mode": cfg.Mode,
			}).Info("wrote decode table")
		}
	}
	return err
}

// writeFile replaces filename with what fn writes, leaving it untouched if
// fn fails or the program exits early.
func writeFile(filename string, fn func(w io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+"-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	atexit.Register(func() {
		os.Remove(tmp)
	})

	err = fn(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	err = os.Chmod(tmp, 0o644)
	if err != nil {
		return err
	}
	return os.Rename(tmp, filename)
}
