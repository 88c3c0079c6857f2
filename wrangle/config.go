package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// config is everything that controls one run of wrangle. It can come from
// a YAML file, with command line flags taking precedence.
type config struct {
	Input   string `yaml:"input"`
	Schema  string `yaml:"schema"`
	Output  string `yaml:"output"`
	Package string `yaml:"package"`
	Mode    string `yaml:"mode"`
	JSON    string `yaml:"json"`
	List    bool   `yaml:"list"`
	Dump    bool   `yaml:"dump"`
	Verbose bool   `yaml:"verbose"`
}

func defaultConfig() config {
	return config{
		Input:   "opcodes.json",
		Schema:  "auto",
		Package: "opcodes",
		Mode:    modeStatic,
	}
}

func loadConfig(filename string, into *config) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	err = dec.Decode(into)
	if err != nil && err != io.EOF { // an empty file changes nothing
		return fmt.Errorf("failed to load %s: %s", filename, err)
	}
	return nil
}

// applyFlags copies the value of every flag set on the command line into
// cfg, so that flags win over the config file.
func applyFlags(fs *flag.FlagSet, cfg *config, flags *config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.Input = flags.Input
		case "schema":
			cfg.Schema = flags.Schema
		case "o":
			cfg.Output = flags.Output
		case "pkg":
			cfg.Package = flags.Package
		case "mode":
			cfg.Mode = flags.Mode
		case "json":
			cfg.JSON = flags.JSON
		case "list":
			cfg.List = flags.List
		case "dump":
			cfg.Dump = flags.Dump
		case "v":
			cfg.Verbose = flags.Verbose
		}
	})
}

// bindFlags declares wrangle's flags on fs, storing their values in cfg.
func bindFlags(fs *flag.FlagSet, cfg *config) *string {
	def := defaultConfig()
	configFile := fs.String("config", "", "read settings from `file` (YAML)")
	fs.StringVar(&cfg.Input, "i", def.Input, "read the opcode description from `file`")
	fs.StringVar(&cfg.Schema, "schema", def.Schema, "description format: auto, flaglist or flagmap")
	fs.StringVar(&cfg.Output, "o", def.Output, "write generated Go to `file` (default stdout)")
	fs.StringVar(&cfg.Package, "pkg", def.Package, "package `name` of the generated Go")
	fs.StringVar(&cfg.Mode, "mode", def.Mode, "table embedding: static or embedded")
	fs.StringVar(&cfg.JSON, "json", def.JSON, "also write the canonical description to `file`")
	fs.BoolVar(&cfg.List, "list", def.List, "print a listing of every instruction")
	fs.BoolVar(&cfg.Dump, "dump", def.Dump, "dump the loaded table")
	fs.BoolVar(&cfg.Verbose, "v", def.Verbose, "log every instruction loaded")
	return configFile
}

// resolveConfig parses args and merges them over the defaults and the
// config file they name, if any.
func resolveConfig(fs *flag.FlagSet, args []string) (config, error) {
	var flags config
	configFile := bindFlags(fs, &flags)
	err := fs.Parse(args)
	if err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments %q", fs.Args())
	}

	if *configFile == "" {
		return flags, nil
	}
	cfg := defaultConfig()
	err = loadConfig(*configFile, &cfg)
	if err != nil {
		return config{}, err
	}
	applyFlags(fs, &cfg, &flags)
	return cfg, nil
}
