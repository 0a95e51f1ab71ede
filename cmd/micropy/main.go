package main

import (
	"errors"
	"fmt"
	"os"

	"fortio.org/log"
	"github.com/jessevdk/go-flags"

	"micropy"
)

type options struct {
	Config   string  `short:"c" long:"config" value-name:"FILE" description:"properties file with interpreter settings"`
	Frames   string  `long:"frames" choice:"fresh" choice:"shared" description:"call frame strategy"`
	LogLevel string  `long:"log-level" value-name:"LEVEL" description:"log level: debug, verbose, info, warning, error"`
	DumpAST  bool    `long:"dump-ast" description:"print each parsed definition before handling it"`
	Prompt   *string `long:"prompt" value-name:"TEXT" description:"text written before each input read"`

	Args struct {
		Source string `positional-arg-name:"SOURCE" description:"MicroPython source file"`
	} `positional-args:"yes" required:"yes"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 2
	}
	cfg, err := configure(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	source, err := os.ReadFile(opts.Args.Source)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("reading source: %w", err))
		return 1
	}
	interp := micropy.NewInterpreter(cfg, os.Stdin, os.Stdout)
	if err := interp.Run(opts.Args.Source, source); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// configure loads the config file, if any, and applies the command line
// overrides on top of it.
func configure(opts options) (micropy.Config, error) {
	cfg, err := micropy.LoadConfig(opts.Config)
	if err != nil {
		return cfg, err
	}
	if opts.Frames != "" {
		cfg.CallFrames = opts.Frames
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.DumpAST {
		cfg.DumpAST = true
	}
	if opts.Prompt != nil {
		cfg.InputPrompt = *opts.Prompt
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	log.SetLogLevel(log.LevelByName(cfg.LogLevel))
	return cfg, nil
}
