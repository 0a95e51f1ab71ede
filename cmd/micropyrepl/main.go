package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/jessevdk/go-flags"
	"github.com/peterh/liner"

	"micropy"
)

const (
	historyFile = ".micropy_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

const banner = `MicroPython REPL
Enter one def at a time; main runs as soon as it is complete.
Commands: :vars lists main's variables, :quit exits.`

type options struct {
	Config string `short:"c" long:"config" value-name:"FILE" description:"properties file with interpreter settings"`
}

func main() {
	os.Exit(repl())
}

func repl() int {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 2
	}
	cfg, err := micropy.LoadConfig(opts.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log.SetLogLevel(log.LevelByName(cfg.LogLevel))

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	// Reads from input() go through liner too, so the prompt moves there.
	in := &linerInput{ln: ln, prompt: cfg.InputPrompt}
	cfg.InputPrompt = ""
	interp := micropy.NewInterpreter(cfg, in, os.Stdout)

	fmt.Println(banner)
	for {
		code, ok := readDef(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		switch strings.TrimSpace(code) {
		case "":
			continue
		case ":quit":
			return 0
		case ":vars":
			for _, name := range interp.Root().Names() {
				val, _ := interp.Root().Get(name)
				fmt.Printf("%s = %s\n", name, val)
			}
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if err := interp.RunDefs("<repl>", []byte(code)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// readDef reads lines until they form complete definitions or a syntax
// error that more input cannot fix. ok is false at end of input.
func readDef(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if !micropy.IsIncomplete(probe(src)) {
			return src, true
		}
	}
}

func probe(src string) error {
	psr, err := micropy.NewParser(micropy.NewScanner("<repl>", []byte(src)))
	if err != nil {
		return err
	}
	return psr.ParseDefs(micropy.DefHandlerFunc(func(*micropy.FuncDef) error {
		return nil
	}))
}

// linerInput feeds input() from liner, one line per prompt.
type linerInput struct {
	ln     *liner.State
	prompt string
	buf    []byte
}

func (r *linerInput) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		line, err := r.ln.Prompt(r.prompt)
		if err != nil {
			return 0, err
		}
		r.buf = []byte(line + "\n")
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
