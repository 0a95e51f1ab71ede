package micropy

import (
	"fmt"
	"io"

	"fortio.org/log"
)

const MainFunction = "main"

// Interpreter runs programs definition by definition as the parser
// completes them: functions are registered in the root store, main is run
// against the root store and its result printed.
type Interpreter struct {
	cfg     Config
	root    *Store
	eval    *Evaluator
	out     io.Writer
	ranMain bool
}

func NewInterpreter(cfg Config, in io.Reader, out io.Writer) *Interpreter {
	return &Interpreter{
		cfg:  cfg,
		root: NewStore(),
		eval: NewEvaluator(cfg, in, out),
		out:  out,
	}
}

// Root is the store shared by main and the function table.
func (it *Interpreter) Root() *Store {
	return it.root
}

// Run parses and runs a complete program. It fails if the program never
// defines main.
func (it *Interpreter) Run(filename string, source []byte) error {
	psr, err := NewParser(NewScanner(filename, source))
	if err != nil {
		return err
	}
	if err := psr.ParseProgram(it); err != nil {
		return err
	}
	if !it.ranMain {
		return NewNameError(psr.Pos(), "function %q is not defined", MainFunction)
	}
	return nil
}

// RunDefs parses and handles function definitions with no program header.
// State accumulates across calls, which is what the REPL needs.
func (it *Interpreter) RunDefs(filename string, source []byte) error {
	psr, err := NewParser(NewScanner(filename, source))
	if err != nil {
		return err
	}
	return psr.ParseDefs(it)
}

func (it *Interpreter) HandleDef(def *FuncDef) error {
	if it.cfg.DumpAST {
		log.Printf("%s", def)
	}
	name := def.Id()
	if name != MainFunction {
		if _, ok := it.root.GetFunc(name); ok {
			log.Warnf("%s: redefinition of %s", def.pos(), name)
		}
		it.root.UpdateFunc(name, NewFuncStore(def, it.root))
		return nil
	}
	if len(def.Params) > 0 {
		log.Warnf("%s: parameters of %s are never bound", def.pos(), MainFunction)
	}
	it.ranMain = true
	result, err := it.eval.EvaluateStmt(def.Body, it.root)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(it.out, result); err != nil {
		return NewError(IOError, def.pos(), "writing result: %s", err)
	}
	return nil
}
