package micropy

import "sort"

// Store is the runtime environment: variable bindings and a table of
// defined functions. A function-store is a Store that also carries the
// function's parameter names and body.
//
// main has no frame of its own; its variables live in the root store.
type Store struct {
	vars  map[string]Value
	funcs map[string]*Store
	// global is the root store for function-stores and nil for the root.
	global *Store

	Name   string
	Params []string
	Body   Stmt
}

func NewStore() *Store {
	return &Store{
		vars:  make(map[string]Value),
		funcs: make(map[string]*Store),
	}
}

// NewFuncStore creates the function-store for def. The function-store is
// registered in its own function table so that the body can call itself.
func NewFuncStore(def *FuncDef, global *Store) *Store {
	fs := NewStore()
	fs.global = global
	fs.Name = def.Id()
	fs.Params = def.ParamNames()
	fs.Body = def.Body
	fs.funcs[fs.Name] = fs
	return fs
}

func (s *Store) Update(name string, v Value) {
	s.vars[name] = v
}

func (s *Store) Get(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Names returns the bound variable names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) UpdateFunc(name string, f *Store) {
	s.funcs[name] = f
}

// GetFunc resolves a function in this store's table and then in the root
// store's table.
func (s *Store) GetFunc(name string) (*Store, bool) {
	if f, ok := s.funcs[name]; ok {
		return f, true
	}
	if s.global != nil {
		return s.global.GetFunc(name)
	}
	return nil, false
}

// Frame returns the store a call of this function evaluates in. With
// SharedFrames it is the function-store itself, so a nested call of the
// same function overwrites the outer call's bindings. With FreshFrames every
// call gets its own empty variable table.
func (s *Store) Frame(mode FrameMode) *Store {
	if mode == SharedFrames {
		return s
	}
	return &Store{
		vars:   make(map[string]Value, len(s.Params)),
		funcs:  s.funcs,
		global: s.global,
		Name:   s.Name,
		Params: s.Params,
		Body:   s.Body,
	}
}
