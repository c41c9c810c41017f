package evaluator

import (
	"errors"

	"github.com/sambeau/lox/pkg/lox/ast"
)

// Callable is implemented by every value that can appear before '(...)'.
type Callable interface {
	Object
	Arity() int
	Call(in *Interpreter, args []Object) (Object, error)
}

// Function is a user-defined function or method together with the
// environment it closes over.
type Function struct {
	Declaration   *ast.FunctionStatement
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Inspect() string  { return "<fn " + f.Declaration.Name.Lexeme + ">" }
func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Arity() int       { return len(f.Declaration.Parameters) }

// Bind returns a copy of the method whose closure defines 'this' as inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", inst)
	return &Function{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// Call runs the body in a fresh environment enclosing the closure. An
// initializer always yields its instance.
func (f *Function) Call(in *Interpreter, args []Object) (Object, error) {
	env := NewEnclosedEnvironment(f.Closure)
	for i, param := range f.Declaration.Parameters {
		env.Define(param.Lexeme, args[i])
	}

	err := in.executeBlock(f.Declaration.Body, env)
	if err != nil {
		var rv *ReturnValue
		if !errors.As(err, &rv) {
			return nil, err
		}
		if !f.IsInitializer {
			return rv.Value, nil
		}
	}

	if f.IsInitializer {
		this, _ := f.Closure.GetAt(0, "this")
		return this, nil
	}
	return NIL, nil
}

// BuiltinFunction is the Go implementation of a native function.
type BuiltinFunction func(in *Interpreter, args []Object) (Object, error)

// Builtin is a function implemented in Go.
type Builtin struct {
	Name   string
	Params int
	Fn     BuiltinFunction
}

func (b *Builtin) Inspect() string  { return "<native fn " + b.Name + ">" }
func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Arity() int       { return b.Params }

func (b *Builtin) Call(in *Interpreter, args []Object) (Object, error) {
	return b.Fn(in, args)
}

// Class holds the methods shared by its instances. Calling a class
// constructs an instance.
type Class struct {
	Name    string
	Methods map[string]*Function
}

func (c *Class) Inspect() string  { return "<class " + c.Name + ">" }
func (c *Class) Type() ObjectType { return CLASS_OBJ }

// FindMethod returns the named method, or nil.
func (c *Class) FindMethod(name string) *Function {
	return c.Methods[name]
}

// Arity is the arity of init, or zero when the class has none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call creates an instance and runs init on it, if defined.
func (c *Class) Call(in *Interpreter, args []Object) (Object, error) {
	inst := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Instance is an object created by calling a class.
type Instance struct {
	Class  *Class
	Fields map[string]Object
}

// NewInstance creates an instance of class with no fields.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Object)}
}

func (i *Instance) Inspect() string  { return "<instance " + i.Class.Name + ">" }
func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }

// Get looks up a field, then a method bound to this instance.
func (i *Instance) Get(name string) (Object, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m.Bind(i), true
	}
	return nil, false
}

// Set writes a field on the instance, never on the class.
func (i *Instance) Set(name string, val Object) {
	i.Fields[name] = val
}
