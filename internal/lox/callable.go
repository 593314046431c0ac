package lox

// Callable is any Value that can appear as the callee of a CallExpr: a user
// function, a bound method, a class (acting as its own constructor), or a
// native function.
type Callable interface {
	Value
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
}

// LoxFunction is a user-defined function or method together with the
// environment frame in effect at its declaration site (its closure).
// IsInitializer marks a class's `init` method, which returns `this` rather
// than its own return value.
type LoxFunction struct {
	Declaration   *FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func (*LoxFunction) isValue() {}

func (f *LoxFunction) Arity() int { return len(f.Declaration.Params) }

// Bind produces a new LoxFunction whose closure is a fresh frame extending
// f's closure with `this` bound to instance — this is how a method lookup on
// an instance becomes a callable with `this` preconfigured.
func (f *LoxFunction) Bind(instance *LoxInstance) *LoxFunction {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &LoxFunction{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

func (f *LoxFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	sig, value, err := interp.execBlock(f.Declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	if sig == sigReturn {
		return value, nil
	}
	return NilValue, nil
}

// NativeFunction wraps a host-implemented builtin, e.g. clock().
type NativeFunction struct {
	Name string
	Arit int
	Fn   func(interp *Interpreter, args []Value) (Value, error)
}

func (*NativeFunction) isValue() {}

func (n *NativeFunction) Arity() int { return n.Arit }

func (n *NativeFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	return n.Fn(interp, args)
}

// LoxClass is a class object: a name, an optional superclass, and its own
// (non-inherited) methods.
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

func (*LoxClass) isValue() {}

// FindMethod looks up name on this class, then recursively on its
// superclass chain. It returns the unbound LoxFunction; binding to a
// particular instance happens at the call site.
func (c *LoxClass) FindMethod(name string) *LoxFunction {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

func (c *LoxClass) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call on a class allocates a fresh instance and, if an `init` method
// exists, binds and calls it before returning the instance.
func (c *LoxClass) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := &LoxInstance{Class: c, fields: map[string]Value{}}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// LoxInstance is an instance of a LoxClass: a fixed class pointer and a
// mutable field map.
type LoxInstance struct {
	Class  *LoxClass
	fields map[string]Value
}

func (*LoxInstance) isValue() {}

// Get reads a property: the instance's own fields take priority over methods
// found by walking the class's (and its superclasses') method tables. A
// method found this way is returned bound to the instance.
func (i *LoxInstance) Get(name Token) (Value, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method := i.Class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(i), nil
	}
	return nil, newRuntimeError(name, "Undefined property '%s'.", name.Lexeme)
}

// Set writes a field, creating it if it doesn't already exist.
func (i *LoxInstance) Set(name Token, value Value) {
	i.fields[name.Lexeme] = value
}
