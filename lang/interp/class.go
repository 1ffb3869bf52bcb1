package interp

import "fmt"

// Class is a Lox class: a name, an optional superclass, and its own
// name-to-method mapping. A class is itself Callable: calling it
// constructs an Instance and, if present, runs its `init` method.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

var _ Callable = (*Class)(nil)

// String renders the class's display form: its bare name.
func (c *Class) String() string { return c.Name }

// FindMethod looks up name on c, then on its superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity returns the arity of the `init` method, or 0 if the class declares
// none.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance of c and, if c (or a superclass) declares
// an `init` method, invokes it on the fresh instance before returning it.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Instance is a Lox object: a reference to its class and a mutable
// name-to-value field mapping.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance returns a new, field-less Instance of cls.
func NewInstance(cls *Class) *Instance {
	return &Instance{Class: cls, Fields: make(map[string]Value)}
}

// String renders the instance's display form, `CLASSNAME instance`.
func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.Class.Name) }

// Get implements property read: an instance field shadows a method of the
// same name; otherwise the class (and its superclass chain) is searched
// for a method, which is bound to i before being returned.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m, ok := i.Class.FindMethod(name); ok {
		return m.Bind(i), true
	}
	return nil, false
}

// Set writes (creating if absent) the field named name.
func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}
