package ast

// SourceUnit is implemented by every top-level declaration: structs,
// contracts, and free-standing event declarations.
type SourceUnit interface {
	Node
	isSourceUnit()
}

// SourceFile is the root of one parsed translation unit.
type SourceFile struct {
	base
	Units []SourceUnit
}

func (f *SourceFile) NodeType() NodeType { return ILLEGAL }

// ParamDef is a function/event/constructor parameter.
type ParamDef struct {
	base
	Name string
	Type *Type
}

func (p *ParamDef) NodeType() NodeType { return PARAM_DEF }

// FieldDef is a struct field.
type FieldDef struct {
	base
	Name string
	Type *Type
}

func (f *FieldDef) NodeType() NodeType { return FIELD_DEF }

// StructDef declares a value-type aggregate.
type StructDef struct {
	base
	Name   string
	Fields []*FieldDef
}

func (s *StructDef) NodeType() NodeType { return STRUCT_DEF }
func (*StructDef) isSourceUnit()        {}

// EventDef declares an event's name and its argument schema. It appears
// both as a top-level SourceUnit and nested inside a ContractDef.
type EventDef struct {
	base
	Name   string
	Params []*ParamDef
}

func (e *EventDef) NodeType() NodeType { return EVENT_DEF }
func (*EventDef) isSourceUnit()        {}
func (*EventDef) isContractPart()      {}

// ContractPart is implemented by every member a contract body may contain.
type ContractPart interface {
	Node
	isContractPart()
}

// StateVariable is a contract-level storage slot declaration.
type StateVariable struct {
	base
	Name        string
	Type        *Type
	IsPublic    bool
	Annotations []string
}

func (s *StateVariable) NodeType() NodeType { return STATE_VARIABLE }
func (*StateVariable) isContractPart()      {}

// Constructor is the (at most one) contract constructor.
type Constructor struct {
	base
	Params      []*ParamDef
	Body        *Block
	Annotations []string
}

func (c *Constructor) NodeType() NodeType { return CONSTRUCTOR }
func (*Constructor) isContractPart()      {}

// FunctionDef is a contract member function.
type FunctionDef struct {
	base
	Name        string
	Params      []*ParamDef
	Returns     *Type
	Body        *Block
	IsPublic    bool
	Annotations []string
}

func (f *FunctionDef) NodeType() NodeType { return FUNCTION_DEF }
func (*FunctionDef) isContractPart()      {}

// ContractDef groups state, a constructor, functions, and events.
type ContractDef struct {
	base
	Name        string
	Parts       []ContractPart
	Annotations []string
}

func (c *ContractDef) NodeType() NodeType { return CONTRACT_DEF }
func (*ContractDef) isSourceUnit()        {}

// Functions returns the contract's function members in declaration order.
func (c *ContractDef) Functions() []*FunctionDef {
	var fns []*FunctionDef
	for _, p := range c.Parts {
		if fn, ok := p.(*FunctionDef); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// Constructors returns the contract's constructor members; a well-formed
// contract has at most one, but the analyzer must see duplicates to flag them.
func (c *ContractDef) Constructors() []*Constructor {
	var ctors []*Constructor
	for _, p := range c.Parts {
		if ctor, ok := p.(*Constructor); ok {
			ctors = append(ctors, ctor)
		}
	}
	return ctors
}

// StateVariables returns the contract's storage declarations in order.
func (c *ContractDef) StateVariables() []*StateVariable {
	var vars []*StateVariable
	for _, p := range c.Parts {
		if sv, ok := p.(*StateVariable); ok {
			vars = append(vars, sv)
		}
	}
	return vars
}

// Events returns the contract's nested event declarations.
func (c *ContractDef) Events() []*EventDef {
	var evs []*EventDef
	for _, p := range c.Parts {
		if ev, ok := p.(*EventDef); ok {
			evs = append(evs, ev)
		}
	}
	return evs
}
