package blogscout

import "context"

// Param describes one argument a capability accepts.
type Param struct {
	// Type is the JSON type of the argument: "string", "number",
	// "boolean", "array" or "object".
	Type string

	// Elem is the element type for "array" parameters.
	Elem string

	// Description is surfaced to the model in the capability schema.
	Description string
}

// Capability declares one operation the model may invoke: its name and
// which arguments are required versus optional.
type Capability struct {
	Name        string
	Description string
	Params      map[string]Param
	Required    []string
	Optional    []string
}

// Catalog is a static, read-only mapping from capability name to its
// declaration, consumed by the response interpreter for validation.
type Catalog map[string]Capability

// Lookup returns the capability with the given name.
func (c Catalog) Lookup(name string) (Capability, bool) {
	cap, ok := c[name]
	return cap, ok
}

// Capabilities returns the declarations in the catalog. Order is not
// specified.
func (c Catalog) Capabilities() []Capability {
	caps := make([]Capability, 0, len(c))
	for _, cap := range c {
		caps = append(caps, cap)
	}
	return caps
}

// Invocation is a validated structured invocation extracted from a model
// reply: "call capability Name with Args". Optional arguments that the
// model omitted are present with an explicit nil value.
type Invocation struct {
	ID   string
	Name string
	Args map[string]any
}

// ModelResponse is the opaque raw reply from the model transport. It may
// carry native structured invocations, free text, or both.
type ModelResponse struct {
	Invocations []Invocation
	Text        string
}

// Transport sends prompt text plus capability schemas to a language
// model and returns its raw reply. The reply shape is not interpreted
// here; that is the interpreter's job.
type Transport interface {
	Send(ctx context.Context, system, prompt string, caps []Capability) (*ModelResponse, error)
}

// Interpreter turns a raw model reply into a validated invocation or a
// field map. Both methods are total: they return EMALFORMED errors, never
// panic, for replies that drift from the contract.
type Interpreter interface {
	// Interpret locates a structured invocation (native field first,
	// then a delimited JSON fragment in the free text) and validates it
	// against the catalog.
	Interpret(resp *ModelResponse) (*Invocation, error)

	// DecodeFields decodes a bare JSON object embedded in the reply's
	// free text, for prompts that ask for plain field output rather
	// than an invocation.
	DecodeFields(resp *ModelResponse) (map[string]any, error)
}
