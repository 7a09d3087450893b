package mock

import (
	"context"

	"github.com/jeongsoo1975/blogscout"
)

var _ blogscout.Transport = (*Transport)(nil)

// Transport is a mock implementation of blogscout.Transport.
type Transport struct {
	SendFn func(ctx context.Context, system, prompt string, caps []blogscout.Capability) (*blogscout.ModelResponse, error)
}

func (t *Transport) Send(ctx context.Context, system, prompt string, caps []blogscout.Capability) (*blogscout.ModelResponse, error) {
	return t.SendFn(ctx, system, prompt, caps)
}

var _ blogscout.Interpreter = (*Interpreter)(nil)

// Interpreter is a mock implementation of blogscout.Interpreter.
type Interpreter struct {
	InterpretFn    func(resp *blogscout.ModelResponse) (*blogscout.Invocation, error)
	DecodeFieldsFn func(resp *blogscout.ModelResponse) (map[string]any, error)
}

func (i *Interpreter) Interpret(resp *blogscout.ModelResponse) (*blogscout.Invocation, error) {
	return i.InterpretFn(resp)
}

func (i *Interpreter) DecodeFields(resp *blogscout.ModelResponse) (map[string]any, error) {
	return i.DecodeFieldsFn(resp)
}
