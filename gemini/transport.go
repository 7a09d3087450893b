// Package gemini implements the model transport using Google Gemini.
package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/jeongsoo1975/blogscout"
)

const model = "gemini-2.5-flash"

// Ensure Transport implements blogscout.Transport at compile time.
var _ blogscout.Transport = (*Transport)(nil)

// Transport sends prompts and capability schemas to Gemini and returns
// the raw reply without interpreting it.
type Transport struct {
	client *genai.Client
}

// NewTransport creates a new Transport.
func NewTransport(client *genai.Client) *Transport {
	return &Transport{client: client}
}

// Send performs one model round trip.
func (t *Transport) Send(ctx context.Context, system, prompt string, caps []blogscout.Capability) (*blogscout.ModelResponse, error) {
	config := BuildConfig(system, caps)

	result, err := t.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, blogscout.Errorf(blogscout.EINTERNAL, "gemini returned nil result")
	}

	resp := &blogscout.ModelResponse{Text: result.Text()}
	for _, fc := range result.FunctionCalls() {
		resp.Invocations = append(resp.Invocations, blogscout.Invocation{
			ID:   fc.ID,
			Name: fc.Name,
			Args: fc.Args,
		})
	}
	return resp, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls,
// declaring each capability as a callable function.
func BuildConfig(system string, caps []blogscout.Capability) *genai.GenerateContentConfig {
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
		Temperature: &temp,
	}

	if len(caps) > 0 {
		decls := make([]*genai.FunctionDeclaration, 0, len(caps))
		for _, c := range caps {
			decls = append(decls, declaration(c))
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}
	return config
}

// declaration maps one capability to a Gemini function declaration.
func declaration(c blogscout.Capability) *genai.FunctionDeclaration {
	props := make(map[string]*genai.Schema, len(c.Params))
	for name, p := range c.Params {
		props[name] = paramSchema(p)
	}
	return &genai.FunctionDeclaration{
		Name:        c.Name,
		Description: c.Description,
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
			Required:   c.Required,
		},
	}
}

// paramSchema maps one parameter to its JSON schema.
func paramSchema(p blogscout.Param) *genai.Schema {
	s := &genai.Schema{
		Type:        schemaType(p.Type),
		Description: p.Description,
	}
	if p.Type == "array" {
		s.Items = &genai.Schema{Type: schemaType(p.Elem)}
	}
	return s
}

func schemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
