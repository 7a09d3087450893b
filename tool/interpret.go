package tool

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure Interpreter implements blogscout.Interpreter at compile time.
var _ blogscout.Interpreter = (*Interpreter)(nil)

// Interpreter validates model replies against a capability catalogue.
// It accepts native structured invocations first, then falls back to
// invocation-shaped JSON embedded in the reply text, mirroring how
// models drift between the two formats.
type Interpreter struct {
	catalog blogscout.Catalog
	logger  *slog.Logger
}

// NewInterpreter creates an Interpreter over the given catalogue.
func NewInterpreter(catalog blogscout.Catalog, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{catalog: catalog, logger: logger}
}

// textInvocation is the shape of an invocation the model writes as JSON
// text instead of using the native mechanism.
type textInvocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Interpret locates a structured invocation in the reply and validates
// it against the catalogue.
func (i *Interpreter) Interpret(resp *blogscout.ModelResponse) (*blogscout.Invocation, error) {
	if resp == nil {
		return nil, blogscout.Errorf(blogscout.EMALFORMED, "empty model response")
	}
	i.logger.Debug("interpreting model response",
		"invocations", len(resp.Invocations),
		"text", resp.Text,
	)

	if len(resp.Invocations) > 0 {
		inv := resp.Invocations[0]
		return i.validate(inv.Name, inv.Args)
	}

	for _, fragment := range jsonFragments(resp.Text) {
		var ti textInvocation
		if err := json.Unmarshal([]byte(fragment), &ti); err != nil {
			continue
		}
		if ti.Name == "" {
			continue
		}
		return i.validate(ti.Name, ti.Arguments)
	}

	return nil, blogscout.Errorf(blogscout.EMALFORMED, "no invocation found in model response")
}

// validate checks the invocation against the catalogue: the capability
// must exist, every required argument must be present and non-null, and
// omitted optional arguments are filled with explicit nils.
func (i *Interpreter) validate(name string, args map[string]any) (*blogscout.Invocation, error) {
	cap, ok := i.catalog.Lookup(name)
	if !ok {
		return nil, blogscout.Errorf(blogscout.EMALFORMED, "unknown capability %q", name)
	}
	if args == nil {
		args = make(map[string]any)
	}
	for _, req := range cap.Required {
		if v, ok := args[req]; !ok || v == nil {
			return nil, blogscout.Errorf(blogscout.EMALFORMED,
				"capability %q missing required argument %q", name, req)
		}
	}
	for _, opt := range cap.Optional {
		if _, ok := args[opt]; !ok {
			args[opt] = nil
		}
	}
	return &blogscout.Invocation{
		ID:   uuid.NewString(),
		Name: name,
		Args: args,
	}, nil
}

// DecodeFields decodes a bare JSON object from the reply's free text.
// Single-quoted pseudo-JSON, a habit of some models, is repaired before
// giving up.
func (i *Interpreter) DecodeFields(resp *blogscout.ModelResponse) (map[string]any, error) {
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, blogscout.Errorf(blogscout.EMALFORMED, "empty model response")
	}
	i.logger.Debug("decoding field response", "text", resp.Text)

	for _, fragment := range jsonFragments(resp.Text) {
		var fields map[string]any
		if err := json.Unmarshal([]byte(fragment), &fields); err == nil {
			return fields, nil
		}
		repaired := repairQuotes(fragment)
		if err := json.Unmarshal([]byte(repaired), &fields); err == nil {
			i.logger.Warn("repaired single-quoted JSON in model response")
			return fields, nil
		}
	}

	return nil, blogscout.Errorf(blogscout.EMALFORMED, "no JSON object found in model response")
}

// jsonFragments yields candidate JSON object fragments from reply text:
// fenced code blocks first, then every balanced brace span.
func jsonFragments(text string) []string {
	var out []string
	for _, fenced := range fencedBlocks(text) {
		out = append(out, fenced)
	}
	out = append(out, braceSpans(text)...)
	return out
}

// fencedBlocks extracts the contents of ```json and bare ``` fences.
func fencedBlocks(text string) []string {
	var out []string
	rest := text
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			return out
		}
		rest = rest[start+3:]
		rest = strings.TrimPrefix(rest, "json")
		end := strings.Index(rest, "```")
		if end < 0 {
			return out
		}
		block := strings.TrimSpace(rest[:end])
		if block != "" {
			out = append(out, block)
		}
		rest = rest[end+3:]
	}
}

// braceSpans returns every balanced top-level {...} span in text.
// Braces inside JSON strings are accounted for.
func braceSpans(text string) []string {
	var out []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for idx, r := range text {
		if escaped {
			escaped = false
			continue
		}
		switch {
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == '{':
			if depth == 0 {
				start = idx
			}
			depth++
		case r == '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				out = append(out, text[start:idx+1])
				start = -1
			}
		}
	}
	return out
}

// repairQuotes converts single-quoted pseudo-JSON to double-quoted JSON.
// Apostrophes inside double-quoted strings are left alone.
func repairQuotes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			b.WriteRune(r)
			escaped = true
		case '"':
			inDouble = !inDouble
			b.WriteRune(r)
		case '\'':
			if inDouble {
				b.WriteRune(r)
			} else {
				b.WriteRune('"')
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
