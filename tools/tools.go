package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// Error is a typed tool failure. Kind names the failure category; the
// rendered form is the user-facing error format.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// FormatError renders any error in the user-facing failure format.
func FormatError(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return fmt.Sprintf("[Error] %s: %s", te.Kind, te.Message)
	}
	return fmt.Sprintf("[Error] ToolError: %s", err.Error())
}

// tool is the uniform implementation behind every registry entry. It
// satisfies the langchaingo tools.Tool interface: Call receives the
// arguments as a JSON object string.
type tool struct {
	name        Name
	description string
	parameters  map[string]any
	fn          func(ctx context.Context, args map[string]any) (string, error)
}

func (t *tool) Name() string        { return string(t.name) }
func (t *tool) Description() string { return t.description }

func (t *tool) Call(ctx context.Context, input string) (string, error) {
	args := map[string]any{}
	if input != "" && input != "{}" {
		if err := json.Unmarshal([]byte(input), &args); err != nil {
			return "", &Error{Kind: "InvalidArguments", Message: fmt.Sprintf("arguments are not a JSON object: %v", err)}
		}
	}
	return t.fn(ctx, args)
}

// Definition returns the function-call binding for the planner LLM.
func (t *tool) Definition() llms.Tool {
	params := t.parameters
	if params == nil {
		params = objectSchema(nil, nil)
	}
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        string(t.name),
			Description: t.description,
			Parameters:  params,
		},
	}
}

// objectSchema builds a JSON-schema object from property name/spec pairs.
func objectSchema(properties map[string]any, required []string) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func argString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", &Error{Kind: "InvalidArguments", Message: fmt.Sprintf("missing required argument %q", key)}
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &Error{Kind: "InvalidArguments", Message: fmt.Sprintf("argument %q must be a non-empty string", key)}
	}
	return s, nil
}

func optString(args map[string]any, key, fallback string) string {
	if s, ok := args[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func optInt(args map[string]any, key string, fallback int) int {
	if f, ok := args[key].(float64); ok {
		return int(f)
	}
	return fallback
}

func optBool(args map[string]any, key string, fallback bool) bool {
	if b, ok := args[key].(bool); ok {
		return b
	}
	return fallback
}

func argStringMap(args map[string]any, key string) map[string]any {
	if m, ok := args[key].(map[string]any); ok {
		return m
	}
	return nil
}

func argFloats(args map[string]any, key string) ([]float32, error) {
	raw, ok := args[key].([]any)
	if !ok {
		return nil, &Error{Kind: "InvalidArguments", Message: fmt.Sprintf("argument %q must be an array of numbers", key)}
	}
	out := make([]float32, len(raw))
	for i, v := range raw {
		f, ok := v.(float64)
		if !ok {
			return nil, &Error{Kind: "InvalidArguments", Message: fmt.Sprintf("argument %q must be an array of numbers", key)}
		}
		out[i] = float32(f)
	}
	return out, nil
}

// decodeArg re-marshals a nested argument into a typed struct.
func decodeArg(args map[string]any, key string, dst any) error {
	v, ok := args[key]
	if !ok {
		return &Error{Kind: "InvalidArguments", Message: fmt.Sprintf("missing required argument %q", key)}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return &Error{Kind: "InvalidArguments", Message: err.Error()}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &Error{Kind: "InvalidArguments", Message: fmt.Sprintf("argument %q has the wrong shape: %v", key, err)}
	}
	return nil
}
