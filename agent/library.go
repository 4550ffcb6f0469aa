package agent

import (
	"context"
	"fmt"

	"github.com/etnz/harvest"
	"google.golang.org/genai"
)

// Library serves the function calls a model makes.
type Library func(context.Context, *genai.FunctionCall) *genai.FunctionResponse

// Function is a tool a model can call: a workflow of the analyst, or an
// expert asked by the facilitator.
type Function interface {
	Declaration() *genai.FunctionDeclaration
	Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

// NewLibrary dispatches calls to the function of the same name. It panics
// when two functions share a name.
func NewLibrary[T Function](functions []T) Library {
	byName := make(map[string]T, len(functions))
	for _, f := range functions {
		name := f.Declaration().Name
		if _, dup := byName[name]; dup {
			panic("agent: function " + name + " declared twice")
		}
		byName[name] = f
	}
	return func(ctx context.Context, call *genai.FunctionCall) *genai.FunctionResponse {
		f, ok := byName[call.Name]
		if !ok {
			return failure(call.ID, call.Name, fmt.Errorf("unknown function %s", call.Name))
		}
		return f.Call(ctx, call.ID, call.Args)
	}
}

// NewDeclaration returns the declarations of functions, in order.
func NewDeclaration[T Function](functions []T) []*genai.FunctionDeclaration {
	result := make([]*genai.FunctionDeclaration, 0, len(functions))
	for _, f := range functions {
		result = append(result, f.Declaration())
	}
	return result
}

func success(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": output}}
}

// failure reports err to the model, which can explain it or retry.
func failure(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"error": err.Error()}}
}

// stringArg returns the string argument name.
func stringArg(args map[string]any, name string) (string, error) {
	v, ok := args[name].(string)
	if !ok {
		return "", fmt.Errorf("argument '%s' must be a string, got %T", name, args[name])
	}
	return v, nil
}

// amountArg returns the argument name as a positive dollar amount. JSON
// numbers arrive as float64.
func amountArg(args map[string]any, name string) (harvest.Money, error) {
	v, ok := args[name].(float64)
	if !ok || v <= 0 {
		return harvest.Money{}, fmt.Errorf("argument '%s' must be a positive number of dollars, got %v", name, args[name])
	}
	return harvest.USD(v), nil
}

// symbolsArg returns the optional list of symbols name, normalized.
func symbolsArg(args map[string]any, name string) ([]string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("argument '%s' must be a list of symbols, got %T", name, raw)
	}
	res := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok || !harvest.ValidSymbol(s) {
			return nil, fmt.Errorf("argument '%s' has an invalid symbol %v", name, v)
		}
		res = append(res, harvest.NormalizeSymbol(s))
	}
	return res, nil
}
