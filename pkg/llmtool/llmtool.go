// Package llmtool exports engine tool surfaces as OpenAI function-calling
// definitions, so a chat model can drive the dispatcher.
package llmtool

import (
	"github.com/openai/openai-go"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

// ChatTools converts tool specifications into chat-completion tool
// parameters, preserving order.
func ChatTools(specs []contractx.ToolSpec) []openai.ChatCompletionToolParam {
	tools := make([]openai.ChatCompletionToolParam, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        spec.Name,
				Description: openai.String(spec.Desc),
				Parameters:  functionParameters(spec),
			},
		})
	}
	return tools
}

func functionParameters(spec contractx.ToolSpec) openai.FunctionParameters {
	properties := make(map[string]any, len(spec.Params))
	required := make([]string, 0, len(spec.Params))
	for _, p := range spec.Params {
		properties[p.Name] = schemaFor(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	params := openai.FunctionParameters{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		params["required"] = required
	}
	return params
}

func schemaFor(p contractx.ParamSpec) map[string]any {
	schema := map[string]any{
		"type":        jsonType(p.Type),
		"description": p.Desc,
	}
	if p.Type == contractx.ParamList {
		schema["items"] = map[string]any{"type": "string"}
	}
	return schema
}

func jsonType(t contractx.ParamType) string {
	switch t {
	case contractx.ParamNumber:
		return "number"
	case contractx.ParamBoolean:
		return "boolean"
	case contractx.ParamList:
		return "array"
	default:
		return "string"
	}
}
