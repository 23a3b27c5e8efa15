package llmtool

import (
	"testing"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

func TestChatToolsMapsSpecs(t *testing.T) {
	t.Parallel()

	specs := []contractx.ToolSpec{
		{
			Name: "cart.add",
			Desc: "Add an item to the cart.",
			Params: []contractx.ParamSpec{
				{Name: "itemRef", Type: contractx.ParamString, Desc: "Product id or name", Required: true},
				{Name: "quantity", Type: contractx.ParamNumber, Desc: "How many to add"},
			},
		},
	}

	tools := ChatTools(specs)
	if len(tools) != 1 {
		t.Fatalf("tool count = %d, want 1", len(tools))
	}
	fn := tools[0].Function
	if fn.Name != "cart.add" {
		t.Fatalf("function name = %q, want cart.add", fn.Name)
	}

	properties, ok := fn.Parameters["properties"].(map[string]any)
	if !ok {
		t.Fatalf("properties = %#v", fn.Parameters["properties"])
	}
	itemRef, ok := properties["itemRef"].(map[string]any)
	if !ok || itemRef["type"] != "string" {
		t.Fatalf("itemRef schema = %#v", properties["itemRef"])
	}
	quantity, ok := properties["quantity"].(map[string]any)
	if !ok || quantity["type"] != "number" {
		t.Fatalf("quantity schema = %#v", properties["quantity"])
	}

	required, ok := fn.Parameters["required"].([]string)
	if !ok || len(required) != 1 || required[0] != "itemRef" {
		t.Fatalf("required = %#v, want [itemRef]", fn.Parameters["required"])
	}
}

func TestChatToolsListParamsGetItemSchema(t *testing.T) {
	t.Parallel()

	tools := ChatTools([]contractx.ToolSpec{
		{
			Name: "checkin.capture_objectives",
			Desc: "Capture objectives.",
			Params: []contractx.ParamSpec{
				{Name: "objectives", Type: contractx.ParamList, Desc: "Goals", Required: true},
			},
		},
	})

	properties := tools[0].Function.Parameters["properties"].(map[string]any)
	objectives := properties["objectives"].(map[string]any)
	if objectives["type"] != "array" {
		t.Fatalf("type = %v, want array", objectives["type"])
	}
	items, ok := objectives["items"].(map[string]any)
	if !ok || items["type"] != "string" {
		t.Fatalf("items = %#v, want string items", objectives["items"])
	}
}

func TestChatToolsNoParamsOmitsRequired(t *testing.T) {
	t.Parallel()

	tools := ChatTools([]contractx.ToolSpec{{Name: "cart.summary", Desc: "Read the cart back."}})
	if _, ok := tools[0].Function.Parameters["required"]; ok {
		t.Fatal("required present for a no-parameter tool")
	}
}
