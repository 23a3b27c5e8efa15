package contract

// Family identifies one workflow family. Each family owns its slot dictionary,
// its finalize gate, and its tool set.
type Family string

const (
	FamilyCoffee  Family = "coffee"
	FamilyCheckin Family = "checkin"
	FamilyLead    Family = "lead"
	FamilyFraud   Family = "fraud"
	FamilyRetail  Family = "retail"
	FamilyTutor   Family = "tutor"
)

// Families lists every registered workflow family.
func Families() []Family {
	return []Family{
		FamilyCoffee,
		FamilyCheckin,
		FamilyLead,
		FamilyFraud,
		FamilyRetail,
		FamilyTutor,
	}
}

// ParamType mirrors the JSON schema primitive accepted by a tool argument.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamNumber  ParamType = "number"
	ParamBoolean ParamType = "boolean"
	ParamList    ParamType = "array"
)

// ParamSpec describes one typed, optional-by-default tool argument. An absent
// argument always means "no update", never "clear field".
type ParamSpec struct {
	Name     string    `json:"name"`
	Type     ParamType `json:"type"`
	Desc     string    `json:"desc"`
	Required bool      `json:"required,omitempty"`
}

// ToolSpec is the declared surface of one named operation.
type ToolSpec struct {
	Name   string      `json:"name"`
	Desc   string      `json:"desc"`
	Params []ParamSpec `json:"params,omitempty"`
}

// ToolResult is what every operation returns to the caller. Reply is the entire
// observable contract: a short human-readable confirmation, even on failure.
// Data optionally carries a structured value (e.g. the verify boolean) for
// callers that want more than the text.
type ToolResult struct {
	Tool  string `json:"tool"`
	Reply string `json:"reply"`
	Data  any    `json:"data,omitempty"`
}
