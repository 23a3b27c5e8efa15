package session

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	contractx "github.com/shristirwt/ten-days-of-voice-agents-2025/engine/contract"
)

// Phase is the workflow position of a session. Transitions are owned by the
// gate package; nothing here validates them.
type Phase string

const (
	PhaseIntro      Phase = "intro"
	PhaseCollecting Phase = "collecting"
	PhaseVerifying  Phase = "verifying"
	PhaseReady      Phase = "ready"
	PhaseFinalized  Phase = "finalized"
	PhaseAbandoned  Phase = "abandoned"
)

func (p Phase) Terminal() bool {
	return p == PhaseFinalized || p == PhaseAbandoned
}

// Line is one cart entry. Quantity is always >= 1; a line reduced to zero is
// removed, never kept at zero.
type Line struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Category  string  `json:"category"`
}

// Verification tracks the identity check for families that require one.
// Passed stays nil until an answer has been evaluated.
type Verification struct {
	QuestionID string `json:"question_id"`
	Asked      bool   `json:"asked"`
	Passed     *bool  `json:"passed,omitempty"`
}

// Session is the single mutable record of one conversation. It is confined to
// one logical thread of control; tool invocations arrive strictly sequentially.
type Session struct {
	ID     string           `json:"id"`
	Family contractx.Family `json:"family"`
	Phase  Phase            `json:"phase"`

	Slots map[string]any  `json:"slots,omitempty"`
	Lines map[string]Line `json:"lines,omitempty"`

	Verification *Verification `json:"verification,omitempty"`
	CaseID       string        `json:"case_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(family contractx.Family, now time.Time) *Session {
	return &Session{
		ID:        ulid.Make().String(),
		Family:    family,
		Phase:     PhaseIntro,
		Slots:     make(map[string]any, 8),
		Lines:     make(map[string]Line, 4),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

/* -------------------------------- Slots --------------------------------- */

func (s *Session) Get(name string) (any, bool) {
	if s == nil || s.Slots == nil {
		return nil, false
	}
	v, ok := s.Slots[name]
	return v, ok
}

// Set overwrites a slot. Callers never pass empty strings to mean "unfilled";
// an unfilled slot is an absent key.
func (s *Session) Set(name string, value any) {
	if s.Slots == nil {
		s.Slots = make(map[string]any, 8)
	}
	s.Slots[name] = value
}

// Append adds values to a list-valued slot (extras, objectives). It appends,
// never overwrites.
func (s *Session) Append(name string, values ...string) {
	if len(values) == 0 {
		return
	}
	current, _ := s.Get(name)
	list, _ := current.([]string)
	s.Set(name, append(list, values...))
}

// Filled reports whether a slot holds a usable value: present, and neither an
// empty string nor an empty list.
func (s *Session) Filled(name string) bool {
	v, ok := s.Get(name)
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func (s *Session) StringSlot(name string) string {
	v, ok := s.Get(name)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

func (s *Session) ListSlot(name string) []string {
	v, ok := s.Get(name)
	if !ok {
		return nil
	}
	list, _ := v.([]string)
	return list
}

/* -------------------------------- Lines --------------------------------- */

// MergeLine inserts a cart line or, when the id is already present, adds the
// quantity to the existing entry rather than duplicating it.
func (s *Session) MergeLine(id string, line Line) Line {
	if s.Lines == nil {
		s.Lines = make(map[string]Line, 4)
	}
	if existing, ok := s.Lines[id]; ok {
		existing.Quantity += line.Quantity
		s.Lines[id] = existing
		return existing
	}
	s.Lines[id] = line
	return line
}

// SetQuantity replaces a line's quantity. Zero removes the line.
func (s *Session) SetQuantity(id string, quantity int) bool {
	line, ok := s.Lines[id]
	if !ok {
		return false
	}
	if quantity <= 0 {
		delete(s.Lines, id)
		return true
	}
	line.Quantity = quantity
	s.Lines[id] = line
	return true
}

func (s *Session) RemoveLine(id string) (Line, bool) {
	line, ok := s.Lines[id]
	if ok {
		delete(s.Lines, id)
	}
	return line, ok
}

// LineIDByName resolves a cart line by case-insensitive item name.
func (s *Session) LineIDByName(name string) (string, bool) {
	for id, line := range s.Lines {
		if strings.EqualFold(line.Name, name) {
			return id, true
		}
	}
	return "", false
}

// Total is always recomputed from the current lines, never cached.
func (s *Session) Total() float64 {
	var total float64
	for _, line := range s.Lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}

/* ------------------------------ Lifecycle -------------------------------- */

// Advance moves the session to a new phase. Only the gate calls this.
func (s *Session) Advance(p Phase, now time.Time) {
	s.Phase = p
	s.Touch(now)
}

// Reset clears the collected data after a successful commit. The phase is left
// alone; the gate has already moved it to finalized.
func (s *Session) Reset(now time.Time) {
	s.Slots = make(map[string]any, 8)
	s.Lines = make(map[string]Line, 4)
	s.Verification = nil
	s.CaseID = ""
	s.Touch(now)
}
