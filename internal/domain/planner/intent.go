package planner

// Intent is the structured interpretation of a user's stated goal,
// produced once per conversation turn that introduces a new goal and
// immutable afterwards.
type Intent struct {
	GoalType     string     `json:"goalType"`
	Target       *ValueUnit `json:"target,omitempty"`
	Duration     *ValueUnit `json:"duration,omitempty"`
	RequiredInfo []string   `json:"requiredInfo"`
	Category     string     `json:"category,omitempty"`
}

type ValueUnit struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

const (
	QuestionTypeText        = "text"
	QuestionTypeNumber      = "number"
	QuestionTypeSelect      = "select"
	QuestionTypeMultiSelect = "multi_select"
	QuestionTypeSlider      = "slider"
)

// FollowUpQuestion is ephemeral: generated, shown, answered, discarded.
// Only the raw answers land in conversation history.
type FollowUpQuestion struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Type        string   `json:"type"`
	Options     []string `json:"options,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeText, QuestionTypeNumber, QuestionTypeSelect, QuestionTypeMultiSelect, QuestionTypeSlider:
		return true
	default:
		return false
	}
}
