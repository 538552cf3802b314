package planner

const (
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
	ProgressFailed     = "failed"
)

// ExecutionProgress is transient: it exists only for the duration of one
// execution pass and is never persisted.
type ExecutionProgress struct {
	Step      string   `json:"step"`
	Completed int      `json:"completed"`
	Total     int      `json:"total"`
	Status    string   `json:"status"`
	Errors    []string `json:"errors,omitempty"`
}

// ExecutionError names the action type that failed and the most specific
// message available (remote API message, else local error, else unknown).
type ExecutionError struct {
	Action string `json:"action"`
	Error  string `json:"error"`
}

// ExecutionResult is one action's accumulated output: the records the
// downstream API acknowledged creating.
type ExecutionResult struct {
	Action  string `json:"action"`
	Created []any  `json:"created"`
}

// ExecutionSummary is the terminal payload of one execution pass.
type ExecutionSummary struct {
	Success bool              `json:"success"`
	Results []ExecutionResult `json:"results"`
	Errors  []ExecutionError  `json:"errors,omitempty"`
}
