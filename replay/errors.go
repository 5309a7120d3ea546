package replay

import "fmt"

type ReplayError struct {
	StepIndex int            `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

type ExpectedState struct {
	ActionChair  uint16   `json:"action_chair"`
	LegalActions []string `json:"legal_actions,omitempty"`
	Phase        string   `json:"phase,omitempty"`
	Round        int      `json:"round"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}
