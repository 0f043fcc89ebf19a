package domain

// Progress summarizes an active chain for progress indicators.
type Progress struct {
	Chain       Chain       `json:"chain"`
	State       *ChainState `json:"state"`
	CurrentStep Step        `json:"currentStep"`
	Completed   int         `json:"completed"`
	Total       int         `json:"total"`
}

// NewProgress builds the progress view of state within chain.
func NewProgress(c *Chain, s *ChainState) Progress {
	step, _ := s.CurrentStep(c)
	return Progress{
		Chain:       *c,
		State:       s.Clone(),
		CurrentStep: step,
		Completed:   len(s.CompletedSlugs),
		Total:       len(c.Steps),
	}
}

// Percent returns completion as an integer percentage.
func (p Progress) Percent() int {
	if p.Total == 0 {
		return 0
	}
	return p.Completed * 100 / p.Total
}

// IsLastStep reports whether the current step is the final one.
func (p Progress) IsLastStep() bool {
	return p.State != nil && p.State.CurrentStepIndex == p.Total-1
}
