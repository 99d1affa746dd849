package provisioning

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Backend results (populated by the backend phase)
	BucketCreated bool

	// Engine results (populated by deploy phases)
	Preview *OperationResult
	Up      *OperationResult
	Refresh *OperationResult

	// Outputs of the last operation that produced them
	Outputs map[string]any
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		Outputs: make(map[string]any),
	}
}

// HasChanges reports whether the preview found anything to change.
func (s *State) HasChanges() bool {
	if s.Preview == nil {
		return true
	}
	for op, n := range s.Preview.Changes {
		if op != "same" && n > 0 {
			return true
		}
	}
	return false
}
