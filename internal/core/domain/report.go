package domain

// LevelReport is the breakdown of one marginality level.
// All slices are sorted and never nil.
type LevelReport struct {
	Missing     []string `json:"missing"`
	Implemented []string `json:"implemented"`
	Error       []string `json:"error"`
}

// NewLevelReport returns a report with empty, non-nil lists.
func NewLevelReport() LevelReport {
	return LevelReport{
		Missing:     []string{},
		Implemented: []string{},
		Error:       []string{},
	}
}

// CompletenessReport reconciles a document against a marginality list.
type CompletenessReport struct {
	ProfileName    string `json:"profile_name"`
	ProfileVersion string `json:"profile_version"`

	Minimum     LevelReport `json:"minimum"`
	Recommended LevelReport `json:"recommended"`
	Optional    LevelReport `json:"optional"`

	// Valid is true iff the Minimum level has nothing missing or errored.
	Valid bool `json:"valid"`

	// ExtraProperties are present properties the profile does not list.
	ExtraProperties []string `json:"extra_properties"`

	// ErrorMessages are the formatted structural messages.
	ErrorMessages []string `json:"error_messages"`
}

// Level returns the report for a level.
func (r *CompletenessReport) Level(l Level) LevelReport {
	switch l {
	case LevelMinimum:
		return r.Minimum
	case LevelRecommended:
		return r.Recommended
	case LevelOptional:
		return r.Optional
	default:
		return NewLevelReport()
	}
}

// SetLevel stores the report for a level.
func (r *CompletenessReport) SetLevel(l Level, lr LevelReport) {
	switch l {
	case LevelMinimum:
		r.Minimum = lr
	case LevelRecommended:
		r.Recommended = lr
	case LevelOptional:
		r.Optional = lr
	}
}
