package domain

// DatePairRule requires Start to be no later than End wherever both
// properties appear on the same object.
type DatePairRule struct {
	Start string
	End   string
}

// Rule file names.
const (
	RuleFileDatePairs            = "semantic_pair_date.txt"
	RuleFileStructuralProperties = "metadata_default_properties.txt"
)
