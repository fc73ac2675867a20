package domain

// AccuracyLabel classifies whether sentiment polarity agreed with the
// realized price direction over the 60-bar window.
type AccuracyLabel string

const (
	LabelAgree    AccuracyLabel = "AGREE"
	LabelDisagree AccuracyLabel = "DISAGREE"
	// LabelNoSignal marks rows where neutral sentiment or a flat move left
	// nothing falsifiable to check. It is a distinct third state, not a miss.
	LabelNoSignal AccuracyLabel = "NO_SIGNAL"
)

// Cell returns the tabular serialization used in the output file:
// 1 for agree, 0 for disagree, empty for no signal.
func (l AccuracyLabel) Cell() string {
	switch l {
	case LabelAgree:
		return "1"
	case LabelDisagree:
		return "0"
	default:
		return ""
	}
}
