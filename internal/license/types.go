package license

// Source indicates which metadata field an identifier was derived from
type Source string

const (
	SourceRawField   Source = "raw_field"
	SourceClassifier Source = "classifier"
	SourceUnknown    Source = "unknown"
)

// Unknown is the identifier assigned when no license metadata resolves
const Unknown = "UNKNOWN"

// Identifier is the canonical output of classification
type Identifier struct {
	ID          string `json:"identifier"`
	OSIApproved bool   `json:"is_osi_approved"`
	Source      Source `json:"source"`
}
