package checker

import "fmt"

// ErrorKind is the stable, caller-visible class of an input error.
type ErrorKind string

const (
	KindDrugNotFound ErrorKind = "DrugNotFound"
	KindTooFewDrugs  ErrorKind = "TooFewDrugs"
	KindTooManyDrugs ErrorKind = "TooManyDrugs"
)

// CheckError is returned for caller-correctable input. No report is built when one is returned.
type CheckError struct {
	Kind    ErrorKind
	Message string
	// Drug is the first unresolved input for KindDrugNotFound
	Drug string
}

func (e *CheckError) Error() string {
	if e.Drug != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Drug)
	}
	return e.Message
}

// Is matches any CheckError of the same kind, so errors.Is(err, ErrTooFewDrugs) works
// regardless of message or drug.
func (e *CheckError) Is(target error) bool {
	t, ok := target.(*CheckError)
	return ok && t.Kind == e.Kind
}

var (
	ErrDrugNotFound = &CheckError{Kind: KindDrugNotFound, Message: "Drug not found in database"}
	ErrTooFewDrugs  = &CheckError{Kind: KindTooFewDrugs, Message: fmt.Sprintf("At least %d drugs are required", MinDrugs)}
	ErrTooManyDrugs = &CheckError{Kind: KindTooManyDrugs, Message: fmt.Sprintf("At most %d drugs are supported", MaxDrugs)}
)

func drugNotFound(raw string) *CheckError {
	return &CheckError{Kind: KindDrugNotFound, Message: ErrDrugNotFound.Message, Drug: raw}
}
