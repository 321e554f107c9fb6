package workflow

import "fmt"

// ResultKind tags the outcome of a confirm attempt.
type ResultKind string

const (
	ResultSuccess           ResultKind = "success"
	ResultValidationFailure ResultKind = "validationFailure"
	ResultConflict          ResultKind = "conflict"
	ResultUnknownError      ResultKind = "unknownError"
)

// Result is the submission outcome returned to the client.
type Result struct {
	Kind            ResultKind        `json:"kind"`
	RedirectTo      string            `json:"redirectTo,omitempty"`
	ToastMessage    string            `json:"toastMessage,omitempty"`
	Errors          map[string]string `json:"errors,omitempty"`
	FirstErrorField string            `json:"firstErrorField,omitempty"`
	Field           string            `json:"field,omitempty"`
	Message         string            `json:"message,omitempty"`
}

// ConflictError is returned by catalog submitters when the backing store
// rejects a unique field (duplicate account email being the known case).
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}
