package mutate

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// ArchivedError rejects any mutation against an archived checklist.
// Archived lists are read-only until restored.
type ArchivedError struct {
	ChecklistID string
}

func (e ArchivedError) Error() string {
	return fmt.Sprintf("checklist %s is archived (restore it first)", e.ChecklistID)
}

// NotArchivedError rejects a permanent delete of an active checklist.
// Permanent delete is only reachable from the archived view.
type NotArchivedError struct {
	ChecklistID string
}

func (e NotArchivedError) Error() string {
	return fmt.Sprintf("checklist %s is not archived (archive it before deleting permanently)", e.ChecklistID)
}

// ValidationError carries a user-visible message for rejected input.
// State is never changed when one is returned.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

func errValidation(format string, args ...any) error {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}
