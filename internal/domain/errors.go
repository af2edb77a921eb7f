package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound               = errors.New("resource not found")
	ErrVersionNotFound        = errors.New("page version not found")
	ErrPageNotFound           = errors.New("page not found")
	ErrValidation             = errors.New("validation failed")
	ErrMalformedDuration      = errors.New("malformed ISO-8601 duration")
	ErrCollaboratorFailure    = errors.New("collaborator failure")
	ErrVersionAlreadyApproved = errors.New("page version already approved")
)

// StepError reports which approval step failed. Steps listed in Completed have
// already been applied and are not rolled back.
type StepError struct {
	RunID     string
	VersionID int64
	Step      string
	Completed []string
	Err       error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("approval %s of version %d failed at step %q (completed: %s): %v",
		e.RunID, e.VersionID, e.Step, strings.Join(e.Completed, ","), e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Is makes every StepError match ErrCollaboratorFailure.
func (e *StepError) Is(target error) bool {
	return target == ErrCollaboratorFailure
}
