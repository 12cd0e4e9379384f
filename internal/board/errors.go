package board

import "errors"

var (
	ErrEmptyText        = errors.New("text is empty")
	ErrQuestionNotFound = errors.New("question not found")
	ErrNotUnresolved    = errors.New("question is not unresolved")
	ErrAnswerNotFound   = errors.New("answer not found")
)

// ValidationError reports missing or malformed input, including a
// constructive operation that names a target which does not exist.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StateError reports a well-formed request that the current record state
// does not allow.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	if e == nil {
		return ""
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *StateError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsState(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}
