package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExercise means the requested exercise does not exist or is
	// not a quiz-type exercise.
	ErrInvalidExercise = errors.New("exercise not found or not a quiz exercise")

	// ErrNoCompletedExercise means the student has not completed any
	// exercise in the course yet, so there is no reference point to scope
	// the quiz from.
	ErrNoCompletedExercise = errors.New("no completed exercise in this course")

	// ErrMissingCategory means a chapter quiz was requested but the
	// reference exercise has no category assigned. Well-formed course data
	// never triggers this.
	ErrMissingCategory = errors.New("reference exercise has no category")
)

// NoQuestionsError means the resolved scope matched zero questions. Scope
// names what was searched so the caller can tell the instructor what to fix.
type NoQuestionsError struct {
	Scope string
}

func (e *NoQuestionsError) Error() string {
	return fmt.Sprintf("no quiz questions available for %s", e.Scope)
}

// PersistenceError wraps a failed attempt write. When it is returned no
// questions are handed to the caller.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("create quiz attempt: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
