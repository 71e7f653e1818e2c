package domain

import "errors"

var (
	ErrValidation    = errors.New("invalid submission")
	ErrEmptyOption   = validationError("please choose an option")
	ErrInvalidOption = validationError("invalid option for this survey")
	ErrAlreadyVoted  = validationError("visitor has already voted")
	ErrInvalidToken  = validationError("invalid form token")

	ErrInvalidSurvey = errors.New("invalid survey definition")

	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrLockFailure        = errors.New("could not lock vote store")
	ErrIO                 = errors.New("vote store i/o error")
)

type validationErr struct {
	msg string
}

func validationError(msg string) error {
	return &validationErr{msg: msg}
}

func (e *validationErr) Error() string { return e.msg }

// Is makes every validation error match ErrValidation.
func (e *validationErr) Is(target error) bool {
	return target == ErrValidation
}

// IsStorageError reports whether err is one of the infrastructure failures
// raised while persisting a vote.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrLockFailure) ||
		errors.Is(err, ErrIO)
}
