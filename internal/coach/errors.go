package coach

import "errors"

// Precondition errors. Their messages are shown to the user as-is.
var (
	ErrNoTrainingHistory  = errors.New("log at least one workout before running compliance analysis")
	ErrNoCheckIns         = errors.New("log at least one progress check-in before running body-composition analysis")
	ErrInsufficientSignal = errors.New("need either two weight entries or a recent progress photo to run the evaluator")
)
