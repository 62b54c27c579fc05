package quiz

import (
	"errors"

	"quiz-data-client/pkg/httpclient"
)

// User-facing messages. Every operation failure carries exactly one of these.
const (
	MsgTimeout        = "Request timeout. Please check your connection and try again."
	MsgOffline        = "No internet connection. Please check your network and try again."
	MsgLoadQuizzes    = "Failed to load quizzes. Please try again later."
	MsgLoadQuiz       = "Failed to load quiz. Please try again later."
	MsgCreateQuiz     = "Failed to create quiz. Please try again later."
	MsgSaveQuiz       = "Failed to save quiz. Please try again later."
	MsgAddQuestion    = "Failed to add question. Please try again later."
	MsgUpdateQuestion = "Failed to update question. Please try again later."
	MsgDeleteQuestion = "Failed to delete question. Please try again later."
	MsgSaveAttempt    = "Failed to save attempt. Please try again later."
	MsgLoadAttempts   = "Failed to load attempts. Please try again later."
	MsgClearAttempts  = "Failed to clear attempts. Please try again later."
)

//nolint:staticcheck // shown to users verbatim
var ErrQuestionNotFound = errors.New("Question not found")

// Error is what every Service operation returns on failure. Error() is the
// fixed user-facing message; the underlying cause stays reachable through
// errors.Is and errors.As.
type Error struct {
	Op      string
	Kind    httpclient.Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a failure caused by the request timeout.
func IsTimeout(err error) bool {
	return httpclient.KindOf(err) == httpclient.KindTimeout
}
