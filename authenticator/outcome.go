package authenticator

import (
	"fmt"
	"net/http"
)

// OutcomeKind is the terminal state of an authentication attempt
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeFail
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFail:
		return "fail"
	case OutcomeError:
		return "error"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Info is auxiliary information attached to an outcome, usually a message for the user
type Info struct {
	Message string
	Data    map[string]any
}

// Outcome is the result of one Authenticate call.
//
// Success carries the user returned by the verify callback. Fail carries a reason and
// an HTTP status for the caller to report. Error carries the cause of an internal fault.
// Err is set on Fail when the failure has an underlying cause (transport error, provider
// error, missing code).
type Outcome struct {
	Kind       OutcomeKind
	User       any
	Info       Info
	Reason     string
	StatusCode int
	Err        error
	AttemptID  string
}

// Success builds an accepted outcome
func Success(user any, info Info) Outcome {
	return Outcome{Kind: OutcomeSuccess, User: user, Info: info, StatusCode: http.StatusOK}
}

// Fail builds a rejected outcome
func Fail(reason string, statusCode int, cause error) Outcome {
	return Outcome{
		Kind:       OutcomeFail,
		Reason:     reason,
		StatusCode: statusCode,
		Err:        cause,
		Info:       Info{Message: reason},
	}
}

// Errored builds an internal error outcome
func Errored(err error) Outcome {
	return Outcome{Kind: OutcomeError, Err: err, StatusCode: http.StatusInternalServerError}
}

func (o Outcome) Succeeded() bool { return o.Kind == OutcomeSuccess }
func (o Outcome) Failed() bool    { return o.Kind == OutcomeFail }
func (o Outcome) Errored() bool   { return o.Kind == OutcomeError }
