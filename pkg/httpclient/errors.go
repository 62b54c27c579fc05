package httpclient

import (
	"errors"
	"fmt"
)

// Kind tags every transport failure so callers branch on it rather than on
// error text.
type Kind int

const (
	KindUnknown Kind = iota
	KindTimeout
	KindOffline
	KindNetwork
	KindCanceled
	KindHTTP
	KindDecode
	KindEncode
)

var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindTimeout:  "timeout",
	KindOffline:  "offline",
	KindNetwork:  "network",
	KindCanceled: "canceled",
	KindHTTP:     "http",
	KindDecode:   "decode",
	KindEncode:   "encode",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrTimeout is the cause recorded when the response did not arrive in time.
var ErrTimeout = errors.New("request timeout")

type Error struct {
	Kind       Kind
	Method     string
	URL        string
	StatusCode int
	// Body is the response text for KindHTTP.
	Body string
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTP {
		if e.Body != "" {
			return e.Body
		}
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// StatusOf returns the HTTP status of a KindHTTP failure, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindHTTP {
		return e.StatusCode
	}
	return 0
}
