package generics

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gazebo-web/gz-go/v7"
)

const (
	// StatusSuccess is the status string of a successful Result.
	StatusSuccess = "success"
	// StatusFail is the status string of a failed Result.
	StatusFail = "fail"
)

// Result is the envelope returned by every service operation. The HTTP layer
// writes StatusCode as the response status and the JSON encoding of the Result
// as the body. Payload entries are flattened next to statusCode, status and
// message, eg. {"statusCode":201,"status":"success","thread":{...}}.
type Result struct {
	StatusCode int
	Status     string
	Message    string
	Payload    map[string]interface{}
}

// Created returns a successful Result for operations that changed state.
func Created(message string) *Result {
	return &Result{StatusCode: http.StatusCreated, Status: StatusSuccess, Message: message}
}

// OK returns a successful Result for read operations.
func OK() *Result {
	return &Result{StatusCode: http.StatusOK, Status: StatusSuccess}
}

// With adds a payload entry to the result and returns it.
func (r *Result) With(key string, value interface{}) *Result {
	if r.Payload == nil {
		r.Payload = make(map[string]interface{})
	}
	r.Payload[key] = value
	return r
}

// WithPage adds the pagination metadata entry to the result.
func (r *Result) WithPage(p Page) *Result {
	return r.With("pagination", p)
}

// Fail converts an ErrMsg into a failed Result. The message is built from the
// ErrMsg description and its extra info. BaseError is never exposed.
func Fail(em *gz.ErrMsg) *Result {
	kind := KindOf(em)
	msg := em.Msg
	if len(em.Extra) > 0 {
		msg = msg + ": " + strings.Join(em.Extra, ", ")
	}
	res := &Result{
		StatusCode: kind.StatusCode(),
		Status:     StatusFail,
		Message:    msg,
	}
	return res.With("kind", kind)
}

// MarshalJSON flattens the payload into the envelope.
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Payload)+3)
	for k, v := range r.Payload {
		out[k] = v
	}
	out["statusCode"] = r.StatusCode
	out["status"] = r.Status
	if r.Message != "" {
		out["message"] = r.Message
	}
	return json.Marshal(out)
}
