package portfolio

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/nikogura/portfolio-client/pkg/api"
)

// ServerError is a response that arrived but reports failure: a non-2xx status or an
// envelope with success false.
type ServerError struct {
	StatusCode int
	Detail     string
	Message    string
}

func (e *ServerError) Error() (msg string) {
	msg = e.Message
	if msg == "" && e.StatusCode != 0 {
		msg = "Request failed with status code " + strconv.Itoa(e.StatusCode)
	}
	if msg == "" {
		msg = DefaultAPIErrorMessage
	}
	return msg
}

// ValidationError means required contact form fields were missing. It is raised before any
// network call.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() (msg string) {
	msg = "Please fill in all required fields."
	if len(e.Fields) > 0 {
		msg += " Missing: " + strings.Join(e.Fields, ", ")
	}
	return msg
}

// newServerError builds a ServerError for a non-2xx response, pulling the server's detail
// out of the body when there is one.
func newServerError(resp *api.Response) (err *ServerError) {
	err = &ServerError{
		StatusCode: resp.StatusCode,
		Detail:     detailFromBody(resp.Body),
		Message:    "Request failed with status code " + strconv.Itoa(resp.StatusCode),
	}
	return err
}

// detailFromBody extracts a human-readable failure reason. FastAPI-style bodies put it in
// "detail", either a string or a list of {msg} objects; envelopes use "error" or "message".
func detailFromBody(body []byte) (detail string) {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return detail
	}

	result := gjson.GetBytes(body, "detail")
	switch {
	case result.Type == gjson.String:
		detail = result.String()
	case result.IsArray():
		detail = result.Get("0.msg").String()
	}
	if detail != "" {
		return detail
	}

	for _, key := range []string{"error", "message"} {
		result = gjson.GetBytes(body, key)
		if result.Type == gjson.String && result.String() != "" {
			detail = result.String()
			return detail
		}
	}

	return detail
}

// ErrorMessage flattens any error into display text: the server's structured detail if the
// error carries one, else the error's own message, else def.
func ErrorMessage(err error, def string) (msg string) {
	if err == nil {
		msg = def
		return msg
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Detail != "" {
		msg = serverErr.Detail
		return msg
	}

	msg = err.Error()
	if msg == "" {
		msg = def
	}

	return msg
}
