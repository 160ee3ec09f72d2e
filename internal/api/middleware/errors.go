package middleware

import (
	"errors"

	"github.com/emicklei/go-restful/v3"
)

var (
	ErrEmptyCSV       = errors.New("csv must not be empty")
	ErrInvalidLimit   = errors.New("limit must be a positive integer")
	ErrStoreDisabled  = errors.New("report store is not configured")
	ErrInternalServer = errors.New("internal server error")
)

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

// HandleError writes err as an ErrorResponse with the given status.
func HandleError(resp *restful.Response, err error, status int) {
	body := ErrorResponse{
		Error: err.Error(),
		Code:  status,
	}
	if wrapped := errors.Unwrap(err); wrapped != nil {
		body.Details = wrapped.Error()
	}
	resp.WriteHeaderAndEntity(status, body)
}
