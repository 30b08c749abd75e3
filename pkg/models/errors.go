package models

import (
	"errors"
	"fmt"
)

// ErrorResponse is the wire shape for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

/* BadRequestError */

var ErrBadRequest = errors.New("bad request")

type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func (*BadRequestError) Unwrap() error {
	return ErrBadRequest
}

func NewBadRequestError(message string) error {
	return &BadRequestError{Message: message}
}

/* InvalidParamError */

var ErrInvalidParam = errors.New("invalid parameter")

type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

func (*InvalidParamError) Unwrap() error {
	return ErrInvalidParam
}

func NewInvalidParamError(format string, args ...any) error {
	return &InvalidParamError{Message: fmt.Sprintf(format, args...)}
}
