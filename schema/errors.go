package schema

import (
	"errors"
)

var (
	ErrInvalidPayID       = errors.New("err_invalid_payid")
	ErrUnsupportedNetwork = errors.New("err_unsupported_network")
	ErrUnknownSchema      = errors.New("err_unknown_schema")

	ErrNotFound      = errors.New("not_found")
	ErrLimitExceeded = errors.New("err_limit_exceeded")
	ErrBadStatus     = errors.New("err_bad_status")

	ErrHistoryDisabled = errors.New("err_history_disabled")
)
