package report

import "errors"

var (
	ErrInvalidMonth      = errors.New("month must be in YYYY-MM format")
	ErrInvalidFormat     = errors.New("format must be csv or pdf")
	ErrStoreAccessDenied = errors.New("no access to the specified store")
)
