package attendance

import "errors"

var (
	ErrRecordNotFound         = errors.New("attendance record not found")
	ErrRecordAlreadyExists    = errors.New("attendance record already exists for this employee and date")
	ErrInvalidClock           = errors.New("invalid time of day")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidBreakMinutes    = errors.New("invalid break minutes")
	ErrFileRequired           = errors.New("csv file is required")
	ErrFileTooLarge           = errors.New("csv file exceeds the size limit")
	ErrTooManyRows            = errors.New("csv file exceeds the row limit")
	ErrMissingRequiredColumns = errors.New("csv file is missing required columns")
	ErrMalformedCSV           = errors.New("csv file could not be parsed")
	ErrStoreAccessDenied      = errors.New("no access to the specified store")
)
