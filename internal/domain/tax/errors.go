package tax

import "errors"

var (
	ErrSubmissionNotFound = errors.New("tax submission not found")
	ErrTableNotFound      = errors.New("tax table not found")
)
