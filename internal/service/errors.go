package service

import "errors"

var (
	ErrIDRequired     = errors.New("id is required")
	ErrNotFound       = errors.New("not found")
	ErrNameRequired   = errors.New("name is required")
	ErrInvalidStatus  = errors.New("invalid document status")
	ErrNoAttachment   = errors.New("document has no attached file")
	ErrInvalidDataURI = errors.New("invalid data URI")
)
