package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the lifecycle state of a Document. Deletion is logical: a deleted
// document stays in storage and can be reactivated.
type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDeleted
}

// DateLayout is the calendar date format used for CreationDate.
const DateLayout = "2006-01-02"

// Document represents a stored file together with its descriptive metadata.
// FileContent carries the file bytes as a data URI (MIME type + base64 payload).
// JSON names follow the persisted layout of the "documents" key.
type Document struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DocumentTypeID string `json:"documentTypeId"`
	CreationDate   string `json:"creationDate"`
	FileContent    string `json:"fileContent"`
	FileName       string `json:"fileName"`
	FileType       string `json:"fileType"`
	Description    string `json:"description"`
	Status         Status `json:"status"`
}

// UnmarshalJSON reads every field leniently: numbers and booleans stored by
// older clients (a numeric documentTypeId, for instance) become their text.
func (d *Document) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	*d = Document{
		ID:             looseString(raw["id"]),
		Name:           looseString(raw["name"]),
		DocumentTypeID: looseString(raw["documentTypeId"]),
		CreationDate:   looseString(raw["creationDate"]),
		FileContent:    looseString(raw["fileContent"]),
		FileName:       looseString(raw["fileName"]),
		FileType:       looseString(raw["fileType"]),
		Description:    looseString(raw["description"]),
		Status:         Status(looseString(raw["status"])),
	}
	return nil
}

// DocumentInput holds the caller-supplied fields of a new document.
// ID and Status are assigned by the create use-case.
type DocumentInput struct {
	Name           string `json:"name"`
	DocumentTypeID string `json:"documentTypeId"`
	CreationDate   string `json:"creationDate"`
	FileContent    string `json:"fileContent"`
	FileName       string `json:"fileName"`
	FileType       string `json:"fileType"`
	Description    string `json:"description"`
}

// ErrMissingField is wrapped by validation errors for required fields.
var ErrMissingField = errors.New("required field missing")

// FieldError names the first required field that was left empty.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string { return e.Field + " is required" }

func (e *FieldError) Unwrap() error { return ErrMissingField }

// Validate checks the fields a new document must carry.
// CreationDate may be empty; the create use-case fills it with today's date.
func (in DocumentInput) Validate() error {
	switch {
	case in.Name == "":
		return &FieldError{Field: "name"}
	case in.DocumentTypeID == "":
		return &FieldError{Field: "documentTypeId"}
	case in.Description == "":
		return &FieldError{Field: "description"}
	case in.FileContent == "":
		return &FieldError{Field: "fileContent"}
	}
	return nil
}

// Validate checks an existing document before it is updated.
// The attachment is optional on update, the status must be a known value.
func (d Document) Validate() error {
	switch {
	case d.ID == "":
		return &FieldError{Field: "id"}
	case d.Name == "":
		return &FieldError{Field: "name"}
	case d.DocumentTypeID == "":
		return &FieldError{Field: "documentTypeId"}
	case d.CreationDate == "":
		return &FieldError{Field: "creationDate"}
	case d.Description == "":
		return &FieldError{Field: "description"}
	case !d.Status.Valid():
		return &FieldError{Field: "status"}
	}
	return nil
}

// DocumentView is a document enriched with the display name of its type.
type DocumentView struct {
	Document
	DocumentTypeName string `json:"documentTypeName"`
}
