package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DocumentType is a category label that documents reference by ID.
type DocumentType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnknownDocumentTypeName is shown for documents whose type no longer exists.
const UnknownDocumentTypeName = "Unknown"

// DefaultDocumentTypes is the bootstrap set written to an empty store.
func DefaultDocumentTypes() []DocumentType {
	return []DocumentType{
		{ID: "1", Name: "Factura"},
		{ID: "2", Name: "Contrato"},
		{ID: "3", Name: "Informe"},
		{ID: "4", Name: "Recibo"},
		{ID: "5", Name: "Documento"},
	}
}

// UnmarshalJSON accepts IDs and names of any JSON scalar type, as written by
// older clients, and stores them as strings.
func (dt *DocumentType) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("document type: %w", err)
	}
	dt.ID = looseString(raw["id"])
	dt.Name = looseString(raw["name"])
	return nil
}

// looseString renders a JSON value as text. Strings are unquoted, null and
// absent values become empty, anything else keeps its compact JSON form.
func looseString(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}
