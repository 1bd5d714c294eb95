package document

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ValidationError reports a record that failed assembly. It carries the
// server-assigned id when the record had one, so a skipped record can be
// traced back to the library.
type ValidationError struct {
	ID  string
	Err error
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid document: %v", e.Err)
	}
	return fmt.Sprintf("invalid document %s: %v", e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks the invariants the client enforces on a document: a
// well-formed url and a reading progress within [0, 1]. Fields the API may
// extend (category, location, tags) are deliberately not closed here.
func (d Document) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.URL, validation.Required, is.URL),
		validation.Field(&d.ReadingProgress, validation.Min(0.0), validation.Max(1.0)),
	)
}

// Assemble converts one raw API record into a validated Document. Unknown
// fields in the record are ignored; a missing or malformed url, or a reading
// progress outside [0, 1], yields a *ValidationError.
func Assemble(raw json.RawMessage) (Document, error) {
	var d Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return Document{}, &ValidationError{Err: fmt.Errorf("decoding record: %w", err)}
	}
	if err := d.Validate(); err != nil {
		return Document{}, &ValidationError{ID: d.ID, Err: err}
	}
	return d, nil
}
