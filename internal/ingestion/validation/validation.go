// Package validation checks parsed upload rows before anything is issued.
package validation

import (
	"encoding/json"
	"strconv"
	"strings"

	"credhub/internal/ingestion/models"
	"credhub/pkg/domain"
	dErrors "credhub/pkg/domain-errors"
)

// Field error messages.
const (
	MessageMissing     = "missing required field"
	MessageInvalid     = "invalid format"
	MessageInvalidJSON = "invalid JSON"
)

// FieldError is one problem with one field of one row.
type FieldError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return "row " + strconv.Itoa(e.Row) + ": " + e.Field + ": " + e.Message
}

// Errors collects every field error of a batch in row order.
type Errors []FieldError

func (e Errors) Error() string {
	return strings.Join(e.Details(), "; ")
}

// Details lists each field error as a row-tagged message.
func (e Errors) Details() []string {
	details := make([]string, len(e))
	for i, fe := range e {
		details[i] = fe.Error()
	}
	return details
}

// Err returns nil for an empty batch, otherwise a validation_failed domain
// error wrapping e.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	msg := "1 field failed validation"
	if len(e) > 1 {
		msg = strconv.Itoa(len(e)) + " fields failed validation"
	}
	return dErrors.Wrap(e, dErrors.CodeValidation, msg)
}

// ValidateRow reports every missing or malformed field of row. It returns
// nil for a valid row.
func ValidateRow(row models.Row) []FieldError {
	var errs []FieldError
	add := func(field, msg string) {
		errs = append(errs, FieldError{Row: row.Number, Field: field, Message: msg})
	}

	for _, field := range models.RequiredColumns {
		value := strings.TrimSpace(row.Get(field))
		if value == "" {
			add(field, MessageMissing)
			continue
		}
		if field == models.ColumnOwnerPrincipal {
			if _, err := domain.ParsePrincipal(value); err != nil {
				add(field, MessageInvalid)
			}
		}
	}

	if metadata := strings.TrimSpace(row.Get(models.ColumnMetadata)); metadata != "" && !json.Valid([]byte(metadata)) {
		add(models.ColumnMetadata, MessageInvalidJSON)
	}
	return errs
}

// ValidateBatch validates every row and concatenates the results.
func ValidateBatch(rows []models.Row) Errors {
	var errs Errors
	for _, row := range rows {
		errs = append(errs, ValidateRow(row)...)
	}
	return errs
}
