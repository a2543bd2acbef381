// Package validation holds size limits applied at the HTTP trust boundary.
package validation

import (
	"fmt"
	"unicode/utf8"

	dErrors "credhub/pkg/domain-errors"
)

// Credential field length limits, in characters.
const (
	MaxTitleLength         = 200
	MaxInstitutionLength   = 200
	MaxRecipientNameLength = 200
	MaxListItemLength      = 200
	MaxNotesLength         = 2000
)

// MaxListItems bounds metadata lists such as courses and skills.
const MaxListItems = 100

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed max characters.
func CheckStringLength(fieldName, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}

// CheckEachStringLength validates every element with CheckStringLength.
func CheckEachStringLength(fieldName string, values []string, max int) error {
	for _, v := range values {
		if err := CheckStringLength(fieldName, v, max); err != nil {
			return err
		}
	}
	return nil
}
