package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credhub/internal/ingestion/models"
	"credhub/internal/ingestion/parser"
	dErrors "credhub/pkg/domain-errors"
	"credhub/pkg/platform/httputil"
	"credhub/pkg/testutil"
)

func validRow() models.Row {
	return models.Row{Number: 2, Fields: map[string]string{
		models.ColumnOwnerPrincipal: testutil.Principals.Alice.String(),
		models.ColumnRecipientName:  "Ada Lovelace",
		models.ColumnInstitution:    "MIT",
		models.ColumnCredentialType: "certificate",
		models.ColumnTitle:          "BSc",
		models.ColumnMetadata:       "",
	}}
}

func withField(row models.Row, field, value string) models.Row {
	fields := make(map[string]string, len(row.Fields))
	for k, v := range row.Fields {
		fields[k] = v
	}
	fields[field] = value
	row.Fields = fields
	return row
}

func TestValidateRow(t *testing.T) {
	tests := []struct {
		name string
		row  models.Row
		want []FieldError
	}{
		{
			name: "valid row without metadata",
			row:  validRow(),
		},
		{
			name: "valid row with metadata object",
			row:  withField(validRow(), models.ColumnMetadata, `{"gpa": 3.9}`),
		},
		{
			name: "anonymous principal is well formed",
			row:  withField(validRow(), models.ColumnOwnerPrincipal, testutil.Principals.Anonymous.String()),
		},
		{
			name: "missing institution",
			row:  withField(validRow(), models.ColumnInstitution, "  "),
			want: []FieldError{{Row: 2, Field: models.ColumnInstitution, Message: MessageMissing}},
		},
		{
			name: "malformed principal",
			row:  withField(validRow(), models.ColumnOwnerPrincipal, "not-a-principal"),
			want: []FieldError{{Row: 2, Field: models.ColumnOwnerPrincipal, Message: MessageInvalid}},
		},
		{
			name: "invalid metadata JSON",
			row:  withField(validRow(), models.ColumnMetadata, `{"gpa": }`),
			want: []FieldError{{Row: 2, Field: models.ColumnMetadata, Message: MessageInvalidJSON}},
		},
		{
			name: "every required field missing",
			row:  models.Row{Number: 7, Fields: map[string]string{}},
			want: []FieldError{
				{Row: 7, Field: models.ColumnOwnerPrincipal, Message: MessageMissing},
				{Row: 7, Field: models.ColumnRecipientName, Message: MessageMissing},
				{Row: 7, Field: models.ColumnInstitution, Message: MessageMissing},
				{Row: 7, Field: models.ColumnCredentialType, Message: MessageMissing},
				{Row: 7, Field: models.ColumnTitle, Message: MessageMissing},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateRow(tt.row)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ValidateRow(tt.row), "validation must be idempotent")
		})
	}
}

func TestFieldErrorMessage(t *testing.T) {
	err := FieldError{Row: 3, Field: models.ColumnTitle, Message: MessageMissing}
	assert.Equal(t, "row 3: title: missing required field", err.Error())
}

func TestValidateBatch(t *testing.T) {
	t.Run("one row missing institution yields one error", func(t *testing.T) {
		rows, err := parser.ParseCSV(testutil.CSV(
			testutil.CSVLine(testutil.Principals.Alice, "First"),
			testutil.Principals.Bob.String()+",Alan Turing,,badge,Second,",
		))
		require.NoError(t, err)

		errs := ValidateBatch(rows)

		require.Len(t, errs, 1)
		assert.Equal(t, FieldError{Row: 3, Field: models.ColumnInstitution, Message: MessageMissing}, errs[0])
	})

	t.Run("valid batch", func(t *testing.T) {
		rows, err := parser.ParseCSV(models.TemplateCSV)
		require.NoError(t, err)

		errs := ValidateBatch(rows)

		assert.Empty(t, errs)
		assert.NoError(t, errs.Err())
	})
}

func TestErrorsErr(t *testing.T) {
	errs := Errors{
		{Row: 2, Field: models.ColumnTitle, Message: MessageMissing},
		{Row: 4, Field: models.ColumnMetadata, Message: MessageInvalidJSON},
	}

	err := errs.Err()

	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, "2 fields failed validation", err.Error())

	var detailer httputil.Detailer
	require.True(t, errors.As(err, &detailer))
	assert.Equal(t, []string{
		"row 2: title: missing required field",
		"row 4: metadata: invalid JSON",
	}, detailer.Details())

	var unwrapped Errors
	require.True(t, errors.As(err, &unwrapped))
	assert.Len(t, unwrapped, 2)
}
