package models

import (
	"math"
	"strconv"
)

// Column names of the upload format. Order matches TemplateCSV.
const (
	ColumnOwnerPrincipal = "ownerPrincipal"
	ColumnRecipientName  = "recipientName"
	ColumnInstitution    = "institution"
	ColumnCredentialType = "credentialType"
	ColumnTitle          = "title"
	ColumnMetadata       = "metadata"
)

// Columns lists every column of the upload format in template order.
var Columns = []string{
	ColumnOwnerPrincipal,
	ColumnRecipientName,
	ColumnInstitution,
	ColumnCredentialType,
	ColumnTitle,
	ColumnMetadata,
}

// RequiredColumns must be present and non-blank on every row.
var RequiredColumns = []string{
	ColumnOwnerPrincipal,
	ColumnRecipientName,
	ColumnInstitution,
	ColumnCredentialType,
	ColumnTitle,
}

// TemplateFilename is the download name of TemplateCSV.
const TemplateFilename = "credentials_template.csv"

// TemplateCSV is the downloadable example upload.
const TemplateCSV = `ownerPrincipal,recipientName,institution,credentialType,title,metadata
tasxg-7ryw7-s5kzi-2v6cw-sst2p-rwv3m-jhll4-gu3pz-hi3lr-jfc45-yqe,Ada Lovelace,MIT,transcript,BSc Computer Science,"{""gpa"": 3.9, ""honors"": ""Summa Cum Laude""}"
mnnk5-gfqmo-4omau-3uj75-wcco3-qwour-lsvsv-tmcw3-2kwze-f6orv-yqe,Alan Turing,Stanford University,certificate,Machine Learning Specialization,"{""skills"": [""Python"", ""TensorFlow""]}"
`

// Row is one parsed data line keyed by trimmed header name.
type Row struct {
	// Number is the 1-based line on which the record starts; the header is row 1.
	Number int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

// Get returns the value of column, or "" when the row has no such cell.
func (r Row) Get(column string) string {
	return r.Fields[column]
}

// Tag prefixes msg with the row number.
func (r Row) Tag(msg string) string {
	return "row " + strconv.Itoa(r.Number) + ": " + msg
}

// Result aggregates the outcome of one batch.
type Result struct {
	Total         int      `json:"total"`
	Success       int      `json:"success"`
	Failed        int      `json:"failed"`
	Errors        []string `json:"errors"`
	CredentialIDs []string `json:"credentialIds"`
}

// NewResult returns an empty result for a batch of total rows.
func NewResult(total int) *Result {
	return &Result{Total: total, Errors: []string{}, CredentialIDs: []string{}}
}

// Progress reports how many rows have been attempted.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// NewProgress computes the rounded completion percentage.
func NewProgress(completed, total int) Progress {
	percent := 100
	if total > 0 {
		percent = int(math.Round(float64(completed) * 100 / float64(total)))
	}
	return Progress{Completed: completed, Total: total, Percent: percent}
}

// ProgressFunc receives progress after every attempted row.
type ProgressFunc func(Progress)
