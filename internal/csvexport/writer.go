package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pagehistory/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Version ID",
	"Version Date",
	"Action",
	"Author ID",
	"Author Name",
	"Approved",
	"Before",
	"After",
}

// Writer wraps csv.Writer for exporting trails as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteEntries converts trail entries to CSV rows and writes them in order.
func (w *Writer) WriteEntries(entries []domain.TrailEntry) error {
	for i := range entries {
		if err := w.csv.Write(entryToRow(&entries[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func entryToRow(e *domain.TrailEntry) []string {
	return []string{
		strconv.FormatInt(e.VersionID, 10),
		e.VersionDate.UTC().Format(time.RFC3339),
		string(e.ActionType),
		strconv.FormatInt(e.AuthorID, 10),
		e.AuthorName,
		formatBool(e.AdminApproval),
		formatOptional(e.ValueBefore),
		formatOptional(e.ValueAfter),
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatOptional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a page path for use as a file name. Replaces
// non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns the export file name for a page's trail.
// Format: {sanitized_path}_history_{YYYY-MM-DD}.csv
func BuildFilename(pagePath string, now time.Time) string {
	return fmt.Sprintf("%s_history_%s.csv", SanitizeFilename(pagePath), now.Format("2006-01-02"))
}
