// Package export serializes roster records into a downloadable CSV file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crewdash/crewdash/internal/roster"
)

// header is the fixed column order of every export.
var header = [4]string{"Name", "Email", "City", "Company"}

// Result reports what an export produced.
type Result struct {
	// Path is the written file, empty when nothing was exported.
	Path string

	// Written is the number of data rows (excluding the header).
	Written int

	// Message is the user-facing status line.
	Message string
}

// quote encloses a field in double quotes, doubling internal quotes.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// Render builds the CSV content for entries: a header row followed by one
// row per record, so N records yield N+1 rows. Every row, the last
// included, is newline-terminated. Absent City/Company become empty
// fields, not the display placeholder. Order is preserved 1:1 from the
// input.
func Render(entries roster.Roster) []byte {
	var b strings.Builder
	b.Grow(64 * (len(entries) + 1))

	writeRow := func(fields [4]string) {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(f))
		}
		b.WriteByte('\n')
	}

	writeRow(header)
	for _, p := range entries {
		writeRow([4]string{p.Name, p.Email, p.City, p.Company})
	}
	return []byte(b.String())
}

// Filename returns the date-stamped export file name for the given instant.
func Filename(now time.Time) string {
	return fmt.Sprintf("roster-export-%s.csv", now.Format("2006-01-02"))
}

// Write exports entries as a CSV file in dir, named after the current date.
// label names the view being exported ("filtered" or "full") and appears in
// the status message.
//
// An empty entries sequence is not an error: no file is produced and the
// result carries a "nothing to export" status.
func Write(entries roster.Roster, label, dir string) (Result, error) {
	return WriteAt(entries, label, dir, time.Now())
}

// WriteAt is Write with an explicit clock, for tests.
func WriteAt(entries roster.Roster, label, dir string, now time.Time) (Result, error) {
	if len(entries) == 0 {
		return Result{Message: "Nothing to export."}, nil
	}

	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, Render(entries), 0o600); err != nil {
		return Result{}, fmt.Errorf("writing export file: %w", err)
	}

	return Result{
		Path:    path,
		Written: len(entries),
		Message: fmt.Sprintf("Exported %d records (%s view) to %s.", len(entries), label, path),
	}, nil
}
