package eazybi

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Issue is a single completed work item from an eazyBI kanban export.
type Issue struct {
	Project     string
	CompletedAt time.Time
	Key         string
	Cycletime   float64
}

// ReportURL builds the CSV export URL for an eazyBI report.
func ReportURL(accountNumber, reportNumber int, token string) string {
	return "https://aod.eazybi.com/accounts/" + strconv.Itoa(accountNumber) +
		"/export/report/" + strconv.Itoa(reportNumber) +
		"-api-export.csv?embed_token=" + token
}

// dateLayouts covers the formats eazyBI uses for its "Time" column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseReport reads an eazyBI CSV export into issues. Columns are mapped
// positionally (project, time, issue, cycletime); whatever header names the
// report carries are ignored. A header-only or empty export yields no issues
// and no error.
func ParseReport(r io.Reader) ([]Issue, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	issues := make([]Issue, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2 // 1-based, after the header
		if len(rec) < 4 {
			return nil, fmt.Errorf("line %d: expected 4 columns, got %d", line, len(rec))
		}

		completedAt, err := parseDate(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		cycletime, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid cycletime %q", line, rec[3])
		}
		if cycletime < 0 {
			return nil, fmt.Errorf("line %d: negative cycletime %v", line, cycletime)
		}

		issues = append(issues, Issue{
			Project:     rec[0],
			CompletedAt: completedAt,
			Key:         rec[2],
			Cycletime:   cycletime,
		})
	}

	return issues, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
