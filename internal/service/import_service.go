package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

// dueAtLayouts are accepted due_at formats, tried in order. The primary
// layout matches the documented CSV contract (YYYY-MM-DD HH:MM).
var dueAtLayouts = []string{
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02",
}

// ImportErrors aggregates per-row validation failures. A non-empty value
// means the import was rejected as a whole and nothing was written.
type ImportErrors []string

func (e ImportErrors) Error() string {
	return strings.Join(e, "\n")
}

// ImportService loads events from a CSV file. Expected columns:
// title, description, due_at (YYYY-MM-DD HH:MM),
// reminders_minutes_before (comma-separated integers, e.g. "1440,60"),
// labels (semicolon-separated names).
type ImportService struct {
	users  *repository.UserRepository
	events *repository.EventRepository
	labels *repository.LabelRepository
	loc    *time.Location
}

func NewImportService(users *repository.UserRepository, events *repository.EventRepository, labels *repository.LabelRepository, loc *time.Location) *ImportService {
	return &ImportService{users: users, events: events, labels: labels, loc: loc}
}

type importRow struct {
	title       string
	description string
	dueAt       time.Time
	offsets     []int
	labelNames  []string
}

// Import reads the CSV, validates every row, and only then creates events
// with their labels and reminders in a single transaction. If any row is
// invalid the whole import is rejected: the returned error is an
// ImportErrors listing every failing row, and no records are written.
// On success it returns the number of events created.
func (s *ImportService) Import(ctx context.Context, userEmail string, r io.Reader) (int, error) {
	user, err := s.users.FindByEmail(ctx, userEmail)
	if err != nil {
		return 0, fmt.Errorf("no user found with email %s: %w", userEmail, err)
	}

	rows, rowErrs, err := s.parse(r)
	if err != nil {
		return 0, err
	}
	if len(rowErrs) > 0 {
		return 0, rowErrs
	}

	events := make([]*model.Event, 0, len(rows))
	for _, row := range rows {
		labels := make([]model.Label, 0, len(row.labelNames))
		for _, name := range row.labelNames {
			label, err := s.labels.GetOrCreate(ctx, user.ID, name)
			if err != nil {
				return 0, err
			}
			labels = append(labels, *label)
		}
		events = append(events, &model.Event{
			UserID:      user.ID,
			Title:       row.title,
			Description: row.description,
			DueAt:       row.dueAt,
			Status:      model.StatusOpen,
			Labels:      labels,
			Reminders:   BuildReminders(row.dueAt, row.offsets),
		})
	}

	if err := s.events.CreateAll(ctx, events); err != nil {
		return 0, err
	}
	return len(events), nil
}

func (s *ImportService) parse(r io.Reader) ([]importRow, ImportErrors, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := columns["title"]; !ok {
		return nil, nil, fmt.Errorf("csv is missing a title column")
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []importRow
	var rowErrs ImportErrors
	// Row numbers start at 2, counting the header line.
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: %v", line, err))
			continue
		}

		row := importRow{
			title:       field(record, "title"),
			description: field(record, "description"),
		}
		if row.title == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: missing title", line))
			continue
		}

		dueRaw := field(record, "due_at")
		dueAt, err := parseDueAt(dueRaw, s.loc)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid due_at %q", line, dueRaw))
			continue
		}
		row.dueAt = dueAt

		offsetsRaw := field(record, "reminders_minutes_before")
		offsets, err := ParseOffsets(offsetsRaw)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: invalid reminders_minutes_before %q (%v)", line, offsetsRaw, err))
			continue
		}
		row.offsets = offsets

		if labelsRaw := field(record, "labels"); labelsRaw != "" {
			for _, name := range strings.Split(labelsRaw, ";") {
				if name = strings.TrimSpace(name); name != "" {
					row.labelNames = append(row.labelNames, name)
				}
			}
		}

		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func parseDueAt(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty due_at")
	}
	for _, layout := range dueAtLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
