package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"deadline-tracker/internal/model"
)

// ParseOffsets parses a comma-separated list of minute offsets, e.g.
// "1440,60" for one day and one hour before the due time. Empty input yields
// no offsets. Any token that is not a non-negative integer fails the whole
// call, naming the offending value.
func ParseOffsets(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var offsets []int
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		minutes, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid reminder offset %q: not an integer", token)
		}
		if minutes < 0 {
			return nil, fmt.Errorf("invalid reminder offset %q: must not be negative", token)
		}
		offsets = append(offsets, minutes)
	}
	return offsets, nil
}

// BuildReminders returns one unsent email reminder per offset, each with
// send_at set to the due time minus the offset in minutes. Persistence is
// the caller's responsibility.
func BuildReminders(dueAt time.Time, offsets []int) []model.Reminder {
	reminders := make([]model.Reminder, 0, len(offsets))
	for _, minutes := range offsets {
		reminders = append(reminders, model.Reminder{
			Channel: model.ChannelEmail,
			SendAt:  dueAt.Add(-time.Duration(minutes) * time.Minute),
		})
	}
	return reminders
}
