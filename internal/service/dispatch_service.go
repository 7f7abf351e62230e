package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"deadline-tracker/internal/mail"
	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

// DefaultBatchSize bounds how many reminders one dispatch invocation may
// process. A backlog beyond the cap stays pending and is picked up on the
// next tick, so a burst after downtime cannot monopolize the mail transport.
const DefaultBatchSize = 200

// DispatchService scans for due reminders and delivers them by email,
// marking each one sent exactly once.
type DispatchService struct {
	reminders *repository.ReminderRepository
	mailer    mail.Mailer
	from      string
	loc       *time.Location
	batchSize int
	log       zerolog.Logger

	// Guards against overlapping invocations inside one process, e.g. a
	// slow SMTP call still running when the next scheduler tick fires.
	// Cross-process exclusion needs an external lease and is not provided.
	running sync.Mutex
}

func NewDispatchService(reminders *repository.ReminderRepository, mailer mail.Mailer, from string, loc *time.Location, batchSize int, log zerolog.Logger) *DispatchService {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &DispatchService{
		reminders: reminders,
		mailer:    mailer,
		from:      from,
		loc:       loc,
		batchSize: batchSize,
		log:       log,
	}
}

// SendDueReminders sends all unsent reminders whose send time has passed,
// up to the batch cap, and returns how many were sent.
//
// Reminders are processed strictly in send_at order. A reminder whose owner
// has no email address is skipped and stays pending. Each successful send is
// persisted immediately, so a crash mid-run leaves only the unprocessed
// remainder pending. A transport failure aborts the rest of the batch;
// reminders already marked sent in the same run stay sent.
func (s *DispatchService) SendDueReminders(ctx context.Context, now time.Time) (int, error) {
	if !s.running.TryLock() {
		s.log.Debug().Msg("dispatch already running, skipping tick")
		return 0, nil
	}
	defer s.running.Unlock()

	due, err := s.reminders.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		reminder := &due[i]
		owner := reminder.Event.User
		if owner.Email == "" {
			s.log.Warn().
				Uint("reminder_id", reminder.ID).
				Uint("event_id", reminder.EventID).
				Str("owner", owner.Username).
				Msg("owner has no email address, reminder stays pending")
			continue
		}

		subject, body := s.render(&reminder.Event)
		if err := s.mailer.Send(subject, body, s.from, []string{owner.Email}); err != nil {
			return sent, fmt.Errorf("send reminder %d: %w", reminder.ID, err)
		}
		if err := s.reminders.MarkSent(ctx, reminder, now); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *DispatchService) render(event *model.Event) (subject, body string) {
	due := event.DueAt.In(s.loc)
	subject = fmt.Sprintf("Reminder: %s (due %s)", event.Title, due.Format("2006-01-02 15:04"))

	description := event.Description
	if description == "" {
		description = "No description."
	}
	paragraphs := []string{description}

	if len(event.Labels) > 0 {
		names := make([]string, len(event.Labels))
		for i, label := range event.Labels {
			names[i] = label.Name
		}
		paragraphs = append(paragraphs, "Labels: "+strings.Join(names, ", "))
	}

	paragraphs = append(paragraphs, "Due: "+due.Format(time.RFC3339))
	paragraphs = append(paragraphs, "Event owner: "+event.User.Username)

	return subject, strings.Join(paragraphs, "\n\n")
}
