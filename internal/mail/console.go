package mail

import "github.com/rs/zerolog"

// ConsoleMailer writes messages to the log instead of sending them. It is
// the development backend, useful before SMTP credentials are configured.
type ConsoleMailer struct {
	log zerolog.Logger
}

func NewConsoleMailer(log zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) Send(subject, body, from string, to []string) error {
	m.log.Info().
		Str("from", from).
		Strs("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail (console backend)")
	return nil
}
