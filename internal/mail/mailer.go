// Package mail provides the outbound notification transport used by the
// reminder dispatcher. The default backend logs messages instead of sending
// them; SMTP delivery is opt-in via configuration.
package mail

// Mailer sends a plain-text message synchronously. Implementations must
// return an error on delivery failure so the dispatcher can stop the batch.
type Mailer interface {
	Send(subject, body, from string, to []string) error
}
