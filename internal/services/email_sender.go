package services

// EmailSender delivers plain text mail.
type EmailSender interface {
	Send(to string, subject string, body string) error
}
