package mail

import "context"

// Message is a single HTML email to one recipient
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Mailer delivers one message or fails
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
