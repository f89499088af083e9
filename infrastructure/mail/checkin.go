package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/model"
)

// CheckInConfirmation is the message sent to a batchmate after a QR check-in.
func CheckInConfirmation(b *model.Batchmate, e *model.Event) *Message {
	name := b.CallingName
	if name == "" {
		name = b.FullName
	}
	venue := ""
	if e.Venue != "" {
		venue = " at " + e.Venue
	}

	return &Message{
		To:      []string{b.Email},
		Subject: fmt.Sprintf("You're checked in: %s", e.Name),
		Text:    fmt.Sprintf("Hi %s,\n\nYour attendance for %s%s has been recorded.\n\nSee you there!\n", name, e.Name, venue),
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>Your attendance for <strong>%s</strong>%s has been recorded.</p><p>See you there!</p>",
			html.EscapeString(name), html.EscapeString(e.Name), html.EscapeString(venue)),
	}
}

// SendCheckInConfirmation is a no-op for batchmates without an email address.
func (m *Mailer) SendCheckInConfirmation(ctx context.Context, b *model.Batchmate, e *model.Event) error {
	if b.Email == "" {
		return nil
	}
	_, err := m.Send(ctx, CheckInConfirmation(b, e))
	return err
}
