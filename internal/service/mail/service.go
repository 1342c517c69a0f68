// Package mail sends contact-form suggestions by email.
package mail

import (
	"context"
	"fmt"

	"emotionserver/internal/config"
)

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Service validates suggestions and sends them to the fixed receiver address.
type Service struct {
	from   string
	to     string
	sender Sender
}

// NewService creates a Service that sends from EMAIL_SENDER to EMAIL_RECEIVER.
func NewService(cfg *config.Config, sender Sender) *Service {
	return &Service{
		from:   cfg.EmailSender,
		to:     cfg.EmailReceiver,
		sender: sender,
	}
}

// Compose builds the email for a suggestion.
func (s *Service) Compose(sg Suggestion) Message {
	return Message{
		From:    s.from,
		To:      s.to,
		ReplyTo: replyAddress(sg.Email),
		Subject: Subject,
		Body:    sg.Body(),
	}
}

// Submit validates sg and sends exactly one email for it. Invalid
// suggestions are rejected before anything is sent.
func (s *Service) Submit(ctx context.Context, sg Suggestion) error {
	if err := sg.Validate(); err != nil {
		return err
	}
	if err := s.sender.Send(ctx, s.Compose(sg)); err != nil {
		return fmt.Errorf("send suggestion: %w", err)
	}
	return nil
}
