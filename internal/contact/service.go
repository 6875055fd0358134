package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Zachkp/devfolio/internal/store"
)

// Outcome is the terminal result of one submission attempt.
type Outcome int

const (
	Invalid Outcome = iota
	Delivered
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "invalid"
	case Delivered:
		return "delivered"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

const (
	msgInvalid   = "Please fill in all required fields."
	msgDelivered = "Thank you for your message! I'll get back to you soon."
	msgFailed    = "Sorry, there was an error sending your message. Please try again later."
)

// Notification is the single message shown to the visitor after submitting.
type Notification struct {
	Outcome Outcome
	Message string
	Missing []string
	// Form holds the values to re-render. It is empty after a delivery.
	Form Submission
}

// Inbox records submissions. *store.Store satisfies it.
type Inbox interface {
	SaveMessage(ctx context.Context, m store.Message) (store.Message, error)
	MarkMessage(ctx context.Context, id string, status store.MessageStatus) error
}

type Service struct {
	relay  Relay
	inbox  Inbox
	logger *zap.Logger
}

// NewService wires a relay and an optional inbox.
func NewService(relay Relay, inbox Inbox, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{relay: relay, inbox: inbox, logger: logger}
}

// Submit validates sub and, if valid, hands it to the relay. It always
// returns exactly one notification.
func (s *Service) Submit(ctx context.Context, sub Submission) Notification {
	sub = sub.Normalize()

	if err := Validate(sub); err != nil {
		n := Notification{Outcome: Invalid, Message: msgInvalid, Form: sub}
		var verr *ValidationError
		if errors.As(err, &verr) {
			n.Missing = verr.Missing()
			if len(n.Missing) == 0 {
				n.Message = "Please shorten your message: " + fieldList(verr.Fields) + "."
			}
		}
		s.logger.Debug("contact submission rejected", zap.Error(err))
		return n
	}

	id := s.record(ctx, sub)

	if err := s.relay.Send(ctx, sub); err != nil {
		s.logger.Error("contact relay failed", zap.Error(err), zap.String("email", sub.Email))
		s.mark(ctx, id, store.StatusFailed)
		return Notification{Outcome: Failed, Message: msgFailed, Form: sub}
	}

	s.logger.Info("contact message delivered", zap.String("name", sub.Name), zap.String("email", sub.Email))
	s.mark(ctx, id, store.StatusDelivered)
	return Notification{Outcome: Delivered, Message: msgDelivered}
}

func (s *Service) record(ctx context.Context, sub Submission) string {
	if s.inbox == nil {
		return ""
	}
	m, err := s.inbox.SaveMessage(ctx, store.Message{
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Body:    sub.Message,
	})
	if err != nil {
		s.logger.Warn("could not record contact message", zap.Error(err))
		return ""
	}
	return m.ID
}

func (s *Service) mark(ctx context.Context, id string, status store.MessageStatus) {
	if s.inbox == nil || id == "" {
		return
	}
	if err := s.inbox.MarkMessage(ctx, id, status); err != nil {
		s.logger.Warn("could not update contact message", zap.String("id", id), zap.Error(err))
	}
}

func fieldList(fields []FieldError) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Field
	}
	return strings.Join(names, ", ")
}
