package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"chartitze/internal/domain/contact"
	"chartitze/internal/mail"
)

type Store interface {
	CreateMessage(ctx context.Context, m *contact.Message) error
	GetMessage(ctx context.Context, id int64) (*contact.Message, error)
	ListMessages(ctx context.Context, status contact.Status, limit, offset int) ([]*contact.Message, error)
	UpdateMessage(ctx context.Context, m *contact.Message) error
	CreateSubscriber(ctx context.Context, sub *contact.Subscriber) error
	DeactivateSubscriberByToken(ctx context.Context, token string) error
}

type Service struct {
	store    Store
	mailer   mail.Sender
	siteName string
	siteURL  string
}

func NewService(store Store, mailer mail.Sender, siteName, siteURL string) *Service {
	return &Service{
		store:    store,
		mailer:   mailer,
		siteName: siteName,
		siteURL:  strings.TrimRight(siteURL, "/"),
	}
}

type MessageInput struct {
	Name     string
	Email    string
	Phone    string
	Subject  string
	Category contact.Category
	Message  string
}

// Submit records an enquiry and acknowledges it by email.
func (s *Service) Submit(ctx context.Context, in MessageInput) (*contact.Message, error) {
	m, err := contact.NewMessage(in.Name, in.Email, in.Subject, in.Message, in.Category)
	if err != nil {
		return nil, err
	}
	if in.Phone != "" {
		m.Phone = &in.Phone
	}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("saving message: %w", err)
	}

	s.mailer.SendAsync(m.Email,
		fmt.Sprintf("%s: we received your message", s.siteName),
		fmt.Sprintf("Dear %s,\n\nThank you for contacting %s. We will reply as soon as we can.\n\n%s",
			m.Name, s.siteName, s.siteName))
	return m, nil
}

func (s *Service) GetMessage(ctx context.Context, id int64) (*contact.Message, error) {
	return s.store.GetMessage(ctx, id)
}

func (s *Service) ListMessages(ctx context.Context, status contact.Status, limit, offset int) ([]*contact.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListMessages(ctx, status, limit, offset)
}

// MarkRead flags a new message as read.
func (s *Service) MarkRead(ctx context.Context, id int64) (*contact.Message, error) {
	m, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == contact.StatusNew {
		m.Status = contact.StatusRead
		if err := s.store.UpdateMessage(ctx, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Reply records a reply on the message and emails it to the sender.
func (s *Service) Reply(ctx context.Context, id int64, text string) (*contact.Message, error) {
	m, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.Reply(text); err != nil {
		return nil, err
	}
	if err := s.store.UpdateMessage(ctx, m); err != nil {
		return nil, err
	}
	s.mailer.SendAsync(m.Email, "Re: "+m.Subject, text)
	return m, nil
}

// Subscribe signs an address up for the newsletter. The welcome email is the
// only place the unsubscribe token reaches the subscriber.
func (s *Service) Subscribe(ctx context.Context, email string) (*contact.Subscriber, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	sub := &contact.Subscriber{
		Email:            email,
		IsActive:         true,
		UnsubscribeToken: uuid.NewString(),
	}
	if err := s.store.CreateSubscriber(ctx, sub); err != nil {
		return nil, err
	}

	unsubscribe := fmt.Sprintf("%s/newsletter/unsubscribe/%s", s.siteURL, sub.UnsubscribeToken)
	s.mailer.SendAsync(sub.Email,
		fmt.Sprintf("Welcome to the %s newsletter", s.siteName),
		fmt.Sprintf("Thank you for subscribing to the %s newsletter.\n\n"+
			"If you ever want to stop receiving it, open this link:\n%s\n\n%s",
			s.siteName, unsubscribe, s.siteName))
	return sub, nil
}

// Unsubscribe deactivates the subscription the token belongs to.
func (s *Service) Unsubscribe(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return fmt.Errorf("invalid unsubscribe token")
	}
	return s.store.DeactivateSubscriberByToken(ctx, token)
}
