package contact

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"chartitze/internal/domain/contact"
	"chartitze/internal/store"
)

type fakeStore struct {
	messages    map[int64]*contact.Message
	subscribers []*contact.Subscriber
	deactivated []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: map[int64]*contact.Message{}}
}

func (f *fakeStore) CreateMessage(ctx context.Context, m *contact.Message) error {
	m.ID = int64(len(f.messages) + 1)
	f.messages[m.ID] = m
	return nil
}

func (f *fakeStore) GetMessage(ctx context.Context, id int64) (*contact.Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return m, nil
}

func (f *fakeStore) ListMessages(ctx context.Context, status contact.Status, limit, offset int) ([]*contact.Message, error) {
	var out []*contact.Message
	for _, m := range f.messages {
		if status == "" || m.Status == status {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateMessage(ctx context.Context, m *contact.Message) error {
	f.messages[m.ID] = m
	return nil
}

func (f *fakeStore) CreateSubscriber(ctx context.Context, sub *contact.Subscriber) error {
	sub.ID = int64(len(f.subscribers) + 1)
	f.subscribers = append(f.subscribers, sub)
	return nil
}

func (f *fakeStore) DeactivateSubscriberByToken(ctx context.Context, token string) error {
	f.deactivated = append(f.deactivated, token)
	return nil
}

type fakeMailer struct {
	to, subjects, bodies []string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.SendAsync(to, subject, body)
	return nil
}

func (m *fakeMailer) SendAsync(to, subject, body string) {
	m.to = append(m.to, to)
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
}

func TestSubmitAcknowledgesByEmail(t *testing.T) {
	fs := newFakeStore()
	mailer := &fakeMailer{}
	svc := NewService(fs, mailer, "Chartitze", "https://chartitze.org")

	m, err := svc.Submit(context.Background(), MessageInput{
		Name:    "Jane",
		Email:   "jane@example.com",
		Subject: "Sponsorship",
		Message: "How do I sponsor a child?",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if m.Status != contact.StatusNew {
		t.Fatalf("status = %s, want new", m.Status)
	}
	if len(mailer.to) != 1 || mailer.to[0] != "jane@example.com" {
		t.Fatalf("acknowledged %v, want the sender", mailer.to)
	}
}

func TestSubscribeEmailsUnsubscribeLink(t *testing.T) {
	fs := newFakeStore()
	mailer := &fakeMailer{}
	svc := NewService(fs, mailer, "Chartitze", "https://chartitze.org/")

	sub, err := svc.Subscribe(context.Background(), "Jane@Example.com")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if sub.Email != "jane@example.com" {
		t.Fatalf("email = %q, want lowercased", sub.Email)
	}
	if _, err := uuid.Parse(sub.UnsubscribeToken); err != nil {
		t.Fatalf("token %q is not a uuid: %v", sub.UnsubscribeToken, err)
	}

	if len(mailer.bodies) != 1 {
		t.Fatalf("sent %d emails, want 1", len(mailer.bodies))
	}
	want := "https://chartitze.org/newsletter/unsubscribe/" + sub.UnsubscribeToken
	if !strings.Contains(mailer.bodies[0], want) {
		t.Fatalf("welcome email %q does not carry the unsubscribe link %q", mailer.bodies[0], want)
	}
}

func TestUnsubscribeRejectsMalformedToken(t *testing.T) {
	fs := newFakeStore()
	svc := NewService(fs, &fakeMailer{}, "Chartitze", "https://chartitze.org")

	if err := svc.Unsubscribe(context.Background(), "not-a-token"); err == nil {
		t.Fatal("expected error for a malformed token")
	}
	if len(fs.deactivated) != 0 {
		t.Fatal("malformed token must not reach the store")
	}
}
