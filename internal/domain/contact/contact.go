package contact

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput marks validation failures on sender-supplied fields.
var ErrInvalidInput = errors.New("invalid message")

// Message is an inbound enquiry from the public site.
type Message struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	Subject   string     `json:"subject"`
	Category  Category   `json:"category"`
	Body      string     `json:"message"`
	Status    Status     `json:"status"`
	RepliedAt *time.Time `json:"replied_at"`
	ReplyText *string    `json:"reply_message"`
	CreatedAt time.Time  `json:"created_at"`
}

type Category string

const (
	CategoryGeneral     Category = "general"
	CategoryDonation    Category = "donation"
	CategoryVolunteer   Category = "volunteer"
	CategoryProgram     Category = "program"
	CategorySponsorship Category = "sponsorship"
	CategoryPartnership Category = "partnership"
	CategoryOther       Category = "other"
)

type Status string

const (
	StatusNew      Status = "new"
	StatusRead     Status = "read"
	StatusReplied  Status = "replied"
	StatusArchived Status = "archived"
)

// NewMessage builds a new enquiry with validation.
func NewMessage(name, email, subject, body string, category Category) (*Message, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrInvalidInput)
	}
	if category == "" {
		category = CategoryGeneral
	}
	if !validCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}
	return &Message{
		Name:      name,
		Email:     email,
		Subject:   strings.TrimSpace(subject),
		Category:  category,
		Body:      body,
		Status:    StatusNew,
		CreatedAt: time.Now(),
	}, nil
}

// Reply records an outbound reply on the message.
func (m *Message) Reply(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("reply text is required")
	}
	now := time.Now()
	m.ReplyText = &text
	m.RepliedAt = &now
	m.Status = StatusReplied
	return nil
}

// Subscriber is a newsletter signup; the token authorizes unsubscribes.
type Subscriber struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	IsActive         bool      `json:"is_active"`
	UnsubscribeToken string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

func validCategory(c Category) bool {
	switch c {
	case CategoryGeneral, CategoryDonation, CategoryVolunteer, CategoryProgram,
		CategorySponsorship, CategoryPartnership, CategoryOther:
		return true
	}
	return false
}
