package volunteer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput marks validation failures on applicant-supplied fields.
var ErrInvalidInput = errors.New("invalid application")

// Volunteer is an application to volunteer, moving through a review workflow.
type Volunteer struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	Age             int        `json:"age"`
	Occupation      *string    `json:"occupation"`
	Skills          string     `json:"skills"`
	Interests       []string   `json:"interests"`
	Availability    []string   `json:"availability"`
	PreferredTime   Time       `json:"preferred_time"`
	CommitmentLevel Commitment `json:"commitment_level"`
	Motivation      string     `json:"motivation"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Time string

const (
	TimeMornings   Time = "mornings"
	TimeAfternoons Time = "afternoons"
	TimeEvenings   Time = "evenings"
	TimeAnytime    Time = "anytime"
)

type Commitment string

const (
	CommitmentOccasional Commitment = "occasional"
	CommitmentWeekly     Commitment = "weekly"
	CommitmentRegular    Commitment = "regular"
	CommitmentFullTime   Commitment = "full_time"
)

// New builds a pending application with validation.
func New(name, email, phone string, age int, skills, motivation string, commitment Commitment) (*Volunteer, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	if age < 16 {
		return nil, fmt.Errorf("%w: volunteers must be at least 16 years old", ErrInvalidInput)
	}
	if strings.TrimSpace(skills) == "" {
		return nil, fmt.Errorf("%w: skills are required", ErrInvalidInput)
	}
	if strings.TrimSpace(motivation) == "" {
		return nil, fmt.Errorf("%w: motivation is required", ErrInvalidInput)
	}
	if !validCommitment(commitment) {
		return nil, fmt.Errorf("%w: unknown commitment level %q", ErrInvalidInput, commitment)
	}
	now := time.Now()
	return &Volunteer{
		Name:            name,
		Email:           email,
		Phone:           strings.TrimSpace(phone),
		Age:             age,
		Skills:          skills,
		Motivation:      motivation,
		PreferredTime:   TimeAnytime,
		CommitmentLevel: commitment,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Review moves a pending application to approved or rejected. Other
// transitions are handled by activation below.
func (v *Volunteer) Review(approve bool) error {
	if v.Status != StatusPending {
		return fmt.Errorf("application %d is already %s", v.ID, v.Status)
	}
	if approve {
		v.Status = StatusApproved
	} else {
		v.Status = StatusRejected
	}
	v.UpdatedAt = time.Now()
	return nil
}

// SetActive toggles an approved volunteer between active and inactive.
func (v *Volunteer) SetActive(active bool) error {
	switch v.Status {
	case StatusApproved, StatusActive, StatusInactive:
	default:
		return fmt.Errorf("volunteer %d must be approved first (is %s)", v.ID, v.Status)
	}
	if active {
		v.Status = StatusActive
	} else {
		v.Status = StatusInactive
	}
	v.UpdatedAt = time.Now()
	return nil
}

func validCommitment(c Commitment) bool {
	switch c {
	case CommitmentOccasional, CommitmentWeekly, CommitmentRegular, CommitmentFullTime:
		return true
	}
	return false
}
