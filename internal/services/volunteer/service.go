package volunteer

import (
	"context"
	"fmt"

	"chartitze/internal/domain/volunteer"
	"chartitze/internal/mail"
)

type Store interface {
	Create(ctx context.Context, v *volunteer.Volunteer) error
	Get(ctx context.Context, id int64) (*volunteer.Volunteer, error)
	List(ctx context.Context, status volunteer.Status, limit, offset int) ([]*volunteer.Volunteer, error)
	Update(ctx context.Context, v *volunteer.Volunteer) error
}

type Service struct {
	volunteers Store
	mailer     mail.Sender
	siteName   string
}

func NewService(volunteers Store, mailer mail.Sender, siteName string) *Service {
	return &Service{volunteers: volunteers, mailer: mailer, siteName: siteName}
}

type ApplyInput struct {
	Name            string
	Email           string
	Phone           string
	Age             int
	Occupation      string
	Skills          string
	Interests       []string
	Availability    []string
	PreferredTime   volunteer.Time
	CommitmentLevel volunteer.Commitment
	Motivation      string
}

// Apply records a volunteer application and acknowledges it by email.
func (s *Service) Apply(ctx context.Context, in ApplyInput) (*volunteer.Volunteer, error) {
	v, err := volunteer.New(in.Name, in.Email, in.Phone, in.Age, in.Skills, in.Motivation, in.CommitmentLevel)
	if err != nil {
		return nil, err
	}
	if in.Occupation != "" {
		v.Occupation = &in.Occupation
	}
	v.Interests = in.Interests
	v.Availability = in.Availability
	if in.PreferredTime != "" {
		v.PreferredTime = in.PreferredTime
	}

	if err := s.volunteers.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("saving application: %w", err)
	}

	s.mailer.SendAsync(v.Email,
		fmt.Sprintf("%s: we received your volunteer application", s.siteName),
		fmt.Sprintf("Dear %s,\n\nThank you for applying to volunteer with %s. "+
			"Our team will review your application and get back to you.\n\n%s",
			v.Name, s.siteName, s.siteName))
	return v, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*volunteer.Volunteer, error) {
	return s.volunteers.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status volunteer.Status, limit, offset int) ([]*volunteer.Volunteer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.volunteers.List(ctx, status, limit, offset)
}

// Review approves or rejects a pending application and notifies the
// applicant.
func (s *Service) Review(ctx context.Context, id int64, approve bool) (*volunteer.Volunteer, error) {
	v, err := s.volunteers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.Review(approve); err != nil {
		return nil, err
	}
	if err := s.volunteers.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("updating application: %w", err)
	}

	subject := fmt.Sprintf("%s: your volunteer application", s.siteName)
	body := fmt.Sprintf("Dear %s,\n\nWe are sorry; your volunteer application was not accepted this time.\n\n%s", v.Name, s.siteName)
	if approve {
		body = fmt.Sprintf("Dear %s,\n\nGood news: your volunteer application was approved! We will be in touch with next steps.\n\n%s", v.Name, s.siteName)
	}
	s.mailer.SendAsync(v.Email, subject, body)
	return v, nil
}

// SetActive moves an approved volunteer onto or off the active roster.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*volunteer.Volunteer, error) {
	v, err := s.volunteers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := v.SetActive(active); err != nil {
		return nil, err
	}
	if err := s.volunteers.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("updating volunteer: %w", err)
	}
	return v, nil
}
