package donation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"chartitze/internal/domain/donation"
	"chartitze/internal/mail"
)

// Store persists donations. Implementations return store.ErrNotFound for
// unknown ids.
type Store interface {
	Create(ctx context.Context, d *donation.Donation) error
	Get(ctx context.Context, id int64) (*donation.Donation, error)
	List(ctx context.Context, f ListFilter) ([]*donation.Donation, error)
	SetStatus(ctx context.Context, id int64, status donation.Status, transactionID string) error
	Summary(ctx context.Context) (*Summary, error)
}

// ProgramStore is the slice of program storage donation completion touches.
type ProgramStore interface {
	AddToRaised(ctx context.Context, programID int64, amount decimal.Decimal) error
}

type ListFilter struct {
	Status    donation.Status
	Method    donation.Method
	ProgramID *int64
	Limit     int
	Offset    int
}

// Summary aggregates completed donations for the public totals endpoint.
type Summary struct {
	Total       decimal.Decimal      `json:"total_donations"`
	DonorCount  int64                `json:"total_donors"`
	MonthToDate decimal.Decimal      `json:"monthly_total"`
	YearToDate  decimal.Decimal      `json:"yearly_total"`
	Recent      []*donation.Donation `json:"recent_donations"`
}

// Donations at or above this amount also alert the site administrator.
var largeDonationThreshold = decimal.NewFromInt(100000)

type Service struct {
	donations  Store
	programs   ProgramStore
	mailer     mail.Sender
	siteName   string
	adminEmail string
}

func NewService(donations Store, programs ProgramStore, mailer mail.Sender, siteName, adminEmail string) *Service {
	return &Service{donations: donations, programs: programs, mailer: mailer, siteName: siteName, adminEmail: adminEmail}
}

type CreateInput struct {
	DonorName   string
	DonorEmail  string
	DonorPhone  string
	Amount      decimal.Decimal
	Type        donation.Type
	Method      donation.Method
	Dedication  string
	ProgramID   *int64
	IsAnonymous bool
	Notes       string
}

// Create records a pending donation and sends the donor a confirmation email.
func (s *Service) Create(ctx context.Context, in CreateInput) (*donation.Donation, error) {
	d, err := donation.New(in.DonorName, in.DonorEmail, in.Amount, in.Type, in.Method)
	if err != nil {
		return nil, err
	}
	if in.DonorPhone != "" {
		d.DonorPhone = &in.DonorPhone
	}
	if in.Dedication != "" {
		d.Dedication = &in.Dedication
	}
	if in.Notes != "" {
		d.Notes = &in.Notes
	}
	d.ProgramID = in.ProgramID
	d.IsAnonymous = in.IsAnonymous

	if err := s.donations.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("saving donation: %w", err)
	}

	s.mailer.SendAsync(d.DonorEmail,
		fmt.Sprintf("Thank you for your donation to %s!", s.siteName),
		fmt.Sprintf("Dear %s,\n\nThank you for your donation of %s %s. "+
			"We will confirm once your payment is processed.\n\n%s",
			d.DonorName, d.Currency, d.Amount.StringFixed(2), s.siteName))

	if d.Amount.GreaterThanOrEqual(largeDonationThreshold) && s.adminEmail != "" {
		s.mailer.SendAsync(s.adminEmail,
			fmt.Sprintf("Large donation received: %s %s", d.Currency, d.Amount.StringFixed(2)),
			fmt.Sprintf("A large donation of %s %s was received from %s.",
				d.Currency, d.Amount.StringFixed(2), d.DonorName))
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*donation.Donation, error) {
	return s.donations.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*donation.Donation, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.donations.List(ctx, f)
}

// UpdateStatus is the administrative status override. Completing a donation
// credits its program's raised total.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status donation.Status, transactionID string) (*donation.Donation, error) {
	if !donation.ValidStatus(status) {
		return nil, fmt.Errorf("invalid payment status: %s", status)
	}
	d, err := s.donations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	wasCompleted := d.PaymentStatus == donation.StatusCompleted

	if err := s.donations.SetStatus(ctx, id, status, transactionID); err != nil {
		return nil, err
	}
	d.PaymentStatus = status
	if transactionID != "" {
		d.TransactionID = &transactionID
	}

	if status == donation.StatusCompleted && !wasCompleted && d.ProgramID != nil {
		if err := s.programs.AddToRaised(ctx, *d.ProgramID, d.Amount); err != nil {
			log.Error().Err(err).Int64("program_id", *d.ProgramID).
				Msg("crediting program raised total failed")
		}
	}
	return d, nil
}

// SetStatus satisfies the payment reconciler's donation dependency; it goes
// through UpdateStatus so program totals stay consistent whichever path
// transitions the donation.
func (s *Service) SetStatus(ctx context.Context, id int64, status donation.Status, transactionID string) error {
	_, err := s.UpdateStatus(ctx, id, status, transactionID)
	return err
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.donations.Summary(ctx)
}
