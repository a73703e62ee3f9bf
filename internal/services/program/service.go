package program

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"chartitze/internal/domain/program"
)

type Store interface {
	Create(ctx context.Context, p *program.Program) error
	Get(ctx context.Context, id int64) (*program.Program, error)
	GetBySlug(ctx context.Context, slug string) (*program.Program, error)
	List(ctx context.Context, f ListFilter) ([]*program.Program, error)
	Update(ctx context.Context, p *program.Program) error
	Delete(ctx context.Context, id int64) error
	AddToRaised(ctx context.Context, id int64, amount decimal.Decimal) error
}

type ListFilter struct {
	Category program.Category
	Status   program.Status
	Limit    int
	Offset   int
}

type Service struct {
	programs Store
}

func NewService(programs Store) *Service { return &Service{programs: programs} }

type Input struct {
	Title            string
	Category         program.Category
	ShortDescription string
	Description      string
	ImageURL         string
	BannerImageURL   string
	StartDate        *time.Time
	EndDate          *time.Time
	Location         string
	Status           program.Status
	TargetAmount     *decimal.Decimal
	Beneficiaries    int
	VolunteersNeeded int
}

func (s *Service) Create(ctx context.Context, in Input) (*program.Program, error) {
	p, err := program.New(in.Title, in.Category, in.ShortDescription, in.Description)
	if err != nil {
		return nil, err
	}
	applyOptional(p, in)
	if err := s.programs.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("saving program: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*program.Program, error) {
	return s.programs.Get(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*program.Program, error) {
	return s.programs.GetBySlug(ctx, slug)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*program.Program, error) {
	if f.Category != "" && !program.ValidCategory(f.Category) {
		return nil, fmt.Errorf("invalid category: %s", f.Category)
	}
	if f.Status != "" && !program.ValidStatus(f.Status) {
		return nil, fmt.Errorf("invalid status: %s", f.Status)
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.programs.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*program.Program, error) {
	p, err := s.programs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != "" && in.Title != p.Title {
		p.Title = in.Title
		p.Slug = program.Slugify(in.Title)
	}
	if in.Category != "" {
		if !program.ValidCategory(in.Category) {
			return nil, fmt.Errorf("invalid category: %s", in.Category)
		}
		p.Category = in.Category
	}
	if in.ShortDescription != "" {
		p.ShortDescription = in.ShortDescription
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.Status != "" {
		if !program.ValidStatus(in.Status) {
			return nil, fmt.Errorf("invalid status: %s", in.Status)
		}
		p.Status = in.Status
	}
	applyOptional(p, in)
	p.UpdatedAt = time.Now()
	if err := s.programs.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("updating program: %w", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.programs.Delete(ctx, id)
}

func applyOptional(p *program.Program, in Input) {
	if in.ImageURL != "" {
		p.ImageURL = &in.ImageURL
	}
	if in.BannerImageURL != "" {
		p.BannerImageURL = &in.BannerImageURL
	}
	if in.StartDate != nil {
		p.StartDate = in.StartDate
	}
	if in.EndDate != nil {
		p.EndDate = in.EndDate
	}
	if in.Location != "" {
		p.Location = &in.Location
	}
	if in.TargetAmount != nil {
		p.TargetAmount = in.TargetAmount
	}
	if in.Beneficiaries > 0 {
		p.BeneficiariesCnt = in.Beneficiaries
	}
	if in.VolunteersNeeded > 0 {
		p.VolunteersNeeded = in.VolunteersNeeded
	}
}
