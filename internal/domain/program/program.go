package program

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks validation failures on program fields.
var ErrInvalidInput = errors.New("invalid program")

// Program is a charity initiative donations can be earmarked for.
type Program struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	Slug             string           `json:"slug"`
	Category         Category         `json:"category"`
	ShortDescription string           `json:"short_description"`
	Description      string           `json:"description"`
	ImageURL         *string          `json:"image_url"`
	BannerImageURL   *string          `json:"banner_image_url"`
	StartDate        *time.Time       `json:"start_date"`
	EndDate          *time.Time       `json:"end_date"`
	Location         *string          `json:"location"`
	Status           Status           `json:"status"`
	TargetAmount     *decimal.Decimal `json:"target_amount"`
	CurrentAmount    decimal.Decimal  `json:"current_amount"`
	BeneficiariesCnt int              `json:"beneficiaries_count"`
	VolunteersNeeded int              `json:"volunteers_needed"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

type Category string

const (
	CategoryEducation  Category = "education"
	CategoryHealthcare Category = "healthcare"
	CategoryNutrition  Category = "nutrition"
	CategoryMentorship Category = "mentorship"
	CategoryRecreation Category = "recreation"
	CategoryShelter    Category = "shelter"
	CategoryOther      Category = "other"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title: lowercase, non-alphanumerics
// collapsed to single hyphens.
func Slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(s, "-")
}

// New builds an active program with validation; the slug is derived from the
// title when empty.
func New(title string, category Category, short, description string) (*Program, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if !ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}
	now := time.Now()
	return &Program{
		Title:            title,
		Slug:             Slugify(title),
		Category:         category,
		ShortDescription: strings.TrimSpace(short),
		Description:      description,
		Status:           StatusActive,
		CurrentAmount:    decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// ProgressPercentage returns how far fundraising has come toward the target,
// capped at 100. Zero when no target is set.
func (p *Program) ProgressPercentage() float64 {
	if p.TargetAmount == nil || !p.TargetAmount.IsPositive() {
		return 0
	}
	pct, _ := p.CurrentAmount.Div(*p.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	return pct
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryEducation, CategoryHealthcare, CategoryNutrition,
		CategoryMentorship, CategoryRecreation, CategoryShelter, CategoryOther:
		return true
	}
	return false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInactive, StatusUpcoming, StatusCompleted:
		return true
	}
	return false
}
