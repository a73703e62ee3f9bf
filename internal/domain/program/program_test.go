package program

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Education for All", "education-for-all"},
		{"  Clean   Water!  ", "clean-water"},
		{"Health & Nutrition 2024", "health-nutrition-2024"},
		{"---", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewProgram(t *testing.T) {
	p, err := New("Education for All", CategoryEducation, "short", "long")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Slug != "education-for-all" {
		t.Fatalf("slug = %q", p.Slug)
	}
	if p.Status != StatusActive {
		t.Fatalf("status = %s, want active", p.Status)
	}

	if _, err := New("", CategoryEducation, "", ""); err == nil {
		t.Fatal("expected error for empty title")
	}
	if _, err := New("X", Category("bogus"), "", ""); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestProgressPercentage(t *testing.T) {
	target := decimal.NewFromInt(1000)
	p := &Program{TargetAmount: &target, CurrentAmount: decimal.NewFromInt(250)}
	if got := p.ProgressPercentage(); got != 25 {
		t.Fatalf("progress = %v, want 25", got)
	}

	p.CurrentAmount = decimal.NewFromInt(2000)
	if got := p.ProgressPercentage(); got != 100 {
		t.Fatalf("progress = %v, want capped at 100", got)
	}

	p.TargetAmount = nil
	if got := p.ProgressPercentage(); got != 0 {
		t.Fatalf("progress = %v, want 0 without target", got)
	}
}
