package volunteer

import (
	"context"
	"strings"
	"testing"

	"chartitze/internal/domain/volunteer"
	"chartitze/internal/store"
)

type fakeStore struct {
	volunteers map[int64]*volunteer.Volunteer
	updates    int
}

func newFakeStore(vs ...*volunteer.Volunteer) *fakeStore {
	fs := &fakeStore{volunteers: map[int64]*volunteer.Volunteer{}}
	for _, v := range vs {
		fs.volunteers[v.ID] = v
	}
	return fs
}

func (f *fakeStore) Create(ctx context.Context, v *volunteer.Volunteer) error {
	v.ID = int64(len(f.volunteers) + 1)
	f.volunteers[v.ID] = v
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (*volunteer.Volunteer, error) {
	v, ok := f.volunteers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) List(ctx context.Context, status volunteer.Status, limit, offset int) ([]*volunteer.Volunteer, error) {
	var out []*volunteer.Volunteer
	for _, v := range f.volunteers {
		if status == "" || v.Status == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, v *volunteer.Volunteer) error {
	f.updates++
	f.volunteers[v.ID] = v
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

func TestReviewApprovalNotifiesApplicant(t *testing.T) {
	fs := newFakeStore(&volunteer.Volunteer{
		ID: 1, Name: "Jane", Email: "jane@example.com", Status: volunteer.StatusPending,
	})
	mailer := &fakeMailer{}
	svc := NewService(fs, mailer, "Chartitze")

	v, err := svc.Review(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if v.Status != volunteer.StatusApproved {
		t.Fatalf("status = %s, want approved", v.Status)
	}
	if len(mailer.to) != 1 || mailer.to[0] != "jane@example.com" {
		t.Fatalf("notified %v, want the applicant", mailer.to)
	}
	if !strings.Contains(mailer.bodies[0], "approved") {
		t.Fatalf("body = %q, want an approval note", mailer.bodies[0])
	}
}

func TestSetActiveTogglesApprovedVolunteer(t *testing.T) {
	fs := newFakeStore(&volunteer.Volunteer{
		ID: 1, Name: "Jane", Email: "jane@example.com", Status: volunteer.StatusApproved,
	})
	svc := NewService(fs, &fakeMailer{}, "Chartitze")

	v, err := svc.SetActive(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if v.Status != volunteer.StatusActive {
		t.Fatalf("status = %s, want active", v.Status)
	}

	v, err = svc.SetActive(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("SetActive off: %v", err)
	}
	if v.Status != volunteer.StatusInactive {
		t.Fatalf("status = %s, want inactive", v.Status)
	}
	if fs.updates != 2 {
		t.Fatalf("updates = %d, want 2", fs.updates)
	}
}

func TestSetActiveRejectsUnapproved(t *testing.T) {
	fs := newFakeStore(&volunteer.Volunteer{ID: 1, Status: volunteer.StatusPending})
	svc := NewService(fs, &fakeMailer{}, "Chartitze")

	if _, err := svc.SetActive(context.Background(), 1, true); err == nil {
		t.Fatal("expected error for a pending application")
	}
	if fs.updates != 0 {
		t.Fatal("pending application must not be updated")
	}
}
