package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chartitze/internal/domain/volunteer"
	"chartitze/internal/store"
)

type VolunteerRepo struct {
	db *pgxpool.Pool
}

func NewVolunteerRepo(db *pgxpool.Pool) *VolunteerRepo { return &VolunteerRepo{db: db} }

const volunteerCols = `id, name, email, phone, age, occupation, skills, interests,
	availability, preferred_time, commitment_level, motivation, status,
	created_at, updated_at`

func (r *VolunteerRepo) Create(ctx context.Context, v *volunteer.Volunteer) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO volunteers (
			name, email, phone, age, occupation, skills, interests, availability,
			preferred_time, commitment_level, motivation, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`,
		v.Name, v.Email, v.Phone, v.Age, v.Occupation, v.Skills, v.Interests,
		v.Availability, string(v.PreferredTime), string(v.CommitmentLevel),
		v.Motivation, string(v.Status),
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *VolunteerRepo) Get(ctx context.Context, id int64) (*volunteer.Volunteer, error) {
	return scanVolunteer(r.db.QueryRow(ctx, `SELECT `+volunteerCols+` FROM volunteers WHERE id = $1`, id))
}

func (r *VolunteerRepo) List(ctx context.Context, status volunteer.Status, limit, offset int) ([]*volunteer.Volunteer, error) {
	q := `SELECT ` + volunteerCols + ` FROM volunteers WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, string(status))
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*volunteer.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VolunteerRepo) Update(ctx context.Context, v *volunteer.Volunteer) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE volunteers
		   SET status = $2, updated_at = now()
		 WHERE id = $1`, v.ID, string(v.Status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanVolunteer(row pgx.Row) (*volunteer.Volunteer, error) {
	var v volunteer.Volunteer
	var preferred, commitment, status string
	err := row.Scan(
		&v.ID, &v.Name, &v.Email, &v.Phone, &v.Age, &v.Occupation, &v.Skills,
		&v.Interests, &v.Availability, &preferred, &commitment, &v.Motivation,
		&status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	v.PreferredTime = volunteer.Time(preferred)
	v.CommitmentLevel = volunteer.Commitment(commitment)
	v.Status = volunteer.Status(status)
	return &v, nil
}
