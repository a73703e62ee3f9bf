package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"chartitze/internal/domain/program"
	programsvc "chartitze/internal/services/program"
	"chartitze/internal/store"
)

type ProgramRepo struct {
	db *pgxpool.Pool
}

func NewProgramRepo(db *pgxpool.Pool) *ProgramRepo { return &ProgramRepo{db: db} }

const programCols = `id, title, slug, category, short_description, description,
	image_url, banner_image_url, start_date, end_date, location, status,
	target_amount, current_amount, beneficiaries_count, volunteers_needed,
	created_at, updated_at`

func (r *ProgramRepo) Create(ctx context.Context, p *program.Program) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO programs (
			title, slug, category, short_description, description, image_url,
			banner_image_url, start_date, end_date, location, status,
			target_amount, current_amount, beneficiaries_count, volunteers_needed
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id, created_at, updated_at`,
		p.Title, p.Slug, string(p.Category), p.ShortDescription, p.Description,
		p.ImageURL, p.BannerImageURL, p.StartDate, p.EndDate, p.Location,
		string(p.Status), p.TargetAmount, p.CurrentAmount, p.BeneficiariesCnt,
		p.VolunteersNeeded,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProgramRepo) Get(ctx context.Context, id int64) (*program.Program, error) {
	return scanProgram(r.db.QueryRow(ctx, `SELECT `+programCols+` FROM programs WHERE id = $1`, id))
}

func (r *ProgramRepo) GetBySlug(ctx context.Context, slug string) (*program.Program, error) {
	return scanProgram(r.db.QueryRow(ctx, `SELECT `+programCols+` FROM programs WHERE slug = $1`, slug))
}

func (r *ProgramRepo) List(ctx context.Context, f programsvc.ListFilter) ([]*program.Program, error) {
	q := `SELECT ` + programCols + ` FROM programs WHERE 1=1`
	args := []any{}
	if f.Category != "" {
		args = append(args, string(f.Category))
		q += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*program.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProgramRepo) Update(ctx context.Context, p *program.Program) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE programs
		   SET title = $2, slug = $3, category = $4, short_description = $5,
		       description = $6, image_url = $7, banner_image_url = $8,
		       start_date = $9, end_date = $10, location = $11, status = $12,
		       target_amount = $13, beneficiaries_count = $14,
		       volunteers_needed = $15, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Title, p.Slug, string(p.Category), p.ShortDescription,
		p.Description, p.ImageURL, p.BannerImageURL, p.StartDate, p.EndDate,
		p.Location, string(p.Status), p.TargetAmount, p.BeneficiariesCnt,
		p.VolunteersNeeded)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *ProgramRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AddToRaised credits a completed donation to the program's running total.
func (r *ProgramRepo) AddToRaised(ctx context.Context, id int64, amount decimal.Decimal) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE programs
		   SET current_amount = current_amount + $2, updated_at = now()
		 WHERE id = $1`, id, amount)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanProgram(row pgx.Row) (*program.Program, error) {
	var p program.Program
	var category, status string
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &category, &p.ShortDescription, &p.Description,
		&p.ImageURL, &p.BannerImageURL, &p.StartDate, &p.EndDate, &p.Location, &status,
		&p.TargetAmount, &p.CurrentAmount, &p.BeneficiariesCnt, &p.VolunteersNeeded,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	p.Category = program.Category(category)
	p.Status = program.Status(status)
	return &p, nil
}
