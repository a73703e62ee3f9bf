package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"chartitze/internal/domain/donation"
	donationsvc "chartitze/internal/services/donation"
	"chartitze/internal/store"
)

type DonationRepo struct {
	db *pgxpool.Pool
}

func NewDonationRepo(db *pgxpool.Pool) *DonationRepo { return &DonationRepo{db: db} }

const donationCols = `id, donor_name, donor_email, donor_phone, amount, currency,
	donation_type, payment_method, payment_status, transaction_id, dedication,
	program_id, is_anonymous, notes, created_at, updated_at`

func (r *DonationRepo) Create(ctx context.Context, d *donation.Donation) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO donations (
			donor_name, donor_email, donor_phone, amount, currency, donation_type,
			payment_method, payment_status, dedication, program_id, is_anonymous, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`,
		d.DonorName, d.DonorEmail, d.DonorPhone, d.Amount, d.Currency, string(d.Type),
		string(d.PaymentMethod), string(d.PaymentStatus), d.Dedication, d.ProgramID,
		d.IsAnonymous, d.Notes,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DonationRepo) Get(ctx context.Context, id int64) (*donation.Donation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+donationCols+` FROM donations WHERE id = $1`, id)
	return scanDonation(row)
}

func (r *DonationRepo) List(ctx context.Context, f donationsvc.ListFilter) ([]*donation.Donation, error) {
	q := `SELECT ` + donationCols + ` FROM donations WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		args = append(args, string(f.Status))
		q += fmt.Sprintf(" AND payment_status = $%d", len(args))
	}
	if f.Method != "" {
		args = append(args, string(f.Method))
		q += fmt.Sprintf(" AND payment_method = $%d", len(args))
	}
	if f.ProgramID != nil {
		args = append(args, *f.ProgramID)
		q += fmt.Sprintf(" AND program_id = $%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*donation.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DonationRepo) SetStatus(ctx context.Context, id int64, status donation.Status, transactionID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE donations
		   SET payment_status = $2,
		       transaction_id = COALESCE(NULLIF($3,''), transaction_id),
		       updated_at = now()
		 WHERE id = $1`,
		id, string(status), transactionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *DonationRepo) Summary(ctx context.Context) (*donationsvc.Summary, error) {
	var s donationsvc.Summary
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0),
		       COUNT(DISTINCT donor_email),
		       COALESCE(SUM(amount) FILTER (WHERE created_at >= date_trunc('month', now())), 0),
		       COALESCE(SUM(amount) FILTER (WHERE created_at >= date_trunc('year', now())), 0)
		  FROM donations
		 WHERE payment_status = 'completed'`,
	).Scan(&s.Total, &s.DonorCount, &s.MonthToDate, &s.YearToDate)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+donationCols+`
		  FROM donations
		 WHERE payment_status = 'completed'
		 ORDER BY created_at DESC
		 LIMIT 10`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		s.Recent = append(s.Recent, d)
	}
	return &s, rows.Err()
}

func scanDonation(row pgx.Row) (*donation.Donation, error) {
	var d donation.Donation
	var dtype, method, status string
	var amount decimal.Decimal
	err := row.Scan(
		&d.ID, &d.DonorName, &d.DonorEmail, &d.DonorPhone, &amount, &d.Currency,
		&dtype, &method, &status, &d.TransactionID, &d.Dedication,
		&d.ProgramID, &d.IsAnonymous, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	d.Amount = amount
	d.Type = donation.Type(dtype)
	d.PaymentMethod = donation.Method(method)
	d.PaymentStatus = donation.Status(status)
	return &d, nil
}
