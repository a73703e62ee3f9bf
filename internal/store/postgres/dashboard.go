package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"chartitze/internal/services/dashboard"
)

type DashboardRepo struct {
	db *pgxpool.Pool
}

func NewDashboardRepo(db *pgxpool.Pool) *DashboardRepo { return &DashboardRepo{db: db} }

// Summary runs the dashboard aggregates in one round trip per table.
func (r *DashboardRepo) Summary(ctx context.Context) (*dashboard.Summary, error) {
	var s dashboard.Summary

	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE payment_status = 'completed'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE payment_status = 'completed'
		               AND created_at >= date_trunc('month', now())), 0),
		       COALESCE(SUM(amount) FILTER (WHERE payment_status = 'completed'
		               AND created_at >= date_trunc('month', now()) - interval '1 month'
		               AND created_at <  date_trunc('month', now())), 0),
		       COALESCE(SUM(amount) FILTER (WHERE payment_status = 'completed'
		               AND created_at >= date_trunc('year', now())), 0),
		       COUNT(DISTINCT donor_email) FILTER (WHERE payment_status = 'completed')
		  FROM donations`,
	).Scan(&s.Donations.Total, &s.Donations.ThisMonth, &s.Donations.LastMonth,
		&s.Donations.ThisYear, &s.Donations.Donors)
	if err != nil {
		return nil, err
	}

	s.Donations.ByStatus, err = r.countBy(ctx,
		`SELECT payment_status, COUNT(*) FROM donations GROUP BY payment_status`)
	if err != nil {
		return nil, err
	}
	s.Volunteers, err = r.countBy(ctx,
		`SELECT status, COUNT(*) FROM volunteers GROUP BY status`)
	if err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM programs WHERE status = 'active'`).
		Scan(&s.ActivePrograms)
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gallery_items WHERE is_published`).
		Scan(&s.GalleryItems)
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages WHERE status = 'new'`).
		Scan(&s.NewMessages)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *DashboardRepo) countBy(ctx context.Context, query string) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var key string
		var n int64
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}
