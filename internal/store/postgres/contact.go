package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chartitze/internal/domain/contact"
	"chartitze/internal/store"
)

type ContactRepo struct {
	db *pgxpool.Pool
}

func NewContactRepo(db *pgxpool.Pool) *ContactRepo { return &ContactRepo{db: db} }

const messageCols = `id, name, email, phone, subject, category, message, status,
	replied_at, reply_message, created_at`

func (r *ContactRepo) CreateMessage(ctx context.Context, m *contact.Message) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO contact_messages (name, email, phone, subject, category, message, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at`,
		m.Name, m.Email, m.Phone, m.Subject, string(m.Category), m.Body, string(m.Status),
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *ContactRepo) GetMessage(ctx context.Context, id int64) (*contact.Message, error) {
	return scanMessage(r.db.QueryRow(ctx,
		`SELECT `+messageCols+` FROM contact_messages WHERE id = $1`, id))
}

func (r *ContactRepo) ListMessages(ctx context.Context, status contact.Status, limit, offset int) ([]*contact.Message, error) {
	q := `SELECT ` + messageCols + ` FROM contact_messages WHERE 1=1`
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

	var out []*contact.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ContactRepo) UpdateMessage(ctx context.Context, m *contact.Message) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE contact_messages
		   SET status = $2, replied_at = $3, reply_message = $4
		 WHERE id = $1`,
		m.ID, string(m.Status), m.RepliedAt, m.ReplyText)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CreateSubscriber re-activates the subscription when the address already
// exists.
func (r *ContactRepo) CreateSubscriber(ctx context.Context, sub *contact.Subscriber) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO newsletter_subscribers (email, is_active, unsubscribe_token)
		VALUES ($1, true, $2)
		ON CONFLICT (email) DO UPDATE SET is_active = true
		RETURNING id, unsubscribe_token, created_at`,
		sub.Email, sub.UnsubscribeToken,
	).Scan(&sub.ID, &sub.UnsubscribeToken, &sub.CreatedAt)
}

func (r *ContactRepo) DeactivateSubscriberByToken(ctx context.Context, token string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE newsletter_subscribers SET is_active = false WHERE unsubscribe_token = $1`, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanMessage(row pgx.Row) (*contact.Message, error) {
	var m contact.Message
	var category, status string
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &category, &m.Body,
		&status, &m.RepliedAt, &m.ReplyText, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	m.Category = contact.Category(category)
	m.Status = contact.Status(status)
	return &m, nil
}
