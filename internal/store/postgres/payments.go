package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"chartitze/internal/domain/payment"
	"chartitze/internal/store"
)

type PaymentRepo struct {
	db *pgxpool.Pool
}

func NewPaymentRepo(db *pgxpool.Pool) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = `id, merchant_request_id, checkout_request_id, phone_number, amount,
	account_reference, transaction_desc, status, result_code, result_desc,
	mpesa_receipt_number, transaction_date, donation_id, created_at, updated_at`

// Create inserts the pending payment. Uniqueness on checkout_request_id,
// merchant_request_id and donation_id surfaces as store.ErrConflict.
func (r *PaymentRepo) Create(ctx context.Context, p *payment.Request) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO mpesa_payments (
			merchant_request_id, checkout_request_id, phone_number, amount,
			account_reference, transaction_desc, status, donation_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		p.MerchantRequestID, p.CheckoutRequestID, p.PhoneNumber, p.Amount,
		p.AccountReference, p.TransactionDesc, string(p.Status), p.DonationID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrConflict
	}
	return err
}

func (r *PaymentRepo) GetByCheckoutID(ctx context.Context, checkoutID string) (*payment.Request, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentCols+`
		  FROM mpesa_payments
		 WHERE checkout_request_id = $1`, checkoutID)
	return scanPayment(row)
}

func (r *PaymentRepo) GetByDonationID(ctx context.Context, donationID int64) (*payment.Request, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentCols+`
		  FROM mpesa_payments
		 WHERE donation_id = $1`, donationID)
	return scanPayment(row)
}

// SaveResult persists the reconciled fields. Last write wins; only one
// callback is expected per checkout id.
func (r *PaymentRepo) SaveResult(ctx context.Context, p *payment.Request) error {
	_, err := r.db.Exec(ctx, `
		UPDATE mpesa_payments
		   SET status = $2,
		       result_code = $3,
		       result_desc = $4,
		       mpesa_receipt_number = $5,
		       transaction_date = $6,
		       updated_at = now()
		 WHERE id = $1`,
		p.ID, string(p.Status), p.ResultCode, p.ResultDesc, p.MpesaReceipt, p.TransactionDate)
	return err
}

func scanPayment(row pgx.Row) (*payment.Request, error) {
	var p payment.Request
	var status string
	err := row.Scan(
		&p.ID, &p.MerchantRequestID, &p.CheckoutRequestID, &p.PhoneNumber, &p.Amount,
		&p.AccountReference, &p.TransactionDesc, &status, &p.ResultCode, &p.ResultDesc,
		&p.MpesaReceipt, &p.TransactionDate, &p.DonationID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	p.Status = payment.Status(status)
	return &p, nil
}
