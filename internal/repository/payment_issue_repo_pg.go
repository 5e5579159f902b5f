package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrIssueNotFound = errors.New("payment issue not found")

type PaymentIssueRepository interface {
	Create(ctx context.Context, issue *domain.PaymentIssue) error
	ListOpen(ctx context.Context) ([]domain.PaymentIssue, error)
	Resolve(ctx context.Context, id int64) (*domain.PaymentIssue, error)
}

type PGPaymentIssueRepository struct {
	db *pgxpool.Pool
}

func NewPaymentIssueRepository(db *pgxpool.Pool) PaymentIssueRepository {
	return &PGPaymentIssueRepository{db: db}
}

const issueColumns = `id, attempt_id, booking_id, listing_id, order_id, payment_id, signature, user_email, amount, reason, resolved, created_at, resolved_at`

// Create stores the issue. A redelivered event for the same attempt is a no-op.
func (r *PGPaymentIssueRepository) Create(ctx context.Context, issue *domain.PaymentIssue) error {
	err := r.db.QueryRow(ctx, `INSERT INTO payment_issues (attempt_id, booking_id, listing_id, order_id, payment_id, signature, user_email, amount, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (attempt_id) DO NOTHING
		RETURNING id, created_at`,
		issue.AttemptID, issue.BookingID, issue.ListingID, issue.OrderID, issue.PaymentID, issue.Signature, issue.UserEmail, issue.Amount, issue.Reason).
		Scan(&issue.ID, &issue.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

func (r *PGPaymentIssueRepository) ListOpen(ctx context.Context) ([]domain.PaymentIssue, error) {
	rows, err := r.db.Query(ctx, `SELECT `+issueColumns+` FROM payment_issues WHERE resolved = false ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []domain.PaymentIssue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}

func (r *PGPaymentIssueRepository) Resolve(ctx context.Context, id int64) (*domain.PaymentIssue, error) {
	row := r.db.QueryRow(ctx, `UPDATE payment_issues SET resolved = true, resolved_at = now() WHERE id = $1 RETURNING `+issueColumns, id)
	issue, err := scanIssue(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrIssueNotFound
	}
	return issue, err
}

func scanIssue(row pgx.Row) (*domain.PaymentIssue, error) {
	var i domain.PaymentIssue
	if err := row.Scan(&i.ID, &i.AttemptID, &i.BookingID, &i.ListingID, &i.OrderID, &i.PaymentID, &i.Signature,
		&i.UserEmail, &i.Amount, &i.Reason, &i.Resolved, &i.CreatedAt, &i.ResolvedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

var _ PaymentIssueRepository = (*PGPaymentIssueRepository)(nil)
