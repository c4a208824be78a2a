package approvaltoken

import (
	"context"
	"database/sql"
	"errors"
)

//go:generate mockgen -source=approval_token_repo.go -destination=mock/approval_token_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, t ApprovalToken) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
	Consume(ctx context.Context, token string) (*ApprovalToken, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// Insert reports false when the token value already exists.
func (r *repository) Insert(ctx context.Context, t ApprovalToken) (bool, error) {
	query := `
INSERT INTO approval_tokens (
	token, leave_request_id, approver_email, approver_role, action, used, expires_at
) VALUES ($1, $2, $3, $4, $5, FALSE, $6)
ON CONFLICT (token) DO NOTHING
`
	res, err := r.conn().ExecContext(ctx, query,
		t.Token, t.LeaveRequestID, t.ApproverEmail, t.ApproverRole, t.Action, t.ExpiresAt,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *repository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.conn().ExecContext(ctx, `DELETE FROM approval_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Consume flips used in the same statement that checks it, so only one
// caller can ever get the row back.
func (r *repository) Consume(ctx context.Context, token string) (*ApprovalToken, error) {
	query := `
UPDATE approval_tokens
SET used = TRUE
WHERE token = $1
	AND used = FALSE
	AND expires_at > NOW()
RETURNING token, leave_request_id, approver_email, approver_role, action, used, expires_at, created_at
`
	var t ApprovalToken
	err := r.conn().QueryRowContext(ctx, query, token).Scan(
		&t.Token,
		&t.LeaveRequestID,
		&t.ApproverEmail,
		&t.ApproverRole,
		&t.Action,
		&t.Used,
		&t.ExpiresAt,
		&t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) conn() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
