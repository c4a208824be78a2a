package approvaltoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	approvaltokenerrors "go-leave/internal/approvaltoken/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const maxIssueAttempts = 3

type Service interface {
	Issue(ctx context.Context, requestID int64, approverEmail, approverRole string) (TokenPair, error)
	VerifyAndConsume(ctx context.Context, token string) (*ApprovalToken, error)
}

type Option func(*service)

// WithGenerator replaces the crypto/rand token source.
func WithGenerator(gen func() (string, error)) Option {
	return func(s *service) { s.generate = gen }
}

// WithClock replaces time.Now for expiry computation.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo     Repository
	generate func() (string, error)
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger, opts ...Option) Service {
	if logger == nil {
		logger = zap.L()
	}
	s := &service{
		repo:     repo,
		generate: randomToken,
		now:      time.Now,
		logger:   logger.Named("approvaltoken.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Issue(ctx context.Context, requestID int64, approverEmail, approverRole string) (TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(approverEmail))
	role := strings.ToLower(strings.TrimSpace(approverRole))
	if !ValidRole(role) {
		return TokenPair{}, approvaltokenerrors.ErrInvalidRole
	}

	expiresAt := s.now().Add(TTL)

	approve, err := s.insert(ctx, ApprovalToken{
		LeaveRequestID: requestID,
		ApproverEmail:  email,
		ApproverRole:   role,
		Action:         ActionApprove,
		ExpiresAt:      expiresAt,
	})
	if err != nil {
		return TokenPair{}, err
	}
	reject, err := s.insert(ctx, ApprovalToken{
		LeaveRequestID: requestID,
		ApproverEmail:  email,
		ApproverRole:   role,
		Action:         ActionReject,
		ExpiresAt:      expiresAt,
	})
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Approve: approve, Reject: reject}, nil
}

func (s *service) insert(ctx context.Context, t ApprovalToken) (string, error) {
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		value, err := s.generate()
		if err != nil {
			return "", err
		}
		t.Token = value

		ok, err := s.repo.Insert(ctx, t)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return "", approvaltokenerrors.ErrRequestNotFound
			}
			return "", err
		}
		if ok {
			return value, nil
		}
		s.logger.Warn("approval token collision, regenerating",
			zap.Int64("leave_request_id", t.LeaveRequestID),
			zap.Int("attempt", attempt+1),
		)
	}
	return "", approvaltokenerrors.ErrTokenCollision
}

// VerifyAndConsume redeems a token exactly once. Unknown, used and expired
// tokens all fail the same way.
func (s *service) VerifyAndConsume(ctx context.Context, token string) (*ApprovalToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, approvaltokenerrors.ErrTokenInvalid
	}

	if n, err := s.repo.PurgeExpired(ctx); err != nil {
		s.logger.Warn("purge expired approval tokens failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Debug("purged expired approval tokens", zap.Int64("count", n))
	}

	t, err := s.repo.Consume(ctx, token)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, approvaltokenerrors.ErrTokenInvalid
	}
	return t, nil
}

func randomToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
