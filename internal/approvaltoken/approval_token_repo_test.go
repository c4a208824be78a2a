package approvaltoken_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"go-leave/internal/approvaltoken"
	approvaltokenerrors "go-leave/internal/approvaltoken/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var tokenColumns = []string{
	"token", "leave_request_id", "approver_email", "approver_role", "action", "used", "expires_at", "created_at",
}

func TestRepository_ConsumeIsSingleUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	svc := approvaltoken.NewService(approvaltoken.NewRepository(db), zap.NewNop())
	now := time.Now()

	consume := regexp.QuoteMeta("UPDATE approval_tokens") + `(?s).*used = FALSE.*expires_at > NOW\(\).*RETURNING`
	purge := regexp.QuoteMeta("DELETE FROM approval_tokens WHERE expires_at <= NOW()")

	mock.ExpectExec(purge).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(consume).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(tokenColumns).
			AddRow("abc", int64(42), "hod@example.com", "hod", "approve", true, now.Add(time.Hour), now))

	mock.ExpectExec(purge).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(consume).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(tokenColumns))

	first, err := svc.VerifyAndConsume(ctx, "abc")
	assert.NoError(t, err)
	if assert.NotNil(t, first) {
		assert.Equal(t, int64(42), first.LeaveRequestID)
		assert.Equal(t, "hod", first.ApproverRole)
		assert.True(t, first.Used)
	}

	second, err := svc.VerifyAndConsume(ctx, "abc")
	assert.Nil(t, second)
	assert.ErrorIs(t, err, approvaltokenerrors.ErrTokenInvalid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := approvaltoken.NewRepository(db)
	ctx := context.Background()
	tok := approvaltoken.ApprovalToken{
		Token:          "t1",
		LeaveRequestID: 5,
		ApproverEmail:  "admin@example.com",
		ApproverRole:   "admin",
		Action:         "reject",
		ExpiresAt:      time.Now().Add(approvaltoken.TTL),
	}

	insert := regexp.QuoteMeta("INSERT INTO approval_tokens") + `(?s).*ON CONFLICT \(token\) DO NOTHING`

	t.Run("new token", func(t *testing.T) {
		mock.ExpectExec(insert).
			WithArgs("t1", int64(5), "admin@example.com", "admin", "reject", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Insert(ctx, tok)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("existing token value", func(t *testing.T) {
		mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Insert(ctx, tok)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("inside a transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(insert).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Begin()
		assert.NoError(t, err)
		ok, err := repo.WithTx(tx).Insert(ctx, tok)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, tx.Commit())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
