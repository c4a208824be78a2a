package leave_test

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/leave"
	leavemock "go-leave/internal/leave/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type noEffects struct{ calls int }

func (n *noEffects) Dispatch(context.Context, []leave.Effect) { n.calls++ }

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestService_Approve_PersistFailureRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := leavemock.NewMockRepository(ctrl)
	fx := &noEffects{}
	svc := leave.NewService(db, repo, nil, nil, nil, fx, zap.NewNop())

	admin := leave.Actor{UserID: 103, EmployeeID: 3, Role: "admin", Name: "Ada"}
	row := &leave.LeaveRequest{
		ID: 11, EmployeeID: 1, LeaveType: "Annual Leave",
		HodStatus: leave.GatePending, AdminStatus: leave.GatePending, Status: leave.StatusPending,
	}

	expectTx(sqlMock, false)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().FindByIDForUpdate(gomock.Any(), int64(11)).Return(row, nil)
	repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l *leave.LeaveRequest) error {
			assert.Equal(t, leave.GateApproved, l.AdminStatus)
			assert.Equal(t, int64(3), *l.AdminApproverID)
			return errors.New("deadlock detected")
		})

	_, err = svc.Approve(context.Background(), admin, 11, leave.GateAdmin, leave.ApproveLeaveRequest{Status: leave.GateApproved})

	assert.EqualError(t, err, "deadlock detected")
	assert.Zero(t, fx.calls)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestService_Delete_BeginFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := leavemock.NewMockRepository(ctrl)
	svc := leave.NewService(db, repo, nil, nil, nil, &noEffects{}, zap.NewNop())

	sqlMock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err = svc.Delete(context.Background(), leave.Actor{UserID: 103, EmployeeID: 3, Role: "admin"}, 4)
	assert.EqualError(t, err, "too many connections")
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
