package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leave/internal/approvaltoken"
	approvaltokenerrors "go-leave/internal/approvaltoken/errors"
	"go-leave/internal/balance"
	"go-leave/internal/employee"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/notification"
	"go-leave/internal/realtime"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const autoApprovedRemark = "Autoapproved"

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (LeaveResponse, error)
	CheckOverlap(ctx context.Context, actor Actor, req CheckOverlapRequest) (OverlapResponse, error)
	GetByID(ctx context.Context, actor Actor, id int64) (LeaveResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]LeaveResponse, error)
	ListAll(ctx context.Context, actor Actor, filter ListFilter) ([]LeaveResponse, error)
	Approve(ctx context.Context, actor Actor, id int64, gate Gate, req ApproveLeaveRequest) (LeaveResponse, error)
	BulkApprove(ctx context.Context, actor Actor, gate Gate, req BulkApproveRequest) (BulkResult, error)
	Update(ctx context.Context, actor Actor, id int64, req UpdateLeaveRequest) (LeaveResponse, error)
	Delete(ctx context.Context, actor Actor, id int64) error
	EmailAction(ctx context.Context, token, action string) (EmailActionResponse, error)
	Balances(ctx context.Context, actor Actor, year int) ([]balance.BalanceResponse, error)
	CalendarFeed(ctx context.Context, actor Actor, from, to time.Time) ([]byte, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory employee.Service
	balances  balance.Service
	tokens    approvaltoken.Service
	effects   Dispatcher
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	directory employee.Service,
	balances balance.Service,
	tokens approvaltoken.Service,
	effects Dispatcher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		directory: directory,
		balances:  balances,
		tokens:    tokens,
		effects:   effects,
		logger:    l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("create leave requested",
		zap.Int64("employee_id", actor.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if actor.EmployeeID == 0 {
		return LeaveResponse{}, leaveerrors.ErrNoEmployeeProfile
	}

	leaveType := strings.TrimSpace(req.LeaveType)
	if leaveType == "" {
		return LeaveResponse{}, apperror.RequiredField("leave_type")
	}
	if _, err := s.balances.LeaveType(ctx, leaveType); err != nil {
		return LeaveResponse{}, err
	}

	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	days, err := resolveDays(req.Days, start, end)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	conflicts, err := s.conflicts(ctx, qtx, actor.EmployeeID, start, end, nil)
	if err != nil {
		log.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if len(conflicts) > 0 {
		c := conflicts[0]
		log.Warn("create leave overlap detected",
			zap.Int64("employee_id", actor.EmployeeID),
			zap.Int64("conflict_id", c.ID),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap.WithMessage(
			"leave overlaps with your %s request from %s to %s (status: %s)",
			c.LeaveType, c.StartDate.Format(dateLayout), c.EndDate.Format(dateLayout), c.Status,
		)
	}

	l := &LeaveRequest{
		EmployeeID:  actor.EmployeeID,
		LeaveType:   leaveType,
		StartDate:   start,
		EndDate:     end,
		Days:        days,
		Reason:      trimmed(req.Reason),
		Status:      StatusPending,
		HodStatus:   GatePending,
		AdminStatus: GatePending,
	}

	now := time.Now()
	switch actor.Role {
	case user.RoleHod:
		l.SetGate(GateHod, GateApproved, ptr(autoApprovedRemark), ptr(actor.EmployeeID), now)
	case user.RoleAdmin:
		l.SetGate(GateHod, GateApproved, ptr(autoApprovedRemark), ptr(actor.EmployeeID), now)
		l.SetGate(GateAdmin, GateApproved, ptr(autoApprovedRemark), ptr(actor.EmployeeID), now)
	}
	creditDue := l.MarkCredited()

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if creditDue {
		s.credit(ctx, l)
	}

	s.effects.Dispatch(ctx, s.creationEffects(ctx, actor, l))

	log.Info("create leave success",
		zap.Int64("leave_id", l.ID),
		zap.Int64("employee_id", l.EmployeeID),
		zap.String("status", l.Status),
	)
	return toResponse(*l), nil
}

func (s *service) CheckOverlap(ctx context.Context, actor Actor, req CheckOverlapRequest) (OverlapResponse, error) {
	if actor.EmployeeID == 0 {
		return OverlapResponse{}, leaveerrors.ErrNoEmployeeProfile
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return OverlapResponse{}, err
	}

	conflicts, err := s.conflicts(ctx, s.repo, actor.EmployeeID, start, end, req.ExcludeID)
	if err != nil {
		s.log(ctx).Error("check overlap failed", zap.Error(err))
		return OverlapResponse{}, err
	}
	return OverlapResponse{HasOverlap: len(conflicts) > 0, Conflicts: toResponses(conflicts)}, nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id int64) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepoError(err)
	}

	switch {
	case actor.Role == user.RoleAdmin, l.EmployeeID == actor.EmployeeID:
	default:
		if err := s.authorizeHod(ctx, actor, l.EmployeeID); err != nil {
			return LeaveResponse{}, apperror.ErrForbidden
		}
	}
	return toResponse(*l), nil
}

func (s *service) ListMine(ctx context.Context, actor Actor) ([]LeaveResponse, error) {
	if actor.EmployeeID == 0 {
		return nil, leaveerrors.ErrNoEmployeeProfile
	}
	rows, err := s.repo.FindByEmployee(ctx, actor.EmployeeID)
	if err != nil {
		s.log(ctx).Error("list own leave failed", zap.Error(err))
		return nil, err
	}
	return toResponses(rows), nil
}

func (s *service) ListAll(ctx context.Context, actor Actor, filter ListFilter) ([]LeaveResponse, error) {
	var (
		rows []LeaveRequest
		err  error
	)
	switch actor.Role {
	case user.RoleAdmin:
		rows, err = s.repo.FindAll(ctx, filter)
	case user.RoleHod:
		me, lookupErr := s.directory.GetByID(ctx, actor.EmployeeID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		rows, err = s.repo.FindForHod(ctx, HodScope{
			EmployeeID:   me.ID,
			DepartmentID: me.DepartmentID,
			LocationID:   me.LocationID,
		}, filter)
	default:
		return nil, apperror.ErrForbidden
	}
	if err != nil {
		s.log(ctx).Error("list leave failed", zap.String("role", actor.Role), zap.Error(err))
		return nil, err
	}
	return toResponses(rows), nil
}

// Approve decides one gate. The row stays locked from read to commit, so
// the credit guard sees every earlier decision on the same request.
func (s *service) Approve(ctx context.Context, actor Actor, id int64, gate Gate, req ApproveLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx).With(zap.Int64("leave_id", id), zap.String("gate", string(gate)))

	if !gate.Valid() {
		return LeaveResponse{}, apperror.InvalidField("gate")
	}
	if req.Status != GateApproved && req.Status != GateRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidGateStatus
	}
	if gate == GateAdmin && actor.Role != user.RoleAdmin {
		return LeaveResponse{}, leaveerrors.ErrNotAuthorizedApprover
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepoError(err)
	}

	if gate == GateHod && actor.Role != user.RoleAdmin {
		if err := s.authorizeHod(ctx, actor, l.EmployeeID); err != nil {
			log.Warn("approve leave unauthorized hod", zap.Int64("actor_employee_id", actor.EmployeeID))
			return LeaveResponse{}, err
		}
	}

	if gate == GateAdmin && l.HodStatus == GateRejected && req.Status == GateApproved {
		return LeaveResponse{}, leaveerrors.ErrHodRejected
	}

	prevStatus := l.Status

	remark := strings.TrimSpace(req.Comment)
	var approverID *int64
	if actor.EmployeeID != 0 {
		approverID = ptr(actor.EmployeeID)
	}
	l.SetGate(gate, req.Status, trimmed(&remark), approverID, time.Now())
	creditDue := l.MarkCredited()

	if err := qtx.Update(ctx, l); err != nil {
		log.Error("approve leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("approve leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if creditDue {
		s.credit(ctx, l)
	}

	s.effects.Dispatch(ctx, s.decisionEffects(ctx, actor, gate, prevStatus, l, remark))

	log.Info("approve leave success",
		zap.String("gate_status", req.Status),
		zap.String("status", l.Status),
		zap.Int64("actor_user_id", actor.UserID),
	)
	return toResponse(*l), nil
}

// BulkApprove applies each id on its own; one failure never undoes another.
func (s *service) BulkApprove(ctx context.Context, actor Actor, gate Gate, req BulkApproveRequest) (BulkResult, error) {
	result := BulkResult{Successful: []int64{}, Failed: []BulkFailure{}}
	for _, id := range req.IDs {
		_, err := s.Approve(ctx, actor, id, gate, ApproveLeaveRequest{Status: req.Status, Comment: req.Comment})
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			result.Failed = append(result.Failed, BulkFailure{ID: id, Error: httpErr.Message, StatusCode: httpErr.Status})
			continue
		}
		result.Successful = append(result.Successful, id)
	}

	s.log(ctx).Info("bulk approve finished",
		zap.String("gate", string(gate)),
		zap.Int("successful", len(result.Successful)),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// Update edits request details. Dates are not re-checked for overlap.
func (s *service) Update(ctx context.Context, actor Actor, id int64, req UpdateLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx).With(zap.Int64("leave_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepoError(err)
	}
	if err := canModify(actor, l); err != nil {
		return LeaveResponse{}, err
	}
	before := *l

	if req.LeaveType != nil {
		lt := strings.TrimSpace(*req.LeaveType)
		if _, err := s.balances.LeaveType(ctx, lt); err != nil {
			return LeaveResponse{}, err
		}
		l.LeaveType = lt
	}

	start, end := l.StartDate, l.EndDate
	datesChanged := false
	if req.StartDate != nil {
		if start, err = parseDate("start_date", *req.StartDate); err != nil {
			return LeaveResponse{}, err
		}
		datesChanged = true
	}
	if req.EndDate != nil {
		if end, err = parseDate("end_date", *req.EndDate); err != nil {
			return LeaveResponse{}, err
		}
		datesChanged = true
	}
	if end.Before(start) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	l.StartDate, l.EndDate = start, end

	switch {
	case req.Days != nil:
		if *req.Days <= 0 {
			return LeaveResponse{}, leaveerrors.ErrInvalidDays
		}
		l.Days = *req.Days
	case datesChanged:
		l.Days = inclusiveDays(start, end)
	}

	if req.Reason != nil {
		l.Reason = trimmed(req.Reason)
	}

	if err := qtx.Update(ctx, l); err != nil {
		log.Error("update leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("update leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if l.BalanceCredited {
		s.repostCredit(ctx, &before, l)
	}

	if roles := pendingCohorts(l); len(roles) > 0 {
		s.effects.Dispatch(ctx, []Effect{liveEffect(realtime.ToRoles(roles...), realtime.EventLeaveStatusUpdate, toResponse(*l))})
	}

	log.Info("update leave success", zap.Int64("actor_user_id", actor.UserID))
	return toResponse(*l), nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id int64) error {
	log := s.log(ctx).With(zap.Int64("leave_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	if err := canModify(actor, l); err != nil {
		return err
	}

	credited := l.BalanceCredited

	if err := qtx.Delete(ctx, l.ID); err != nil {
		log.Error("delete leave persist failed", zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		log.Error("delete leave commit failed", zap.Error(err))
		return err
	}

	if actor.Role == user.RoleAdmin && credited {
		if err := s.balances.DebitOnDeletion(ctx, l.EmployeeID, l.LeaveType, l.Year(), l.Days); err != nil {
			log.Error("restore leave balance failed", zap.Error(err))
		}
	}

	requester := s.person(ctx, l.EmployeeID)
	if requester.UserID != 0 {
		s.effects.Dispatch(ctx, []Effect{
			liveEffect(realtime.ToUser(requester.UserID), realtime.EventLeaveDeleted, map[string]any{"id": l.ID}),
		})
	}

	log.Info("delete leave success",
		zap.Int64("actor_user_id", actor.UserID),
		zap.Bool("balance_restored", actor.Role == user.RoleAdmin && credited),
	)
	return nil
}

// EmailAction redeems a one-click link. The action parameter, not the
// token, decides between approval and rejection.
func (s *service) EmailAction(ctx context.Context, token, action string) (EmailActionResponse, error) {
	log := s.log(ctx)

	action = strings.ToLower(strings.TrimSpace(action))
	if !approvaltoken.ValidAction(action) {
		return EmailActionResponse{}, leaveerrors.ErrInvalidAction
	}

	t, err := s.tokens.VerifyAndConsume(ctx, token)
	if err != nil {
		if errors.Is(err, approvaltokenerrors.ErrTokenInvalid) {
			return EmailActionResponse{}, leaveerrors.ErrEmailActionInvalid
		}
		log.Error("consume approval token failed", zap.Error(err))
		return EmailActionResponse{}, err
	}

	l, err := s.repo.FindByID(ctx, t.LeaveRequestID)
	if err != nil {
		return EmailActionResponse{}, mapRepoError(err)
	}

	gate := Gate(t.ApproverRole)
	if !gate.Valid() {
		return EmailActionResponse{}, leaveerrors.ErrEmailActionInvalid
	}
	if l.GateStatus(gate) != GatePending {
		return EmailActionResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	approver, err := s.directory.ApproverByEmail(ctx, t.ApproverEmail)
	if err != nil {
		return EmailActionResponse{}, err
	}
	if approver.Role != t.ApproverRole && approver.Role != user.RoleAdmin {
		log.Warn("email action role mismatch",
			zap.String("bound_role", t.ApproverRole),
			zap.String("current_role", approver.Role),
		)
		return EmailActionResponse{}, leaveerrors.ErrApproverRoleMismatch
	}

	status, comment := GateApproved, "Approved via email"
	if action == approvaltoken.ActionReject {
		status, comment = GateRejected, "Rejected via email"
	}

	actor := Actor{
		UserID:     approver.UserID,
		EmployeeID: approver.EmployeeID,
		Role:       approver.Role,
		Name:       approver.Name,
		Email:      approver.Email,
	}
	resp, err := s.Approve(ctx, actor, l.ID, gate, ApproveLeaveRequest{Status: status, Comment: comment})
	if err != nil {
		return EmailActionResponse{}, err
	}

	return EmailActionResponse{
		Message: fmt.Sprintf("Leave request %s by %s", strings.ToLower(status), approver.Name),
		Leave:   resp,
	}, nil
}

func (s *service) Balances(ctx context.Context, actor Actor, year int) ([]balance.BalanceResponse, error) {
	if actor.EmployeeID == 0 {
		return nil, leaveerrors.ErrNoEmployeeProfile
	}
	if year == 0 {
		year = time.Now().Year()
	}
	return s.balances.Balances(ctx, actor.EmployeeID, year)
}

func (s *service) conflicts(ctx context.Context, repo Repository, employeeID int64, start, end time.Time, excludeID *int64) ([]LeaveRequest, error) {
	active, err := repo.FindActiveByEmployee(ctx, employeeID, excludeID)
	if err != nil {
		return nil, err
	}
	return overlapping(active, start, end), nil
}

func (s *service) credit(ctx context.Context, l *LeaveRequest) {
	if err := s.balances.CreditOnApproval(ctx, l.EmployeeID, l.LeaveType, l.Year(), l.Days); err != nil {
		s.log(ctx).Error("credit leave balance failed",
			zap.Int64("leave_id", l.ID),
			zap.Int64("employee_id", l.EmployeeID),
			zap.Error(err),
		)
	}
}

// repostCredit moves an applied credit when its type, year or days change.
func (s *service) repostCredit(ctx context.Context, before, after *LeaveRequest) {
	if before.LeaveType == after.LeaveType && before.Year() == after.Year() && before.Days == after.Days {
		return
	}
	if err := s.balances.DebitOnDeletion(ctx, before.EmployeeID, before.LeaveType, before.Year(), before.Days); err != nil {
		s.log(ctx).Error("reverse leave balance failed",
			zap.Int64("leave_id", before.ID),
			zap.Error(err),
		)
	}
	s.credit(ctx, after)
}

// authorizeHod checks the actor against the requester's assigned manager,
// department and location.
func (s *service) authorizeHod(ctx context.Context, actor Actor, employeeID int64) error {
	if actor.EmployeeID == 0 {
		return leaveerrors.ErrNotAuthorizedApprover
	}
	emp, err := s.directory.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	me, err := s.directory.GetByID(ctx, actor.EmployeeID)
	if err != nil {
		return err
	}
	ok := employee.CanApproveAsHod(*emp, employee.Approver{
		UserID:       actor.UserID,
		EmployeeID:   me.ID,
		Role:         actor.Role,
		DepartmentID: me.DepartmentID,
		LocationID:   me.LocationID,
	})
	if !ok {
		return leaveerrors.ErrNotAuthorizedApprover
	}
	return nil
}

func (s *service) person(ctx context.Context, employeeID int64) employee.Approver {
	p, err := s.directory.Person(ctx, employeeID)
	if err != nil {
		s.log(ctx).Warn("requester lookup failed", zap.Int64("employee_id", employeeID), zap.Error(err))
		return employee.Approver{EmployeeID: employeeID}
	}
	return p
}

func (s *service) resolveHod(ctx context.Context, employeeID int64) *employee.Approver {
	emp, err := s.directory.GetByID(ctx, employeeID)
	if err != nil {
		s.log(ctx).Warn("hod resolution failed", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil
	}
	hod, err := s.directory.ResolveHod(ctx, *emp)
	if err != nil {
		s.log(ctx).Warn("hod resolution failed", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil
	}
	return hod
}

func (s *service) admins(ctx context.Context) []employee.Approver {
	admins, err := s.directory.Admins(ctx)
	if err != nil {
		s.log(ctx).Warn("admin roster lookup failed", zap.Error(err))
		return nil
	}
	return admins
}

func (s *service) creationEffects(ctx context.Context, actor Actor, l *LeaveRequest) []Effect {
	summary := summaryOf(l, actor.Name, actor.Email)

	if l.Status == StatusApproved {
		return []Effect{{
			Kind:         EffectOrgWide,
			Leave:        summary,
			ApproverName: actor.Name,
			ExcludeUsers: []int64{actor.UserID},
		}}
	}

	var fx []Effect
	if l.HodStatus == GatePending {
		if hod := s.resolveHod(ctx, l.EmployeeID); hod != nil {
			fx = append(fx, approvalRequest(summary, *hod, GateHod))
		}
	}
	if l.AdminStatus == GatePending {
		for _, a := range s.admins(ctx) {
			fx = append(fx, approvalRequest(summary, a, GateAdmin))
		}
	}
	if roles := pendingCohorts(l); len(roles) > 0 {
		fx = append(fx, liveEffect(realtime.ToRoles(roles...), realtime.EventNewLeave, toResponse(*l)))
	}
	return fx
}

func (s *service) decisionEffects(ctx context.Context, actor Actor, gate Gate, prevStatus string, l *LeaveRequest, remark string) []Effect {
	requester := s.person(ctx, l.EmployeeID)
	summary := summaryOf(l, requester.Name, requester.Email)
	data := toResponse(*l)

	var fx []Effect
	if l.Status != prevStatus && isTerminal(l.Status) {
		if requester.Email != "" {
			fx = append(fx, Effect{
				Kind:         EffectDecision,
				Leave:        summary,
				Recipient:    recipientOf(requester),
				FinalStatus:  l.Status,
				ApproverName: actor.Name,
				Remark:       remark,
			})
		}
		if l.Status == StatusApproved {
			fx = append(fx, Effect{
				Kind:         EffectOrgWide,
				Leave:        summary,
				ApproverName: actor.Name,
				ExcludeUsers: []int64{requester.UserID},
			})
		}
	}

	if requester.UserID != 0 {
		fx = append(fx, liveEffect(realtime.ToUser(requester.UserID), realtime.EventLeaveStatusUpdate, data))
	}
	if actor.UserID != 0 && actor.UserID != requester.UserID {
		fx = append(fx, liveEffect(realtime.ToUser(actor.UserID), realtime.EventLeaveStatusUpdate, data))
	}

	other := gate.Other()
	if l.GateStatus(other) == GatePending {
		fx = append(fx, liveEffect(realtime.ToRoles(string(other)), realtime.EventLeaveStatusUpdate, data))

		// a rejected request is final, so no approval mail goes out
		if l.Status == StatusRejected {
			return fx
		}

		switch other {
		case GateAdmin:
			for _, a := range s.admins(ctx) {
				fx = append(fx, approvalRequest(summary, a, GateAdmin))
			}
		case GateHod:
			if hod := s.resolveHod(ctx, l.EmployeeID); hod != nil {
				fx = append(fx, approvalRequest(summary, *hod, GateHod))
			}
		}
	}
	return fx
}

func canModify(actor Actor, l *LeaveRequest) error {
	if actor.Role == user.RoleAdmin {
		return nil
	}
	if l.EmployeeID != actor.EmployeeID {
		return leaveerrors.ErrNotOwner
	}
	if !l.BothPending() {
		return leaveerrors.ErrNotEditable
	}
	return nil
}

func pendingCohorts(l *LeaveRequest) []string {
	var roles []string
	if l.HodStatus == GatePending {
		roles = append(roles, user.RoleHod)
	}
	if l.AdminStatus == GatePending {
		roles = append(roles, user.RoleAdmin)
	}
	return roles
}

func approvalRequest(summary notification.LeaveSummary, approver employee.Approver, gate Gate) Effect {
	return Effect{
		Kind:         EffectApprovalRequest,
		Leave:        summary,
		Recipient:    recipientOf(approver),
		ApproverRole: string(gate),
		WithTokens:   true,
	}
}

func liveEffect(target realtime.Target, eventType string, data any) Effect {
	return Effect{
		Kind:   EffectLive,
		Target: target,
		Event:  realtime.Event{Type: eventType, Data: data},
	}
}

func summaryOf(l *LeaveRequest, name, email string) notification.LeaveSummary {
	s := notification.LeaveSummary{
		ID:            l.ID,
		EmployeeName:  name,
		EmployeeEmail: email,
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate,
		EndDate:       l.EndDate,
		Days:          l.Days,
	}
	if l.Reason != nil {
		s.Reason = *l.Reason
	}
	return s
}

func mapRepoError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}
