package leave

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"go-leave/internal/approvaltoken"
	approvaltokenerrors "go-leave/internal/approvaltoken/errors"
	"go-leave/internal/balance"
	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/employee"
	employeeerrors "go-leave/internal/employee/errors"
	"go-leave/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory used across the service tests:
//
//	eve   employee  dept 10 loc 100
//	hank  hod       dept 10 loc 100
//	ada   admin     dept 20 loc 200
//	otto  employee  dept 30 loc 300
//	hugo  hod       dept 30 loc 300
var (
	eve  = Actor{UserID: 101, EmployeeID: 1, Role: user.RoleEmployee, Name: "Eve", Email: "eve@corp.test"}
	hank = Actor{UserID: 102, EmployeeID: 2, Role: user.RoleHod, Name: "Hank", Email: "hank@corp.test"}
	ada  = Actor{UserID: 103, EmployeeID: 3, Role: user.RoleAdmin, Name: "Ada", Email: "ada@corp.test"}
	otto = Actor{UserID: 104, EmployeeID: 4, Role: user.RoleEmployee, Name: "Otto", Email: "otto@corp.test"}
	hugo = Actor{UserID: 105, EmployeeID: 5, Role: user.RoleHod, Name: "Hugo", Email: "hugo@corp.test"}
)

func day(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// ---- repository ----

type fakeRepo struct {
	mu     sync.Mutex
	rows   map[int64]*LeaveRequest
	nextID int64
	dir    *fakeDirectory
}

func newFakeRepo(dir *fakeDirectory) *fakeRepo {
	return &fakeRepo{rows: map[int64]*LeaveRequest{}, dir: dir}
}

func (r *fakeRepo) WithTx(*sql.Tx) Repository { return r }

func (r *fakeRepo) seed(l LeaveRequest) *LeaveRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l.ID = r.nextID
	if l.Status == "" {
		l.Status = DeriveStatus(l.HodStatus, l.AdminStatus)
	}
	r.rows[l.ID] = &l
	cp := l
	return &cp
}

func (r *fakeRepo) get(id int64) LeaveRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.rows[id]
}

func (r *fakeRepo) Create(_ context.Context, l *LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	l.ID = r.nextID
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	cp := *l
	r.rows[l.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeRepo) FindByIDForUpdate(ctx context.Context, id int64) (*LeaveRequest, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeRepo) where(keep func(LeaveRequest) bool) []LeaveRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []LeaveRequest
	for _, l := range r.rows {
		if keep(*l) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeRepo) FindActiveByEmployee(_ context.Context, employeeID int64, excludeID *int64) ([]LeaveRequest, error) {
	active := func(s string) bool { return s == GatePending || s == GateApproved }
	return r.where(func(l LeaveRequest) bool {
		if l.EmployeeID != employeeID || (excludeID != nil && l.ID == *excludeID) {
			return false
		}
		return active(l.HodStatus) || active(l.AdminStatus)
	}), nil
}

func (r *fakeRepo) FindByEmployee(_ context.Context, employeeID int64) ([]LeaveRequest, error) {
	return r.where(func(l LeaveRequest) bool { return l.EmployeeID == employeeID }), nil
}

func (r *fakeRepo) FindAll(_ context.Context, f ListFilter) ([]LeaveRequest, error) {
	return r.where(func(l LeaveRequest) bool {
		return (f.Status == "" || l.Status == f.Status) && (f.EmployeeID == 0 || l.EmployeeID == f.EmployeeID)
	}), nil
}

func (r *fakeRepo) FindForHod(_ context.Context, scope HodScope, f ListFilter) ([]LeaveRequest, error) {
	return r.where(func(l LeaveRequest) bool {
		if f.Status != "" && l.Status != f.Status {
			return false
		}
		e, ok := r.dir.employees[l.EmployeeID]
		if !ok {
			return false
		}
		return (e.ManagerID != nil && *e.ManagerID == scope.EmployeeID) ||
			sameID(e.DepartmentID, scope.DepartmentID) ||
			sameID(e.LocationID, scope.LocationID)
	}), nil
}

func (r *fakeRepo) FindApprovedBetween(_ context.Context, from, to time.Time) ([]LeaveRequest, error) {
	return r.where(func(l LeaveRequest) bool {
		return l.Status == StatusApproved && Overlaps(l.StartDate, l.EndDate, from, to)
	}), nil
}

func (r *fakeRepo) Update(_ context.Context, l *LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[l.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	l.UpdatedAt = time.Now()
	cp := *l
	r.rows[l.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func sameID(a, b *int64) bool { return a != nil && b != nil && *a == *b }

// ---- directory ----

type fakeDirectory struct {
	employees map[int64]employee.Employee
	people    map[int64]employee.Approver
}

func newFakeDirectory() *fakeDirectory {
	d := &fakeDirectory{employees: map[int64]employee.Employee{}, people: map[int64]employee.Approver{}}
	d.add(eve, 10, 100)
	d.add(hank, 10, 100)
	d.add(ada, 20, 200)
	d.add(otto, 30, 300)
	d.add(hugo, 30, 300)
	return d
}

func (d *fakeDirectory) add(a Actor, dept, loc int64) {
	uid := a.UserID
	d.employees[a.EmployeeID] = employee.Employee{
		ID: a.EmployeeID, UserID: &uid, FullName: a.Name, Email: a.Email,
		DepartmentID: ptr(dept), LocationID: ptr(loc),
	}
	d.people[a.EmployeeID] = employee.Approver{
		UserID: a.UserID, EmployeeID: a.EmployeeID, Name: a.Name, Email: a.Email, Role: a.Role,
		DepartmentID: ptr(dept), LocationID: ptr(loc),
	}
}

func (d *fakeDirectory) sorted(keep func(employee.Approver) bool) []employee.Approver {
	var out []employee.Approver
	for _, p := range d.people {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}

func (d *fakeDirectory) GetByID(_ context.Context, id int64) (*employee.Employee, error) {
	e, ok := d.employees[id]
	if !ok {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	return &e, nil
}

func (d *fakeDirectory) Person(_ context.Context, employeeID int64) (employee.Approver, error) {
	p, ok := d.people[employeeID]
	if !ok {
		return employee.Approver{}, employeeerrors.ErrEmployeeNotFound
	}
	return p, nil
}

func (d *fakeDirectory) ResolveHod(_ context.Context, emp employee.Employee) (*employee.Approver, error) {
	snap := employee.Snapshot{Hods: d.sorted(func(p employee.Approver) bool { return p.Role == user.RoleHod })}
	if emp.ManagerID != nil {
		if m, ok := d.people[*emp.ManagerID]; ok {
			snap.Manager = &m
		}
	}
	return employee.ResolveHod(emp, snap)
}

func (d *fakeDirectory) Admins(context.Context) ([]employee.Approver, error) {
	return d.sorted(func(p employee.Approver) bool { return p.Role == user.RoleAdmin }), nil
}

func (d *fakeDirectory) ApproverByEmail(_ context.Context, email string) (*employee.Approver, error) {
	for _, p := range d.people {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, employeeerrors.ErrApproverNotFound
}

func (d *fakeDirectory) ActiveRecipients(context.Context) ([]employee.Approver, error) {
	return d.sorted(func(employee.Approver) bool { return true }), nil
}

// ---- balance ledger ----

type ledgerCall struct {
	EmployeeID int64
	LeaveType  string
	Year       int
	Days       int
}

type fakeBalances struct {
	mu      sync.Mutex
	credits []ledgerCall
	debits  []ledgerCall
}

func (b *fakeBalances) CreditOnApproval(_ context.Context, employeeID int64, leaveType string, year, days int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credits = append(b.credits, ledgerCall{employeeID, leaveType, year, days})
	return nil
}

func (b *fakeBalances) DebitOnDeletion(_ context.Context, employeeID int64, leaveType string, year, days int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.debits = append(b.debits, ledgerCall{employeeID, leaveType, year, days})
	return nil
}

func (b *fakeBalances) Balances(_ context.Context, employeeID int64, year int) ([]balance.BalanceResponse, error) {
	return nil, nil
}

func (b *fakeBalances) LeaveType(_ context.Context, key string) (*balance.LeaveType, error) {
	switch key {
	case "Annual Leave":
		return &balance.LeaveType{Key: key, Name: key, DefaultDays: 18}, nil
	case "Sick Leave":
		return &balance.LeaveType{Key: key, Name: key, DefaultDays: 14}, nil
	}
	return nil, balanceerrors.ErrLeaveTypeNotFound
}

func (b *fakeBalances) LeaveTypes(context.Context) ([]balance.LeaveTypeResponse, error) {
	return nil, nil
}

// ---- approval tokens ----

type fakeTokens struct {
	mu     sync.Mutex
	tokens map[string]*approvaltoken.ApprovalToken
	seq    int
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: map[string]*approvaltoken.ApprovalToken{}}
}

func (f *fakeTokens) Issue(_ context.Context, requestID int64, email, role string) (approvaltoken.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	pair := approvaltoken.TokenPair{
		Approve: fmt.Sprintf("approve-%d", f.seq),
		Reject:  fmt.Sprintf("reject-%d", f.seq),
	}
	for action, tok := range map[string]string{approvaltoken.ActionApprove: pair.Approve, approvaltoken.ActionReject: pair.Reject} {
		f.tokens[tok] = &approvaltoken.ApprovalToken{
			Token: tok, LeaveRequestID: requestID, ApproverEmail: email, ApproverRole: role, Action: action,
		}
	}
	return pair, nil
}

func (f *fakeTokens) VerifyAndConsume(_ context.Context, token string) (*approvaltoken.ApprovalToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok || t.Used {
		return nil, approvaltokenerrors.ErrTokenInvalid
	}
	t.Used = true
	cp := *t
	return &cp, nil
}

// ---- effects ----

type recordingDispatcher struct {
	mu      sync.Mutex
	batches [][]Effect
}

func (d *recordingDispatcher) Dispatch(_ context.Context, fx []Effect) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batches = append(d.batches, fx)
}

func (d *recordingDispatcher) last() []Effect {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.batches) == 0 {
		return nil
	}
	return d.batches[len(d.batches)-1]
}

func (d *recordingDispatcher) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batches = nil
}

func ofKind(fx []Effect, kind EffectKind) []Effect {
	var out []Effect
	for _, e := range fx {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ---- harness ----

type harness struct {
	svc    Service
	sql    sqlmock.Sqlmock
	repo   *fakeRepo
	dir    *fakeDirectory
	ledger *fakeBalances
	tokens *fakeTokens
	fx     *recordingDispatcher
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	h := &harness{
		sql:    mock,
		dir:    newFakeDirectory(),
		ledger: &fakeBalances{},
		tokens: newFakeTokens(),
		fx:     &recordingDispatcher{},
	}
	h.repo = newFakeRepo(h.dir)
	h.svc = NewService(db, h.repo, h.dir, h.ledger, h.tokens, h.fx, zap.NewNop())
	return h
}

func (h *harness) expectCommit() {
	h.sql.ExpectBegin()
	h.sql.ExpectCommit()
}

func (h *harness) expectRollback() {
	h.sql.ExpectBegin()
	h.sql.ExpectRollback()
}

func (h *harness) pending(a Actor, start, end string) *LeaveRequest {
	return h.repo.seed(LeaveRequest{
		EmployeeID:  a.EmployeeID,
		LeaveType:   "Annual Leave",
		StartDate:   day(start),
		EndDate:     day(end),
		Days:        inclusiveDays(day(start), day(end)),
		HodStatus:   GatePending,
		AdminStatus: GatePending,
	})
}
