package leave

import (
	"context"
	"sync"
	"time"

	"go-leave/internal/approvaltoken"
	"go-leave/internal/employee"
	"go-leave/internal/notification"
	"go-leave/internal/realtime"
	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
)

type EffectKind int

const (
	EffectApprovalRequest EffectKind = iota + 1
	EffectDecision
	EffectOrgWide
	EffectLive
)

func (k EffectKind) String() string {
	switch k {
	case EffectApprovalRequest:
		return "approval_request"
	case EffectDecision:
		return "decision"
	case EffectOrgWide:
		return "org_wide"
	case EffectLive:
		return "live"
	default:
		return "unknown"
	}
}

// Effect is a side effect produced by a committed state transition.
// Only the fields relevant to Kind are set.
type Effect struct {
	Kind  EffectKind
	Leave notification.LeaveSummary

	// approval request and decision
	Recipient    notification.Recipient
	ApproverRole string
	WithTokens   bool

	// decision and org-wide
	FinalStatus  string
	ApproverName string
	Remark       string
	ExcludeUsers []int64

	// live
	Target realtime.Target
	Event  realtime.Event
}

type Dispatcher interface {
	Dispatch(ctx context.Context, effects []Effect)
}

// Runner executes effects. Every failure is logged and swallowed.
type Runner struct {
	notifier  notification.Notifier
	tokens    approvaltoken.Service
	directory employee.Service
	logger    *zap.Logger
}

func NewRunner(notifier notification.Notifier, tokens approvaltoken.Service, directory employee.Service, logger ...*zap.Logger) *Runner {
	l := zap.L().Named("leave.effects")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.effects")
	}
	return &Runner{notifier: notifier, tokens: tokens, directory: directory, logger: l}
}

func (r *Runner) Run(ctx context.Context, effects []Effect) {
	for _, e := range effects {
		if err := r.run(ctx, e); err != nil {
			depErr := apperror.Dependency(err, "leave side effect failed")
			r.logger.Warn(depErr.Message,
				zap.String("code", depErr.Code),
				zap.String("effect", e.Kind.String()),
				zap.Int64("leave_id", e.Leave.ID),
				zap.Error(err),
			)
		}
	}
}

func (r *Runner) run(ctx context.Context, e Effect) error {
	switch e.Kind {
	case EffectApprovalRequest:
		var pair *approvaltoken.TokenPair
		if e.WithTokens {
			p, err := r.tokens.Issue(ctx, e.Leave.ID, e.Recipient.Email, e.ApproverRole)
			if err != nil {
				// still ask for a decision, just without one-click links
				r.logger.Warn("issue approval tokens failed",
					zap.Int64("leave_id", e.Leave.ID),
					zap.String("approver", e.Recipient.Email),
					zap.Error(err),
				)
			} else {
				pair = &p
			}
		}
		return r.notifier.NotifyApprovalRequested(ctx, e.Leave, e.Recipient, pair)

	case EffectDecision:
		return r.notifier.NotifyDecision(ctx, e.Leave, e.Recipient, e.FinalStatus, e.ApproverName, e.Remark)

	case EffectOrgWide:
		people, err := r.directory.ActiveRecipients(ctx)
		if err != nil {
			return err
		}
		skip := make(map[int64]bool, len(e.ExcludeUsers))
		for _, id := range e.ExcludeUsers {
			skip[id] = true
		}
		recipients := make([]notification.Recipient, 0, len(people))
		for _, p := range people {
			if skip[p.UserID] {
				continue
			}
			recipients = append(recipients, recipientOf(p))
		}
		return r.notifier.NotifyOrgWide(ctx, e.Leave, e.ApproverName, recipients)

	case EffectLive:
		return r.notifier.PushLiveEvent(ctx, e.Target, e.Event)
	}
	return nil
}

// AsyncDispatcher runs effects on a goroutine detached from the caller's
// cancellation, bounded by timeout.
type AsyncDispatcher struct {
	runner  *Runner
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsyncDispatcher(runner *Runner, timeout time.Duration) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AsyncDispatcher{runner: runner, timeout: timeout}
}

func (d *AsyncDispatcher) Dispatch(ctx context.Context, effects []Effect) {
	if len(effects) == 0 {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		d.runner.Run(runCtx, effects)
	}()
}

// Wait blocks until every dispatched batch has finished.
func (d *AsyncDispatcher) Wait() { d.wg.Wait() }

func recipientOf(a employee.Approver) notification.Recipient {
	return notification.Recipient{UserID: a.UserID, Name: a.Name, Email: a.Email, Role: a.Role}
}
