package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go-leave/internal/approvaltoken"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/realtime"
	"go-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxNotifier queues emails as outbox events for the worker and the
// notification consumer. Live events still go out directly.
type OutboxNotifier struct {
	outbox kafka.OutboxRepository
	live   realtime.Publisher
	now    func() time.Time
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, live realtime.Publisher, logger ...*zap.Logger) *OutboxNotifier {
	l := zap.L().Named("notification.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.outbox")
	}
	return &OutboxNotifier{outbox: outbox, live: live, now: time.Now, logger: l}
}

func (n *OutboxNotifier) NotifyApprovalRequested(ctx context.Context, leave LeaveSummary, approver Recipient, tokens *approvaltoken.TokenPair) error {
	ev := n.event(events.LeaveApprovalRequested, leave, approver)
	if tokens != nil {
		ev.ApproveToken = tokens.Approve
		ev.RejectToken = tokens.Reject
	}
	return n.enqueue(ctx, ev)
}

func (n *OutboxNotifier) NotifyDecision(ctx context.Context, leave LeaveSummary, employee Recipient, finalStatus, approverName, remark string) error {
	ev := n.event(events.LeaveDecided, leave, employee)
	ev.FinalStatus = finalStatus
	ev.ApproverName = approverName
	ev.Remark = remark
	return n.enqueue(ctx, ev)
}

func (n *OutboxNotifier) NotifyOrgWide(ctx context.Context, leave LeaveSummary, approverName string, recipients []Recipient) error {
	ev := n.event(events.LeaveOrgWideNotice, leave, recipients...)
	ev.ApproverName = approverName
	return n.enqueue(ctx, ev)
}

func (n *OutboxNotifier) PushLiveEvent(ctx context.Context, target realtime.Target, ev realtime.Event) error {
	if n.live == nil || target.Empty() {
		return nil
	}
	return n.live.Publish(ctx, target, ev)
}

func (n *OutboxNotifier) event(eventType string, leave LeaveSummary, to ...Recipient) events.LeaveNotificationEvent {
	recipients := make([]events.LeaveRecipient, 0, len(to))
	for _, r := range to {
		recipients = append(recipients, events.LeaveRecipient{UserID: r.UserID, Name: r.Name, Email: r.Email, Role: r.Role})
	}
	return events.LeaveNotificationEvent{
		EventType:     eventType,
		LeaveID:       leave.ID,
		EmployeeName:  leave.EmployeeName,
		EmployeeEmail: leave.EmployeeEmail,
		LeaveType:     leave.LeaveType,
		StartDate:     leave.StartDate.Format(dateLayout),
		EndDate:       leave.EndDate.Format(dateLayout),
		Days:          leave.Days,
		Reason:        leave.Reason,
		Recipients:    recipients,
		OccurredAt:    n.now().UTC(),
	}
}

func (n *OutboxNotifier) enqueue(ctx context.Context, ev events.LeaveNotificationEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	out := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   strconv.FormatInt(ev.LeaveID, 10),
		EventType:     ev.EventType,
		Topic:         events.LeaveNotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(out); err != nil {
		return err
	}
	if err := n.outbox.Create(ctx, out); err != nil {
		return fmt.Errorf("enqueue %s: %w", ev.EventType, err)
	}

	n.logger.Debug("leave notification queued",
		zap.String("outbox_id", out.ID),
		zap.String("event_type", ev.EventType),
		zap.Int64("leave_id", ev.LeaveID),
	)
	return nil
}

// Deliver replays a queued notification through an email-sending notifier.
func Deliver(ctx context.Context, n Notifier, ev events.LeaveNotificationEvent) error {
	leave, err := summaryFromEvent(ev)
	if err != nil {
		return err
	}

	recipients := make([]Recipient, 0, len(ev.Recipients))
	for _, r := range ev.Recipients {
		recipients = append(recipients, Recipient{UserID: r.UserID, Name: r.Name, Email: r.Email, Role: r.Role})
	}

	switch ev.EventType {
	case events.LeaveApprovalRequested:
		if len(recipients) != 1 {
			return fmt.Errorf("approval request needs one recipient, got %d", len(recipients))
		}
		var tokens *approvaltoken.TokenPair
		if ev.ApproveToken != "" && ev.RejectToken != "" {
			tokens = &approvaltoken.TokenPair{Approve: ev.ApproveToken, Reject: ev.RejectToken}
		}
		return n.NotifyApprovalRequested(ctx, leave, recipients[0], tokens)
	case events.LeaveDecided:
		if len(recipients) != 1 {
			return fmt.Errorf("decision needs one recipient, got %d", len(recipients))
		}
		return n.NotifyDecision(ctx, leave, recipients[0], ev.FinalStatus, ev.ApproverName, ev.Remark)
	case events.LeaveOrgWideNotice:
		return n.NotifyOrgWide(ctx, leave, ev.ApproverName, recipients)
	default:
		return fmt.Errorf("unknown leave notification %q", ev.EventType)
	}
}

func summaryFromEvent(ev events.LeaveNotificationEvent) (LeaveSummary, error) {
	start, err := time.Parse(dateLayout, ev.StartDate)
	if err != nil {
		return LeaveSummary{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := time.Parse(dateLayout, ev.EndDate)
	if err != nil {
		return LeaveSummary{}, fmt.Errorf("end_date: %w", err)
	}
	return LeaveSummary{
		ID:            ev.LeaveID,
		EmployeeName:  ev.EmployeeName,
		EmployeeEmail: ev.EmployeeEmail,
		LeaveType:     ev.LeaveType,
		StartDate:     start,
		EndDate:       end,
		Days:          ev.Days,
		Reason:        ev.Reason,
	}, nil
}
