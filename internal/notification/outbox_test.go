package notification_test

import (
	"context"
	"encoding/json"
	"testing"

	"go-leave/internal/approvaltoken"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka"
	kafkaMock "go-leave/internal/messaging/kafka/mock"
	"go-leave/internal/notification"
	notificationMock "go-leave/internal/notification/mock"
	"go-leave/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestOutboxNotifier_QueuesAndDelivers(t *testing.T) {
	ctrl := gomock.NewController(t)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)
	n := notification.NewOutboxNotifier(outbox, nil)
	ctx := contextutil.WithRequestID(context.Background(), "req-9")

	var queued kafka.OutboxEvent
	outbox.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			queued = e
			return nil
		})

	approver := notification.Recipient{UserID: 3, Name: "Hana", Email: "hana@example.com", Role: "hod"}
	tokens := &approvaltoken.TokenPair{Approve: "a", Reject: "r"}

	err := n.NotifyApprovalRequested(ctx, sampleLeave(), approver, tokens)
	assert.NoError(t, err)

	assert.Equal(t, events.LeaveNotificationTopic, queued.Topic)
	assert.Equal(t, events.LeaveApprovalRequested, queued.EventType)
	assert.Equal(t, "12", queued.AggregateID)
	assert.Equal(t, "req-9", queued.RequestID)
	assert.Equal(t, kafka.OutboxStatusPending, queued.Status)

	var ev events.LeaveNotificationEvent
	assert.NoError(t, json.Unmarshal(queued.Payload, &ev))

	inline := notificationMock.NewMockNotifier(ctrl)
	inline.EXPECT().NotifyApprovalRequested(gomock.Any(), sampleLeave(), approver, tokens).Return(nil)

	assert.NoError(t, notification.Deliver(context.Background(), inline, ev))
}

func TestDeliver_OrgWideAndDecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	inline := notificationMock.NewMockNotifier(ctrl)
	ctx := context.Background()

	base := events.LeaveNotificationEvent{
		LeaveID:   1,
		LeaveType: "Sick Leave",
		StartDate: "2026-01-02",
		EndDate:   "2026-01-02",
		Days:      1,
	}

	org := base
	org.EventType = events.LeaveOrgWideNotice
	org.ApproverName = "Ade"
	org.Recipients = []events.LeaveRecipient{{Email: "x@example.com"}, {Email: "y@example.com"}}
	inline.EXPECT().NotifyOrgWide(ctx, gomock.Any(), "Ade", gomock.Len(2)).Return(nil)
	assert.NoError(t, notification.Deliver(ctx, inline, org))

	dec := base
	dec.EventType = events.LeaveDecided
	dec.Recipients = []events.LeaveRecipient{{Email: "x@example.com"}}
	dec.FinalStatus = "Approved"
	inline.EXPECT().NotifyDecision(ctx, gomock.Any(), gomock.Any(), "Approved", "", "").Return(nil)
	assert.NoError(t, notification.Deliver(ctx, inline, dec))

	bad := base
	bad.EventType = "leave.unknown"
	assert.Error(t, notification.Deliver(ctx, inline, bad))

	broken := base
	broken.EventType = events.LeaveDecided
	broken.StartDate = "02/01/2026"
	assert.Error(t, notification.Deliver(ctx, inline, broken))
}
