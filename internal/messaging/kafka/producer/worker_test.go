package producer

import (
	"context"
	"errors"
	"testing"

	"go-leave/internal/messaging/kafka"
	kafkaMock "go-leave/internal/messaging/kafka/mock"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	sent []kafkago.Message
	fail map[string]error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if err := w.fail[string(m.Key)]; err != nil {
			return err
		}
		w.sent = append(w.sent, m)
	}
	return nil
}

func TestProcessPendingEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	writer := &fakeWriter{fail: map[string]error{"2": errors.New("broker down")}}
	ctx := context.Background()

	repo.EXPECT().ListPending(ctx, 50).Return([]kafka.OutboxEvent{
		{ID: "a", RequestID: "req-1", AggregateID: "1", EventType: "leave.decided", Topic: "hr.leave.notification.v1", Payload: []byte(`{}`)},
		{ID: "b", AggregateID: "2", EventType: "leave.decided", Topic: "hr.leave.notification.v1", Payload: []byte(`{}`)},
	}, nil)
	repo.EXPECT().MarkSent(ctx, "a").Return(nil)
	repo.EXPECT().MarkFailed(ctx, "b", "broker down").Return(nil)

	err := processPendingEvents(ctx, repo, writer, zap.NewNop())

	assert.NoError(t, err)
	if assert.Len(t, writer.sent, 1) {
		msg := writer.sent[0]
		assert.Equal(t, "hr.leave.notification.v1", msg.Topic)
		assert.Equal(t, []byte("1"), msg.Key)

		headers := map[string]string{}
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, "leave.decided", headers["event_type"])
		assert.Equal(t, "req-1", headers["request_id"])
		assert.Equal(t, "a", headers["outbox_id"])
	}
}

func TestProcessPendingEvents_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	ctx := context.Background()

	repo.EXPECT().ListPending(ctx, 50).Return(nil, errors.New("db down"))

	assert.Error(t, processPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop()))
}
