package sideeffect

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"petsitter/internal/domain/chat"
	"petsitter/internal/domain/notification"
)

type fakeMessenger struct {
	created []int64
	deleted []int64
	err     error
	block   bool
}

func (f *fakeMessenger) CreateChannel(ctx context.Context, bookingID int64, members []int64) (*chat.Channel, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, bookingID)
	return &chat.Channel{ID: chat.ChannelID(bookingID), BookingID: bookingID, Members: members}, nil
}

func (f *fakeMessenger) DeleteChannel(ctx context.Context, bookingID int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, bookingID)
	return nil
}

type fakeNotifier struct {
	sent []Job
}

func (f *fakeNotifier) Emit(ctx context.Context, userID int64, typ notification.Type, content string) (*notification.Notification, error) {
	f.sent = append(f.sent, Notify(userID, typ, content))
	return &notification.Notification{UserID: userID, Type: typ, Content: content}, nil
}

type fakePublisher struct {
	events []Event
}

func (f *fakePublisher) Publish(ctx context.Context, ev Event) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeCache struct {
	users []int64
}

func (f *fakeCache) Invalidate(ctx context.Context, userID int64) error {
	f.users = append(f.users, userID)
	return nil
}

func TestRunner_RoutesJobs(t *testing.T) {
	m := &fakeMessenger{}
	n := &fakeNotifier{}
	p := &fakePublisher{}
	c := &fakeCache{}
	r := NewRunner(m, n, p, c)
	ctx := context.Background()

	require.NoError(t, r.Run(ctx, CreateChannel(7, 1, 2)))
	require.NoError(t, r.Run(ctx, DeleteChannel(7)))
	require.NoError(t, r.Run(ctx, Notify(1, notification.TypeBookingAccepted, "accepted")))
	require.NoError(t, r.Run(ctx, Publish(Event{Type: EventBookingAccepted, BookingID: 7})))
	require.NoError(t, r.Run(ctx, InvalidateDiscovery(1)))

	assert.Equal(t, []int64{7}, m.created)
	assert.Equal(t, []int64{7}, m.deleted)
	require.Len(t, n.sent, 1)
	assert.Equal(t, notification.TypeBookingAccepted, n.sent[0].NotificationType)
	require.Len(t, p.events, 1)
	assert.Equal(t, int64(7), p.events[0].BookingID)
	assert.Equal(t, []int64{1}, c.users)
}

func TestRunner_NilCollaboratorsAreNoops(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	ctx := context.Background()

	assert.NoError(t, r.Run(ctx, CreateChannel(1, 1, 2)))
	assert.NoError(t, r.Run(ctx, Publish(Event{Type: EventBookingCreated})))
	assert.NoError(t, r.Run(ctx, InvalidateDiscovery(1)))
	assert.Error(t, r.Run(ctx, Job{Kind: "bogus"}))
}

func TestInline_FailureIsLoggedAndLaterJobsRun(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	m := &fakeMessenger{err: errors.New("chat down")}
	n := &fakeNotifier{}
	d := NewInline(NewRunner(m, n, nil, nil), time.Second, zap.New(core))

	d.Dispatch(context.Background(),
		CreateChannel(3, 1, 2),
		Notify(1, notification.TypeBookingAccepted, "accepted"),
	)

	assert.Equal(t, 1, logs.FilterMessage("side effect failed").Len())
	assert.Len(t, n.sent, 1)
}

func TestInline_TimeoutBoundsSlowCalls(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	d := NewInline(NewRunner(&fakeMessenger{block: true}, nil, nil, nil), 20*time.Millisecond, zap.New(core))

	start := time.Now()
	d.Dispatch(context.Background(), CreateChannel(3, 1, 2))

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, logs.Len())
}

func TestInline_IgnoresCallerCancellation(t *testing.T) {
	m := &fakeMessenger{}
	d := NewInline(NewRunner(m, nil, nil, nil), time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Dispatch(ctx, CreateChannel(9, 1, 2))

	assert.Equal(t, []int64{9}, m.created)
}

func TestHandleTask(t *testing.T) {
	m := &fakeMessenger{}
	handler := HandleTask(NewRunner(m, nil, nil, nil), zap.NewNop())

	task, err := NewTask(CreateChannel(11, 4, 5))
	require.NoError(t, err)
	require.NoError(t, handler(context.Background(), task))
	assert.Equal(t, []int64{11}, m.created)

	err = handler(context.Background(), asynq.NewTask(TaskType, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleTask_PropagatesFailureForRetry(t *testing.T) {
	m := &fakeMessenger{err: errors.New("chat down")}
	handler := HandleTask(NewRunner(m, nil, nil, nil), zap.NewNop())

	task, err := NewTask(DeleteChannel(2))
	require.NoError(t, err)
	assert.Error(t, handler(context.Background(), task))
}

func TestJobPayloadCarriesEvent(t *testing.T) {
	task, err := NewTask(Publish(Event{Type: EventBookingCompleted, BookingID: 5, Rating: 4}))
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal(task.Payload(), &job))
	require.NotNil(t, job.Event)
	assert.Equal(t, EventBookingCompleted, job.Event.Type)
	assert.Equal(t, 4, job.Event.Rating)
}

// silentBroker accepts TCP connections and never answers the AMQP handshake.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().String()
}

func TestInline_TimeoutBoundsUnresponsiveBroker(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	pub := NewAMQPPublisher("amqp://guest:guest@"+silentBroker(t)+"/", "booking.events", zap.NewNop())
	t.Cleanup(func() { _ = pub.Close() })
	d := NewInline(NewRunner(nil, nil, pub, nil), 200*time.Millisecond, zap.New(core))

	start := time.Now()
	d.Dispatch(context.Background(), Publish(Event{Type: EventBookingCreated, BookingID: 1, BookingCode: "BK1"}))

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, 1, logs.FilterMessage("side effect failed").Len())
}

func TestAMQPPublisher_ConcurrentPublishesDoNotQueueBehindDial(t *testing.T) {
	pub := NewAMQPPublisher("amqp://guest:guest@"+silentBroker(t)+"/", "booking.events", zap.NewNop())
	t.Cleanup(func() { _ = pub.Close() })

	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			assert.Error(t, pub.Publish(ctx, Event{Type: EventBookingCreated}))
		}()
	}
	wg.Wait()

	assert.Less(t, time.Since(start), 2*time.Second)
}
