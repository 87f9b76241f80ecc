package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mockprep/platform/internal/models"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPublishFeedbackFinalized(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, FeedbackFinalizedChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(rdb)
	require.NoError(t, pub.PublishFeedbackFinalized(ctx, FeedbackFinalizedEvent{FeedbackID: "f1", InterviewID: "i1", UserID: "c1", TotalScore: 81}))

	select {
	case msg := <-sub.Channel():
		var ev FeedbackFinalizedEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
		assert.Equal(t, "f1", ev.FeedbackID)
		assert.Equal(t, 81, ev.TotalScore)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.PublishFeedbackFinalized(context.Background(), FeedbackFinalizedEvent{}))
}

func TestSubscriberDispatchesCompletedInterviews(t *testing.T) {
	rdb := newRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []InterviewCompletedEvent
	handled := make(chan struct{}, 4)
	s := NewSubscriber(rdb, func(_ context.Context, ev InterviewCompletedEvent) error {
		mu.Lock()
		got = append(got, ev)
		mu.Unlock()
		handled <- struct{}{}
		return nil
	}, nil, time.Second)

	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, ready) }()
	<-ready

	payload, _ := json.Marshal(InterviewCompletedEvent{
		InterviewID: "i1",
		UserID:      "c1",
		Transcript:  []models.TranscriptTurn{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, rdb.Publish(ctx, InterviewCompletedChannel, "not json").Err())
	require.NoError(t, rdb.Publish(ctx, InterviewCompletedChannel, `{"interviewId":""}`).Err())
	require.NoError(t, rdb.Publish(ctx, InterviewCompletedChannel, payload).Err())

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handler")
	}

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "i1", got[0].InterviewID)
	assert.Len(t, got[0].Transcript, 1)
}

func TestHandlePayloadLogsHandlerFailure(t *testing.T) {
	calls := 0
	s := NewSubscriber(nil, func(context.Context, InterviewCompletedEvent) error {
		calls++
		return errors.New("model down")
	}, nil, 0)

	s.handlePayload(context.Background(), `{"interviewId":"i1","userId":"c1","transcript":[]}`)
	assert.Equal(t, 1, calls)
}
