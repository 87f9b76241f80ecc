// Package events carries feedback lifecycle events over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mockprep/platform/internal/models"
)

// channels
const (
	FeedbackFinalizedChannel  = "feedback_finalized"
	InterviewCompletedChannel = "interview_completed"
)

type FeedbackFinalizedEvent struct {
	FeedbackID  string    `json:"feedbackId"`
	InterviewID string    `json:"interviewId"`
	UserID      string    `json:"userId"`
	TotalScore  int       `json:"totalScore"`
	FinalizedAt time.Time `json:"finalizedAt"`
}

// InterviewCompletedEvent is published by the interview conduct service when
// a candidate finishes a session. Anyone who can publish on the channel is
// trusted to name the user. The handler still applies the candidate
// generation rules to that user before scoring.
type InterviewCompletedEvent struct {
	InterviewID string                  `json:"interviewId"`
	UserID      string                  `json:"userId"`
	Transcript  []models.TranscriptTurn `json:"transcript"`
	FeedbackID  string                  `json:"feedbackId,omitempty"`
}

type Publisher interface {
	PublishFeedbackFinalized(ctx context.Context, ev FeedbackFinalizedEvent) error
}

type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) PublishFeedbackFinalized(ctx context.Context, ev FeedbackFinalizedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal feedback finalized event: %w", err)
	}
	return p.rdb.Publish(ctx, FeedbackFinalizedChannel, payload).Err()
}

// NopPublisher drops events. Used when no Redis is configured.
type NopPublisher struct{}

func (NopPublisher) PublishFeedbackFinalized(context.Context, FeedbackFinalizedEvent) error {
	return nil
}

// InterviewCompletedHandler processes one completed interview.
type InterviewCompletedHandler func(ctx context.Context, ev InterviewCompletedEvent) error

type Subscriber struct {
	rdb     *redis.Client
	handle  InterviewCompletedHandler
	logger  *zap.Logger
	timeout time.Duration
}

func NewSubscriber(rdb *redis.Client, handle InterviewCompletedHandler, logger *zap.Logger, timeout time.Duration) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{rdb: rdb, handle: handle, logger: logger, timeout: timeout}
}

// Run listens for completed interviews until ctx is done. ready, when not
// nil, is closed once the subscription is confirmed.
func (s *Subscriber) Run(ctx context.Context, ready chan<- struct{}) error {
	sub := s.rdb.Subscribe(ctx, InterviewCompletedChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", InterviewCompletedChannel, err)
	}
	if ready != nil {
		close(ready)
	}
	s.logger.Info("subscribed to interview events", zap.String("channel", InterviewCompletedChannel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			s.handlePayload(ctx, msg.Payload)
		}
	}
}

func (s *Subscriber) handlePayload(ctx context.Context, payload string) {
	var ev InterviewCompletedEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		s.logger.Warn("dropping malformed interview event", zap.Error(err))
		return
	}
	if ev.InterviewID == "" || ev.UserID == "" {
		s.logger.Warn("dropping interview event without ids")
		return
	}

	hctx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.handle(hctx, ev); err != nil {
		s.logger.Error("interview event handling failed",
			zap.String("interview_id", ev.InterviewID),
			zap.String("user_id", ev.UserID),
			zap.Error(err))
		return
	}
	s.logger.Info("interview event handled", zap.String("interview_id", ev.InterviewID))
}
