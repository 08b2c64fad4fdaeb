package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/observability"
)

// Notice event types.
const (
	NoticeEventCreated = "notice.created"
	NoticeEventDeleted = "notice.deleted"
)

const noticeEventBufferSize = 16

// NoticeEvents fans notice events out to local subscribers and to other API nodes.
type NoticeEvents interface {
	Publish(ctx context.Context, event dto.NoticeEvent)
	Subscribe() (<-chan dto.NoticeEvent, func())
	Start(ctx context.Context)
}

type noticeEvents struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	broker       *noticeBroker
	nodeID       string
}

type noticeEnvelope struct {
	Source string          `json:"source"`
	Event  dto.NoticeEvent `json:"event"`
}

type noticeBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.NoticeEvent]struct{}
}

// NewNoticeEvents constructs the event fan-out. Either transport may be nil.
func NewNoticeEvents(redisClient *redis.Client, channelBase string, natsConn *nats.Conn, logger zerolog.Logger) NoticeEvents {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":notices"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".notices"
	}

	return &noticeEvents{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "notice_events").Logger(),
		broker:       &noticeBroker{subscribers: make(map[chan dto.NoticeEvent]struct{})},
		nodeID:       uuid.NewString(),
	}
}

// Start consumes events published by other nodes. NATS takes precedence over
// redis when both are configured so each event arrives once.
func (e *noticeEvents) Start(ctx context.Context) {
	switch {
	case e.useNATS():
		e.consumeNATS(ctx)
	case e.useRedis():
		go e.consumeRedis(ctx)
	}
}

func (e *noticeEvents) useNATS() bool {
	return e.nats != nil && e.natsSubject != ""
}

func (e *noticeEvents) useRedis() bool {
	return e.redis != nil && e.redisChannel != ""
}

func (e *noticeEvents) Publish(ctx context.Context, event dto.NoticeEvent) {
	if event.SentAt.IsZero() {
		event.SentAt = time.Now().UTC()
	}

	e.broker.broadcast(event)
	observability.NoticeEvents().WithLabelValues(event.Type, "local").Inc()

	if err := e.publishRemote(ctx, event); err != nil {
		e.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish notice event to broker")
	}
}

func (e *noticeEvents) Subscribe() (<-chan dto.NoticeEvent, func()) {
	channel := make(chan dto.NoticeEvent, noticeEventBufferSize)
	e.broker.subscribe(channel)
	observability.LiveClientsActive().Inc()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			e.broker.unsubscribe(channel)
			observability.LiveClientsActive().Dec()
		})
	}

	return channel, cleanup
}

func (e *noticeEvents) publishRemote(ctx context.Context, event dto.NoticeEvent) error {
	if !e.useNATS() && !e.useRedis() {
		return nil
	}

	payload, err := json.Marshal(noticeEnvelope{Source: e.nodeID, Event: event})
	if err != nil {
		return err
	}

	if e.useNATS() {
		return e.nats.Publish(e.natsSubject, payload)
	}
	return e.redis.Publish(ctx, e.redisChannel, payload).Err()
}

func (e *noticeEvents) consumeRedis(ctx context.Context) {
	pubsub := e.redis.Subscribe(ctx, e.redisChannel)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, redis.ErrClosed) {
				return
			}
			e.logger.Error().Err(err).Msg("notice redis subscription closed")
			return
		}
		e.handleRemote([]byte(msg.Payload), "redis")
	}
}

func (e *noticeEvents) consumeNATS(ctx context.Context) {
	// Every node needs every event for its own websocket clients, so no queue group.
	sub, err := e.nats.Subscribe(e.natsSubject, func(msg *nats.Msg) {
		e.handleRemote(msg.Data, "nats")
	})
	if err != nil {
		e.logger.Error().Err(err).Msg("failed to subscribe to nats notice subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			e.logger.Warn().Err(err).Msg("failed to drain notice nats subscription")
		}
	}()
}

func (e *noticeEvents) handleRemote(payload []byte, origin string) {
	var envelope noticeEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		e.logger.Warn().Err(err).Msg("invalid notice event payload")
		return
	}

	if envelope.Source == e.nodeID {
		return
	}

	observability.NoticeEvents().WithLabelValues(envelope.Event.Type, origin).Inc()
	e.broker.broadcast(envelope.Event)
}

func (b *noticeBroker) subscribe(ch chan dto.NoticeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[ch] = struct{}{}
}

func (b *noticeBroker) unsubscribe(ch chan dto.NoticeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

func (b *noticeBroker) broadcast(event dto.NoticeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
