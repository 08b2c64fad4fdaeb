package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-portal-api/internal/dto"
)

func TestNoticeEventsLocalFanOut(t *testing.T) {
	events := NewNoticeEvents(nil, "", nil, testLogger())

	first, cancelFirst := events.Subscribe()
	second, cancelSecond := events.Subscribe()
	defer cancelSecond()

	events.Publish(context.Background(), dto.NoticeEvent{Type: NoticeEventCreated, Notice: dto.NoticeResponse{ID: 7}})

	require.Equal(t, uint(7), (<-first).Notice.ID)
	event := <-second
	require.Equal(t, NoticeEventCreated, event.Type)
	require.False(t, event.SentAt.IsZero())

	cancelFirst()
	cancelFirst()
	_, open := <-first
	require.False(t, open)
}

func TestNoticeEventsAcrossNodesViaRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	publisherClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer publisherClient.Close()
	consumerClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer consumerClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := NewNoticeEvents(publisherClient, "portal:test", nil, testLogger())
	consumer := NewNoticeEvents(consumerClient, "portal:test", nil, testLogger())
	consumer.Start(ctx)

	require.Eventually(t, func() bool {
		return server.PubSubNumSub("portal:test:notices")["portal:test:notices"] == 1
	}, 2*time.Second, 10*time.Millisecond)

	received, unsubscribe := consumer.Subscribe()
	defer unsubscribe()
	local, unsubscribeLocal := publisher.Subscribe()
	defer unsubscribeLocal()

	publisher.Publish(ctx, dto.NoticeEvent{Type: NoticeEventDeleted, Notice: dto.NoticeResponse{ID: 3, CompanyName: "Acme"}})

	select {
	case event := <-received:
		require.Equal(t, NoticeEventDeleted, event.Type)
		require.Equal(t, "Acme", event.Notice.CompanyName)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not relayed to the second node")
	}

	require.Equal(t, uint(3), (<-local).Notice.ID)
	select {
	case <-local:
		t.Fatal("publisher received its own event twice")
	case <-time.After(100 * time.Millisecond):
	}
}
