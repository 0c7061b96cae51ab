package streaming

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txguard-lab/internal/domain/models"
	"txguard-lab/pkg/logger"
)

func scanEvent(risk int) *Event {
	scan := &models.Scan{ID: 7}
	result := &models.AnalysisResult{
		RiskLevel: risk,
		Findings:  []models.Finding{{Type: models.PatternTypeDomain}},
		URL:       "https://uniswapp.org",
	}
	return NewScanCompletedEvent(scan, result)
}

func TestNewScanCompletedEvent(t *testing.T) {
	event := scanEvent(90)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventTypeScanCompleted, event.Type)
	assert.Equal(t, int64(7), event.ScanID)
	assert.Equal(t, models.RiskTierHigh, event.Tier)
	assert.Equal(t, 1, event.FindingCount)
	assert.Equal(t, "https://uniswapp.org", event.URL)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "txguard.scan.completed.high", Subject("txguard", scanEvent(90)))
	assert.Equal(t, "txguard.scan.completed.low", Subject("txguard", scanEvent(0)))
	assert.Equal(t, "txguard.pattern.deleted.none", Subject("txguard", NewPatternDeletedEvent(3)))

	added := NewPatternAddedEvent(&models.PhishingPattern{ID: 1, RiskLevel: 50})
	assert.Equal(t, "txguard.pattern.added.medium", Subject("txguard", added))
}

func TestSubscription_Matches(t *testing.T) {
	tests := []struct {
		name  string
		sub   Subscription
		event *Event
		want  bool
	}{
		{"empty matches all", Subscription{}, scanEvent(10), true},
		{"type match", Subscription{Types: []EventType{EventTypeScanCompleted}}, scanEvent(10), true},
		{"type mismatch", Subscription{Types: []EventType{EventTypePatternAdded}}, scanEvent(10), false},
		{"tier at minimum", Subscription{MinTier: models.RiskTierMedium}, scanEvent(50), true},
		{"tier below minimum", Subscription{MinTier: models.RiskTierHigh}, scanEvent(50), false},
		{"untiered passes tier filter", Subscription{MinTier: models.RiskTierHigh}, NewPatternDeletedEvent(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.Matches(tt.event))
		})
	}
}

type fakeRemote struct {
	mu        sync.Mutex
	published []*Event
	err       error
	closed    bool
}

func (f *fakeRemote) Publish(_ context.Context, event *Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, event)
	return f.err
}

func (f *fakeRemote) IsConnected() bool { return true }

func (f *fakeRemote) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func TestEventBus_PublishAndSubscribe(t *testing.T) {
	remote := &fakeRemote{err: errors.New("nats down")}
	bus := NewEventBus(remote, logger.NewNop())

	all, unsubAll := bus.Subscribe(nil)
	highOnly, unsubHigh := bus.Subscribe(&Subscription{MinTier: models.RiskTierHigh})
	defer unsubHigh()
	assert.Equal(t, 2, bus.SubscriberCount())

	// a remote failure does not stop local delivery
	require.NoError(t, bus.Publish(context.Background(), scanEvent(20)))

	select {
	case e := <-all:
		assert.Equal(t, EventTypeScanCompleted, e.Type)
	case <-time.After(time.Second):
		t.Fatal("expected event on unfiltered subscriber")
	}
	assert.Empty(t, highOnly)
	assert.Len(t, remote.published, 1)

	unsubAll()
	unsubAll()
	assert.Equal(t, 1, bus.SubscriberCount())

	_, ok := <-all
	assert.False(t, ok)

	bus.Close()
	assert.True(t, remote.closed)
	assert.Zero(t, bus.SubscriberCount())
}

func TestEventBusPublisher(t *testing.T) {
	bus := NewEventBus(nil, logger.NewNop())
	ch, unsub := bus.Subscribe(nil)
	defer unsub()

	pub := NewEventBusPublisher(bus, nil)
	ctx := context.Background()

	require.NoError(t, pub.PublishPatternAdded(ctx, &models.PhishingPattern{ID: 4, Pattern: "evil.io", RiskLevel: 80}))
	require.NoError(t, pub.PublishPatternDeleted(ctx, 4))

	first := <-ch
	second := <-ch
	assert.Equal(t, EventTypePatternAdded, first.Type)
	assert.Equal(t, "evil.io", first.Pattern)
	assert.Equal(t, EventTypePatternDeleted, second.Type)
	assert.Equal(t, int64(4), second.PatternID)
}

func TestWebSocketHub_DeliversMatchingEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewWebSocketHub(logger.NewNop())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWebSocket(w, r, &Subscription{Types: []EventType{EventTypeScanCompleted}})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastEvent(NewPatternDeletedEvent(1))
	hub.BroadcastEvent(scanEvent(95))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventTypeScanCompleted, got.Type)
	assert.Equal(t, int64(7), got.ScanID)
}
