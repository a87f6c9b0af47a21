package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/trueeth/cw20-reflection/internal/core/token"
)

const (
	feedSendBuffer  = 256
	feedWriteWait   = 10 * time.Second
	feedPongWait    = 60 * time.Second
	feedPingPeriod  = 54 * time.Second
	feedMessageSize = 4096
)

// FeedMessage is one websocket frame: a batch of transfer events from a
// single committed operation.
type FeedMessage struct {
	Type   string                `json:"type"`
	Events []token.TransferEvent `json:"events"`
}

// Feed broadcasts transfer events to websocket subscribers. It implements
// the engine's event sink contract; slow subscribers are dropped rather than
// allowed to stall the broadcast.
type Feed struct {
	upgrader websocket.Upgrader
	log      *logrus.Logger

	mu      sync.RWMutex
	clients map[*feedClient]struct{}
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewFeed creates an empty feed.
func NewFeed(log *logrus.Logger) *Feed {
	return &Feed{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log:     log,
		clients: make(map[*feedClient]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the subscriber.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &feedClient{
		conn: conn,
		send: make(chan []byte, feedSendBuffer),
		done: make(chan struct{}),
	}

	f.mu.Lock()
	f.clients[client] = struct{}{}
	f.mu.Unlock()

	go f.writeLoop(client)
	go f.readLoop(client)
}

// PublishTransfers implements the engine's event sink contract.
func (f *Feed) PublishTransfers(_ context.Context, events []token.TransferEvent) error {
	if len(events) == 0 {
		return nil
	}
	data, err := json.Marshal(FeedMessage{Type: "transfers", Events: events})
	if err != nil {
		return err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for client := range f.clients {
		select {
		case client.send <- data:
		default:
			// subscriber is not keeping up
			go f.drop(client)
		}
	}
	return nil
}

// SubscriberCount returns the number of connected subscribers.
func (f *Feed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// Close disconnects every subscriber.
func (f *Feed) Close() {
	f.mu.Lock()
	clients := make([]*feedClient, 0, len(f.clients))
	for client := range f.clients {
		clients = append(clients, client)
	}
	f.mu.Unlock()
	for _, client := range clients {
		f.drop(client)
	}
}

func (f *Feed) writeLoop(client *feedClient) {
	ticker := time.NewTicker(feedPingPeriod)
	defer ticker.Stop()
	defer f.drop(client)

	for {
		select {
		case <-client.done:
			return
		case data := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains the connection so pings and close frames are handled; the
// feed is broadcast-only and ignores payloads.
func (f *Feed) readLoop(client *feedClient) {
	defer f.drop(client)

	client.conn.SetReadLimit(feedMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(feedPongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) drop(client *feedClient) {
	client.once.Do(func() {
		close(client.done)
		client.conn.Close()

		f.mu.Lock()
		delete(f.clients, client)
		f.mu.Unlock()
	})
}
