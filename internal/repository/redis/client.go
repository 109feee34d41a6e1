package redis

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dropfour/connect4/internal/domain"
)

const channelPrefix = "connect4:games:"

// Connect opens a client for addr, which may be host:port or a redis:// URL,
// and checks it with a PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr, Password: password, DB: 0}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
		if password != "" {
			parsed.Password = password
		}
		opts = parsed
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", opts.Addr)
	}

	logrus.WithField("addr", opts.Addr).Info("[REDIS] Connected successfully")
	return client, nil
}

// Channel is the pub/sub channel carrying the events of one game.
func Channel(gameID string) string {
	return channelPrefix + gameID + ":events"
}

type eventMessage struct {
	GameID string       `json:"gameId"`
	Event  domain.Event `json:"event"`
}

// PubSubClient is the subset of *redis.Client the publisher needs.
type PubSubClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type queued struct {
	channel string
	payload []byte
}

// Publisher forwards engine events to Redis pub/sub so renderers outside
// this process can follow a game. Events are queued and sent by Run; when
// the queue is full the event is dropped.
type Publisher struct {
	client  PubSubClient
	queue   chan queued
	dropped atomic.Int64
}

func NewPublisher(client PubSubClient, buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{
		client: client,
		queue:  make(chan queued, buffer),
	}
}

func (p *Publisher) Publish(gameID string, event domain.Event) {
	payload, err := json.Marshal(eventMessage{GameID: gameID, Event: event})
	if err != nil {
		logrus.WithError(err).WithField("game_id", gameID).Error("[REDIS] Failed to encode event")
		return
	}

	select {
	case p.queue <- queued{channel: Channel(gameID), payload: payload}:
	default:
		p.dropped.Add(1)
		logrus.WithFields(logrus.Fields{
			"game_id": gameID,
			"event":   event.Type,
		}).Warn("[REDIS] Publish queue full, dropping event")
	}
}

// Dropped reports how many events were discarded because the queue was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

// Run sends queued events until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.queue:
			if err := p.client.Publish(ctx, msg.channel, msg.payload).Err(); err != nil {
				logrus.WithError(err).WithField("channel", msg.channel).Warn("[REDIS] Publish failed")
			}
		}
	}
}
