package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	requestKey  = "babelbot:requests"
	replyPrefix = "babelbot:reply:"
	replyTTL    = 30 * time.Second
)

// Handler answers one named dashboard request.
type Handler func(payload json.RawMessage) (interface{}, error)

// Bridge is the request/response channel between the bot and the companion
// web dashboard. The dashboard LPUSHes JSON requests onto a shared redis
// list; the bot pops them, routes to the named answer handler, and pushes
// the JSON response to a per-request reply key.
type Bridge struct {
	log      *zap.Logger
	client   *redis.Client
	handlers map[string]Handler
}

func New(log *zap.Logger, client *redis.Client) *Bridge {
	return &Bridge{log: log, client: client, handlers: make(map[string]Handler)}
}

// Answer registers the handler for a request name. Registration happens at
// boot, before Run.
func (b *Bridge) Answer(name string, handler Handler) {
	b.handlers[name] = handler
}

type request struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

type response struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Run consumes requests until the context is canceled.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		result, err := b.client.BRPop(ctx, 0, requestKey).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			b.log.Warn("bridge pop failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		b.serve(ctx, []byte(result[1]))
	}
}

func (b *Bridge) serve(ctx context.Context, raw []byte) {
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		b.log.Warn("bridge request malformed", zap.Error(err))
		return
	}
	resp := b.dispatch(req)

	encoded, err := json.Marshal(resp)
	if err != nil {
		b.log.Error("bridge response encode failed", zap.String("name", req.Name), zap.Error(err))
		return
	}
	key := replyPrefix + req.ID
	if err := b.client.LPush(ctx, key, encoded).Err(); err != nil {
		b.log.Warn("bridge reply push failed", zap.String("name", req.Name), zap.Error(err))
		return
	}
	b.client.Expire(ctx, key, replyTTL)
}

func (b *Bridge) dispatch(req request) response {
	handler, ok := b.handlers[req.Name]
	if !ok {
		return response{Error: fmt.Sprintf("unknown request %q", req.Name)}
	}
	data, err := handler(req.Payload)
	if err != nil {
		return response{Error: err.Error()}
	}
	return response{OK: true, Data: data}
}
