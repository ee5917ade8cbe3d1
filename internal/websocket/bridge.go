package websocket

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const bridgeChannelPrefix = "chat:room:"

// Bridge propagates room broadcasts through the shared key-value broker's
// pub/sub facility, so a message published on one server instance reaches
// room members connected to any instance. Without a bridge the hub only
// reaches its own process (which also requires sticky routing per batch).
type Bridge struct {
	rdb *redis.Client
}

func NewBridge(rdb *redis.Client) *Bridge {
	return &Bridge{rdb: rdb}
}

// Publish sends a payload to the room's broker channel. Each instance's
// subscriber, including this one's, feeds it to the local hub; the broker
// preserves per-publisher order, so per-room ordering survives the hop.
func (b *Bridge) Publish(ctx context.Context, batchID int64, payload []byte) error {
	return b.rdb.Publish(ctx, bridgeChannelPrefix+strconv.FormatInt(batchID, 10), payload).Err()
}

// Run subscribes to every room channel and feeds received payloads into the
// hub's local fan-out. Blocks until ctx is canceled.
func (b *Bridge) Run(ctx context.Context, hub *Hub) error {
	sub := b.rdb.PSubscribe(ctx, bridgeChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.Info("chat bridge shutting down")
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				slog.Warn("chat bridge subscription closed")
				return nil
			}
			batchID, err := strconv.ParseInt(strings.TrimPrefix(msg.Channel, bridgeChannelPrefix), 10, 64)
			if err != nil {
				slog.Warn("chat bridge received message on unparsable channel",
					slog.String("channel", msg.Channel))
				continue
			}
			hub.enqueue(batchID, []byte(msg.Payload))
		}
	}
}
