package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"glocalnews/db"
	"glocalnews/internal/model"

	"github.com/redis/go-redis/v9"
)

// PublishToChannel pushes a stored-article batch onto the Redis change
// feed so other processes can bridge it into their own distributor.
func PublishToChannel(ctx context.Context, client *redis.Client, articles []model.Article) error {
	payload, err := json.Marshal(articles)
	if err != nil {
		return err
	}
	return client.Publish(ctx, db.ArticleChannel, payload).Err()
}

// ChannelPublisher adapts the Redis change feed to the scheduler's
// publisher contract.
type ChannelPublisher struct {
	client *redis.Client
}

func NewChannelPublisher(client *redis.Client) *ChannelPublisher {
	return &ChannelPublisher{client: client}
}

func (p *ChannelPublisher) Publish(articles []model.Article) {
	if err := PublishToChannel(context.Background(), p.client, articles); err != nil {
		slog.Error("error publishing articles to change feed", "error", err)
	}
}

// Bridge feeds the Redis article channel into a local distributor. The
// store's change feed is just one trigger source; in-process publishers
// can call Distributor.Publish directly.
type Bridge struct {
	client *redis.Client
	dist   *Distributor
}

func NewBridge(client *redis.Client, dist *Distributor) *Bridge {
	return &Bridge{client: client, dist: dist}
}

// Run consumes the channel until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.client.Subscribe(ctx, db.ArticleChannel)
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}

			var articles []model.Article
			if err := json.Unmarshal([]byte(msg.Payload), &articles); err != nil {
				slog.Error("error decoding change feed payload", "error", err)
				continue
			}

			b.dist.Publish(articles)
		}
	}
}
