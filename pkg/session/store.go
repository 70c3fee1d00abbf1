package session

import (
	"context"
	"errors"

	"github.com/haivivi/huaxiazi/pkg/kv"
)

// Persistence keys.
const (
	KeyHistory kv.Key = "huaxiazi_v6_history"
	KeyProfile kv.Key = "huaxiazi_v6_profile"
)

func (c *Controller) load(ctx context.Context) {
	hist, err := kv.Load[[]HistoryItem](ctx, c.store, KeyHistory)
	switch {
	case err == nil:
		if len(hist) > MaxHistory {
			hist = hist[:MaxHistory]
		}
		c.history = hist
	case errors.Is(err, kv.ErrNotFound):
	default:
		c.log.Warn("discarding stored history", "key", KeyHistory, "err", err)
	}

	p, err := kv.Load[Profile](ctx, c.store, KeyProfile)
	switch {
	case err == nil:
		c.profile = p
	case errors.Is(err, kv.ErrNotFound):
	default:
		c.log.Warn("discarding stored profile", "key", KeyProfile, "err", err)
	}
}

// saveHistory persists the whole history. Callers hold c.mu so saves land
// in the same order as updates.
func (c *Controller) saveHistory(ctx context.Context) {
	if err := kv.Save(context.WithoutCancel(ctx), c.store, KeyHistory, c.history); err != nil {
		c.log.Warn("save history failed", "err", err)
	}
}
