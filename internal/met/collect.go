package met

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"Gallery/internal/catalog"
)

const progressEvery = 20

// Collector turns a Met search into a catalog collection.
type Collector struct {
	Client *Client
	Log    *zap.Logger

	// Limit caps how many search hits are fetched. Zero means no cap.
	Limit int
	// Delay is the pause between object requests.
	Delay time.Duration
}

// Collect fetches every object the search returns, up to Limit, and keeps the
// ones with all required fields. Objects that fail to load are skipped; only
// a failed search or a cancelled ctx is an error.
func (c *Collector) Collect(ctx context.Context, sq SearchQuery) (catalog.Collection, error) {
	ids, err := c.Client.Search(ctx, sq)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", sq.Q, err)
	}
	c.Log.Info("met search", zap.String("q", sq.Q), zap.Int("hits", len(ids)))

	if c.Limit > 0 && len(ids) > c.Limit {
		ids = ids[:c.Limit]
	}

	out := make(catalog.Collection, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for i, id := range ids {
		if i > 0 && c.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.Delay):
			}
		}
		if (i+1)%progressEvery == 0 {
			c.Log.Info("met progress", zap.Int("done", i+1), zap.Int("of", len(ids)))
		}

		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		o, err := c.Client.Object(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			level := zap.WarnLevel
			if errors.Is(err, ErrNotFound) {
				level = zap.DebugLevel
			}
			c.Log.Log(level, "skip met object", zap.Int("object_id", id), zap.Error(err))
			continue
		}

		if missing := o.Missing(); len(missing) > 0 {
			c.Log.Info("skip met object",
				zap.Int("object_id", id),
				zap.Strings("missing", missing),
			)
			continue
		}
		out = append(out, o.Artwork())
	}

	c.Log.Info("met collect done", zap.Int("kept", len(out)), zap.Int("fetched", len(seen)))
	return out, nil
}
