// Package walker traverses the process group tree and logs one record per group.
package walker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vburojevic/nifimon/internal/domain"
	"github.com/vburojevic/nifimon/internal/nifi"
	"github.com/vburojevic/nifimon/internal/projection"
)

// Fetcher retrieves the status document of one process group
type Fetcher interface {
	Fetch(ctx context.Context, groupID string) (*domain.ProcessGroupDocument, error)
}

// Stats summarizes one traversal
type Stats struct {
	Fetches  int `json:"fetches"`
	Failures int `json:"failures"`
	Records  int `json:"records"`
	Errors   int `json:"errors"` // ERROR bulletins across all records
	MaxDepth int `json:"maxDepth"`

	// cancelled marks a sub-tree that stopped because ctx was done; the
	// walk_cancelled event has already been logged below it.
	cancelled bool
}

func (s *Stats) add(o Stats) {
	s.Fetches += o.Fetches
	s.Failures += o.Failures
	s.Records += o.Records
	s.Errors += o.Errors
	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
}

// Walker performs depth-first, depth-bounded traversals
type Walker struct {
	fetcher  Fetcher
	logger   *zap.Logger
	maxDepth int
	now      func() time.Time
}

// New returns a Walker. A maxDepth of 0 logs the root's children only.
func New(fetcher Fetcher, logger *zap.Logger, maxDepth int) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Walker{
		fetcher:  fetcher,
		logger:   logger,
		maxDepth: maxDepth,
		now:      time.Now,
	}
}

// Run walks the tree below groupID ("" means root). Failures are logged and
// confined to the sub-tree they occur in; Run always completes.
func (w *Walker) Run(ctx context.Context, groupID string) Stats {
	if groupID == "" {
		groupID = domain.RootGroupID
	}
	start := w.now()
	stats := w.walk(ctx, groupID, 0)

	w.logger.Info("",
		zap.String("event", "walk_complete"),
		zap.String("root", groupID),
		zap.Int("fetches", stats.Fetches),
		zap.Int("failures", stats.Failures),
		zap.Int("records", stats.Records),
		zap.Int("errors", stats.Errors),
		zap.Int("depth", stats.MaxDepth),
		zap.Duration("duration", w.now().Sub(start)),
	)
	return stats
}

func (w *Walker) walk(ctx context.Context, groupID string, depth int) Stats {
	stats := Stats{MaxDepth: depth}

	if err := ctx.Err(); err != nil {
		w.logCancelled(groupID, depth, err)
		stats.Failures++
		stats.cancelled = true
		return stats
	}

	stats.Fetches++
	doc, err := w.fetcher.Fetch(ctx, groupID)
	if err != nil {
		stats.Failures++
		if ctxErr := ctx.Err(); ctxErr != nil {
			w.logCancelled(groupID, depth, ctxErr)
			stats.cancelled = true
			return stats
		}
		w.logFetchError(groupID, depth, err)
		return stats
	}

	snap, err := projection.Project(doc)
	if err != nil {
		w.logger.Error("",
			zap.String("event", "projection_failed"),
			zap.String("groupId", groupID),
			zap.Int("depth", depth),
			zap.Error(err),
		)
		stats.Failures++
		return stats
	}

	for _, rec := range snap.ProcessGroups {
		w.logger.Info("", zap.Inline(rec))
		stats.Records++
		stats.Errors += rec.ErrorCount
	}

	if depth >= w.maxDepth {
		return stats
	}
	for _, rec := range snap.ProcessGroups {
		if rec.ID == "" {
			// An empty id would resolve to the root group.
			w.logger.Warn("",
				zap.String("event", "descent_skipped"),
				zap.String("groupId", groupID),
				zap.String("name", rec.Name),
				zap.Int("depth", depth),
				zap.String("reason", "child process group has an empty id"),
			)
			stats.Failures++
			continue
		}
		child := w.walk(ctx, rec.ID, depth+1)
		stats.add(child)
		if child.cancelled {
			stats.cancelled = true
			break
		}
	}
	return stats
}

func (w *Walker) logCancelled(groupID string, depth int, err error) {
	w.logger.Warn("",
		zap.String("event", "walk_cancelled"),
		zap.String("groupId", groupID),
		zap.Int("depth", depth),
		zap.Error(err),
	)
}

func (w *Walker) logFetchError(groupID string, depth int, err error) {
	fields := []zap.Field{
		zap.String("event", "fetch_failed"),
		zap.String("groupId", groupID),
		zap.Int("depth", depth),
		zap.Error(err),
	}
	var apiErr *nifi.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields,
			zap.Int("status", apiErr.StatusCode),
			zap.String("body", apiErr.Body),
		)
		if apiErr.Truncated {
			fields = append(fields, zap.Bool("bodyTruncated", true))
		}
	}
	w.logger.Error("", fields...)
}
