package walker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vburojevic/nifimon/internal/domain"
	"github.com/vburojevic/nifimon/internal/nifi"
	"github.com/vburojevic/nifimon/internal/output"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// records returns the logged process group records; they carry no event field.
func records(logs *observer.ObservedLogs) []map[string]interface{} {
	var out []map[string]interface{}
	for _, e := range logs.All() {
		ctx := e.ContextMap()
		if _, ok := ctx["event"]; ok {
			continue
		}
		out = append(out, ctx)
	}
	return out
}

func recordIDs(logs *observer.ObservedLogs) []string {
	var ids []string
	for _, rec := range records(logs) {
		ids = append(ids, rec["id"].(string))
	}
	return ids
}

func TestWalkMaxDepthZeroFetchesOnlyRoot(t *testing.T) {
	tree := uniformTree(3, 2)
	logger, logs := observed()

	stats := New(tree, logger, 0).Run(context.Background(), "")

	assert.Equal(t, []string{"root"}, tree.calls)
	assert.Equal(t, 1, stats.Fetches)
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, []string{"root.0", "root.1", "root.2"}, recordIDs(logs))
}

func TestWalkUniformTreeFetchCount(t *testing.T) {
	tests := []struct {
		branching int
		depth     int
		fetches   int
	}{
		{branching: 1, depth: 3, fetches: 4},
		{branching: 2, depth: 1, fetches: 3},
		{branching: 2, depth: 2, fetches: 7},
		{branching: 3, depth: 2, fetches: 13},
	}

	for _, tt := range tests {
		tree := uniformTree(tt.branching, tt.depth)
		stats := New(tree, nil, tt.depth).Run(context.Background(), "")

		assert.Len(t, tree.calls, tt.fetches, "B=%d N=%d", tt.branching, tt.depth)
		assert.Equal(t, tt.fetches, stats.Fetches)
		assert.Equal(t, 0, stats.Failures)
		assert.Equal(t, tt.depth, stats.MaxDepth)
	}
}

func TestWalkOrderIsDepthFirstInDocumentOrder(t *testing.T) {
	tree := newFakeTree()
	tree.docs["root"] = document("root", group("A", "root"), group("B", "root"))
	logger, logs := observed()

	stats := New(tree, logger, 1).Run(context.Background(), "root")

	assert.Equal(t, []string{"root", "A", "B"}, tree.calls)
	assert.Equal(t, 3, stats.Fetches)
	// A and B have no children, so only root's record set has entries.
	assert.Equal(t, []string{"A", "B"}, recordIDs(logs))
}

func TestWalkLogsLevelBeforeDescending(t *testing.T) {
	tree := newFakeTree()
	tree.docs["root"] = document("root", group("A", "root"), group("B", "root"))
	tree.docs["A"] = document("A", group("A1", "A"))
	tree.docs["B"] = document("B", group("B1", "B"))
	logger, logs := observed()

	New(tree, logger, 2).Run(context.Background(), "")

	assert.Equal(t, []string{"root", "A", "A1", "B", "B1"}, tree.calls)
	assert.Equal(t, []string{"A", "B", "A1", "B1"}, recordIDs(logs))
}

func TestWalkAPIErrorIsolatedToSubtree(t *testing.T) {
	tree := newFakeTree()
	tree.docs["root"] = document("root", group("A", "root"), group("B", "root"), group("C", "root"))
	tree.docs["B"] = document("B", group("B1", "B"))
	tree.errs["A"] = &nifi.APIError{URL: "https://nifi/api/flow/process-groups/A", StatusCode: 503, Body: "node disconnected"}
	logger, logs := observed()

	stats := New(tree, logger, 2).Run(context.Background(), "")

	assert.Equal(t, []string{"root", "A", "B", "B1", "C"}, tree.calls)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, 5, stats.Fetches)

	failed := logs.FilterField(zap.String("event", "fetch_failed")).All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	ctx := failed[0].ContextMap()
	assert.Equal(t, "A", ctx["groupId"])
	assert.EqualValues(t, 503, ctx["status"])
	assert.Equal(t, "node disconnected", ctx["body"])
	assert.EqualValues(t, 1, ctx["depth"])
	_, truncated := ctx["bodyTruncated"]
	assert.False(t, truncated)
}

func TestWalkFlagsTruncatedErrorBody(t *testing.T) {
	tree := newFakeTree()
	tree.errs["root"] = &nifi.APIError{
		URL:        "https://nifi/api/flow/process-groups/root",
		StatusCode: 500,
		Body:       "java.lang.OutOfMemoryError",
		Truncated:  true,
	}
	logger, logs := observed()

	New(tree, logger, 1).Run(context.Background(), "")

	failed := logs.FilterField(zap.String("event", "fetch_failed")).All()
	require.Len(t, failed, 1)
	assert.Equal(t, true, failed[0].ContextMap()["bodyTruncated"])
	assert.Equal(t, "java.lang.OutOfMemoryError", failed[0].ContextMap()["body"])
}

func TestWalkTransportErrorOnRoot(t *testing.T) {
	tree := newFakeTree()
	tree.errs["root"] = errors.New("dial tcp: connection refused")
	logger, logs := observed()

	stats := New(tree, logger, 3).Run(context.Background(), "")

	assert.Equal(t, []string{"root"}, tree.calls)
	assert.Equal(t, Stats{Fetches: 1, Failures: 1}, stats)

	failed := logs.FilterField(zap.String("event", "fetch_failed")).All()
	require.Len(t, failed, 1)
	_, hasStatus := failed[0].ContextMap()["status"]
	assert.False(t, hasStatus)
	assert.Equal(t, 1, logs.FilterField(zap.String("event", "walk_complete")).Len())
}

func TestWalkProjectionErrorIsolatedToSubtree(t *testing.T) {
	tree := newFakeTree()
	tree.docs["root"] = document("root", group("A", "root"), group("B", "root"))
	broken := group("A1", "A")
	broken.Status.AggregateSnapshot.BytesOut = nil
	tree.docs["A"] = document("A", broken)
	logger, logs := observed()

	stats := New(tree, logger, 2).Run(context.Background(), "")

	// A1 is never reached because A's document could not be projected.
	assert.Equal(t, []string{"root", "A", "B"}, tree.calls)
	assert.Equal(t, 1, stats.Failures)

	failed := logs.FilterField(zap.String("event", "projection_failed")).All()
	require.Len(t, failed, 1)
	assert.Equal(t, "A", failed[0].ContextMap()["groupId"])
	assert.Contains(t, failed[0].ContextMap()["error"], "status.aggregateSnapshot.bytesOut")
}

func TestWalkCountsErrorBulletins(t *testing.T) {
	tree := newFakeTree()
	tree.docs["root"] = document("root",
		group("A", "root", "ERROR", "INFO"),
		group("B", "root", "WARN", "ERROR", "ERROR"),
	)
	logger, logs := observed()

	stats := New(tree, logger, 0).Run(context.Background(), "")

	assert.Equal(t, 3, stats.Errors)
	recs := records(logs)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.LessOrEqual(t, rec["errorCount"], rec["bulletinCount"])
	}
	assert.EqualValues(t, 1, recs[0]["errorCount"])
	assert.EqualValues(t, 2, recs[1]["errorCount"])
}

func TestWalkStopsWhenCancelled(t *testing.T) {
	tree := uniformTree(2, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.before = func(groupID string) {
		if groupID == "root.0" {
			cancel()
		}
	}
	logger, logs := observed()

	stats := New(tree, logger, 2).Run(ctx, "")

	// root.0 is fetched (its fetch observes the cancel), nothing after it.
	assert.Equal(t, []string{"root", "root.0"}, tree.calls)
	cancelled := logs.FilterField(zap.String("event", "walk_cancelled")).All()
	require.Len(t, cancelled, 1)
	assert.Equal(t, "root.0.0", cancelled[0].ContextMap()["groupId"])
	assert.Equal(t, 1, stats.Failures)
}

func TestWalkCancelledDuringRootFetchLogsOnce(t *testing.T) {
	tree := uniformTree(3, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.before = func(groupID string) {
		if groupID == domain.RootGroupID {
			cancel()
		}
	}
	logger, logs := observed()

	stats := New(tree, logger, 1).Run(ctx, "")

	assert.Equal(t, []string{"root"}, tree.calls)
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 1, stats.Failures)
	cancelled := logs.FilterField(zap.String("event", "walk_cancelled")).All()
	require.Len(t, cancelled, 1)
	assert.Equal(t, "root.0", cancelled[0].ContextMap()["groupId"])
	assert.EqualValues(t, 1, cancelled[0].ContextMap()["depth"])
}

func TestWalkCancelledFetchIsNotAFetchFailure(t *testing.T) {
	tree := uniformTree(2, 2)
	tree.errs["root.0"] = context.Canceled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.before = func(groupID string) {
		if groupID == "root.0" {
			cancel()
		}
	}
	logger, logs := observed()

	stats := New(tree, logger, 2).Run(ctx, "")

	assert.Equal(t, []string{"root", "root.0"}, tree.calls)
	assert.Equal(t, 0, logs.FilterField(zap.String("event", "fetch_failed")).Len())
	cancelled := logs.FilterField(zap.String("event", "walk_cancelled")).All()
	require.Len(t, cancelled, 1)
	assert.Equal(t, "root.0", cancelled[0].ContextMap()["groupId"])
	assert.Equal(t, 1, stats.Failures)
}

func TestWalkSkipsChildWithEmptyID(t *testing.T) {
	tree := newFakeTree()
	tree.docs["root"] = document("root", group("", "root"), group("B", "root"))
	logger, logs := observed()

	stats := New(tree, logger, 1).Run(context.Background(), "")

	// Fetching "" would resolve to the root group again.
	assert.Equal(t, []string{"root", "B"}, tree.calls)
	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 1, stats.Failures)

	skipped := logs.FilterField(zap.String("event", "descent_skipped")).All()
	require.Len(t, skipped, 1)
	assert.Equal(t, zapcore.WarnLevel, skipped[0].Level)
	assert.Equal(t, "root", skipped[0].ContextMap()["groupId"])
	assert.Equal(t, "group ", skipped[0].ContextMap()["name"])
}

func TestWalkNegativeDepthTreatedAsZero(t *testing.T) {
	tree := uniformTree(2, 1)
	stats := New(tree, nil, -4).Run(context.Background(), "")
	assert.Equal(t, 1, stats.Fetches)
}

func TestWalkWritesSinkLines(t *testing.T) {
	var buf bytes.Buffer
	sink := output.NewSink(zapcore.AddSync(&buf), nil, time.Hour, zapcore.InfoLevel)

	tree := newFakeTree()
	tree.docs["root"] = document("root", group("g1", "root", "ERROR", "INFO"))
	New(tree, sink.Logger, 0).Run(context.Background(), "")
	require.NoError(t, sink.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	parts := strings.SplitN(lines[0], " ", 3)
	require.Len(t, parts, 3)
	_, err := time.Parse("2006-01-02T15:04:05.000Z0700", parts[0])
	require.NoError(t, err)
	assert.Equal(t, "INFO", parts[1])

	body := parts[2]
	require.True(t, gjson.Valid(body))
	assert.Equal(t, "g1", gjson.Get(body, "id").String())
	assert.Equal(t, int64(3), gjson.Get(body, "runningCount").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "bulletinCount").Int())
	assert.Equal(t, int64(1), gjson.Get(body, "errorCount").Int())
	assert.Equal(t, "ERROR", gjson.Get(body, "bulletins.0.level").String())

	assert.Equal(t, "walk_complete", gjson.Get(strings.SplitN(lines[1], " ", 3)[2], "event").String())
	assert.Equal(t, domain.RootGroupID, gjson.Get(strings.SplitN(lines[1], " ", 3)[2], "root").String())
}
