// Package projection flattens process group documents into log records.
package projection

import (
	"fmt"

	"github.com/vburojevic/nifimon/internal/domain"
)

// ProjectionError reports a required field missing from a document
type ProjectionError struct {
	Path string
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("required field %s is missing", e.Path)
}

// Project converts a fetched document into a FlowSnapshot. Child groups keep
// document order. Only versionedFlowState is optional; an absent bulletin list
// counts as empty.
func Project(doc *domain.ProcessGroupDocument) (*domain.FlowSnapshot, error) {
	x := &extractor{}
	if doc == nil || doc.ProcessGroupFlow == nil {
		return nil, &ProjectionError{Path: "processGroupFlow"}
	}
	pgf := doc.ProcessGroupFlow

	snap := &domain.FlowSnapshot{
		ProcessGroupFlowID: x.str("processGroupFlow.id", pgf.ID),
		LastRefreshed:      x.str("processGroupFlow.lastRefreshed", pgf.LastRefreshed),
	}
	if x.err != nil {
		return nil, x.err
	}
	if pgf.Flow == nil || pgf.Flow.ProcessGroups == nil {
		return nil, &ProjectionError{Path: "processGroupFlow.flow.processGroups"}
	}

	snap.ProcessGroups = make([]domain.ProcessGroupRecord, 0, len(pgf.Flow.ProcessGroups))
	for i := range pgf.Flow.ProcessGroups {
		x.prefix = fmt.Sprintf("processGroupFlow.flow.processGroups[%d].", i)
		rec := x.record(&pgf.Flow.ProcessGroups[i])
		if x.err != nil {
			return nil, x.err
		}
		snap.ProcessGroups = append(snap.ProcessGroups, rec)
	}
	return snap, nil
}

// CountErrors returns how many bulletins are at ERROR level.
func CountErrors(bulletins []domain.Bulletin) int {
	n := 0
	for _, b := range bulletins {
		if b.IsError() {
			n++
		}
	}
	return n
}

// extractor dereferences required fields, remembering the first missing path.
type extractor struct {
	prefix string
	err    error
}

func (x *extractor) missing(path string) {
	if x.err == nil {
		x.err = &ProjectionError{Path: x.prefix + path}
	}
}

func (x *extractor) str(path string, v *string) string {
	if v == nil {
		x.missing(path)
		return ""
	}
	return *v
}

func (x *extractor) count(path string, v *int) int {
	if v == nil {
		x.missing(path)
		return 0
	}
	return *v
}

func (x *extractor) counter(path string, v *int64) int64 {
	if v == nil {
		x.missing(path)
		return 0
	}
	return *v
}

func (x *extractor) record(pg *domain.ProcessGroupEntity) domain.ProcessGroupRecord {
	var rec domain.ProcessGroupRecord

	if pg.Component == nil {
		x.missing("component")
		return rec
	}
	rec.ID = x.str("component.id", pg.Component.ID)
	rec.Name = x.str("component.name", pg.Component.Name)
	rec.ParentGroupID = x.str("component.parentGroupId", pg.Component.ParentGroupID)

	rec.RunningCount = x.count("runningCount", pg.RunningCount)
	rec.StoppedCount = x.count("stoppedCount", pg.StoppedCount)
	rec.InvalidCount = x.count("invalidCount", pg.InvalidCount)
	rec.DisabledCount = x.count("disabledCount", pg.DisabledCount)
	rec.ActiveRemotePortCount = x.count("activeRemotePortCount", pg.ActiveRemotePortCount)
	rec.InactiveRemotePortCount = x.count("inactiveRemotePortCount", pg.InactiveRemotePortCount)
	rec.UpToDateCount = x.count("upToDateCount", pg.UpToDateCount)
	rec.LocallyModifiedCount = x.count("locallyModifiedCount", pg.LocallyModifiedCount)
	rec.StaleCount = x.count("staleCount", pg.StaleCount)
	rec.LocallyModifiedAndStaleCount = x.count("locallyModifiedAndStaleCount", pg.LocallyModifiedAndStaleCount)
	rec.SyncFailureCount = x.count("syncFailureCount", pg.SyncFailureCount)
	rec.LocalInputPortCount = x.count("localInputPortCount", pg.LocalInputPortCount)
	rec.LocalOutputPortCount = x.count("localOutputPortCount", pg.LocalOutputPortCount)
	rec.PublicInputPortCount = x.count("publicInputPortCount", pg.PublicInputPortCount)
	rec.PublicOutputPortCount = x.count("publicOutputPortCount", pg.PublicOutputPortCount)
	rec.InputPortCount = x.count("inputPortCount", pg.InputPortCount)
	rec.OutputPortCount = x.count("outputPortCount", pg.OutputPortCount)

	if pg.Status == nil {
		x.missing("status")
		return rec
	}
	rec.StatsLastRefreshed = x.str("status.statsLastRefreshed", pg.Status.StatsLastRefreshed)

	s := pg.Status.AggregateSnapshot
	if s == nil {
		x.missing("status.aggregateSnapshot")
		return rec
	}
	if s.VersionedFlowState != nil {
		rec.VersionedFlowState = *s.VersionedFlowState
	}
	const agg = "status.aggregateSnapshot."
	rec.FlowFilesIn = x.counter(agg+"flowFilesIn", s.FlowFilesIn)
	rec.BytesIn = x.counter(agg+"bytesIn", s.BytesIn)
	rec.Input = x.str(agg+"input", s.Input)
	rec.FlowFilesQueued = x.counter(agg+"flowFilesQueued", s.FlowFilesQueued)
	rec.BytesQueued = x.counter(agg+"bytesQueued", s.BytesQueued)
	rec.Queued = x.str(agg+"queued", s.Queued)
	rec.QueuedCount = x.str(agg+"queuedCount", s.QueuedCount)
	rec.QueuedSize = x.str(agg+"queuedSize", s.QueuedSize)
	rec.BytesRead = x.counter(agg+"bytesRead", s.BytesRead)
	rec.Read = x.str(agg+"read", s.Read)
	rec.BytesWritten = x.counter(agg+"bytesWritten", s.BytesWritten)
	rec.Written = x.str(agg+"written", s.Written)
	rec.FlowFilesOut = x.counter(agg+"flowFilesOut", s.FlowFilesOut)
	rec.BytesOut = x.counter(agg+"bytesOut", s.BytesOut)
	rec.Output = x.str(agg+"output", s.Output)
	rec.FlowFilesTransferred = x.counter(agg+"flowFilesTransferred", s.FlowFilesTransferred)
	rec.BytesTransferred = x.counter(agg+"bytesTransferred", s.BytesTransferred)
	rec.Transferred = x.str(agg+"transferred", s.Transferred)
	rec.BytesReceived = x.counter(agg+"bytesReceived", s.BytesReceived)
	rec.FlowFilesReceived = x.counter(agg+"flowFilesReceived", s.FlowFilesReceived)
	rec.Received = x.str(agg+"received", s.Received)
	rec.BytesSent = x.counter(agg+"bytesSent", s.BytesSent)
	rec.FlowFilesSent = x.counter(agg+"flowFilesSent", s.FlowFilesSent)
	rec.Sent = x.str(agg+"sent", s.Sent)
	rec.ActiveThreadCount = x.count(agg+"activeThreadCount", s.ActiveThreadCount)
	rec.TerminatedThreadCount = x.count(agg+"terminatedThreadCount", s.TerminatedThreadCount)

	rec.Bulletins = make([]domain.Bulletin, 0, len(pg.Bulletins))
	for i := range pg.Bulletins {
		rec.Bulletins = append(rec.Bulletins, x.bulletin(i, &pg.Bulletins[i]))
	}
	rec.BulletinCount = len(rec.Bulletins)
	rec.ErrorCount = CountErrors(rec.Bulletins)
	return rec
}

func (x *extractor) bulletin(i int, be *domain.BulletinEntity) domain.Bulletin {
	p := fmt.Sprintf("bulletins[%d].", i)
	b := domain.Bulletin{ID: x.counter(p+"id", be.ID)}
	if be.Bulletin == nil {
		x.missing(p + "bulletin")
		return b
	}
	body := be.Bulletin
	b.Category = x.str(p+"bulletin.category", body.Category)
	b.GroupID = x.str(p+"bulletin.groupId", body.GroupID)
	b.SourceID = x.str(p+"bulletin.sourceId", body.SourceID)
	b.SourceName = x.str(p+"bulletin.sourceName", body.SourceName)
	b.Level = domain.BulletinLevel(x.str(p+"bulletin.level", body.Level))
	b.Message = x.str(p+"bulletin.message", body.Message)
	b.Timestamp = x.str(p+"bulletin.timestamp", body.Timestamp)
	return b
}
