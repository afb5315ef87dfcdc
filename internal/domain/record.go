package domain

import "go.uber.org/zap/zapcore"

// BulletinLevel is the severity of a bulletin
type BulletinLevel string

const (
	BulletinLevelError BulletinLevel = "ERROR"
	BulletinLevelWarn  BulletinLevel = "WARN"
	BulletinLevelInfo  BulletinLevel = "INFO"
)

// Bulletin is a flattened alert attached to a process group
type Bulletin struct {
	ID         int64         `json:"id"`
	Category   string        `json:"category"`
	GroupID    string        `json:"groupId"`
	SourceID   string        `json:"sourceId"`
	SourceName string        `json:"sourceName"`
	Level      BulletinLevel `json:"level"`
	Message    string        `json:"message"`
	Timestamp  string        `json:"timestamp"`
}

// IsError reports whether the bulletin counts towards a group's error count
func (b Bulletin) IsError() bool {
	return b.Level == BulletinLevelError
}

// ProcessGroupRecord is the flat per-group record written to the monitor log
type ProcessGroupRecord struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ParentGroupID string `json:"parentGroupId"`

	RunningCount                 int `json:"runningCount"`
	StoppedCount                 int `json:"stoppedCount"`
	InvalidCount                 int `json:"invalidCount"`
	DisabledCount                int `json:"disabledCount"`
	ActiveRemotePortCount        int `json:"activeRemotePortCount"`
	InactiveRemotePortCount      int `json:"inactiveRemotePortCount"`
	UpToDateCount                int `json:"upToDateCount"`
	LocallyModifiedCount         int `json:"locallyModifiedCount"`
	StaleCount                   int `json:"staleCount"`
	LocallyModifiedAndStaleCount int `json:"locallyModifiedAndStaleCount"`
	SyncFailureCount             int `json:"syncFailureCount"`
	LocalInputPortCount          int `json:"localInputPortCount"`
	LocalOutputPortCount         int `json:"localOutputPortCount"`
	PublicInputPortCount         int `json:"publicInputPortCount"`
	PublicOutputPortCount        int `json:"publicOutputPortCount"`
	InputPortCount               int `json:"inputPortCount"`
	OutputPortCount              int `json:"outputPortCount"`

	StatsLastRefreshed string `json:"statsLastRefreshed"`
	VersionedFlowState string `json:"versionedFlowState,omitempty"` // optional in the API

	FlowFilesIn          int64  `json:"flowFilesIn"`
	BytesIn              int64  `json:"bytesIn"`
	Input                string `json:"input"`
	FlowFilesQueued      int64  `json:"flowFilesQueued"`
	BytesQueued          int64  `json:"bytesQueued"`
	Queued               string `json:"queued"`
	QueuedCount          string `json:"queuedCount"`
	QueuedSize           string `json:"queuedSize"`
	BytesRead            int64  `json:"bytesRead"`
	Read                 string `json:"read"`
	BytesWritten         int64  `json:"bytesWritten"`
	Written              string `json:"written"`
	FlowFilesOut         int64  `json:"flowFilesOut"`
	BytesOut             int64  `json:"bytesOut"`
	Output               string `json:"output"`
	FlowFilesTransferred int64  `json:"flowFilesTransferred"`
	BytesTransferred     int64  `json:"bytesTransferred"`
	Transferred          string `json:"transferred"`
	BytesReceived        int64  `json:"bytesReceived"`
	FlowFilesReceived    int64  `json:"flowFilesReceived"`
	Received             string `json:"received"`
	BytesSent            int64  `json:"bytesSent"`
	FlowFilesSent        int64  `json:"flowFilesSent"`
	Sent                 string `json:"sent"`

	ActiveThreadCount     int `json:"activeThreadCount"`
	TerminatedThreadCount int `json:"terminatedThreadCount"`

	BulletinCount int        `json:"bulletinCount"`
	ErrorCount    int        `json:"errorCount"` // bulletins at ERROR level
	Bulletins     []Bulletin `json:"bulletins"`
}

// FlowSnapshot is the projection of one ProcessGroupDocument
type FlowSnapshot struct {
	ProcessGroupFlowID string               `json:"processGroupFlowId"`
	LastRefreshed      string               `json:"lastRefreshed"`
	ProcessGroups      []ProcessGroupRecord `json:"processGroups"`
}

// MarshalLogObject writes the record as a flat object using its JSON keys.
func (r ProcessGroupRecord) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", r.ID)
	enc.AddString("name", r.Name)
	enc.AddString("parentGroupId", r.ParentGroupID)

	enc.AddInt("runningCount", r.RunningCount)
	enc.AddInt("stoppedCount", r.StoppedCount)
	enc.AddInt("invalidCount", r.InvalidCount)
	enc.AddInt("disabledCount", r.DisabledCount)
	enc.AddInt("activeRemotePortCount", r.ActiveRemotePortCount)
	enc.AddInt("inactiveRemotePortCount", r.InactiveRemotePortCount)
	enc.AddInt("upToDateCount", r.UpToDateCount)
	enc.AddInt("locallyModifiedCount", r.LocallyModifiedCount)
	enc.AddInt("staleCount", r.StaleCount)
	enc.AddInt("locallyModifiedAndStaleCount", r.LocallyModifiedAndStaleCount)
	enc.AddInt("syncFailureCount", r.SyncFailureCount)
	enc.AddInt("localInputPortCount", r.LocalInputPortCount)
	enc.AddInt("localOutputPortCount", r.LocalOutputPortCount)
	enc.AddInt("publicInputPortCount", r.PublicInputPortCount)
	enc.AddInt("publicOutputPortCount", r.PublicOutputPortCount)
	enc.AddInt("inputPortCount", r.InputPortCount)
	enc.AddInt("outputPortCount", r.OutputPortCount)

	enc.AddString("statsLastRefreshed", r.StatsLastRefreshed)
	if r.VersionedFlowState != "" {
		enc.AddString("versionedFlowState", r.VersionedFlowState)
	}

	enc.AddInt64("flowFilesIn", r.FlowFilesIn)
	enc.AddInt64("bytesIn", r.BytesIn)
	enc.AddString("input", r.Input)
	enc.AddInt64("flowFilesQueued", r.FlowFilesQueued)
	enc.AddInt64("bytesQueued", r.BytesQueued)
	enc.AddString("queued", r.Queued)
	enc.AddString("queuedCount", r.QueuedCount)
	enc.AddString("queuedSize", r.QueuedSize)
	enc.AddInt64("bytesRead", r.BytesRead)
	enc.AddString("read", r.Read)
	enc.AddInt64("bytesWritten", r.BytesWritten)
	enc.AddString("written", r.Written)
	enc.AddInt64("flowFilesOut", r.FlowFilesOut)
	enc.AddInt64("bytesOut", r.BytesOut)
	enc.AddString("output", r.Output)
	enc.AddInt64("flowFilesTransferred", r.FlowFilesTransferred)
	enc.AddInt64("bytesTransferred", r.BytesTransferred)
	enc.AddString("transferred", r.Transferred)
	enc.AddInt64("bytesReceived", r.BytesReceived)
	enc.AddInt64("flowFilesReceived", r.FlowFilesReceived)
	enc.AddString("received", r.Received)
	enc.AddInt64("bytesSent", r.BytesSent)
	enc.AddInt64("flowFilesSent", r.FlowFilesSent)
	enc.AddString("sent", r.Sent)

	enc.AddInt("activeThreadCount", r.ActiveThreadCount)
	enc.AddInt("terminatedThreadCount", r.TerminatedThreadCount)

	enc.AddInt("bulletinCount", r.BulletinCount)
	enc.AddInt("errorCount", r.ErrorCount)
	return enc.AddArray("bulletins", bulletinArray(r.Bulletins))
}

// MarshalLogObject writes the bulletin using its JSON keys.
func (b Bulletin) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt64("id", b.ID)
	enc.AddString("category", b.Category)
	enc.AddString("groupId", b.GroupID)
	enc.AddString("sourceId", b.SourceID)
	enc.AddString("sourceName", b.SourceName)
	enc.AddString("level", string(b.Level))
	enc.AddString("message", b.Message)
	enc.AddString("timestamp", b.Timestamp)
	return nil
}

type bulletinArray []Bulletin

func (bs bulletinArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, b := range bs {
		if err := enc.AppendObject(b); err != nil {
			return err
		}
	}
	return nil
}
