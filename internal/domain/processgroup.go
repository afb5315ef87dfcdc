package domain

// RootGroupID is the sentinel the flow API accepts for the top-level process group
const RootGroupID = "root"

// ProcessGroupDocument is the raw response of GET /flow/process-groups/{id}.
// Scalars are pointers so a missing field can be told apart from a zero value.
type ProcessGroupDocument struct {
	ProcessGroupFlow *ProcessGroupFlow `json:"processGroupFlow"`
}

// ProcessGroupFlow describes the requested group and its immediate contents
type ProcessGroupFlow struct {
	ID            *string `json:"id"`
	LastRefreshed *string `json:"lastRefreshed"`
	Flow          *Flow   `json:"flow"`
}

// Flow holds the components of a process group. Only child groups are read.
type Flow struct {
	ProcessGroups []ProcessGroupEntity `json:"processGroups"`
}

// ProcessGroupEntity is one child process group as embedded in its parent's flow
type ProcessGroupEntity struct {
	Component *ProcessGroupComponent `json:"component"`

	RunningCount                 *int `json:"runningCount"`
	StoppedCount                 *int `json:"stoppedCount"`
	InvalidCount                 *int `json:"invalidCount"`
	DisabledCount                *int `json:"disabledCount"`
	ActiveRemotePortCount        *int `json:"activeRemotePortCount"`
	InactiveRemotePortCount      *int `json:"inactiveRemotePortCount"`
	UpToDateCount                *int `json:"upToDateCount"`
	LocallyModifiedCount         *int `json:"locallyModifiedCount"`
	StaleCount                   *int `json:"staleCount"`
	LocallyModifiedAndStaleCount *int `json:"locallyModifiedAndStaleCount"`
	SyncFailureCount             *int `json:"syncFailureCount"`
	LocalInputPortCount          *int `json:"localInputPortCount"`
	LocalOutputPortCount         *int `json:"localOutputPortCount"`
	PublicInputPortCount         *int `json:"publicInputPortCount"`
	PublicOutputPortCount        *int `json:"publicOutputPortCount"`
	InputPortCount               *int `json:"inputPortCount"`
	OutputPortCount              *int `json:"outputPortCount"`

	Status    *ProcessGroupStatus `json:"status"`
	Bulletins []BulletinEntity    `json:"bulletins"`
}

// ProcessGroupComponent identifies a process group
type ProcessGroupComponent struct {
	ID            *string `json:"id"`
	Name          *string `json:"name"`
	ParentGroupID *string `json:"parentGroupId"`
}

// ProcessGroupStatus wraps the aggregate snapshot taken at the last refresh
type ProcessGroupStatus struct {
	StatsLastRefreshed *string            `json:"statsLastRefreshed"`
	AggregateSnapshot  *AggregateSnapshot `json:"aggregateSnapshot"`
}

// AggregateSnapshot carries throughput and queue counters for a process group.
// Byte and flow file counters are numbers; the summaries ("input", "queued",
// ...) are preformatted strings such as "12 (3.4 KB)".
type AggregateSnapshot struct {
	VersionedFlowState *string `json:"versionedFlowState"`

	FlowFilesIn *int64  `json:"flowFilesIn"`
	BytesIn     *int64  `json:"bytesIn"`
	Input       *string `json:"input"`

	FlowFilesQueued *int64  `json:"flowFilesQueued"`
	BytesQueued     *int64  `json:"bytesQueued"`
	Queued          *string `json:"queued"`
	QueuedCount     *string `json:"queuedCount"`
	QueuedSize      *string `json:"queuedSize"`

	BytesRead    *int64  `json:"bytesRead"`
	Read         *string `json:"read"`
	BytesWritten *int64  `json:"bytesWritten"`
	Written      *string `json:"written"`

	FlowFilesOut *int64  `json:"flowFilesOut"`
	BytesOut     *int64  `json:"bytesOut"`
	Output       *string `json:"output"`

	FlowFilesTransferred *int64  `json:"flowFilesTransferred"`
	BytesTransferred     *int64  `json:"bytesTransferred"`
	Transferred          *string `json:"transferred"`

	BytesReceived     *int64  `json:"bytesReceived"`
	FlowFilesReceived *int64  `json:"flowFilesReceived"`
	Received          *string `json:"received"`

	BytesSent     *int64  `json:"bytesSent"`
	FlowFilesSent *int64  `json:"flowFilesSent"`
	Sent          *string `json:"sent"`

	ActiveThreadCount     *int `json:"activeThreadCount"`
	TerminatedThreadCount *int `json:"terminatedThreadCount"`
}

// BulletinEntity wraps a bulletin with its numeric id
type BulletinEntity struct {
	ID       *int64        `json:"id"`
	Bulletin *BulletinBody `json:"bulletin"`
}

// BulletinBody is the alert payload of a bulletin
type BulletinBody struct {
	Category   *string `json:"category"`
	GroupID    *string `json:"groupId"`
	SourceID   *string `json:"sourceId"`
	SourceName *string `json:"sourceName"`
	Level      *string `json:"level"`
	Message    *string `json:"message"`
	Timestamp  *string `json:"timestamp"`
}
