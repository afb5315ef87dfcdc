package walker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/vburojevic/nifimon/internal/domain"
)

const groupTemplate = `{
  "component": {"id": %q, "name": %q, "parentGroupId": %q},
  "runningCount": 3, "stoppedCount": 1, "invalidCount": 0, "disabledCount": 0,
  "activeRemotePortCount": 0, "inactiveRemotePortCount": 0,
  "upToDateCount": 0, "locallyModifiedCount": 0, "staleCount": 0,
  "locallyModifiedAndStaleCount": 0, "syncFailureCount": 0,
  "localInputPortCount": 0, "localOutputPortCount": 0,
  "publicInputPortCount": 0, "publicOutputPortCount": 0,
  "inputPortCount": 0, "outputPortCount": 0,
  "status": {
    "statsLastRefreshed": "09:15:00 UTC",
    "aggregateSnapshot": {
      "flowFilesIn": 5, "bytesIn": 500, "input": "5 (500 bytes)",
      "flowFilesQueued": 1, "bytesQueued": 100, "queued": "1 (100 bytes)",
      "queuedCount": "1", "queuedSize": "100 bytes",
      "bytesRead": 0, "read": "0 bytes", "bytesWritten": 0, "written": "0 bytes",
      "flowFilesOut": 4, "bytesOut": 400, "output": "4 (400 bytes)",
      "flowFilesTransferred": 0, "bytesTransferred": 0, "transferred": "0 (0 bytes)",
      "bytesReceived": 0, "flowFilesReceived": 0, "received": "0 (0 bytes)",
      "bytesSent": 0, "flowFilesSent": 0, "sent": "0 (0 bytes)",
      "activeThreadCount": 0, "terminatedThreadCount": 0
    }
  },
  "bulletins": [%s]
}`

const bulletinTemplate = `{"id": %d, "bulletin": {"category": "Log Message", "groupId": %q,
  "sourceId": "proc-1", "sourceName": "PutFile", "level": %q,
  "message": "something happened", "timestamp": "09:14:59 UTC"}}`

// group builds a complete child entry with one bulletin per level.
func group(id, parent string, levels ...string) domain.ProcessGroupEntity {
	bulletins := make([]string, 0, len(levels))
	for i, level := range levels {
		bulletins = append(bulletins, fmt.Sprintf(bulletinTemplate, i+1, id, level))
	}
	raw := fmt.Sprintf(groupTemplate, id, "group "+id, parent, strings.Join(bulletins, ","))

	var g domain.ProcessGroupEntity
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		panic(err)
	}
	return g
}

func document(id string, children ...domain.ProcessGroupEntity) *domain.ProcessGroupDocument {
	refreshed := "09:15:01 UTC"
	if children == nil {
		children = []domain.ProcessGroupEntity{}
	}
	return &domain.ProcessGroupDocument{
		ProcessGroupFlow: &domain.ProcessGroupFlow{
			ID:            &id,
			LastRefreshed: &refreshed,
			Flow:          &domain.Flow{ProcessGroups: children},
		},
	}
}

// fakeTree serves documents from memory and records fetch order.
type fakeTree struct {
	mu     sync.Mutex
	docs   map[string]*domain.ProcessGroupDocument
	errs   map[string]error
	calls  []string
	before func(groupID string)
}

func newFakeTree() *fakeTree {
	return &fakeTree{
		docs: map[string]*domain.ProcessGroupDocument{},
		errs: map[string]error{},
	}
}

func (f *fakeTree) Fetch(ctx context.Context, groupID string) (*domain.ProcessGroupDocument, error) {
	f.mu.Lock()
	f.calls = append(f.calls, groupID)
	before := f.before
	f.mu.Unlock()
	if before != nil {
		before(groupID)
	}

	if err, ok := f.errs[groupID]; ok {
		return nil, err
	}
	if doc, ok := f.docs[groupID]; ok {
		return doc, nil
	}
	return document(groupID), nil
}

// uniformTree links every group to b children down to depth n.
func uniformTree(b, n int) *fakeTree {
	f := newFakeTree()
	var build func(id string, level int)
	build = func(id string, level int) {
		if level == n+1 {
			return
		}
		children := make([]domain.ProcessGroupEntity, 0, b)
		for i := 0; i < b; i++ {
			child := fmt.Sprintf("%s.%d", id, i)
			children = append(children, group(child, id))
			build(child, level+1)
		}
		f.docs[id] = document(id, children...)
	}
	build(domain.RootGroupID, 0)
	return f
}
