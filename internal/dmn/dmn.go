// Package dmn collects Direct Merchant Notifications received from the
// payment provider and holds the pre-deposit decision configuration used to
// answer pre-deposit DMNs.
package dmn

import (
	"encoding/json"
	"sync"
	"time"
)

// maxRecorded bounds the in-memory notification log.
const maxRecorded = 100

// Source tags where a notification arrived. Transaction DMNs carry no tag.
type Source string

const (
	SourceTransaction Source = ""
	SourcePreDeposit  Source = "pre_deposit"
)

// Notification is one recorded DMN: the raw provider payload plus receipt
// metadata. Payload keys are preserved as-is.
type Notification struct {
	ReceivedAt time.Time
	Source     Source
	Payload    map[string]any
}

// MarshalJSON flattens the payload with the receipt metadata, the shape the
// view page consumes. Metadata keys win on collision.
func (n Notification) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Payload)+2)
	for k, v := range n.Payload {
		out[k] = v
	}
	if n.Source != SourceTransaction {
		out["_source"] = string(n.Source)
	}
	out["_receivedAt"] = n.ReceivedAt.Format(time.RFC3339)
	return json.Marshal(out)
}

// Log is a bounded, newest-first record of received notifications.
type Log struct {
	mu      sync.Mutex
	entries []Notification
}

func NewLog() *Log {
	return &Log{}
}

// Record prepends a notification, dropping the oldest past the cap.
func (l *Log) Record(source Source, payload map[string]any) Notification {
	n := Notification{
		ReceivedAt: time.Now().UTC(),
		Source:     source,
		Payload:    payload,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]Notification{n}, l.entries...)
	if len(l.entries) > maxRecorded {
		l.entries = l.entries[:maxRecorded]
	}
	return n
}

// Recent returns a copy of the recorded notifications, newest first.
func (l *Log) Recent() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many notifications are currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
