package pagelens

import "time"

// MaxConversationEntries caps the conversation log; the oldest entry is
// evicted when a new one arrives at capacity.
const MaxConversationEntries = 10

// ConversationEntry is one answered question.
type ConversationEntry struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationLog is a bounded list of entries, newest first. It is owned
// exclusively by the panel controller and is not safe for concurrent use.
type ConversationLog struct {
	entries  []ConversationEntry
	capacity int
}

// NewConversationLog returns an empty log with the default capacity.
func NewConversationLog() *ConversationLog {
	return &ConversationLog{capacity: MaxConversationEntries}
}

// Prepend inserts the entry at the front, evicting the oldest entry when
// the log is at capacity.
func (l *ConversationLog) Prepend(e ConversationEntry) {
	l.entries = append([]ConversationEntry{e}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
}

// Entries returns a copy of the log, newest first.
func (l *ConversationLog) Entries() []ConversationEntry {
	return append([]ConversationEntry(nil), l.entries...)
}

// Newest returns the most recent entry.
// Returns false if the log is empty.
func (l *ConversationLog) Newest() (ConversationEntry, bool) {
	if len(l.entries) == 0 {
		return ConversationEntry{}, false
	}
	return l.entries[0], true
}

// Len returns the number of entries.
func (l *ConversationLog) Len() int {
	return len(l.entries)
}

// Clear removes all entries.
func (l *ConversationLog) Clear() {
	l.entries = nil
}
