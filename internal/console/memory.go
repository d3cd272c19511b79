package console

import (
	"regexp"
	"time"
)

const DefaultMemoryCap = 200

var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`0x[0-9a-fA-F]{32,}`),
	regexp.MustCompile(`\b[0-9a-fA-F]{48,}\b`),
	regexp.MustCompile(`\bsk-[A-Za-z0-9_\-]{16,}\b`),
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._\-]{12,}`),
}

type MemoryEntry struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// MemoryLog is the bounded operational log: oldest entries are evicted past
// the cap, and everything appended is redacted first.
type MemoryLog struct {
	cap     int
	entries []MemoryEntry
}

func NewMemoryLog(capacity int) *MemoryLog {
	if capacity <= 0 {
		capacity = DefaultMemoryCap
	}
	return &MemoryLog{cap: capacity}
}

// Redact masks secret-looking substrings (hex keys, bearer tokens, provider
// keys) before anything hits the log.
func Redact(s string) string {
	for _, p := range secretPatterns {
		s = p.ReplaceAllString(s, "[redacted]")
	}
	return s
}

func (m *MemoryLog) Append(text string) {
	m.entries = append(m.entries, MemoryEntry{At: time.Now().UTC(), Text: Redact(text)})
	if len(m.entries) > m.cap {
		m.entries = m.entries[len(m.entries)-m.cap:]
	}
}

func (m *MemoryLog) Entries() []MemoryEntry {
	out := make([]MemoryEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MemoryLog) Restore(entries []MemoryEntry) {
	m.entries = nil
	start := 0
	if len(entries) > m.cap {
		start = len(entries) - m.cap
	}
	m.entries = append(m.entries, entries[start:]...)
}

func (m *MemoryLog) Reset() {
	m.entries = nil
}
