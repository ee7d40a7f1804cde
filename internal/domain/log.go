package domain

// LogKind tags an event log entry for display.
type LogKind string

const (
	LogInfo  LogKind = "info"
	LogHit   LogKind = "hit"
	LogMiss  LogKind = "miss"
	LogHint  LogKind = "hint"
	LogError LogKind = "error"
)

// LogEntry is one line of the recent-event log.
type LogEntry struct {
	ID      uint64
	Kind    LogKind
	Player  PlayerID
	Message string
}

// addLog prepends an entry, keeping at most LogCapacity, most recent first.
func (m *Match) addLog(kind LogKind, player PlayerID, msg string) {
	m.logSeq++
	e := LogEntry{ID: m.logSeq, Kind: kind, Player: player, Message: msg}
	m.Log = append([]LogEntry{e}, m.Log...)
	if len(m.Log) > LogCapacity {
		m.Log = m.Log[:LogCapacity]
	}
}
