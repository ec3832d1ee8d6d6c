package execdata

import "time"

// Session describes one loaded execution-data input: one recording of the
// monitored program. Sessions appear in the report in load order.
type Session struct {
	ID    string
	Start time.Time
	End   time.Time
}

// SessionLog is the ordered collection of sessions seen during a run.
type SessionLog struct {
	sessions []Session
}

// Append records a session. Insertion order is preserved.
func (l *SessionLog) Append(s Session) {
	l.sessions = append(l.sessions, s)
}

// Sessions returns the recorded sessions in load order.
func (l *SessionLog) Sessions() []Session {
	return l.sessions
}

// Len returns the number of recorded sessions.
func (l *SessionLog) Len() int {
	return len(l.sessions)
}
