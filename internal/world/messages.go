package world

import "go.uber.org/zap"

const defaultMessageCap = 100

// MessageLog keeps the most recent game messages for the front end and
// mirrors each one to the structured log.
type MessageLog struct {
	log   *zap.Logger
	lines []string
	cap   int
}

func NewMessageLog(log *zap.Logger) *MessageLog {
	return &MessageLog{log: log, cap: defaultMessageCap}
}

// Add records a message. Fields only go to the structured log.
func (l *MessageLog) Add(msg string, fields ...zap.Field) {
	l.log.Info(msg, fields...)
	l.lines = append(l.lines, msg)
	if len(l.lines) > l.cap {
		l.lines = append(l.lines[:0], l.lines[len(l.lines)-l.cap:]...)
	}
}

// Lines returns a copy of the retained messages, oldest first.
func (l *MessageLog) Lines() []string {
	return append([]string(nil), l.lines...)
}

// Last returns the newest message, or "" when empty.
func (l *MessageLog) Last() string {
	if len(l.lines) == 0 {
		return ""
	}
	return l.lines[len(l.lines)-1]
}
