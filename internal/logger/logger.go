package logger

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/moritamori/licenseguard/internal/pkgmeta"
	"github.com/moritamori/licenseguard/internal/policy"
)

// Level represents log level
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Logger provides JSON Lines logging
type Logger struct {
	writer io.Writer
	level  Level
}

// NewLogger creates a new Logger
func NewLogger(writer io.Writer, level Level) *Logger {
	if writer == nil {
		writer = os.Stderr
	}
	return &Logger{
		writer: writer,
		level:  level,
	}
}

// VerdictEvent represents a package evaluation event
type VerdictEvent struct {
	Timestamp   string `json:"ts"`
	Level       string `json:"level"`
	Event       string `json:"event"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	License     string `json:"license"`
	OSIApproved bool   `json:"osi_approved"`
	Verdict     string `json:"verdict"`
	MatchedRule string `json:"matched_rule"`
	Policy      string `json:"policy"`
	RunID       string `json:"run_id,omitempty"`
}

// LogVerdict logs a package evaluation event
func (l *Logger) LogVerdict(rec pkgmeta.PackageRecord, verdict policy.Verdict, policyName, runID string) {
	if !l.shouldLog(LevelDebug) {
		return
	}

	event := VerdictEvent{
		Timestamp:   time.Now().UTC().Format(time.RFC3339Nano),
		Level:       string(LevelDebug),
		Event:       "package_verdict",
		Name:        rec.Name,
		Version:     rec.Version,
		License:     verdict.License.ID,
		OSIApproved: verdict.License.OSIApproved,
		Verdict:     string(verdict.Level),
		MatchedRule: verdict.MatchedRule,
		Policy:      policyName,
		RunID:       runID,
	}

	l.writeJSON(event)
}

// GenericEvent represents a generic log event
type GenericEvent struct {
	Timestamp string                 `json:"ts"`
	Level     string                 `json:"level"`
	Event     string                 `json:"event"`
	Message   string                 `json:"message,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Log logs a generic event
func (l *Logger) Log(level Level, event, message string, data map[string]interface{}) {
	e := GenericEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     string(level),
		Event:     event,
		Message:   message,
		Data:      data,
	}

	l.writeJSON(e)
}

// Debug logs a debug event
func (l *Logger) Debug(event, message string, data map[string]interface{}) {
	if l.shouldLog(LevelDebug) {
		l.Log(LevelDebug, event, message, data)
	}
}

// Info logs an info event
func (l *Logger) Info(event, message string, data map[string]interface{}) {
	if l.shouldLog(LevelInfo) {
		l.Log(LevelInfo, event, message, data)
	}
}

// Warn logs a warning event
func (l *Logger) Warn(event, message string, data map[string]interface{}) {
	if l.shouldLog(LevelWarn) {
		l.Log(LevelWarn, event, message, data)
	}
}

// Error logs an error event
func (l *Logger) Error(event, message string, data map[string]interface{}) {
	if l.shouldLog(LevelError) {
		l.Log(LevelError, event, message, data)
	}
}

// writeJSON writes a JSON line to the output
func (l *Logger) writeJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		// Fallback to stderr if marshal fails
		os.Stderr.WriteString("Failed to marshal log: " + err.Error() + "\n")
		return
	}

	l.writer.Write(data)
	l.writer.Write([]byte("\n"))
}

// shouldLog checks if a log level should be logged
func (l *Logger) shouldLog(level Level) bool {
	levels := map[Level]int{
		LevelDebug: 0,
		LevelInfo:  1,
		LevelWarn:  2,
		LevelError: 3,
	}

	return levels[level] >= levels[l.level]
}
