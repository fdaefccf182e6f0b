// Package faillog appends unclassified faults to a local text file so a
// technician can reconstruct what the terminal was doing when something
// outside the known taxonomy went wrong.
package faillog

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Log appends one line per failure: {timestamp} - {operator} - {context}.
type Log struct {
	path     string
	operator string
	logger   *slog.Logger
	now      func() time.Time
}

func New(path, operator string, logger *slog.Logger) *Log {
	return &Log{path: path, operator: operator, logger: logger, now: time.Now}
}

// Record appends the failure. If even the failure file cannot be written,
// the fault is logged and dropped; the terminal must keep serving.
func (l *Log) Record(context string, err error) {
	line := fmt.Sprintf("%s - %s - %s: %v\n",
		l.now().Format("2006-01-02 15:04:05"), l.operator, context, err)

	f, openErr := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		l.logger.Error("failure log unwritable", "error", openErr, "dropped", line)
		return
	}
	defer f.Close()
	if _, writeErr := f.WriteString(line); writeErr != nil {
		l.logger.Error("failure log write failed", "error", writeErr)
	}
}
