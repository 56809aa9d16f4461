// Package output provides status messages and machine-readable results for
// the gy CLI.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Status tags a console message.
type Status string

const (
	StatusInfo    Status = "info"
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
	StatusDebug   Status = "debug"
)

var statusColors = map[Status]*color.Color{
	StatusSuccess: color.New(color.FgGreen),
	StatusWarning: color.New(color.FgYellow),
	StatusError:   color.New(color.FgRed),
	StatusDebug:   color.New(color.FgHiBlack),
}

// Message formats msg as "[status] msg", colored by status. Info lines are
// left uncolored.
func Message(status Status, msg string) string {
	line := fmt.Sprintf("[%s] %s", status, msg)
	if c, ok := statusColors[status]; ok {
		return c.Sprint(line)
	}
	return line
}

// Logger writes status messages to a destination.
type Logger struct {
	dest    io.Writer
	verbose bool
}

// NewLogger creates a logger writing to dest. A nil dest means stderr.
// Debug messages are only written when verbose is set.
func NewLogger(dest io.Writer, verbose bool) *Logger {
	if dest == nil {
		dest = os.Stderr
	}
	return &Logger{dest: dest, verbose: verbose}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLogger(io.Discard, false)
}

func (l *Logger) log(status Status, format string, args ...interface{}) {
	fmt.Fprintln(l.dest, Message(status, fmt.Sprintf(format, args...)))
}

// Infof writes an [info] line.
func (l *Logger) Infof(format string, args ...interface{}) { l.log(StatusInfo, format, args...) }

// Successf writes a [success] line.
func (l *Logger) Successf(format string, args ...interface{}) { l.log(StatusSuccess, format, args...) }

// Warnf writes a [warning] line.
func (l *Logger) Warnf(format string, args ...interface{}) { l.log(StatusWarning, format, args...) }

// Errorf writes an [error] line.
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(StatusError, format, args...) }

// Debugf writes a [debug] line when verbose output is on.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.verbose {
		l.log(StatusDebug, format, args...)
	}
}

// Verbose reports whether debug messages are written.
func (l *Logger) Verbose() bool {
	return l.verbose
}
