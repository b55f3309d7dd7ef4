package helpers

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Logger interface {
	Println(v ...any)
	Printf(format string, v ...any)
	Print(v ...any)
}

type FuncLogger func(s string)

func (l FuncLogger) Println(v ...any) {
	l(fmt.Sprintln(v...))
}
func (l FuncLogger) Printf(format string, v ...any) {
	l(fmt.Sprintf(format, v...))
}
func (l FuncLogger) Print(v ...any) {
	l(fmt.Sprint(v...))
}

// WriterLogger serializes writes so lines from concurrent searches never interleave.
type WriterLogger struct {
	lock sync.Mutex
	w    io.Writer
}

func NewWriterLogger(w io.Writer) *WriterLogger {
	return &WriterLogger{w: w}
}

func (l *WriterLogger) Println(v ...any) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintln(l.w, v...)
}
func (l *WriterLogger) Printf(format string, v ...any) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.w, format, v...)
}
func (l *WriterLogger) Print(v ...any) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprint(l.w, v...)
}

// NewDiagnostics returns the structured logger used for everything that is
// not protocol output. Protocol output owns stdout, so this goes to stderr.
func NewDiagnostics(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}).
		Level(level).
		With().Timestamp().Logger()
}
