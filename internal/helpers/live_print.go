package helpers

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/acarl005/stripansi"
)

// LiveLogger prints regular log lines above a block of footer lines that are
// redrawn in place (one footer per concurrently running job).
type LiveLogger struct {
	out     io.Writer
	footers []string
	width   int

	lock sync.Mutex
}

var _ Logger = &LiveLogger{}

func NewLiveLogger(out io.Writer) *LiveLogger {
	return &LiveLogger{out: out, footers: []string{}, width: termWidth()}
}

type _footerLogger struct {
	logger *LiveLogger
	i      int
}

func (l *LiveLogger) Footer(i int) Logger {
	return &_footerLogger{logger: l, i: i}
}

func (l *_footerLogger) Println(v ...any) {
	l.logger.SetFooter(fmt.Sprintln(v...), l.i)
}
func (l *_footerLogger) Printf(format string, v ...any) {
	l.logger.SetFooter(fmt.Sprintf(format, v...), l.i)
}
func (l *_footerLogger) Print(v ...any) {
	l.logger.SetFooter(fmt.Sprint(v...), l.i)
}

func (l *LiveLogger) footerString() string {
	return strings.Join(l.footers, "\n")
}

func (l *LiveLogger) Println(v ...interface{}) {
	l.Print(fmt.Sprintln(v...))
}

func (l *LiveLogger) Printf(format string, v ...interface{}) {
	l.Print(fmt.Sprintf(format, v...))
}

func (l *LiveLogger) Print(xs ...interface{}) {
	l.lock.Lock()
	defer l.lock.Unlock()

	footer := l.footerString()
	l.printLive(Some(fmt.Sprint(xs...)), footer, footer)
}

// Flush prints the footers as regular output and forgets them.
func (l *LiveLogger) Flush() {
	l.lock.Lock()
	defer l.lock.Unlock()

	footer := l.footerString()
	l.printLive(Some(footer+"\n"), footer, "")
	l.footers = []string{}
}

func runeCountIgnoringAnsi(s string) int {
	return utf8.RuneCountInString(stripansi.Strip(s))
}

func truncateLine(s string, width int) string {
	if runeCountIgnoringAnsi(s) <= width {
		return s
	}
	plain := []rune(stripansi.Strip(s))
	return string(plain[:MaxInt(width-1, 0)]) + "…"
}

func (l *LiveLogger) SetFooter(s string, index int) {
	l.lock.Lock()
	defer l.lock.Unlock()

	s = truncateLine(strings.TrimSpace(s), l.width)

	prevFooterString := l.footerString()

	for len(l.footers) <= index {
		l.footers = append(l.footers, "")
	}
	l.footers[index] = s

	l.printLive(Empty[string](), prevFooterString, l.footerString())
}

func (l *LiveLogger) printLive(output Optional[string], previousFooter string, footer string) {
	if previousFooter != "" {
		fmt.Fprint(l.out, strings.Repeat("\033[A", strings.Count(previousFooter, "\n")+1))
	}

	fmt.Fprint(l.out, "\r\033[J")

	if output.HasValue() {
		fmt.Fprint(l.out, output.Value())
	}

	if footer != "" {
		fmt.Fprintln(l.out, footer)
	}
}
