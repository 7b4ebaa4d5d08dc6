package progress

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/hupe1980/bip39crack"
	"golang.org/x/time/rate"
)

const (
	defaultRefresh = 100 * time.Millisecond
	defaultWidth   = 120
)

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithRefresh sets the minimum interval between redraws caused by Trying
// events. Other events always redraw.
func WithRefresh(d time.Duration) TerminalOption {
	return func(t *Terminal) {
		t.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithTTY overrides terminal detection.
func WithTTY(tty bool, width int) TerminalOption {
	return func(t *Terminal) {
		t.tty = tty
		t.width = width
		t.detect = false
	}
}

// Terminal renders one line per worker. On a terminal the lines are redrawn
// in place; otherwise Matched, Exhausted and Finished events and throttled
// Trying events are appended as plain lines. Progress events are shown only
// on a terminal.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	tty     bool
	width   int
	detect  bool
	limiter *rate.Limiter
	lines   map[int]string
	drawn   int

	match  *color.Color
	done   *color.Color
	failed *color.Color
}

var _ bip39crack.ProgressSink = (*Terminal)(nil)

// NewTerminal creates a Terminal writing to w.
func NewTerminal(w io.Writer, optFns ...TerminalOption) *Terminal {
	t := &Terminal{
		w:       w,
		width:   defaultWidth,
		detect:  true,
		limiter: rate.NewLimiter(rate.Every(defaultRefresh), 1),
		lines:   make(map[int]string),
		match:   color.New(color.FgGreen, color.Bold),
		done:    color.New(color.FgCyan),
		failed:  color.New(color.FgRed, color.Bold),
	}
	for _, fn := range optFns {
		fn(t)
	}

	if t.detect {
		if width, ok := terminalWidth(w); ok {
			t.tty = true
			if width > 0 {
				t.width = width
			}
		}
	}
	for _, c := range []*color.Color{t.match, t.done, t.failed} {
		if t.tty {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// Report implements bip39crack.ProgressSink.
func (t *Terminal) Report(worker int, ev bip39crack.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case ev.Kind == bip39crack.EventExhausted && t.tty:
		// Keep the sentence on screen; exhaustion only shows up in plain mode.
		return
	case ev.Kind == bip39crack.EventProgress && !t.tty:
		return
	}
	t.lines[worker] = t.format(worker, ev)

	if (ev.Kind == bip39crack.EventTrying || ev.Kind == bip39crack.EventProgress) && !t.limiter.Allow() {
		return
	}

	if t.tty {
		t.redraw()
		return
	}
	_, _ = io.WriteString(t.w, line+"\n")
}

func (t *Terminal) format(worker int, ev bip39crack.Event) string {
	prefix := "worker " + strconv.Itoa(worker) + ": "
	switch ev.Kind {
	case bip39crack.EventTrying:
		return prefix + ev.Sentence
	case bip39crack.EventMatched:
		return prefix + t.match.Sprint("MATCH ") + ev.Sentence
	case bip39crack.EventProgress:
		return prefix + fmt.Sprintf("candidate %d, %d attempts", ev.Candidate, ev.Attempts)
	case bip39crack.EventExhausted:
		return prefix + fmt.Sprintf("candidate %d exhausted after %d attempts", ev.Candidate, ev.Attempts)
	case bip39crack.EventFinished:
		if ev.Err != nil {
			return prefix + t.failed.Sprint("FAILED ") + ev.Err.Error()
		}
		return prefix + t.done.Sprint("finished") + fmt.Sprintf(" (%d attempts)", ev.Attempts)
	default:
		return prefix + ev.Kind.String()
	}
}

// redraw moves the cursor to the first worker line and rewrites all lines.
func (t *Terminal) redraw() {
	workers := make([]int, 0, len(t.lines))
	for w := range t.lines {
		workers = append(workers, w)
	}
	sort.Ints(workers)

	var buf []byte
	if t.drawn > 0 {
		buf = fmt.Appendf(buf, "\x1b[%dA", t.drawn)
	}
	for _, w := range workers {
		buf = append(buf, "\r\x1b[2K"...)
		buf = append(buf, truncate(t.lines[w], t.width)...)
		buf = append(buf, '\n')
	}
	t.drawn = len(workers)
	_, _ = t.w.Write(buf)
}

// Flush redraws the current state regardless of throttling.
func (t *Terminal) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tty {
		t.redraw()
	}
}

// truncate shortens s to width runes. Escape sequences count as runes, so
// colored lines may be cut slightly early.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == width {
			return s[:i]
		}
		n++
	}
	return s
}
