// Package typing drives the typewriter effect used for the hero title and
// section headings. A Machine holds the {line, char} position and is
// advanced one step per tick; a Task runs a machine on a timer and can be
// restarted or cancelled.
package typing

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Default timings.
const (
	DefaultStartDelay = 500 * time.Millisecond
	DefaultCharDelay  = 80 * time.Millisecond
	DefaultLineDelay  = 300 * time.Millisecond
)

// Frame is the visible state after a tick.
type Frame struct {
	// Text typed so far, lines joined by "\n".
	Text      string
	Line      int
	Char      int
	LineBreak bool
	// Delay before the next tick.
	Delay time.Duration
}

// HTML returns Text with line breaks as <br>. Text must already be safe.
func (f Frame) HTML() string {
	return strings.ReplaceAll(f.Text, "\n", "<br>")
}

// Machine is the typing state machine.
type Machine struct {
	lines     [][]rune
	line      int
	char      int
	typed     []rune
	charDelay time.Duration
	lineDelay time.Duration
}

func NewMachine(lines []string, charDelay, lineDelay time.Duration) *Machine {
	m := &Machine{charDelay: charDelay, lineDelay: lineDelay}
	for _, l := range lines {
		m.lines = append(m.lines, []rune(l))
	}
	return m
}

// Tick advances the machine by one step: either a character or a line
// break. It reports false once every line has been typed.
func (m *Machine) Tick() (Frame, bool) {
	for m.line < len(m.lines) {
		line := m.lines[m.line]
		if m.char < len(line) {
			m.typed = append(m.typed, line[m.char])
			m.char++
			return m.frame(false, m.charDelay), true
		}

		m.line++
		m.char = 0
		if m.line < len(m.lines) {
			m.typed = append(m.typed, '\n')
			return m.frame(true, m.lineDelay), true
		}
	}
	return m.frame(false, 0), false
}

func (m *Machine) frame(lineBreak bool, delay time.Duration) Frame {
	return Frame{
		Text:      string(m.typed),
		Line:      m.line,
		Char:      m.char,
		LineBreak: lineBreak,
		Delay:     delay,
	}
}

// Done reports whether every line has been typed.
func (m *Machine) Done() bool {
	if m.line >= len(m.lines) {
		return true
	}
	return m.line == len(m.lines)-1 && m.char == len(m.lines[m.line])
}

// Reset rewinds the machine to the start.
func (m *Machine) Reset() {
	m.line, m.char = 0, 0
	m.typed = m.typed[:0]
}

// Options controls task timings.
type Options struct {
	StartDelay time.Duration
	CharDelay  time.Duration
	LineDelay  time.Duration
}

func DefaultOptions() Options {
	return Options{
		StartDelay: DefaultStartDelay,
		CharDelay:  DefaultCharDelay,
		LineDelay:  DefaultLineDelay,
	}
}

// Run types lines, calling emit after every tick. It returns nil once the
// text is complete, the context error if cancelled, or emit's error.
func Run(ctx context.Context, lines []string, opts Options, emit func(Frame) error) error {
	m := NewMachine(lines, opts.CharDelay, opts.LineDelay)
	if err := sleep(ctx, opts.StartDelay); err != nil {
		return err
	}
	for {
		f, ok := m.Tick()
		if !ok {
			return nil
		}
		if err := emit(f); err != nil {
			return err
		}
		if m.Done() {
			return nil
		}
		if err := sleep(ctx, f.Delay); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Task runs Run in the background. Starting it again cancels the previous
// run first.
type Task struct {
	lines []string
	opts  Options
	emit  func(Frame) error

	// runMu serialises Start and Stop.
	runMu  sync.Mutex
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func NewTask(lines []string, opts Options, emit func(Frame) error) *Task {
	done := make(chan struct{})
	close(done)
	return &Task{lines: lines, opts: opts, emit: emit, done: done}
}

// Start begins typing from the first character.
func (t *Task) Start(ctx context.Context) {
	t.runMu.Lock()
	defer t.runMu.Unlock()
	t.stop()

	t.mu.Lock()
	defer t.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done
	t.err = nil

	go func() {
		defer close(done)
		err := Run(runCtx, t.lines, t.opts, t.emit)
		t.mu.Lock()
		if t.done == done {
			t.err = err
		}
		t.mu.Unlock()
	}()
}

// Stop cancels the current run and waits for it to exit.
func (t *Task) Stop() {
	t.runMu.Lock()
	defer t.runMu.Unlock()
	t.stop()
}

func (t *Task) stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
}

// Done is closed when the current run ends.
func (t *Task) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Err is the result of the last finished run.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
