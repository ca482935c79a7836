package ring

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/ledring/internal/anim"
	"github.com/coreman2200/ledring/internal/command"
	"github.com/coreman2200/ledring/internal/display"
	"github.com/coreman2200/ledring/internal/link"
	"github.com/coreman2200/ledring/internal/pixel"
)

const DefaultInterval = 50 * time.Millisecond

// Snapshot is a read-only view of the loop for other goroutines.
type Snapshot struct {
	FrameID    uint64       `json:"frame_id"`
	Brightness uint8        `json:"brightness"`
	Mode       int          `json:"mode"`
	Variant    anim.Variant `json:"variant"`
	Kind       string       `json:"kind"`
	Busy       bool         `json:"busy"`
}

// Looper owns the session and the pixel buffer. Only the goroutine calling
// Run or Step touches them.
type Looper struct {
	queue    *link.Queue
	interp   *command.Interpreter
	session  *anim.Session
	sink     display.Sink
	buf      pixel.Buffer
	interval time.Duration

	// Sleep waits between frames. It returns early with ctx's error.
	Sleep func(ctx context.Context, d time.Duration) error

	mu      sync.RWMutex
	frameID uint64
	snap    Snapshot
}

func NewLooper(q *link.Queue, in *command.Interpreter, s *anim.Session, sink display.Sink, n int, interval time.Duration) *Looper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	l := &Looper{
		queue:    q,
		interp:   in,
		session:  s,
		sink:     sink,
		buf:      pixel.New(n),
		interval: interval,
		Sleep:    sleep,
	}
	l.publish()
	return l
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Step runs one iteration without sleeping and returns how long the loop
// should wait before the next one.
func (l *Looper) Step() time.Duration {
	if !l.session.Busy() {
		if line, ok := l.queue.Poll(); ok {
			l.interp.Handle(l.session, line)
		}
	}

	f := anim.Render(l.session, l.buf)
	if err := l.sink.Show(l.buf.Scaled(l.session.Brightness)); err != nil {
		log.Warn().Err(err).Uint64("frame", l.frameID).Msg("show frame")
	}
	l.frameID++
	l.publish()

	if f.Sub {
		return f.Hold
	}
	return l.interval + f.Hold
}

// Run loops until ctx ends, then halts the sink and returns ctx's error.
func (l *Looper) Run(ctx context.Context) error {
	defer func() {
		if err := l.sink.Halt(); err != nil {
			log.Warn().Err(err).Msg("halt sink")
		}
	}()
	log.Info().
		Str("variant", string(l.session.Variant)).
		Int("pixels", l.buf.Len()).
		Dur("interval", l.interval).
		Msg("loop started")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Sleep(ctx, l.Step()); err != nil {
			return err
		}
	}
}

func (l *Looper) publish() {
	s := l.session
	l.mu.Lock()
	l.snap = Snapshot{
		FrameID:    l.frameID,
		Brightness: s.Brightness,
		Mode:       s.Mode,
		Variant:    s.Variant,
		Kind:       s.Kind().String(),
		Busy:       s.Busy(),
	}
	l.mu.Unlock()
}

func (l *Looper) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snap
}
