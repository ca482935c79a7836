package link

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	DefaultQueueSize = 64
	// MaxLine bounds a single command line, terminator included.
	MaxLine = 256
)

// Queue collects command lines from any number of producers and hands them
// to a single consumer, one at a time, without ever blocking the consumer.
type Queue struct {
	ch chan string
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan string, size)}
}

// Push enqueues a line, waiting for room unless ctx ends first.
func (q *Queue) Push(ctx context.Context, line string) error {
	select {
	case q.ch <- line:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poll returns the oldest pending line, if there is one.
func (q *Queue) Poll() (string, bool) {
	select {
	case l := <-q.ch:
		return l, true
	default:
		return "", false
	}
}

func (q *Queue) Len() int { return len(q.ch) }

// Feed reads newline-terminated lines from r into the queue until r is
// exhausted, fails, or ctx ends. A clean EOF returns nil. Lines longer than
// MaxLine are dropped whole and reading carries on with the next line.
func (q *Queue) Feed(ctx context.Context, name string, r io.Reader) error {
	br := bufio.NewReader(r)
	line := make([]byte, 0, MaxLine)
	over := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !over {
			if len(line)+len(chunk) > MaxLine {
				over = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err == nil || (err == io.EOF && (len(line) > 0 || over)) {
			if over {
				log.Warn().Str("source", name).Int("max", MaxLine).Msg("dropped over-long line")
			} else {
				text := strings.TrimRight(string(line), "\r\n")
				log.Debug().Str("source", name).Str("line", text).Msg("line received")
				if perr := q.Push(ctx, text); perr != nil {
					return perr
				}
			}
			line = line[:0]
			over = false
		}
		if err == io.EOF {
			log.Info().Str("source", name).Msg("source closed")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Go runs Feed in the background and logs how it ended.
func (q *Queue) Go(ctx context.Context, name string, r io.Reader) {
	go func() {
		if err := q.Feed(ctx, name, r); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Str("source", name).Msg("source stopped")
		}
	}()
}
