package importer

import (
	"log/slog"
)

// ProgressFunc receives coarse progress of a multi-stage import. It is
// called from a separate goroutine and never blocks the import.
type ProgressFunc func(Progress)

const progressBuffer = 8

// progressReporter hands progress events to a ProgressFunc without letting a
// slow or panicking callback stall the import. Events are dropped when the
// buffer is full.
type progressReporter struct {
	ch     chan Progress
	logger *slog.Logger
}

// startProgress returns nil when fn is nil; a nil reporter discards events.
func startProgress(fn ProgressFunc, logger *slog.Logger) *progressReporter {
	if fn == nil {
		return nil
	}
	p := &progressReporter{
		ch:     make(chan Progress, progressBuffer),
		logger: logger,
	}
	go func() {
		for ev := range p.ch {
			p.deliver(fn, ev)
		}
	}()
	return p
}

func (p *progressReporter) deliver(fn ProgressFunc, ev Progress) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("Progress callback panicked", "panic", r)
		}
	}()
	fn(ev)
}

func (p *progressReporter) report(ev Progress) {
	if p == nil {
		return
	}
	select {
	case p.ch <- ev:
	default:
		p.logger.Debug("Progress event dropped", "operation", ev.CurrentOperation)
	}
}

// close stops accepting events. Queued events are still delivered.
func (p *progressReporter) close() {
	if p == nil {
		return
	}
	close(p.ch)
}
