package store

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Expirer is implemented by backends without native key expiry.
type Expirer interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Pruner periodically removes expired entries from an Expirer.
// It runs an immediate pass on Start, then one per interval until Stop.
type Pruner struct {
	store    Expirer
	interval time.Duration
	logger   zerolog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewPruner creates a pruner but does not start it. Interval defaults to 10 minutes.
func NewPruner(s Expirer, interval time.Duration, logger zerolog.Logger) *Pruner {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Pruner{
		store:    s,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

func (p *Pruner) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Info().Dur("interval", p.interval).Msg("cache pruner started")
}

// Stop signals the pruner to exit and waits for it to finish.
func (p *Pruner) Stop() {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

func (p *Pruner) loop(ctx context.Context) {
	defer close(p.done)

	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *Pruner) prune(ctx context.Context) {
	deleted, err := p.store.DeleteExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn().Err(err).Msg("cache prune failed")
		}
		return
	}
	if deleted > 0 {
		p.logger.Debug().Int64("deleted", deleted).Msg("cache prune")
	}
}
