// Package poller drives the fetch, render and write cycle of one server list.
package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"mtlist/internal/config"
	"mtlist/internal/render"
	"mtlist/internal/servers"
	"mtlist/internal/sink"
)

// Fetcher retrieves one directory document.
type Fetcher interface {
	Fetch(ctx context.Context) (*servers.Response, error)
}

type State int32

const (
	StateIdle      State = iota // no timer armed
	StateScheduled              // next tick armed
)

func (s State) String() string {
	if s == StateScheduled {
		return "scheduled"
	}
	return "idle"
}

// Poller periodically fetches the listing and writes the rendered list to
// its sink. Only the latest issued fetch may write; older responses that
// complete late are dropped.
type Poller struct {
	fetcher  Fetcher
	out      sink.Sink
	opts     *config.Shared
	interval time.Duration
	logger   *zap.Logger

	renderOpts  []render.Option
	moreLimiter *rate.Limiter
	snapshot    servers.Snapshot

	seq   atomic.Uint64
	state atomic.Int32
	// serialises render and sink writes
	writeMu sync.Mutex
	reset   chan struct{}
}

type Option func(*Poller)

// WithRenderOptions passes options to every renderer the poller builds.
func WithRenderOptions(opts ...render.Option) Option {
	return func(p *Poller) {
		p.renderOpts = append(p.renderOpts, opts...)
	}
}

// WithMoreLimiter replaces the limiter guarding out-of-band fetches.
func WithMoreLimiter(limiter *rate.Limiter) Option {
	return func(p *Poller) {
		p.moreLimiter = limiter
	}
}

func New(fetcher Fetcher, out sink.Sink, opts *config.Shared, interval time.Duration, logger *zap.Logger, options ...Option) *Poller {
	p := &Poller{
		fetcher:     fetcher,
		out:         out,
		opts:        opts,
		interval:    interval,
		logger:      logger.Named("poller"),
		moreLimiter: rate.NewLimiter(rate.Every(5*time.Second), 3),
		reset:       make(chan struct{}, 1),
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// State reports whether a tick is currently armed.
func (p *Poller) State() State {
	return State(p.state.Load())
}

// Latest returns the last listing that was fetched and accepted.
func (p *Poller) Latest() *servers.Response {
	return p.snapshot.Get()
}

// Run fetches immediately and then once per interval until ctx is done.
// With no_refresh set it returns after the first fetch.
func (p *Poller) Run(ctx context.Context) error {
	p.Refresh(ctx)
	if p.opts.Get().NoRefresh {
		p.logger.Info("Refresh disabled, stopping after first fetch")
		return nil
	}

	p.state.Store(int32(StateScheduled))
	defer p.state.Store(int32(StateIdle))

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.reset:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(p.interval)
		case <-timer.C:
			p.Refresh(ctx)
			timer.Reset(p.interval)
		}
	}
}

// Refresh performs one fetch and, if it is still the latest one issued when
// it completes, renders and writes it. Failures leave the previous content
// in place and are only logged.
func (p *Poller) Refresh(ctx context.Context) bool {
	seq := p.seq.Add(1)
	start := time.Now()

	resp, errFetch := p.fetcher.Fetch(ctx)
	if errFetch != nil {
		p.logger.Warn("Failed to fetch listing", zap.Uint64("seq", seq), zap.Error(errFetch))
		return false
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if latest := p.seq.Load(); seq != latest {
		p.logger.Debug("Discarding stale listing", zap.Uint64("seq", seq), zap.Uint64("latest", latest))
		return false
	}
	p.snapshot.Set(resp)

	written := p.write(resp)
	p.logger.Debug("Refreshed listing",
		zap.Uint64("seq", seq),
		zap.Int("servers", len(resp.List)),
		zap.Bool("written", written),
		zap.Duration("duration", time.Since(start)))
	return written
}

// More lifts the row limit and client filter and refreshes right away. The
// regular interval restarts afterwards. When out-of-band fetches come in
// faster than the limiter allows, the last listing is re-rendered instead.
func (p *Poller) More(ctx context.Context) {
	p.opts.ClearRestrictions()

	if p.moreLimiter.Allow() {
		p.Refresh(ctx)
	} else {
		p.logger.Debug("More throttled, re-rendering last listing")
		p.writeMu.Lock()
		if resp := p.snapshot.Get(); resp != nil {
			p.write(resp)
		}
		p.writeMu.Unlock()
	}

	select {
	case p.reset <- struct{}{}:
	default:
	}
}

// write must be called with writeMu held.
func (p *Poller) write(resp *servers.Response) bool {
	opts := p.opts.Get()
	markup, ok := render.New(opts, p.renderOpts...).Render(resp)
	if !ok {
		return false
	}
	p.out.Replace(opts.Target, markup)
	return true
}
