package server

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options control Run.
type Options struct {
	Addr string
	// Simulate enables random changes at this interval when positive.
	Simulate time.Duration
	// SeedFile is watched for edits when Watch is set.
	SeedFile string
	Watch    bool
	// Ready, if set, receives the bound address once listening.
	Ready func(addr string)
}

const shutdownTimeout = 5 * time.Second

// Run serves until ctx is cancelled, together with the simulator and the
// seed watcher when enabled. The first failure stops everything.
func (s *Server) Run(ctx context.Context, opts Options) error {
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}
	s.log.Info("listening", "addr", ln.Addr().String(), "subscribers", s.bus.SubscriptionCount())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.Close()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if opts.Simulate > 0 {
		g.Go(func() error {
			seed := uint64(time.Now().UnixNano())
			return s.Simulate(gctx, opts.Simulate, rand.New(rand.NewPCG(seed, seed>>1)))
		})
	}
	if opts.Watch && opts.SeedFile != "" {
		g.Go(func() error { return s.Watch(gctx, opts.SeedFile) })
	}
	return g.Wait()
}
