// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package shutdown runs long-lived components until one fails or the process
// receives SIGINT, SIGTERM or SIGQUIT, then runs registered close functions
// in order under a timeout.
package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrSignal is the cause recorded when an OS signal starts the shutdown.
var ErrSignal = errors.New("received shutdown signal")

type closeFunc func(ctx context.Context) error

// Group coordinates components and their shutdown.
type Group struct {
	mu         sync.Mutex
	ctx        context.Context
	errGroup   *errgroup.Group
	closeFuncs []closeFunc
	closeErr   error
	timeout    time.Duration
	log        logrus.FieldLogger
}

// New returns a Group listening for OS signals. timeout bounds the close
// phase.
func New(parent context.Context, timeout time.Duration, log logrus.FieldLogger) *Group {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	g := newGroup(parent, timeout, log, ch)
	g.Go(func() error {
		<-g.ctx.Done()
		signal.Stop(ch)
		return nil
	})
	return g
}

func newGroup(parent context.Context, timeout time.Duration, log logrus.FieldLogger, signals <-chan os.Signal) *Group {
	eg, ctx := errgroup.WithContext(parent)
	g := &Group{
		ctx:      ctx,
		errGroup: eg,
		timeout:  timeout,
		log:      log,
	}

	g.Go(func() error { return g.listen(signals) })
	g.Go(g.closer)

	return g
}

// Go runs f in the group. A non-nil error or a panic starts the shutdown.
func (g *Group) Go(f func() error) {
	g.errGroup.Go(func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
				g.log.WithError(err).Error("component panicked")
			}
		}()
		return f()
	})
}

// OnClose registers f to run during shutdown. Close functions run in
// registration order.
func (g *Group) OnClose(f func(ctx context.Context) error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closeFuncs = append(g.closeFuncs, f)
}

// Wait blocks until every component has returned and the close phase has
// finished. After a shutdown by signal or parent cancellation it returns the
// close phase's error, which is nil when every close function succeeded.
func (g *Group) Wait() error {
	err := g.errGroup.Wait()
	if err == nil || errors.Is(err, ErrSignal) {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.closeErr
	}
	return err
}

func (g *Group) listen(signals <-chan os.Signal) error {
	select {
	case <-g.ctx.Done():
		return nil
	case sig := <-signals:
		g.log.WithField("signal", sig.String()).Info("received signal, shutting down")
		return fmt.Errorf("%w: %s", ErrSignal, sig)
	}
}

func (g *Group) closer() error {
	<-g.ctx.Done()

	ctx := context.Background()
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	err := g.close(ctx)

	g.mu.Lock()
	g.closeErr = err
	g.mu.Unlock()
	return err
}

func (g *Group) close(ctx context.Context) error {
	g.mu.Lock()
	funcs := append([]closeFunc(nil), g.closeFuncs...)
	g.mu.Unlock()

	var errs []error
	for _, f := range funcs {
		if err := f(ctx); err != nil {
			g.log.WithError(err).Error("shutdown step failed")
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing: %w", errors.Join(errs...))
	}
	return nil
}
