package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Shutdown is a command's root context. It ends on SIGINT, SIGTERM or Stop
// and remembers what ended it, so the command can say so on the way out.
type Shutdown struct {
	context.Context
	cancel  context.CancelFunc
	logger  *slog.Logger
	signals chan os.Signal

	mu     sync.Mutex
	reason string
}

// OnSignal derives a Shutdown from parent. With no sigs it watches SIGINT and SIGTERM.
func OnSignal(parent context.Context, logger *slog.Logger, sigs ...os.Signal) *Shutdown {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ctx, cancel := context.WithCancel(parent)
	s := &Shutdown{
		Context: ctx,
		cancel:  cancel,
		logger:  logger,
		signals: make(chan os.Signal, 1),
	}
	signal.Notify(s.signals, sigs...)
	go s.watch()
	return s
}

func (s *Shutdown) watch() {
	defer signal.Stop(s.signals)
	select {
	case sig := <-s.signals:
		s.Stop("signal " + sig.String())
	case <-s.Done():
	}
}

// Stop ends the context. The first reason given sticks.
func (s *Shutdown) Stop(reason string) {
	s.mu.Lock()
	if s.reason == "" {
		s.reason = reason
	}
	s.mu.Unlock()
	s.cancel()
}

// Reason reports what ended the context, or "" while it is live.
func (s *Shutdown) Reason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Finish ends the context if it is still live and logs msg with the reason.
func (s *Shutdown) Finish(msg string) {
	s.Stop("command finished")
	s.logger.Info(msg, "reason", s.Reason())
}
