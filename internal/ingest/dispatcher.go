package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/textforge/smshub/internal/media"
	"github.com/textforge/smshub/internal/notify"
)

// MediaParser expands a recognized media link in a snippet into a preview
// annotation for the conversation.
type MediaParser interface {
	Parse(ctx context.Context, conversationID uint, text string) error
}

// Delegate is the platform's own default persistence behavior, run before the
// orchestrator. Its failures are isolated: logged, never propagated.
type Delegate func(ctx context.Context) error

// Dispatcher detaches ingestion onto a background goroutine per delivery so
// the receive callback returns immediately. Workers for distinct deliveries
// run concurrently and share nothing; the storage layer serializes at persist
// time.
type Dispatcher struct {
	orchestrator *Orchestrator
	notifier     notify.Notifier
	parser       MediaParser
	delegate     Delegate
	sniff        func(string) bool
	logger       *slog.Logger
	wg           sync.WaitGroup
}

// DispatcherConfig holds the dispatcher's collaborators. Notifier, Parser and
// Delegate may each be nil, disabling that step.
type DispatcherConfig struct {
	Orchestrator *Orchestrator
	Notifier     notify.Notifier
	Parser       MediaParser
	Delegate     Delegate
	// Sniff classifies a snippet as a parseable media reference; defaults to
	// media.Sniff.
	Sniff  func(string) bool
	Logger *slog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg *DispatcherConfig) *Dispatcher {
	sniff := cfg.Sniff
	if sniff == nil {
		sniff = media.Sniff
	}
	return &Dispatcher{
		orchestrator: cfg.Orchestrator,
		notifier:     cfg.Notifier,
		parser:       cfg.Parser,
		delegate:     cfg.Delegate,
		sniff:        sniff,
		logger:       cfg.Logger,
	}
}

// Dispatch starts one background worker for a just-delivered message and
// returns immediately. Within a worker, notification always follows
// persistence, and media parsing always follows the notification attempt.
func (d *Dispatcher) Dispatch(ctx context.Context) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(ctx)
	}()
}

// Wait blocks until all in-flight workers finish. Used by shutdown and tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context) {
	if d.delegate != nil {
		if err := d.delegate(ctx); err != nil {
			d.logError("platform delegate failed", err)
		}
	}

	outcome := d.orchestrator.Ingest(ctx)

	if outcome.Status == StatusPersisted && !outcome.MuteNotification && d.notifier != nil {
		err := d.notifier.Notify(ctx, outcome.ConversationID)
		if errors.Is(err, notify.ErrBackgroundRestricted) {
			// Newer gateways refuse background starts for fresh messages;
			// the foreground variant is always accepted.
			err = d.notifier.NotifyForeground(ctx, outcome.ConversationID)
		}
		if err != nil {
			d.logError("notification dispatch failed", err)
		}
	}

	if outcome.Status == StatusPersisted && outcome.Snippet != "" && d.parser != nil && d.sniff(outcome.Snippet) {
		if err := d.parser.Parse(ctx, outcome.ConversationID, outcome.Snippet); err != nil {
			d.logError("media parse failed", err)
		}
	}

	if d.logger != nil {
		d.logger.Debug("ingestion worker finished", slog.String("status", outcome.Status.String()))
	}
}

func (d *Dispatcher) logError(msg string, err error) {
	if d.logger != nil {
		d.logger.Error(msg, slog.Any("error", err))
	}
}
