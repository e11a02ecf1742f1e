package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alt-project/accountctl/internal/adapter/gateway"
	"github.com/alt-project/accountctl/internal/adapter/prompt"
	"github.com/alt-project/accountctl/internal/domain"
	"github.com/alt-project/accountctl/internal/infrastructure/events"
	"github.com/alt-project/accountctl/internal/infrastructure/sessionstore"
	"github.com/alt-project/accountctl/internal/output"
	"github.com/alt-project/accountctl/internal/usecase"
)

// dispatcher is shared by all commands of one invocation and closed by Execute.
var dispatcher *events.Dispatcher

// app wires the orchestrator for a single command run.
type app struct {
	orchestrator *usecase.Orchestrator
	printer      *output.Printer
}

func newApp(cmd *cobra.Command) *app {
	printer := newPrinter(cmd)

	store := sessionstore.NewFileStore(sessionPath())
	account := gateway.NewKratosGateway(cfg.Account.URL, cfg.Account.Timeout, store, logger)

	// Prompts go to stderr so stdout carries only results.
	form := prompt.NewForm(cmd.InOrStdin(), cmd.ErrOrStderr(), cmd.OutOrStdout(), cfg.Prompt.MaxAttempts)

	return &app{
		orchestrator: usecase.NewOrchestrator(account, form, newNotifier(), logger),
		printer:      printer,
	}
}

// newNotifier returns the process-wide event dispatcher, or nil when
// events are disabled.
func newNotifier() domain.Notifier {
	if !cfg.Events.Enabled {
		return nil
	}
	if dispatcher == nil {
		var sink events.Sink = events.LogSink{Logger: logger}
		if cfg.Events.Endpoint != "" {
			sink = events.NewHTTPSink(cfg.Events.Endpoint, cfg.Events.FlushTimeout)
		}
		dispatcher = events.NewDispatcher(events.Config{
			BufferSize:    cfg.Events.BufferSize,
			ClientVersion: version,
			RateLimit:     cfg.Events.RateLimit,
		}, sink, logger)
	}
	return dispatcher
}

// closeNotifier flushes queued events within events.flush_timeout.
func closeNotifier() {
	if dispatcher == nil {
		return
	}
	dispatcher.Close(cfg.Events.FlushTimeout)
	if dropped := dispatcher.Dropped(); dropped > 0 {
		logger.Debug("events dropped", "count", dropped)
	}
	dispatcher = nil
}
