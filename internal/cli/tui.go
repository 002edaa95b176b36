package cli

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"photogrid/internal/eventbus"
	"photogrid/internal/imageloader"
	"photogrid/internal/logging"
	"photogrid/internal/search"
	"photogrid/internal/ui"
)

// uiEvents are forwarded from the bus to the model for the status bar
var uiEvents = []eventbus.EventType{
	eventbus.EventSearchDispatched,
	eventbus.EventResponseDiscarded,
	eventbus.EventSearchFailed,
	eventbus.EventImageFailed,
}

func runTUI(cmd *cobra.Command, opts *Options) error {
	// The first read only picks the log destination; the bus does not exist yet
	boot, _, err := loadConfig(opts, nil)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs only go to the log file
	log, closeLog, err := logging.Setup(boot.Log.File, boot.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()

	bus := eventbus.New(log)
	defer bus.Close()
	unsubscribe := bus.Subscribe(eventbus.EventConfigLoaded, func(e eventbus.DomainEvent) {
		if loaded, ok := e.(eventbus.ConfigLoadedEvent); ok {
			log.Info().Str("path", loaded.Path).Msg("configuration loaded")
		}
	})
	defer unsubscribe()

	cfg, svc, err := loadConfig(opts, bus)
	if err != nil {
		return err
	}

	searcher, closeCache, err := newSearcher(cfg, svc.Path(), log)
	if err != nil {
		return err
	}
	defer closeCache()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	pipeline := search.New(searcher, search.WithLogger(log), search.WithEventBus(bus))
	defer pipeline.Close()

	images, err := imageloader.New(
		imageloader.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		imageloader.WithLogger(log),
		imageloader.WithEventBus(bus),
	)
	if err != nil {
		return err
	}
	defer images.Close()

	model := ui.NewModel(bus, cfg, pipeline, ui.WithImageLoader(images), ui.WithLogger(log))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	for _, t := range uiEvents {
		unsubscribe := bus.Subscribe(t, func(e eventbus.DomainEvent) {
			p.Send(ui.EventMsg{Event: e})
		})
		defer unsubscribe()
	}

	log.Info().Str("config", svc.Path()).Str("screen", cfg.UI.StartScreen).Msg("starting UI")
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			log.Info().Msg("terminated")
			return nil
		}
		log.Error().Err(err).Msg("error running program")
		return fmt.Errorf("error running program: %w", err)
	}
	log.Info().Msg("UI exited normally")
	return nil
}
