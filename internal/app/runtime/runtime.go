package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"incidentBot/internal/app/events"
	"incidentBot/internal/infrastructure/config"
	"incidentBot/internal/infrastructure/logging"
	sqlitestorage "incidentBot/internal/infrastructure/persistence/sqlite"
	discordadapter "incidentBot/internal/interface/adapters/discord"
	ws "incidentBot/internal/interface/api/ws"
	"incidentBot/internal/usecase/handle_message"
	"incidentBot/internal/usecase/incidents"
	"incidentBot/internal/usecase/notifications"
)

type Options struct {
	// Config overrides config.Load when set.
	Config *config.Config
	Logger *slog.Logger
}

type Runtime struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.Config
	log      *slog.Logger
	store    *sqlitestorage.IncidentStore
	bus      *events.Bus
	wsServer *ws.Server
	discord  *discordadapter.Adapter
	watcher  *incidents.Watcher
	wg       sync.WaitGroup
	started  bool
	errOnce  sync.Once
	err      error
}

func Start(ctx context.Context, opts Options) (*Runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New(cfg.LogLevel, cfg.LogFormat)
	}

	store, err := sqlitestorage.NewIncidentStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}

	bus := events.NewBus(logger)
	recorder := notifications.NewRecorder(store, bus, logger)

	discord := discordadapter.NewAdapter(discordadapter.Config{Token: cfg.DiscordToken}, logger)

	watcher, err := incidents.NewWatcher(incidents.Config{
		ChannelID:    cfg.IncidentsChannelID,
		Signals:      cfg.Signals,
		AllowedRoles: cfg.AllowedRoles,
		Reactions:    discord,
		Observer:     recorder,
		Logger:       logger,
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	uc := handle_message.NewInteractor(watcher, bus)
	discord.SetHandler(uc.Handle)
	discord.SetReactionHandler(uc.HandleReaction)

	wsServer := ws.NewServer(ws.Config{
		Addr:      cfg.DashboardAddr,
		Incidents: store,
	}, logger)

	runtimeCtx, cancel := context.WithCancel(ctx)
	run := &Runtime{
		ctx:      runtimeCtx,
		cancel:   cancel,
		cfg:      cfg,
		log:      logger,
		store:    store,
		bus:      bus,
		wsServer: wsServer,
		discord:  discord,
		watcher:  watcher,
	}

	for _, topic := range []string{events.TopicIncidentSignalled, events.TopicIncidentTriaged} {
		ch, unsubscribe := bus.Subscribe(topic)
		run.wg.Add(1)
		go func() {
			defer run.wg.Done()
			defer unsubscribe()
			wsServer.Forward(runtimeCtx, ch)
		}()
	}

	run.wg.Add(1)
	go func() {
		defer run.wg.Done()
		if err := wsServer.Start(runtimeCtx); err != nil {
			run.fail(fmt.Errorf("ws server: %w", err))
		}
	}()

	run.wg.Add(1)
	go func() {
		defer run.wg.Done()
		if err := discord.Start(runtimeCtx); err != nil && !errors.Is(err, context.Canceled) {
			run.fail(fmt.Errorf("discord adapter: %w", err))
		}
	}()

	run.started = true
	logger.Info("bot started", "incidents_channel", cfg.IncidentsChannelID, "dashboard", cfg.DashboardAddr)
	return run, nil
}

// fail records the first fatal component error and stops the runtime.
func (r *Runtime) fail(err error) {
	r.errOnce.Do(func() {
		r.err = err
		r.log.Error("component stopped", "error", err)
		r.bus.Publish(events.TopicAppError, err.Error())
		r.cancel()
	})
}

// Done is closed when the runtime stops, either by Stop or a component failure.
func (r *Runtime) Done() <-chan struct{} {
	return r.ctx.Done()
}

func (r *Runtime) Err() error {
	r.wg.Wait()
	return r.err
}

func (r *Runtime) Stop() error {
	if r == nil || !r.started {
		return nil
	}
	r.cancel()
	r.wg.Wait()
	r.bus.Close()
	r.started = false
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			return err
		}
	}
	r.log.Info("bot stopped")
	return nil
}

func (r *Runtime) Bus() *events.Bus {
	if r == nil {
		return nil
	}
	return r.bus
}
