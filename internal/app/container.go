package app

import (
	"context"
	"net/http"

	"github.com/spf13/afero"

	"github.com/doeshing/prompt-enhancer/internal/application/doctor"
	"github.com/doeshing/prompt-enhancer/internal/application/enhance"
	"github.com/doeshing/prompt-enhancer/internal/domain"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/ai"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/bridge"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/config"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/history"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/settings"
	"github.com/doeshing/prompt-enhancer/internal/infrastructure/storage"
	"github.com/doeshing/prompt-enhancer/internal/pkg/logger"
	"github.com/doeshing/prompt-enhancer/internal/ports"
)

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.AppConfig
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Store          ports.KeyValueStore
	SettingsStore  *settings.Store
	HistoryStore   ports.HistoryRepository
	Dispatcher     *enhance.Service
	Bridge         *bridge.Bridge
	DoctorService  *doctor.Service
	Logger         ports.Logger
	Prompter       ports.ConfirmationPrompter
	Clipboard      ports.Clipboard
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)
	store := storage.Open(afero.NewOsFs(), cfg, log)
	settingsStore := settings.NewStore(store, log)
	historyStore := history.NewStore(store, log)

	dispatcher := &enhance.Service{
		Adapters:   ai.NewFactory(),
		HTTPClient: &http.Client{},
		Logger:     log,
		Timeouts:   enhance.TimeoutsFromConfig(cfg),
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		Store:          store,
		Settings:       settingsStore,
		Dispatcher:     dispatcher,
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Store:          store,
		SettingsStore:  settingsStore,
		HistoryStore:   historyStore,
		Dispatcher:     dispatcher,
		Bridge:         bridge.New(dispatcher, historyStore, log),
		DoctorService:  doctorService,
		Logger:         log,
	}, nil
}

// Close releases the key/value store.
func (c *Container) Close() error {
	return storage.Close(c.Store)
}
