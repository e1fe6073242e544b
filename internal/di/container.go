package di

import (
	"fmt"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/config"
	"onboarding-bot/internal/infrastructure/browser/rod"
	"onboarding-bot/internal/infrastructure/cep"
	"onboarding-bot/internal/infrastructure/httpapi"
	"onboarding-bot/internal/infrastructure/logger"
	"onboarding-bot/internal/infrastructure/storage"
	"onboarding-bot/internal/usecase/onboarding"
	"onboarding-bot/internal/usecase/submission"
)

type Container struct {
	Config      *config.Config
	Logger      output.LoggerPort
	Workflow    input.WorkflowRunner
	Submissions input.SubmissionHandler
	Server      *httpapi.Server
	// Store is nil when object storage is not configured.
	Store output.ArtifactStore
}

// NewContainer wires every component from cfg. progress may be nil.
func NewContainer(cfg *config.Config, progress output.ProgressPort) (*Container, error) {
	log, err := logger.NewLoggerAdapter(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	var store output.ArtifactStore
	if cfg.Storage.Enabled() {
		spaces, err := storage.NewSpacesStore(cfg.Storage, log)
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to create artifact store: %w", err)
		}
		store = spaces
	} else {
		log.Warn("Object storage not configured; artifacts stay local and do:// documents are rejected")
	}

	addresses := cep.NewClient(cep.Config{
		BaseURL:   cfg.CEP.BaseURL,
		Timeout:   cfg.CEP.Timeout,
		RateLimit: cfg.CEP.RateLimit,
		Region:    cfg.Workflow.OperatingRegion,
	}, log)

	pipeline := onboarding.NewPipeline(addresses, settings(cfg))
	workflow := onboarding.New(rod.NewFactory(browserConfig(cfg)), pipeline, progress, log, cfg.Workflow.ArtifactDir)

	fetcher := storage.NewFetcher(store, "", log)
	submissions := submission.New(workflow, fetcher, store, log)

	return &Container{
		Config:      cfg,
		Logger:      log,
		Workflow:    workflow,
		Submissions: submissions,
		Server:      httpapi.NewServer(cfg.Server, submissions, log, cfg.Logger.ServiceName),
		Store:       store,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func settings(cfg *config.Config) onboarding.Settings {
	w := cfg.Workflow
	return onboarding.Settings{
		EntryURL:    w.EntryURL,
		LoginMarker: w.LoginMarker,
		Timing: onboarding.Timing{
			ElementTimeout: w.ElementTimeout,
			Settle:         w.Settle,
		},
		Simulation: onboarding.SimulationDefaults{
			ProductType: w.DefaultProductType,
			Employer:    w.DefaultEmployer,
		},
		Registration: onboarding.RegistrationDefaults{
			Region:        w.OperatingRegion,
			City:          w.DefaultCity,
			AdmissionDate: w.FallbackAdmissionDate,
		},
	}
}

func browserConfig(cfg *config.Config) rod.BrowserConfig {
	b := rod.DefaultConfig()
	b.Headless = cfg.Browser.Headless
	b.NoSandbox = cfg.Browser.NoSandbox
	b.SlowMotion = cfg.Browser.SlowMotion
	b.Bin = cfg.Browser.Bin
	if cfg.Browser.ViewportWidth > 0 {
		b.ViewportWidth = cfg.Browser.ViewportWidth
	}
	if cfg.Browser.ViewportHeight > 0 {
		b.ViewportHeight = cfg.Browser.ViewportHeight
	}
	if cfg.Browser.MaxShotWidth > 0 {
		b.MaxShotWidth = cfg.Browser.MaxShotWidth
	}
	b.ArtifactDir = cfg.Workflow.ArtifactDir
	return b
}
