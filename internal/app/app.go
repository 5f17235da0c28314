package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Loop3D/loopresources/internal/database"
	"github.com/Loop3D/loopresources/internal/importer"
	"github.com/Loop3D/loopresources/internal/litho"
	"github.com/Loop3D/loopresources/internal/log"
	"github.com/Loop3D/loopresources/internal/pipeline"
	"github.com/Loop3D/loopresources/internal/store"
	"github.com/Loop3D/loopresources/pkg/config"
	"github.com/Loop3D/loopresources/pkg/export"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run executes one batch pass: import the configured CSV tables into the
// store, run the contact pipeline, then write the results to every
// configured sink.
func (a *App) Run(ctx context.Context) error {
	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Input.Collars != "" {
		if err := importer.Import(st, importFiles(cfg), mapping(cfg)); err != nil {
			return fmt.Errorf("importing input tables: %w", err)
		}
	}

	res, err := pipeline.Run(ctx, st, pipelineConfig(cfg))
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Warn(w)
	}
	for _, he := range res.HoleErrors {
		log.Warnf("hole %s failed: %v", he.HoleID, he.Err)
	}

	return a.saveResults(cfg, st, res)
}

// saveResults fans the pipeline output to the store, flat files, and the
// shared results database, whichever are configured.
func (a *App) saveResults(cfg *config.ConfigData, st store.Store, res *pipeline.Result) error {
	out := cfg.Storage.Outputs

	if out.ContactSet != "" {
		if err := st.SaveContacts(out.ContactSet, res.Contacts); err != nil {
			return fmt.Errorf("saving contact set %s: %w", out.ContactSet, err)
		}
	}
	if out.OrientedSet != "" {
		if err := st.SaveOrientedContacts(out.OrientedSet, res.Oriented); err != nil {
			return fmt.Errorf("saving oriented set %s: %w", out.OrientedSet, err)
		}
	}
	if out.ContactFile != "" {
		if err := export.WriteContacts(out.ContactFile, res.Contacts); err != nil {
			return fmt.Errorf("exporting contacts to %s: %w", out.ContactFile, err)
		}
		log.Infof("exported %d contacts to %s", len(res.Contacts), out.ContactFile)
	}
	if out.OrientedFile != "" {
		if err := export.WriteOrientedContacts(out.OrientedFile, res.Oriented); err != nil {
			return fmt.Errorf("exporting oriented contacts to %s: %w", out.OrientedFile, err)
		}
		log.Infof("exported %d oriented contacts to %s", len(res.Oriented), out.OrientedFile)
	}

	if cfg.Storage.Postgres != nil {
		client, err := database.NewClient(cfg.Storage.Postgres.ConnectionString, a.logger)
		if err != nil {
			return err
		}
		if err := client.SaveContacts(res.RunID, res.Contacts); err != nil {
			return err
		}
		if err := client.SaveOrientedContacts(res.RunID, res.Oriented); err != nil {
			return err
		}
	}
	return nil
}

// openStore picks the SQLite backend when a path is configured, otherwise
// an in-memory store.
func openStore(cfg *config.ConfigData) (store.Store, error) {
	if cfg.Storage.SQLite != nil {
		st, err := store.NewSQLite(cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("opening drillhole database %s: %w", cfg.Storage.SQLite.Path, err)
		}
		log.Infof("using drillhole database %s", cfg.Storage.SQLite.Path)
		return st, nil
	}
	return store.NewMemory(), nil
}

func importFiles(cfg *config.ConfigData) importer.Files {
	return importer.Files{
		Collars:   cfg.Input.Collars,
		Survey:    cfg.Input.Survey,
		Intervals: cfg.Input.Intervals,
		Points:    cfg.Input.Points,
	}
}

// mapping merges the configured column names over the conventional
// defaults.
func mapping(cfg *config.ConfigData) importer.Mapping {
	m := importer.DefaultMapping()
	c := cfg.Columns
	if c.HoleID != "" {
		m.HoleID = c.HoleID
	}
	if c.X != "" {
		m.X = c.X
	}
	if c.Y != "" {
		m.Y = c.Y
	}
	if c.Z != "" {
		m.Z = c.Z
	}
	if c.TotalDepth != "" {
		m.TotalDepth = c.TotalDepth
	}
	if c.Depth != "" {
		m.Depth = c.Depth
	}
	if c.Azimuth != "" {
		m.Azimuth = c.Azimuth
	}
	if c.Dip != "" {
		m.Dip = c.Dip
	}
	if c.From != "" {
		m.From = c.From
	}
	if c.To != "" {
		m.To = c.To
	}
	if c.Value != "" {
		m.Value = c.Value
	}
	return m
}

func pipelineConfig(cfg *config.ConfigData) pipeline.Config {
	tie := litho.TieShallowest
	if cfg.Project.TiePolicy == "deepest" {
		tie = litho.TieDeepest
	}
	return pipeline.Config{
		LithologyTable:     cfg.Project.LithologyTable,
		StratigraphicOrder: cfg.Project.StratigraphicOrder,
		TiePolicy:          tie,
		DesurveyStep:       cfg.Project.DesurveyStep,
		Radius:             cfg.Project.SearchRadius,
		MinNeighbors:       cfg.Project.MinNeighbors,
		Workers:            cfg.Project.Workers,
	}
}
