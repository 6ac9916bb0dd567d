// Package cli holds the operator commands: arm maintenance and data dumps.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/IronRon/Adaptive-Landing-AI/business/bandit"
	psqlRepo "github.com/IronRon/Adaptive-Landing-AI/internal/repository/postgres"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/config"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/database"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
)

var (
	jsonOutput bool
	limit      int
)

var rootCmd = &cobra.Command{
	Use:          "landingctl",
	Short:        "Operator tooling for the adaptive landing service",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of text")
	rootCmd.PersistentFlags().IntVar(&limit, "limit", 10, "maximum number of rows")
}

// deps is everything a command may need, opened lazily per invocation.
type deps struct {
	db       *gorm.DB
	arms     *bandit.BanditService
	visitors *psqlRepo.VisitorRepository
	landing  *psqlRepo.LandingRepository
}

func openDeps() (*deps, error) {
	cfg, err := config.LoadTooling()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.App.Environment)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &deps{
		db:       db,
		arms:     bandit.NewBanditService(psqlRepo.NewArmRepository(db), nil),
		visitors: psqlRepo.NewVisitorRepository(db),
		landing:  psqlRepo.NewLandingRepository(db),
	}, nil
}

func (d *deps) Close() {
	if err := database.Close(d.db); err != nil {
		logger.Error("failed to close database", err)
	}
}
