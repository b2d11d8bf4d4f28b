// folioctl is the operational companion to the server: it runs schema
// migrations and loads demo content without going through HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"folio/internal/config"
	"folio/internal/repository/postgres"
	"folio/internal/seed"
	"folio/internal/service"
	serviceauth "folio/internal/service/auth"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "folioctl",
		Short:        "Operational tooling for the folio backend",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newResetCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg)

			ctx := cmd.Context()
			pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			tables := postgres.NewTableNames(cfg.TablePrefix)
			if err := postgres.Migrate(ctx, pool, tables); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			logger.Info("migrations complete", "table_prefix", cfg.TablePrefix)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo project and documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg)

			ctx := cmd.Context()
			pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			tables := postgres.NewTableNames(cfg.TablePrefix)
			if err := postgres.Migrate(ctx, pool, tables); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			repoConfig := &postgres.RepositoryConfig{
				Pool:   pool,
				Tables: tables,
				Logger: logger,
			}
			docRepo := postgres.NewDocumentRepository(repoConfig)
			revisionRepo := postgres.NewRevisionRepository(repoConfig)
			projectRepo := postgres.NewProjectRepository(repoConfig)
			userRepo := postgres.NewUserRepository(repoConfig)
			txManager := postgres.NewTransactionManager(pool, logger)

			authorizer := serviceauth.NewProjectAuthorizer(projectRepo, logger)
			documentService := service.NewDocumentService(docRepo, revisionRepo, projectRepo, txManager, authorizer, logger)
			projectService := service.NewProjectService(projectRepo, authorizer, logger)

			seeder := seed.NewSeeder(userRepo, projectService, documentService, logger)
			if err := seeder.Run(ctx); err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}

			logger.Info("seed complete")
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop all tables for the configured environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to drop tables without --yes")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := config.NewLogger(cfg)

			ctx := cmd.Context()
			pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			tables := postgres.NewTableNames(cfg.TablePrefix)
			if err := postgres.Drop(ctx, pool, tables); err != nil {
				return fmt.Errorf("drop tables: %w", err)
			}

			logger.Info("all tables dropped", "table_prefix", cfg.TablePrefix)
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the destructive reset")
	return cmd
}
