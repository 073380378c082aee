package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/homieapp/homie/internal/config"
	"github.com/homieapp/homie/internal/domain/entity"
	"github.com/homieapp/homie/internal/infrastructure/persistence/repository"
	"github.com/homieapp/homie/internal/maintenance"
	"github.com/homieapp/homie/migrations"
	"github.com/homieapp/homie/pkg/database"
	"github.com/homieapp/homie/pkg/utils"
)

type globalFlags struct {
	configPath string
	dbPath     string
	verbose    bool
}

func rootCmd() *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:           "homiectl",
		Short:         "Maintenance tasks for the Homie record store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "configs/config.yaml", "Config file path")
	cmd.PersistentFlags().StringVar(&flags.dbPath, "db", "", "Database path (overrides the config file)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug output")

	cmd.AddCommand(migrateCmd(&flags), fixNamingCmd(&flags))
	return cmd
}

func migrateCmd(flags *globalFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, logger, err := open(flags)
			if err != nil {
				return err
			}
			defer db.Close()

			migrator := database.NewMigrator(db, logger)
			var applied int
			if dir != "" {
				applied, err = migrator.Apply(os.DirFS(dir))
			} else {
				applied, err = migrator.Apply(migrations.FS)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Read migrations from this directory instead of the built-in set")
	return cmd
}

func fixNamingCmd(flags *globalFlags) *cobra.Command {
	var (
		dryRun bool
		kinds  []string
	)

	cmd := &cobra.Command{
		Use:   "fix-naming",
		Short: "Rename records with bare numeric names to their naming series",
		Long: `Renames Animal Information and Delivery records whose name consists
of digits only, e.g. "17" becomes "AND-00017". Links pointing at a renamed
record are rewritten in the same transaction. Records whose target name
already exists are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := parseKinds(kinds)
			if err != nil {
				return err
			}

			db, logger, err := open(flags)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := database.NewMigrator(db, logger).Apply(migrations.FS); err != nil {
				return err
			}

			store := repository.NewNamingRepository(db.DB, logger)
			results, err := maintenance.FixNaming(context.Background(), store, selected, dryRun, logger)
			if werr := writeResults(cmd.OutOrStdout(), results); werr != nil && err == nil {
				err = werr
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the renames without applying them")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "Limit to these kinds by slug (animal-information, delivery)")
	return cmd
}

func parseKinds(slugs []string) ([]entity.Kind, error) {
	if len(slugs) == 0 {
		return maintenance.NamingFixKinds, nil
	}
	kinds := make([]entity.Kind, 0, len(slugs))
	for _, slug := range slugs {
		kind, ok := entity.KindBySlug(slug)
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", slug)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func writeResults(w io.Writer, results []maintenance.RenameResult) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// open loads the config for the database settings and opens the store
func open(flags *globalFlags) (*database.DB, *zap.Logger, error) {
	logger, err := utils.NewCLILogger(flags.verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, err
	}
	if flags.dbPath != "" {
		cfg.Database.Path = flags.dbPath
	}

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return db, logger, nil
}
