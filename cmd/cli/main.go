package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/psantana/sanctuary-scheduler/internal/config"
	"github.com/psantana/sanctuary-scheduler/pkg/core/services"
	"github.com/psantana/sanctuary-scheduler/pkg/db"
	"github.com/psantana/sanctuary-scheduler/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zap.Logger
	ctx      context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Sanctuary scheduler - Manage Eucharistic minister schedules",
		Long:  `A CLI tool for generating, validating, and publishing monthly minister schedules for the sanctuary masses.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(generateScheduleCmd())
	rootCmd.AddCommand(publishScheduleCmd())
	rootCmd.AddCommand(validateCalendarCmd())
	rootCmd.AddCommand(listMinistersCmd())
	rootCmd.AddCommand(migrateResponsesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger first so everything after it gets logged
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Initializing application", zap.String("env", env))

	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.database, err = db.Connect(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	app.logger.Info("Application initialized successfully")
	return nil
}

// parsePeriod reads the month and year positional arguments
func parsePeriod(args []string) (int, int, error) {
	month, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", args[0], err)
	}
	year, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q: %w", args[1], err)
	}
	return month, year, nil
}

func generateScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSchedule <month> <year>",
		Short: "Generate a minister schedule for a month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := parsePeriod(args)
			if err != nil {
				return err
			}
			preview, _ := cmd.Flags().GetBool("preview")

			app.logger.Info("generateSchedule command",
				zap.Int("month", month),
				zap.Int("year", year),
				zap.Bool("preview", preview))

			result, err := services.GenerateSchedule(app.ctx, app.database, app.cfg, app.logger, month, year, preview)
			if err != nil {
				return fmt.Errorf("failed to generate schedule: %w", err)
			}

			printSchedule(result)
			return nil
		},
	}

	cmd.Flags().Bool("preview", false, "Generate without availability responses, assuming everyone is available")

	return cmd
}

func publishScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publishSchedule <month> <year>",
		Short: "Generate a final schedule and save it to the database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := parsePeriod(args)
			if err != nil {
				return err
			}

			app.logger.Info("publishSchedule command",
				zap.Int("month", month),
				zap.Int("year", year))

			generated, err := services.GenerateSchedule(app.ctx, app.database, app.cfg, app.logger, month, year, false)
			if err != nil {
				return fmt.Errorf("failed to generate schedule: %w", err)
			}

			published, err := services.PublishSchedule(app.ctx, app.database, app.logger, generated.Schedules)
			if err != nil {
				return fmt.Errorf("failed to publish schedule: %w", err)
			}

			printSchedule(generated)
			fmt.Printf("\n✓ Schedule published for %02d/%d\n", month, year)
			fmt.Printf("  Scheduled rows: %d\n", published.ScheduledRows)
			fmt.Printf("  Backup rows:    %d\n", published.BackupRows)
			fmt.Printf("  Vacant rows:    %d\n", published.VacantRows)

			return nil
		},
	}
}

func validateCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validateCalendar <month> <year>",
		Short: "Build a month's mass calendar and check it against the sanctuary rules",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := parsePeriod(args)
			if err != nil {
				return err
			}

			app.logger.Info("validateCalendar command",
				zap.Int("month", month),
				zap.Int("year", year))

			result, err := services.ValidateCalendar(app.ctx, app.database, app.cfg, app.logger, month, year)
			if err != nil {
				return fmt.Errorf("failed to validate calendar: %w", err)
			}

			fmt.Printf("\nCalendar for %02d/%d: %d mass slots\n\n", month, year, len(result.Slots))
			for _, slot := range result.Slots {
				fmt.Printf("- %s %s  %-22s (%d-%d ministers)\n",
					slot.DateString(),
					slot.Time,
					slot.Type,
					slot.MinMinisters,
					slot.MaxMinisters,
				)
			}

			if len(result.Findings) == 0 {
				fmt.Println("\n✓ No rule violations found")
				return nil
			}

			fmt.Printf("\nFindings: %d errors, %d warnings\n", result.Errors, result.Warnings)
			for _, finding := range result.Findings {
				fmt.Printf("  [%s] %s %s: %s\n",
					finding.Severity,
					finding.Date.Format("2006-01-02"),
					finding.Time,
					finding.Message,
				)
			}

			return nil
		},
	}
}

func listMinistersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listMinisters",
		Short: "List the active minister roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.logger.Info("listMinisters command")

			result, err := services.ListMinisters(app.ctx, app.database, app.logger)
			if err != nil {
				return fmt.Errorf("failed to list ministers: %w", err)
			}

			fmt.Printf("\nFound %d active ministers:\n\n", len(result.Ministers))
			for _, m := range result.Ministers {
				lastService := "never"
				if m.LastService != nil {
					lastService = m.LastService.Format("2006-01-02")
				}
				familyInfo := ""
				if m.FamilyID != "" {
					familyInfo = fmt.Sprintf(" [Family: %s]", m.FamilyID)
				}
				fmt.Printf("- %s (%s) - %s - %d services, last %s%s\n",
					m.Name,
					m.ID,
					m.Role,
					m.TotalServices,
					lastService,
					familyInfo,
				)
			}

			return nil
		},
	}
}

func migrateResponsesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrateResponses <month> <year>",
		Short: "Rewrite a period's legacy questionnaire responses in the v2 format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, year, err := parsePeriod(args)
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			app.logger.Info("migrateResponses command",
				zap.Int("month", month),
				zap.Int("year", year),
				zap.Bool("dry_run", dryRun))

			result, err := services.MigrateResponses(app.ctx, app.database, app.logger, month, year, dryRun)
			if err != nil {
				return fmt.Errorf("failed to migrate responses: %w", err)
			}

			if dryRun {
				fmt.Printf("\n✓ Dry run complete for %02d/%d (nothing written)\n", month, year)
			} else {
				fmt.Printf("\n✓ Migration complete for %02d/%d\n", month, year)
			}
			fmt.Printf("  Total responses: %d\n", result.Total)
			fmt.Printf("  Migrated:        %d\n", result.Migrated)
			fmt.Printf("  Already v2:      %d\n", result.AlreadyV2)
			fmt.Printf("  Skipped:         %d\n", result.Skipped)

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Report what would be migrated without writing")

	return cmd
}

// printSchedule renders a generated schedule with per-slot assignments
func printSchedule(result *services.GenerateScheduleResult) {
	mode := "final"
	if result.Preview {
		mode = "preview"
	}

	fmt.Printf("\nSchedule for %02d/%d (%s): %d slots, %d assignments\n",
		result.Month, result.Year, mode,
		result.Stats.TotalSlots, result.Stats.TotalAssignments)

	for _, finding := range result.Findings {
		fmt.Printf("  [%s] %s %s: %s\n",
			finding.Severity,
			finding.Date.Format("2006-01-02"),
			finding.Time,
			finding.Message,
		)
	}

	for _, schedule := range result.Schedules {
		slot := schedule.Slot
		fmt.Printf("\n%s %s  %s (%d-%d ministers, confidence %.2f)\n",
			slot.DateString(),
			slot.Time,
			slot.Type,
			slot.MinMinisters,
			slot.MaxMinisters,
			schedule.Confidence,
		)
		for _, assignment := range schedule.Assignments {
			fmt.Printf("  %d. %s (%s)\n", assignment.Position, assignment.Minister.Name, assignment.Minister.ID)
		}
		for i := len(schedule.Assignments); i < slot.MinMinisters; i++ {
			fmt.Printf("  %d. VACANT\n", i+1)
		}
		for _, backup := range schedule.BackupMinisters {
			fmt.Printf("  backup: %s (%s)\n", backup.Name, backup.ID)
		}
	}

	printStats(result.Stats)
}

func printStats(stats services.GenerationStats) {
	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Slots:            %d\n", stats.TotalSlots)
	fmt.Printf("  Filled:           %d\n", stats.FilledSlots)
	fmt.Printf("  Underfilled:      %d\n", stats.UnderfilledSlots)
	fmt.Printf("  Vacant positions: %d\n", stats.VacantPositions)
	fmt.Printf("  Assignments:      %d\n", stats.TotalAssignments)
	fmt.Printf("  Ministers used:   %d\n", stats.MinistersUsed)
	fmt.Printf("  Avg confidence:   %.2f\n", stats.AverageConfidence)
}
