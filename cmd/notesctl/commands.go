package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-notes/pkg/simplenotes/admin"
	"github.com/tendant/simple-notes/pkg/simplenotes/config"
	"github.com/tendant/simple-notes/pkg/simplenotes/ingest"
	repopg "github.com/tendant/simple-notes/pkg/simplenotes/repo/postgres"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back markdown_files schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg); err != nil {
				return err
			}
			if err := repopg.MigrateUp(cfg.DatabaseURL, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := requirePostgres(cfg); err != nil {
				return err
			}
			if err := repopg.MigrateDown(cfg.DatabaseURL, steps, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}

func requirePostgres(cfg *config.ServerConfig) error {
	if cfg.DatabaseType != "postgres" {
		return errors.New("DATABASE_URL must point at postgres to run migrations")
	}
	return nil
}

// NewCreateBucketCommand creates the create-bucket command
func NewCreateBucketCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-bucket",
		Short: "Create the notes bucket if it does not exist",
		Long: `Create the S3 bucket named by STORAGE_URL. An existing bucket is left alone.
Public read access must be granted in the storage provider's console.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Storage.Type != "s3" {
				return fmt.Errorf("create-bucket needs s3 storage, STORAGE_URL selects %q", cfg.Storage.Type)
			}

			backends, err := cfg.BuildBackends(cmd.Context())
			if err != nil {
				return err
			}
			defer backends.Close()

			created, err := backends.S3.EnsureBucket(cmd.Context())
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Bucket %s created\n", backends.S3.Bucket())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Bucket %s already exists\n", backends.S3.Bucket())
			}
			return nil
		},
	}
}

// NewUploadCommand creates the upload command
func NewUploadCommand() *cobra.Command {
	var dryRun bool
	var yes bool

	cmd := &cobra.Command{
		Use:   "upload [dir]",
		Short: "Bulk upload a directory of markdown notes",
		Long: `Upload every *.md file in dir (default LOCAL_NOTES_DIR) to the bucket and
index it in markdown_files. Existing blobs and rows are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			dir := cfg.LocalNotesDir
			if len(args) == 1 {
				dir = args[0]
			}

			if !dryRun && !yes {
				ok, err := confirm(cmd, fmt.Sprintf("Upload notes from %s to %s storage?", dir, cfg.Storage.Type))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			backends, err := cfg.BuildBackends(cmd.Context())
			if err != nil {
				return err
			}
			defer backends.Close()

			ing := ingest.New(backends.Repository, backends.BlobStore,
				ingest.WithPublicBaseURL(cfg.ResolvePublicBaseURL()),
				ingest.WithLogger(logger))
			report, err := ing.Run(cmd.Context(), dir, ingest.Options{DryRun: dryRun})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range report.Files {
				fmt.Fprintf(out, "  %s -> %s\n", f.DisplayName, f.Name)
			}
			if report.DryRun {
				fmt.Fprintf(out, "Dry run: %d file(s) would be uploaded\n", len(report.Files))
				return nil
			}
			fmt.Fprintf(out, "Uploaded %d, already present %d, indexed %d, index rows present %d\n",
				report.Uploaded, report.BlobsSkipped, report.Indexed, report.RowsSkipped)
			for _, e := range report.Errors {
				fmt.Fprintf(out, "  failed: %v\n", e)
			}
			if len(report.Errors) > 0 {
				return fmt.Errorf("%d file(s) failed", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "only read and list the files")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify database and bucket permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			backends, err := cfg.BuildBackends(cmd.Context())
			if err != nil {
				return err
			}
			defer backends.Close()

			report, err := admin.NewChecker(backends.Repository, backends.BlobStore, logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, res := range report.Results {
				mark := "ok  "
				if !res.Passed {
					mark = "FAIL"
				}
				fmt.Fprintf(out, "[%s] %-16s %s\n", mark, res.Name, res.Message)
			}
			if !report.Passed() {
				return fmt.Errorf("%d check(s) failed", len(report.Failed()))
			}
			return nil
		},
	}
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print markdown_files statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			backends, err := cfg.BuildBackends(cmd.Context())
			if err != nil {
				return err
			}
			defer backends.Close()

			stats, err := admin.New(backends.Repository).Stats(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}
}

// NewEnvCommand creates the env command
func NewEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Describe the environment variables read by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			usage, err := config.EnvUsage()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), usage)
			return nil
		},
	}
}
