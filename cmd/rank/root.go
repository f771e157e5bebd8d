package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/app"
	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/models"
)

const appName = "rank"

var errBatchFailed = errors.New("evaluation batch failed")

var rootCmd = &cobra.Command{
	Use:   appName + " [flags] RESUME...",
	Short: "rank scores resumes against a job description and prints the ranking as JSON",
	Long: `rank reads each resume file (.pdf, .docx, .html, .txt, .md), scores it
against the job description with the configured LLM provider and prints
the candidates ordered by score.

The job description comes from --jd-file, else --jd-text, else it is
generated from --job-title and the other detail flags.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args)
	},
}

// Execute executes the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.Flags()
	flags.String("jd-file", "", "job description file")
	flags.String("jd-text", "", "job description text")
	flags.String("job-title", "", "job title used to generate a job description")
	flags.String("experience", "", "required experience")
	flags.String("skills", "", "required skills")
	flags.String("company-name", "", "company name")
	flags.String("employment-type", "", "employment type")
	flags.String("industry", "", "industry")
	flags.String("location", "", "location")
	flags.Bool("emails", false, "draft interview and rejection emails for the top candidate")
	flags.String("settings", "", "provider settings file (default $SETTINGS_PATH or ./config/settings.yaml)")
	flags.String("prompts", "", "prompt templates file (default $PROMPTS_PATH or ./config/prompts.yaml)")
	flags.Int("concurrency", 0, "resumes evaluated in parallel (default $EVAL_CONCURRENCY or 1)")

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	for _, name := range []string{"jd-file", "jd-text", "job-title", "experience", "skills", "company-name",
		"employment-type", "industry", "location", "emails", "settings", "prompts", "concurrency"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func run(ctx context.Context, paths []string) error {
	cfg := config.Load()
	if path := viper.GetString("settings"); path != "" {
		cfg.Paths.Settings = path
	}
	if path := viper.GetString("prompts"); path != "" {
		cfg.Paths.Prompts = path
	}
	if n := viper.GetInt("concurrency"); n > 0 {
		cfg.Worker.Concurrency = n
	}

	// Logs go to stderr so stdout carries only the ranking.
	zapLogger, err := logger.NewWithOutput(viper.GetBool("json"), viper.GetBool("debug"), "stderr")
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	components, err := app.Build(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}

	resumes, err := readUploads(paths)
	if err != nil {
		return err
	}

	var jdFile *models.Upload
	if path := viper.GetString("jd-file"); path != "" {
		uploads, err := readUploads([]string{path})
		if err != nil {
			return err
		}
		jdFile = &uploads[0]
	}

	details := models.JobDetails{
		JobTitle:       viper.GetString("job-title"),
		Experience:     viper.GetString("experience"),
		Skills:         viper.GetString("skills"),
		CompanyName:    viper.GetString("company-name"),
		EmploymentType: viper.GetString("employment-type"),
		Industry:       viper.GetString("industry"),
		Location:       viper.GetString("location"),
	}
	src := models.NewJobDescriptionSource(jdFile, viper.GetString("jd-text"), details)

	results, batchErr := components.Evaluator.EvaluateCandidates(ctx, resumes, src)
	response := models.EvaluateResponse{Results: results}

	if batchErr == nil && viper.GetBool("emails") {
		emails, err := components.Evaluator.DraftEmails(ctx, results, details.Role())
		if err != nil {
			zapLogger.Warn("failed to draft emails", zap.Error(err))
			response.EmailError = err.Error()
		}
		if emails != nil {
			response.InterviewEmail = emails.Interview
			response.RejectionEmail = emails.Rejection
		}
	}

	if err := printJSON(response); err != nil {
		return err
	}
	if batchErr != nil {
		return fmt.Errorf("%w: %w", errBatchFailed, batchErr)
	}
	return nil
}

func readUploads(paths []string) ([]models.Upload, error) {
	uploads := make([]models.Upload, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		uploads = append(uploads, models.Upload{
			Filename: filepath.Base(path),
			Data:     data,
		})
	}
	return uploads, nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
