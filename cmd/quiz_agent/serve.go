package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/apexintel/quiz-engine/internal/analysis"
	"github.com/apexintel/quiz-engine/internal/config"
	"github.com/apexintel/quiz-engine/internal/generation"
	"github.com/apexintel/quiz-engine/internal/llm"
	"github.com/apexintel/quiz-engine/internal/server"
)

var (
	servePort         int
	serveConfigPath   string
	serveMaxQuestions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for creating interviews, submitting answers, and inspecting question banks.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	serveCmd.Flags().IntVar(&serveMaxQuestions, "max-questions", 0, "Hard turn budget per interview (0 uses the default)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Config{}
	if serveConfigPath != "" {
		fileCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		cfg = *fileCfg
	}
	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		Port:        servePort,
	})
	if serveMaxQuestions > 0 {
		cfg.MaxQuestions = serveMaxQuestions
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := llm.NewClient(context.Background(), modelConfig(&cfg), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create reasoning client: %w", err)
	}

	srv, err := server.New(server.Config{
		Port:         cfg.Port,
		DatabaseURL:  cfg.DatabaseURL,
		RedisURL:     cfg.RedisURL,
		CacheTTL:     time.Duration(cfg.CacheTTLMin) * time.Minute,
		MaxQuestions: cfg.MaxQuestions,
		Analyzer:     analysis.NewAnalyzer(client, 0),
		Generator:    generation.NewGenerator(client, 0),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// modelConfig applies any model overrides from the config file on top of the
// default tier mapping.
func modelConfig(cfg *config.Config) *llm.Config {
	mc := llm.DefaultConfig()
	if cfg.AnalysisModel != "" {
		mc.Models[llm.TierAnalysis] = cfg.AnalysisModel
	}
	if cfg.GenerationModel != "" {
		mc.Models[llm.TierGeneration] = cfg.GenerationModel
	}
	return mc
}
