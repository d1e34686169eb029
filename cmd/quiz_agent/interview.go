package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apexintel/quiz-engine/internal/analysis"
	"github.com/apexintel/quiz-engine/internal/config"
	"github.com/apexintel/quiz-engine/internal/generation"
	"github.com/apexintel/quiz-engine/internal/llm"
	"github.com/apexintel/quiz-engine/internal/observability"
	"github.com/apexintel/quiz-engine/internal/session"
	"github.com/apexintel/quiz-engine/internal/types"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run an interactive interview in the terminal",
	Long:  "Run a full adaptive interview on stdin/stdout. Answers are analyzed after each turn and the next question adapts to what is still unknown.",
	RunE:  runInterview,
}

var (
	interviewIndustry     string
	interviewResearchFile string
	interviewConfigPath   string
	interviewAPIKey       string
	interviewMaxQuestions int
	interviewOutFile      string
	interviewVerbose      bool
)

func init() {
	interviewCmd.Flags().StringVar(&interviewIndustry, "industry", "", "Question bank industry (falls back to the default bank)")
	interviewCmd.Flags().StringVar(&interviewResearchFile, "research", "", "Path to a research profile JSON used to seed confidence")
	interviewCmd.Flags().StringVar(&interviewConfigPath, "config", "", "Path to JSON config file")
	interviewCmd.Flags().StringVar(&interviewAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	interviewCmd.Flags().IntVar(&interviewMaxQuestions, "max-questions", 0, "Hard turn budget (0 uses the default)")
	interviewCmd.Flags().StringVarP(&interviewOutFile, "out", "o", "", "Path to write the final confidence state JSON")
	interviewCmd.Flags().BoolVarP(&interviewVerbose, "verbose", "v", false, "Print analysis details and confidence progress after each turn")

	rootCmd.AddCommand(interviewCmd)
}

func runInterview(_ *cobra.Command, _ []string) error {
	cfg := config.Config{}
	if interviewConfigPath != "" {
		fileCfg, err := config.LoadConfig(interviewConfigPath)
		if err != nil {
			return err
		}
		cfg = *fileCfg
	}
	cfg = cfg.MergeWithDefaults(config.Config{APIKey: os.Getenv("GEMINI_API_KEY")})
	if interviewAPIKey != "" {
		cfg.APIKey = interviewAPIKey
	}
	if interviewIndustry != "" {
		cfg.Industry = interviewIndustry
	}
	if interviewMaxQuestions > 0 {
		cfg.MaxQuestions = interviewMaxQuestions
	}
	if interviewVerbose {
		cfg.Verbose = true
	}

	var research *types.ResearchProfile
	if interviewResearchFile != "" {
		data, err := os.ReadFile(interviewResearchFile)
		if err != nil {
			return fmt.Errorf("failed to read research profile: %w", err)
		}
		research = &types.ResearchProfile{}
		if err := json.Unmarshal(data, research); err != nil {
			return fmt.Errorf("failed to parse research profile: %w", err)
		}
	}

	ctx := context.Background()
	opts := session.Options{MaxQuestions: cfg.MaxQuestions}

	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, modelConfig(&cfg), cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create reasoning client: %w", err)
		}
		defer client.Close()
		opts.Analyzer = analysis.NewAnalyzer(client, 0)
		opts.Generator = generation.NewGenerator(client, 0)
	} else {
		fmt.Fprintln(os.Stderr, "Warning: no API key set; running bank questions without answer analysis")
	}

	controller := session.NewController(opts)
	printer := observability.NewPrinter(os.Stdout)

	start, err := controller.Start(ctx, cfg.Industry, research)
	if err != nil {
		return fmt.Errorf("failed to start interview: %w", err)
	}
	fmt.Printf("Interview %s (%s bank)\n\n", start.SessionID, start.Industry)
	if cfg.Verbose {
		printer.PrintConfidenceState(start.State)
	}

	reader := bufio.NewReader(os.Stdin)
	question := start.Question
	number := 1

	for question != nil {
		printer.PrintQuestion(number, question)

		payload, err := readAnswer(reader, question)
		if err == io.EOF {
			fmt.Println("\nInterview aborted.")
			return nil
		}
		if err != nil {
			return err
		}

		result, err := controller.SubmitAnswer(ctx, start.SessionID, payload)
		if err != nil {
			return fmt.Errorf("failed to process answer: %w", err)
		}

		if cfg.Verbose {
			if snap, err := controller.GetState(ctx, start.SessionID); err == nil {
				printer.PrintConfidenceState(snap.State)
			}
		}

		if result.Complete {
			printer.PrintCompletion(result.State, number)
			return writeFinalState(result.State)
		}
		question = result.Question
		number++
	}
	return nil
}

// readAnswer reads one answer from the terminal and shapes it into the
// payload matching the question's input type.
func readAnswer(reader *bufio.Reader, q *types.AdaptiveQuestion) (*types.AnswerPayload, error) {
	fmt.Print("> ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, err
	}
	line = strings.TrimSpace(line)

	payload := &types.AnswerPayload{InputType: q.InputType}
	switch q.InputType {
	case types.InputNumber, types.InputScale:
		if line != "" {
			n, err := strconv.ParseFloat(line, 64)
			if err != nil {
				fmt.Println("Please enter a number.")
				return readAnswer(reader, q)
			}
			payload.Number = &n
		}
	case types.InputSelect:
		payload.Text = resolveOption(line, q.Options)
	case types.InputMultiSelect:
		for _, part := range strings.Split(line, ",") {
			if part = strings.TrimSpace(part); part != "" {
				payload.Selections = append(payload.Selections, resolveOption(part, q.Options))
			}
		}
	default:
		payload.Text = line
	}
	return payload, nil
}

// resolveOption accepts either the option text or its 1-based number.
func resolveOption(input string, options []string) string {
	if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(options) {
		return options[idx-1]
	}
	return input
}

func writeFinalState(state *types.ConfidenceState) error {
	if interviewOutFile == "" {
		return nil
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal confidence state: %w", err)
	}
	if err := os.WriteFile(interviewOutFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Final confidence state written to %s\n", interviewOutFile)
	return nil
}
