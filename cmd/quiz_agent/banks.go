package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apexintel/quiz-engine/internal/bank"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List, inspect, or validate the embedded question banks",
	RunE:  runBanks,
}

var (
	banksIndustry string
	banksValidate bool
)

func init() {
	banksCmd.Flags().StringVar(&banksIndustry, "industry", "", "Show the questions of one industry bank")
	banksCmd.Flags().BoolVar(&banksValidate, "validate", false, "Validate every embedded bank and exit")

	rootCmd.AddCommand(banksCmd)
}

func runBanks(_ *cobra.Command, _ []string) error {
	if banksValidate {
		banks, err := bank.PreloadAll()
		if err != nil {
			return fmt.Errorf("bank validation failed: %w", err)
		}
		fmt.Printf("All %d embedded banks are valid.\n", len(banks))
		return nil
	}

	if banksIndustry != "" {
		return printBank(banksIndustry)
	}

	industries, err := bank.ListIndustries()
	if err != nil {
		return err
	}
	for _, industry := range industries {
		b, err := bank.Load(industry)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s %d questions, %d deep-dive templates, %d woven templates\n",
			industry, len(b.Questions), len(b.DeepDiveTemplates), len(b.WovenConfirmationTemplates))
	}
	return nil
}

func printBank(industry string) error {
	b, err := bank.Load(industry)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTARGETS\tTEXT")
	for _, q := range b.Questions {
		targets := ""
		for i, cat := range q.TargetCategories {
			if i > 0 {
				targets += ","
			}
			targets += string(cat)
		}
		text := q.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.ID, q.InputType, targets, text)
	}
	return w.Flush()
}
