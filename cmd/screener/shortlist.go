package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-screener/internal/fetch"
	"github.com/jonathan/resume-screener/internal/types"
)

var (
	shortlistJobFile string
	shortlistJobURL  string
	shortlistTopN    int
	shortlistMark    bool
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Rank stored candidates against a job description",
	Long:  `Score every stored candidate against a job description (from a file or a URL) and print the strongest matches.`,
	RunE:  runShortlist,
}

func init() {
	shortlistCmd.Flags().StringVar(&shortlistJobFile, "job", "", "Path to a job description text file")
	shortlistCmd.Flags().StringVar(&shortlistJobURL, "job-url", "", "URL of a job posting to fetch")
	shortlistCmd.Flags().IntVar(&shortlistTopN, "top", 10, "How many candidates to keep")
	shortlistCmd.Flags().BoolVar(&shortlistMark, "mark", false, "Mark the winners as shortlisted in the database")
	rootCmd.AddCommand(shortlistCmd)
}

func runShortlist(cmd *cobra.Command, _ []string) error {
	if (shortlistJobFile == "") == (shortlistJobURL == "") {
		return fmt.Errorf("exactly one of --job and --job-url is required")
	}

	app, err := newApp(context.Background())
	if err != nil {
		return err
	}
	defer app.Close()

	var jobDescription string
	if shortlistJobFile != "" {
		data, err := os.ReadFile(shortlistJobFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", shortlistJobFile, err)
		}
		jobDescription = string(data)
	} else {
		jobDescription, err = fetch.JobPosting(cmd.Context(), shortlistJobURL)
		if err != nil {
			return err
		}
	}

	candidates, err := app.database.ListCandidates(cmd.Context(), nil, 500)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Println("No candidates stored yet")
		return nil
	}

	scores, err := app.shortlister.Rank(cmd.Context(), jobDescription, candidates, shortlistTopN)
	if err != nil {
		return err
	}

	for i, score := range scores {
		fmt.Printf("%2d. [%5.1f] %s (candidate %d)\n", i+1, score.Score, score.FullName, score.CandidateID)
		if score.Reasoning != "" {
			fmt.Printf("       %s\n", score.Reasoning)
		}
		if len(score.Strengths) > 0 {
			fmt.Printf("       + %s\n", strings.Join(score.Strengths, "; "))
		}
		if len(score.Weaknesses) > 0 {
			fmt.Printf("       - %s\n", strings.Join(score.Weaknesses, "; "))
		}
	}

	if shortlistMark {
		for _, score := range scores {
			if _, err := app.database.UpdateStatus(cmd.Context(), score.CandidateID, types.StatusShortlisted); err != nil {
				return err
			}
		}
		fmt.Printf("\nMarked %d candidates as shortlisted\n", len(scores))
	}
	return nil
}
