package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/math-practice/backend/internal/client"
	"github.com/math-practice/backend/internal/generator"
	"github.com/math-practice/backend/internal/models"
	"github.com/math-practice/backend/internal/tutor"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show score, streak and settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		p := session.Progress()
		out := cmd.OutOrStdout()

		name := p.UserName
		if name == "" {
			name = "(not set)"
		}
		lines := []string{
			titleStyle.Render("Stats"),
			fmt.Sprintf("Name:        %s", name),
			fmt.Sprintf("Score:       %d", p.Score),
			fmt.Sprintf("Streak:      %d", p.Streak),
			fmt.Sprintf("Accuracy:    %.0f%% (last %d)", p.Accuracy(), len(p.History)),
			fmt.Sprintf("Difficulty:  %s", p.Difficulty),
			fmt.Sprintf("Type:        %s", p.ProblemType),
		}
		fmt.Fprintln(out, cardStyle.Render(strings.Join(lines, "\n")))
		fmt.Fprintln(out, ottoStyle.Render("Otto: "+tutor.Motivation(p.Streak, p.Score)))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history [n]",
	Short: "List recent answers, or show one in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		history := session.Progress().History
		out := cmd.OutOrStdout()

		if len(history) == 0 {
			fmt.Fprintln(out, "No history yet. Run `mathcli play` to get started.")
			return nil
		}

		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 || n > len(history) {
				return fmt.Errorf("pick a number between 1 and %d", len(history))
			}
			fmt.Fprintln(out, renderHistoryDetail(history[n-1]))
			return nil
		}

		for i, h := range history {
			fmt.Fprintln(out, renderHistoryLine(i+1, h))
		}
		return nil
	},
}

func renderHistoryLine(n int, h client.HistoryItem) string {
	mark := correctStyle.Render("✓")
	if !h.IsCorrect {
		mark = wrongStyle.Render("✗")
	}
	return fmt.Sprintf("%2d. %s %s %s", n, mark,
		dimStyle.Render(h.Timestamp.Local().Format("Jan 02 15:04")), truncate(h.ProblemText, 60))
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func renderHistoryDetail(h client.HistoryItem) string {
	verdict := correctStyle.Render("Correct")
	if !h.IsCorrect {
		verdict = wrongStyle.Render("Incorrect")
	}
	lines := []string{
		titleStyle.Render("Problem"),
		h.ProblemText,
		"",
		fmt.Sprintf("Your answer:    %s", generator.FormatNumber(h.UserAnswer)),
		fmt.Sprintf("Correct answer: %s", generator.FormatNumber(h.CorrectAnswer)),
		verdict,
	}
	if h.Hint != "" {
		lines = append(lines, "", titleStyle.Render("Hint"), hintStyle.Render(h.Hint))
	}
	if len(h.SolutionSteps) > 0 {
		lines = append(lines, "", titleStyle.Render("Solution"), strings.Join(h.SolutionSteps, "\n"))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change difficulty and problem type",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		p := session.Progress()
		out := cmd.OutOrStdout()

		d, t := p.Difficulty, p.ProblemType
		if cmd.Flags().Changed("difficulty") {
			v, _ := cmd.Flags().GetString("difficulty")
			if d, err = models.ParseDifficulty(strings.ToLower(v)); err != nil || v == "" {
				return fmt.Errorf("difficulty must be one of %v", models.AllDifficulties)
			}
		}
		if cmd.Flags().Changed("type") {
			v, _ := cmd.Flags().GetString("type")
			if t, err = models.ParseProblemType(strings.ToLower(v)); err != nil || v == "" {
				return fmt.Errorf("type must be one of %v", models.AllProblemTypes)
			}
		}

		if d != p.Difficulty || t != p.ProblemType {
			if err := session.ChangeSettings(d, t); err != nil {
				return err
			}
			fmt.Fprintln(out, "Saved. New settings apply to your next problem.")
		}
		fmt.Fprintf(out, "Difficulty: %s\nType:       %s\n", d, t)
		return nil
	},
}

var nameCmd = &cobra.Command{
	Use:   "name <display name>",
	Short: "Set your display name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := session.SetName(strings.Join(args, " ")); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Hi %s!\n", session.Progress().UserName)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear score, streak and history (name and settings are kept)",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this clears your score, streak and history; re-run with --yes to confirm")
		}
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		if err := session.Reset(true); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset. Fresh start!")
		return nil
	},
}

func init() {
	settingsCmd.Flags().String("difficulty", "", "easy, medium or hard")
	settingsCmd.Flags().String("type", "", "mixed, addition, subtraction, multiplication or division")
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
