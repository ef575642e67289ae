/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/logger"
	"github.com/josephgoksu/neurotech/internal/state"
	"github.com/josephgoksu/neurotech/internal/ui"
	"github.com/spf13/cobra"
)

var subtasksProject string

var subtasksCmd = &cobra.Command{
	Use:   "subtasks <description>",
	Short: "Break a project description into suggested subtasks",
	Long: `Ask the assistant for 3 to 5 actionable subtasks, each with a priority.

With --project the subtasks are added to that project's board as pending
tasks due today, and the board is printed.

Examples:
  neurotech subtasks "Launch the new marketing site"
  neurotech subtasks --project 1 "Polish the checkout flow" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		description := strings.Join(args, " ")
		logger.SetLastInput(description)
		out := cmd.OutOrStdout()

		if subtasksProject == "" {
			spin := startSpinner(cmd, "Thinking...")
			res := a.assistant.GenerateSubtasksResult(cmd.Context(), description)
			spin.Stop()
			if jsonOutput {
				return printJSON(out, map[string]any{"subtasks": res.Value, "outcome": res.Outcome})
			}
			tasks := make([]dashboard.Task, 0, len(res.Value))
			for _, st := range res.Value {
				tasks = append(tasks, dashboard.Task{Title: st.Title, Priority: st.Priority})
			}
			fmt.Fprint(out, ui.RenderTasks("Suggested subtasks", tasks))
			return nil
		}

		spin := startSpinner(cmd, "Thinking...")
		gen, err := a.store.GenerateProjectTasks(cmd.Context(), subtasksProject, description)
		spin.Stop()
		if err != nil {
			return err
		}
		return printGeneration(cmd, a.store, gen, subtasksProject)
	},
}

func printGeneration(cmd *cobra.Command, store *state.Store, gen state.Generation, projectID string) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, gen)
	}
	fmt.Fprint(out, ui.RenderTasks("Added to board", gen.Added))
	snap := store.Snapshot()
	if p, ok := snap.FindProject(projectID); ok {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.RenderBoard(p, dashboard.BoardFor(projectID, snap.Tasks)))
	}
	return nil
}

// startSpinner shows a spinner on stderr unless output is JSON.
func startSpinner(cmd *cobra.Command, label string) *ui.Spinner {
	s := ui.NewSpinner(cmd.ErrOrStderr(), label)
	if !jsonOutput && isTerminal() {
		s.Start()
	}
	return s
}

func init() {
	rootCmd.AddCommand(subtasksCmd)
	subtasksCmd.Flags().StringVarP(&subtasksProject, "project", "p", "", "add the subtasks to this project's board")
}
