/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/state"
	"github.com/josephgoksu/neurotech/internal/ui"
	"github.com/spf13/cobra"
)

var boardProject string

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show project kanban boards",
	Long: `Print each project's tasks in Pending, Scheduled and Completed columns.
Use --project to show a single board.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		snap := a.store.Snapshot()

		projects := snap.Projects
		if boardProject != "" {
			p, ok := snap.FindProject(boardProject)
			if !ok {
				return fmt.Errorf("project %q: %w", boardProject, state.ErrNotFound)
			}
			projects = []dashboard.Project{p}
		}

		boards := make([]dashboard.Board, 0, len(projects))
		for _, p := range projects {
			boards = append(boards, dashboard.BoardFor(p.ID, snap.Tasks))
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), boards)
		}
		for i, p := range projects {
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderBoard(p, boards[i]))
			fmt.Fprintln(cmd.OutOrStdout())
		}
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the overview of tasks and routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		snap := a.store.Snapshot()
		sum := dashboard.Summarize(snap.Tasks)
		progress := dashboard.RoutineProgress(snap.Tasks)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"user":     a.store.UserName(),
				"projects": len(snap.Projects),
				"summary":  sum,
				"routines": progress,
			})
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderDashboard(a.store.UserName(), snap.Projects, sum, progress))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(dashboardCmd)
	boardCmd.Flags().StringVarP(&boardProject, "project", "p", "", "project ID to show")
}
