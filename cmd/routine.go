/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/logger"
	"github.com/josephgoksu/neurotech/internal/ui"
	"github.com/spf13/cobra"
)

var routineCmd = &cobra.Command{
	Use:   "routine",
	Short: "Show and manage daily routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		tasks := a.store.Snapshot().Tasks
		routines, progress := dashboard.Routines(tasks), dashboard.RoutineProgress(tasks)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"routines": routines, "progress": progress})
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderRoutines(routines, progress))
		return nil
	},
}

var routineSuggestCmd = &cobra.Command{
	Use:   "suggest <goal>",
	Short: "Suggest routines for a goal and add them",
	Long: `Ask the assistant for 3 daily habits that support a goal. Each suggestion
is added as a pending routine.

Example:
  neurotech routine suggest "ship features faster"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		goal := strings.Join(args, " ")
		logger.SetLastInput(goal)

		spin := startSpinner(cmd, "Thinking...")
		gen, err := a.store.SuggestRoutines(cmd.Context(), goal)
		spin.Stop()
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), gen)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderTasks("Suggested routines", gen.Added))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routineCmd)
	routineCmd.AddCommand(routineSuggestCmd)
}
