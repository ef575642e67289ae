/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/josephgoksu/neurotech/internal/logger"
	"github.com/josephgoksu/neurotech/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatMessage string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the team chat",
	Long: `Open the team chat. Mention @AI in a message to get a reply from the assistant.

In a terminal this starts an interactive session. Otherwise, or with
--message, a single message is posted and the reply printed.

Examples:
  neurotech chat
  neurotech chat --message "@AI how should we split the launch work?"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}

		if chatMessage != "" {
			logger.SetLastInput(chatMessage)
			ex, err := a.store.SendMessage(cmd.Context(), chatMessage)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), ex)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMessage(ex.Sent))
			if ex.Reply != nil {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMessage(*ex.Reply))
			}
			return nil
		}

		if !isTerminal() {
			return errors.New("interactive chat needs a terminal; use --message")
		}
		m := ui.NewChatModel(cmd.Context(), a.store.UserName(), a.store.Snapshot().Messages, a.store.SendMessage)
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	},
}

// isTerminal reports whether both stdin and stdout are attached to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "post one message and print the reply")
}
