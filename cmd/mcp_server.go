/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/josephgoksu/neurotech/internal/dashboard"
	"github.com/josephgoksu/neurotech/internal/state"
	"github.com/josephgoksu/neurotech/internal/ui"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// GenerateSubtasksParams defines the parameters for the generate_subtasks tool.
type GenerateSubtasksParams struct {
	Description string `json:"description"`          // Required: what the project is about
	ProjectID   string `json:"project_id,omitempty"` // Optional: add results to this board
}

// SuggestRoutineParams defines the parameters for the suggest_routine tool.
type SuggestRoutineParams struct {
	Goal string `json:"goal"`
}

// ChatParams defines the parameters for the chat tool.
type ChatParams struct {
	Message string `json:"message"`
}

// DashboardParams defines the parameters for the dashboard tool.
type DashboardParams struct {
	ProjectID string `json:"project_id,omitempty"` // Optional: show one board instead of the overview
}

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server over stdio so AI tools can
read the dashboard and call the assistant.

Tools: generate_subtasks, suggest_routine, chat, dashboard.

The server will run until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		server := newMCPServer(a.store, a.assistant)
		if err := server.Run(cmd.Context(), mcpsdk.NewStdioTransport()); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// newMCPServer registers the neurotech tools on a fresh server.
func newMCPServer(store *state.Store, ai state.AI) *mcpsdk.Server {
	impl := &mcpsdk.Implementation{
		Name:    "neurotech-mcp",
		Version: version,
	}
	serverOpts := &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			fmt.Fprintln(os.Stderr, "✓ MCP connection established")
		},
	}
	server := mcpsdk.NewServer(impl, serverOpts)

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "generate_subtasks",
		Description: "Break a project description into 3-5 subtasks with priorities. Pass project_id to add them to that project's board.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[GenerateSubtasksParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return handleGenerateSubtasks(ctx, store, ai, params.Arguments)
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "suggest_routine",
		Description: "Suggest 3 daily routines for a goal and add them to the routine tracker.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[SuggestRoutineParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return handleSuggestRoutine(ctx, store, params.Arguments)
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "chat",
		Description: "Post a message to the team chat. Mention @AI to get the assistant's reply.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[ChatParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return handleChat(ctx, store, params.Arguments)
	})

	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "dashboard",
		Description: "Show task counts, completion, open high priority work and routine progress, or one project's board.",
	}, func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[DashboardParams]) (*mcpsdk.CallToolResultFor[any], error) {
		return handleDashboard(store, params.Arguments)
	})

	return server
}

func handleGenerateSubtasks(ctx context.Context, store *state.Store, ai state.AI, p GenerateSubtasksParams) (*mcpsdk.CallToolResultFor[any], error) {
	if strings.TrimSpace(p.Description) == "" {
		return mcpErrorResponse("description is required")
	}
	if p.ProjectID != "" {
		gen, err := store.GenerateProjectTasks(ctx, p.ProjectID, p.Description)
		if err != nil {
			return mcpErrorResponse(err.Error())
		}
		return mcpMarkdownResponse(formatTasks(fmt.Sprintf("Added %d task(s) to project %s (%s)", len(gen.Added), p.ProjectID, gen.Outcome), gen.Added))
	}

	res := ai.GenerateSubtasksResult(ctx, p.Description)
	tasks := make([]dashboard.Task, 0, len(res.Value))
	for _, st := range res.Value {
		tasks = append(tasks, dashboard.Task{Title: st.Title, Priority: st.Priority})
	}
	return mcpMarkdownResponse(formatTasks(fmt.Sprintf("Suggested subtasks (%s)", res.Outcome), tasks))
}

func handleSuggestRoutine(ctx context.Context, store *state.Store, p SuggestRoutineParams) (*mcpsdk.CallToolResultFor[any], error) {
	if strings.TrimSpace(p.Goal) == "" {
		return mcpErrorResponse("goal is required")
	}
	gen, err := store.SuggestRoutines(ctx, p.Goal)
	if err != nil {
		return mcpErrorResponse(err.Error())
	}
	return mcpMarkdownResponse(formatTasks(fmt.Sprintf("Added %d routine(s) (%s)", len(gen.Added), gen.Outcome), gen.Added))
}

func handleChat(ctx context.Context, store *state.Store, p ChatParams) (*mcpsdk.CallToolResultFor[any], error) {
	ex, err := store.SendMessage(ctx, p.Message)
	if err != nil {
		return mcpErrorResponse(err.Error())
	}
	if ex.Reply == nil {
		return mcpMarkdownResponse("Message posted.")
	}
	return mcpMarkdownResponse(fmt.Sprintf("**%s:** %s", ex.Reply.Sender, ex.Reply.Content))
}

func handleDashboard(store *state.Store, p DashboardParams) (*mcpsdk.CallToolResultFor[any], error) {
	snap := store.Snapshot()
	var sb strings.Builder

	if p.ProjectID != "" {
		proj, ok := snap.FindProject(p.ProjectID)
		if !ok {
			return mcpErrorResponse(fmt.Sprintf("project %q not found", p.ProjectID))
		}
		fmt.Fprintf(&sb, "## %s\n", proj.Name)
		for _, col := range dashboard.BoardFor(proj.ID, snap.Tasks).Columns {
			fmt.Fprintf(&sb, "\n### %s (%d)\n", col.Title, len(col.Tasks))
			for _, t := range col.Tasks {
				fmt.Fprintf(&sb, "- %s [%s] `%s`\n", t.Title, t.Priority, t.ID)
			}
		}
		return mcpMarkdownResponse(sb.String())
	}

	sum := dashboard.Summarize(snap.Tasks)
	progress := dashboard.RoutineProgress(snap.Tasks)
	fmt.Fprintf(&sb, "## Dashboard\n\n")
	fmt.Fprintf(&sb, "- Projects: %d\n- Tasks: %d (%d%% completed)\n", len(snap.Projects), sum.Total, sum.CompletionPercent)
	for _, st := range dashboard.Statuses {
		fmt.Fprintf(&sb, "- %s: %d\n", ui.StatusLabel(st), sum.ByStatus[st])
	}
	fmt.Fprintf(&sb, "- Routines: %d of %d done\n", progress.Completed, progress.Total)
	if len(sum.OpenHighPriority) > 0 {
		sb.WriteString("\n### High priority\n")
		for _, t := range sum.OpenHighPriority {
			fmt.Fprintf(&sb, "- %s `%s`\n", t.Title, t.ID)
		}
	}
	return mcpMarkdownResponse(sb.String())
}

func formatTasks(heading string, tasks []dashboard.Task) string {
	var sb strings.Builder
	sb.WriteString(heading + "\n")
	if len(tasks) == 0 {
		sb.WriteString("\nAI unavailable: no suggestions.\n")
	}
	for _, t := range tasks {
		fmt.Fprintf(&sb, "- %s [%s]\n", t.Title, t.Priority)
	}
	return sb.String()
}

// mcpMarkdownResponse wraps Markdown content in an MCP tool result.
func mcpMarkdownResponse(markdown string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}, nil
}

// mcpErrorResponse reports a tool failure in the result with IsError set,
// so the calling model can see it and retry.
func mcpErrorResponse(msg string) (*mcpsdk.CallToolResultFor[any], error) {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "Error: " + msg}},
		IsError: true,
	}, nil
}
