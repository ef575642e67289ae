package telemetry

// Event names.
const (
	EventCommandExecuted = "command_executed"
	EventCommandError    = "command_error"
	EventAICall          = "ai_call"
	EventServerStarted   = "server_started"
)

// CommandProperties describes one CLI invocation.
func CommandProperties(command string, durationMs int64, err error) Properties {
	return Properties{
		"command":     command,
		"duration_ms": durationMs,
		"success":     err == nil,
	}
}
