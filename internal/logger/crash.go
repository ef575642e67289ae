package logger

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

const (
	// CrashLogDir is the directory for crash logs under the base path.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the maximum number of crash logs to keep
	MaxCrashLogs = 10
)

// CrashContext stores context for crash logging.
type CrashContext struct {
	mu         sync.RWMutex
	fs         afero.Fs
	basePath   string
	version    string
	command    string
	lastInput  string
}

var globalContext = newCrashContext()

func newCrashContext() *CrashContext {
	return &CrashContext{fs: afero.NewOsFs(), basePath: ".neurotech"}
}

// SetFs swaps the filesystem crash logs are written to.
func SetFs(fs afero.Fs) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.fs = fs
}

// SetBasePath sets the directory that holds crash_logs/.
func SetBasePath(path string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.basePath = path
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

// SetLastInput records the last user input, e.g. a chat message or project description.
func SetLastInput(input string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.lastInput = truncateForLog(strings.TrimSpace(input), 500)
}

func truncateForLog(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}
	return value[:maxLen] + "... [truncated]"
}

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time
	Version    string
	Command    string
	PanicValue string
	StackTrace string
	LastInput  string
	GoVersion  string
	OS         string
	Arch       string
}

// CaptureCrash writes a report for panicValue and returns the file path.
func CaptureCrash(panicValue any) (string, error) {
	log := createCrashLog(panicValue)
	return writeCrashLog(log)
}

// HandlePanic recovers a panic, writes a crash report and tells the user where it is.
// Usage: defer logger.HandlePanic(os.Stderr, os.Exit)
func HandlePanic(w io.Writer, exit func(int)) {
	r := recover()
	if r == nil {
		return
	}
	path, err := CaptureCrash(r)
	if err != nil {
		fmt.Fprintf(w, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(w, "[CRASH] Panic: %v\n%s\n", r, debug.Stack())
	} else {
		fmt.Fprintf(w, "\nneurotech hit an unexpected error. A crash log has been saved to:\n  %s\n\n", path)
	}
	exit(1)
}

func createCrashLog(panicValue any) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		LastInput:  globalContext.lastInput,
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

func writeCrashLog(log CrashLog) (string, error) {
	globalContext.mu.RLock()
	fs, dir := globalContext.fs, filepath.Join(globalContext.basePath, CrashLogDir)
	globalContext.mu.RUnlock()

	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("crash_%s.log", log.Timestamp.Format("20060102_150405.000000")))
	if err := afero.WriteFile(fs, path, []byte(formatCrashLog(log)), 0o644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	if err := pruneCrashLogs(fs, dir); err != nil {
		return path, fmt.Errorf("prune crash logs: %w", err)
	}
	return path, nil
}

func formatCrashLog(log CrashLog) string {
	rule := strings.Repeat("-", 80)
	var sb strings.Builder

	sb.WriteString("NEUROTECH CRASH LOG\n" + rule + "\n")
	fmt.Fprintf(&sb, "Timestamp: %s\n", log.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Version:   %s\n", log.Version)
	fmt.Fprintf(&sb, "Command:   %s\n", log.Command)
	fmt.Fprintf(&sb, "Go:        %s (%s/%s)\n", log.GoVersion, log.OS, log.Arch)

	section := func(title, body string) {
		if body == "" {
			return
		}
		sb.WriteString("\n" + title + "\n" + rule + "\n" + strings.TrimRight(body, "\n") + "\n")
	}
	section("PANIC VALUE", log.PanicValue)
	section("STACK TRACE", log.StackTrace)
	section("LAST USER INPUT", log.LastInput)
	return sb.String()
}

// pruneCrashLogs keeps only the MaxCrashLogs newest reports. Names sort by time.
func pruneCrashLogs(fs afero.Fs, dir string) error {
	logs, err := listCrashLogs(fs, dir)
	if err != nil || len(logs) <= MaxCrashLogs {
		return err
	}
	for _, path := range logs[:len(logs)-MaxCrashLogs] {
		if err := fs.Remove(path); err != nil {
			return err
		}
	}
	return nil
}

func listCrashLogs(fs afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		if exists, _ := afero.DirExists(fs, dir); !exists {
			return nil, nil
		}
		return nil, err
	}
	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(logs)
	return logs, nil
}

// ListCrashLogs returns every saved crash log, oldest first.
func ListCrashLogs() ([]string, error) {
	globalContext.mu.RLock()
	fs, dir := globalContext.fs, filepath.Join(globalContext.basePath, CrashLogDir)
	globalContext.mu.RUnlock()
	return listCrashLogs(fs, dir)
}
