package dashboard

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// AssistantName is the sender name used for AI chat replies.
const AssistantName = "Neurotech AI"

// DefaultUserName is the operator name used when none is configured.
const DefaultUserName = "Alex Developer"

// ProjectColors is the palette assigned to new projects in rotation.
var ProjectColors = []string{"indigo", "emerald", "amber", "rose", "sky", "violet"}

// Seed is the initial state loaded at startup.
type Seed struct {
	Projects []Project `json:"projects"`
	Tasks    []Task    `json:"tasks"`
	Messages []Message `json:"messages"`
}

// DefaultSeed returns the demo workspace: three projects, six tasks and two greeting messages.
func DefaultSeed() Seed {
	greeted := time.Now()
	return Seed{
		Projects: []Project{
			{ID: "1", Name: "Website Redesign", Description: "Overhaul the corporate site", Color: "indigo"},
			{ID: "2", Name: "Mobile App Launch", Description: "Q3 Launch strategy", Color: "emerald"},
			{ID: "3", Name: "Marketing Campaign", Description: "Social media blitz", Color: "amber"},
		},
		Tasks: []Task{
			{ID: "101", Owner: ProjectOwner("1"), Title: "Design Homepage Mockup", Status: StatusCompleted, Priority: PriorityHigh, DueDate: "2023-11-01"},
			{ID: "102", Owner: ProjectOwner("1"), Title: "Implement React Components", Status: StatusPending, Priority: PriorityHigh, DueDate: "2023-11-05"},
			{ID: "103", Owner: ProjectOwner("2"), Title: "App Store Submission", Status: StatusScheduled, Priority: PriorityMedium, DueDate: "2023-12-01"},
			{ID: "201", Owner: RoutineOwner(), Title: "Morning Standup", Status: StatusCompleted, Priority: PriorityMedium},
			{ID: "202", Owner: RoutineOwner(), Title: "Review PRs", Status: StatusPending, Priority: PriorityHigh},
			{ID: "203", Owner: RoutineOwner(), Title: "Check Emails", Status: StatusScheduled, Priority: PriorityLow},
		},
		Messages: []Message{
			{
				ID:        "1",
				Sender:    AssistantName,
				Content:   "Hello team! I am here to assist with project coordination. Mention @AI to ask me anything.",
				Timestamp: greeted.Add(-time.Hour),
				IsAI:      true,
			},
			{
				ID:        "2",
				Sender:    "Sarah Designer",
				Content:   "Hey everyone, just uploaded the new mockups to the project drive.",
				Timestamp: greeted.Add(-30 * time.Minute),
			},
		},
	}
}

// seedFile is the YAML layout of a seed file. Tasks without a project are routines.
type seedFile struct {
	Projects []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Color       string `yaml:"color"`
	} `yaml:"projects"`
	Tasks []struct {
		ID          string `yaml:"id"`
		Project     string `yaml:"project"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Status      string `yaml:"status"`
		DueDate     string `yaml:"dueDate"`
		Priority    string `yaml:"priority"`
	} `yaml:"tasks"`
	Messages []struct {
		Sender  string `yaml:"sender"`
		Content string `yaml:"content"`
		AI      bool   `yaml:"ai"`
	} `yaml:"messages"`
}

// LoadSeed reads a seed from a YAML file on fs. Missing IDs are generated,
// missing colors and statuses get defaults, and every record is validated.
func LoadSeed(fs afero.Fs, path string) (Seed, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var raw seedFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Seed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	var seed Seed
	projects := make(map[string]bool, len(raw.Projects))
	for i, rp := range raw.Projects {
		p := Project{ID: rp.ID, Name: rp.Name, Description: rp.Description, Color: rp.Color}
		if p.ID == "" {
			p.ID = NewID()
		}
		if p.Color == "" {
			p.Color = ProjectColors[i%len(ProjectColors)]
		}
		if err := p.Validate(); err != nil {
			return Seed{}, fmt.Errorf("seed project %d: %w", i, err)
		}
		projects[p.ID] = true
		seed.Projects = append(seed.Projects, p)
	}

	for i, rt := range raw.Tasks {
		t := Task{ID: rt.ID, Title: rt.Title, Description: rt.Description, DueDate: rt.DueDate}
		if t.ID == "" {
			t.ID = NewID()
		}
		if rt.Project != "" {
			if !projects[rt.Project] {
				return Seed{}, fmt.Errorf("seed task %d: unknown project %q", i, rt.Project)
			}
			t.Owner = ProjectOwner(rt.Project)
		}
		t.Status = StatusPending
		if rt.Status != "" {
			if t.Status, err = ParseStatus(rt.Status); err != nil {
				return Seed{}, fmt.Errorf("seed task %d: %w", i, err)
			}
		}
		t.Priority = PriorityMedium
		if rt.Priority != "" {
			if t.Priority, err = ParsePriority(rt.Priority); err != nil {
				return Seed{}, fmt.Errorf("seed task %d: %w", i, err)
			}
		}
		if err := t.Validate(); err != nil {
			return Seed{}, fmt.Errorf("seed task %d: %w", i, err)
		}
		seed.Tasks = append(seed.Tasks, t)
	}

	for i, rm := range raw.Messages {
		m := NewMessage(rm.Sender, rm.Content, rm.AI)
		if err := ValidateStruct(m); err != nil {
			return Seed{}, fmt.Errorf("seed message %d: %w", i, err)
		}
		seed.Messages = append(seed.Messages, m)
	}
	return seed, nil
}
