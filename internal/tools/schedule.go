package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CronJobSummary is a lightweight view of a scheduled job.
type CronJobSummary struct {
	ID      string
	Name    string
	Kind    string
	NextRun time.Time
}

// CronService is what the ScheduleTaskTool needs from the scheduler.
type CronService interface {
	AddJob(name, prompt, kind string, everySeconds int64, cronExpr, tz string, at time.Time, deleteAfterRun bool) (string, error)
	ListJobs() []CronJobSummary
	RemoveJob(id string) bool
}

// ScheduleTaskTool lets the agent schedule prompts for later or recurring
// execution.
type ScheduleTaskTool struct {
	svc CronService
}

func NewScheduleTaskTool(svc CronService) *ScheduleTaskTool {
	return &ScheduleTaskTool{svc: svc}
}

func (t *ScheduleTaskTool) Name() string { return "schedule_task" }

func (t *ScheduleTaskTool) Description() string {
	return "Schedule prompts for later or recurring execution. Actions: add, list, remove."
}

func (t *ScheduleTaskTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"action": {
				"type": "string",
				"enum": ["add", "list", "remove"],
				"description": "Action to perform"
			},
			"prompt": {
				"type": "string",
				"description": "Prompt to run when the job fires (for add)"
			},
			"every_seconds": {
				"type": "integer",
				"description": "Interval in seconds (for recurring tasks)"
			},
			"cron_expr": {
				"type": "string",
				"description": "Cron expression like '0 9 * * *' (for scheduled tasks)"
			},
			"tz": {
				"type": "string",
				"description": "IANA timezone for cron expressions (e.g. 'America/Vancouver')"
			},
			"at": {
				"type": "string",
				"description": "ISO datetime for one-time execution (e.g. '2026-02-12T10:30:00')"
			},
			"job_id": {
				"type": "string",
				"description": "Job ID (for remove)"
			}
		},
		"required": ["action"]
	}`)
}

func (t *ScheduleTaskTool) Execute(_ context.Context, params map[string]any) (string, error) {
	if t.svc == nil {
		return "Error: scheduler is not available", nil
	}
	switch action := stringParam(params, "action"); action {
	case "add":
		return t.addJob(params), nil
	case "list":
		return t.listJobs(), nil
	case "remove":
		return t.removeJob(params), nil
	default:
		return fmt.Sprintf("Error: Unknown action '%s'. Use: add, list, or remove", action), nil
	}
}

func (t *ScheduleTaskTool) addJob(params map[string]any) string {
	prompt := stringParam(params, "prompt")
	if prompt == "" {
		return "Error: prompt is required for add"
	}

	var kind, cronExpr, tz string
	var everySeconds int64
	var at time.Time
	deleteAfterRun := false

	if v := intParam(params, "every_seconds", 0); v > 0 {
		kind = "every"
		everySeconds = int64(v)
	} else if expr := stringParam(params, "cron_expr"); expr != "" {
		kind = "cron"
		cronExpr = expr
		tz = stringParam(params, "tz")
	} else if atStr := stringParam(params, "at"); atStr != "" {
		dt, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			dt, err = time.ParseInLocation("2006-01-02T15:04:05", atStr, time.Local)
			if err != nil {
				return fmt.Sprintf("Error: invalid 'at' datetime %q: %v", atStr, err)
			}
		}
		kind = "at"
		at = dt
		deleteAfterRun = true
	} else {
		return "Error: either every_seconds, cron_expr, or at is required"
	}

	name := prompt
	if len(name) > 30 {
		name = name[:30]
	}

	id, err := t.svc.AddJob(name, prompt, kind, everySeconds, cronExpr, tz, at, deleteAfterRun)
	if err != nil {
		return fmt.Sprintf("Error creating job: %v", err)
	}
	return fmt.Sprintf("Created job '%s' (id: %s)", name, id)
}

func (t *ScheduleTaskTool) listJobs() string {
	jobs := t.svc.ListJobs()
	if len(jobs) == 0 {
		return "No scheduled jobs."
	}
	var sb strings.Builder
	sb.WriteString("Scheduled jobs:\n")
	for _, j := range jobs {
		fmt.Fprintf(&sb, "- %s (id: %s, %s", j.Name, j.ID, j.Kind)
		if !j.NextRun.IsZero() {
			fmt.Fprintf(&sb, ", next: %s", j.NextRun.Format(time.RFC3339))
		}
		sb.WriteString(")\n")
	}
	return sb.String()
}

func (t *ScheduleTaskTool) removeJob(params map[string]any) string {
	jobID := stringParam(params, "job_id")
	if jobID == "" {
		return "Error: job_id is required for remove"
	}
	if t.svc.RemoveJob(jobID) {
		return fmt.Sprintf("Removed job %s", jobID)
	}
	return fmt.Sprintf("Job %s not found", jobID)
}
