// Package cron schedules prompts for later or recurring execution.
//
// Jobs persist as JSON under the data directory:
//
//	{ "version": 1, "jobs": [ { "id":"…", "name":"…", "enabled":true,
//	    "schedule":{"kind":"every","everySec":…},
//	    "prompt":"…",
//	    "state":{"nextRunAt":"…","lastRunAt":"…","lastStatus":"ok"},
//	    "createdAt":"…", "updatedAt":"…", "deleteAfterRun":false } ] }
package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/copperotter/copperotter/internal/tools"
)

// --------------------------------------------------------------------------
// Data types
// --------------------------------------------------------------------------

type Schedule struct {
	Kind     string     `json:"kind"`               // "every" | "cron" | "at"
	EverySec *int64     `json:"everySec,omitempty"` // interval
	Expr     *string    `json:"expr,omitempty"`     // cron expression
	TZ       *string    `json:"tz,omitempty"`       // IANA timezone
	At       *time.Time `json:"at,omitempty"`       // one-time
}

type JobState struct {
	NextRunAt  *time.Time `json:"nextRunAt,omitempty"`
	LastRunAt  *time.Time `json:"lastRunAt,omitempty"`
	LastStatus *string    `json:"lastStatus,omitempty"`
	LastError  *string    `json:"lastError,omitempty"`
}

type Job struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Enabled        bool      `json:"enabled"`
	Schedule       Schedule  `json:"schedule"`
	Prompt         string    `json:"prompt"`
	State          JobState  `json:"state"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	DeleteAfterRun bool      `json:"deleteAfterRun"`
}

type jobStore struct {
	Version int   `json:"version"`
	Jobs    []Job `json:"jobs"`
}

// --------------------------------------------------------------------------
// Service
// --------------------------------------------------------------------------

// OnJobFunc is called when a job fires. It returns the agent's response text.
type OnJobFunc func(ctx context.Context, job Job) (string, error)

// Service manages scheduled jobs. It implements tools.CronService so it can
// back the schedule_task tool.
type Service struct {
	storePath string
	onJob     OnJobFunc

	mu    sync.Mutex
	store jobStore

	// Active timers / cron entries keyed by job ID.
	timers    map[string]*time.Timer
	robfig    *robfigcron.Cron
	robfigIDs map[string]robfigcron.EntryID

	// Set while Start is running so jobs added or re-enabled on a live
	// service get armed immediately.
	started bool
	runCtx  context.Context
}

var _ tools.CronService = (*Service)(nil)

// NewService creates a Service persisting to storePath (e.g.
// ~/.copperotter/cron/jobs.json).
func NewService(storePath string) *Service {
	return &Service{
		storePath: storePath,
		timers:    make(map[string]*time.Timer),
		robfig:    robfigcron.New(),
		robfigIDs: make(map[string]robfigcron.EntryID),
	}
}

// SetOnJob registers the callback executed when a job fires.
// Must be set before Start().
func (s *Service) SetOnJob(fn OnJobFunc) { s.onJob = fn }

// Start loads jobs from disk, recomputes next-run times, and arms all timers.
// Blocks until ctx is cancelled.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if err := s.loadLocked(); err != nil {
		slog.Warn("cron: load failed, starting empty", "err", err)
	}
	s.recomputeNextRunsLocked()
	s.saveLocked()
	s.runCtx = ctx
	s.armAllLocked(ctx)
	s.started = true
	s.mu.Unlock()

	s.robfig.Start()
	slog.Info("cron: started", "jobs", len(s.store.Jobs))

	<-ctx.Done()

	<-s.robfig.Stop().Done()
	s.mu.Lock()
	s.started = false
	for _, t := range s.timers {
		t.Stop()
	}
	s.mu.Unlock()
	return ctx.Err()
}

// Running reports whether Start has armed the scheduler.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// AddJob adds a new job, saves it, and returns its ID.
// Implements tools.CronService.
func (s *Service) AddJob(
	name, prompt, kind string,
	everySeconds int64, cronExpr, tz string, at time.Time,
	deleteAfterRun bool,
) (string, error) {
	sched := Schedule{Kind: kind}
	switch kind {
	case "every":
		if everySeconds <= 0 {
			return "", fmt.Errorf("every_seconds must be positive")
		}
		sched.EverySec = &everySeconds
	case "cron":
		if _, err := cronParser().Parse(cronExpr); err != nil {
			return "", fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
		}
		sched.Expr = &cronExpr
		if tz != "" {
			sched.TZ = &tz
		}
	case "at":
		if at.IsZero() {
			return "", fmt.Errorf("missing datetime for one-time job")
		}
		sched.At = &at
	default:
		return "", fmt.Errorf("unknown schedule kind %q", kind)
	}

	now := time.Now()
	job := Job{
		ID:             shortID(),
		Name:           name,
		Enabled:        true,
		Schedule:       sched,
		Prompt:         prompt,
		State:          JobState{NextRunAt: computeNextRun(sched, now)},
		CreatedAt:      now,
		UpdatedAt:      now,
		DeleteAfterRun: deleteAfterRun,
	}

	s.mu.Lock()
	s.store.Jobs = append(s.store.Jobs, job)
	s.saveLocked()
	if s.started {
		s.armJobLocked(s.runCtx, job)
	}
	s.mu.Unlock()

	slog.Info("cron: added job", "name", name, "id", job.ID, "kind", kind)
	return job.ID, nil
}

// ListJobs returns summaries of all enabled jobs.
// Implements tools.CronService.
func (s *Service) ListJobs() []tools.CronJobSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tools.CronJobSummary
	for _, j := range s.store.Jobs {
		if !j.Enabled {
			continue
		}
		summary := tools.CronJobSummary{ID: j.ID, Name: j.Name, Kind: j.Schedule.Kind}
		if j.State.NextRunAt != nil {
			summary.NextRun = *j.State.NextRunAt
		}
		out = append(out, summary)
	}
	return out
}

// RemoveJob removes a job by ID and returns true if found.
// Implements tools.CronService.
func (s *Service) RemoveJob(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.store.Jobs)
	filtered := s.store.Jobs[:0]
	for _, j := range s.store.Jobs {
		if j.ID != id {
			filtered = append(filtered, j)
		}
	}
	s.store.Jobs = filtered
	if len(filtered) < before {
		s.cancelTimerLocked(id)
		s.saveLocked()
		return true
	}
	return false
}

// --------------------------------------------------------------------------
// CLI-facing helpers
// --------------------------------------------------------------------------

// ListAllJobs returns all jobs sorted by next run time; includeDisabled
// controls visibility.
func (s *Service) ListAllJobs(includeDisabled bool) []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.loadLocked()
	var jobs []Job
	for _, j := range s.store.Jobs {
		if includeDisabled || j.Enabled {
			jobs = append(jobs, j)
		}
	}
	sort.Slice(jobs, func(i, k int) bool {
		a, b := maxTime, maxTime
		if jobs[i].State.NextRunAt != nil {
			a = *jobs[i].State.NextRunAt
		}
		if jobs[k].State.NextRunAt != nil {
			b = *jobs[k].State.NextRunAt
		}
		return a.Before(b)
	})
	return jobs
}

// EnableJob enables or disables a job.
func (s *Service) EnableJob(id string, enabled bool) (Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.store.Jobs {
		if s.store.Jobs[i].ID != id {
			continue
		}
		s.store.Jobs[i].Enabled = enabled
		s.store.Jobs[i].UpdatedAt = time.Now()
		if enabled {
			s.store.Jobs[i].State.NextRunAt = computeNextRun(s.store.Jobs[i].Schedule, time.Now())
			if s.started {
				s.armJobLocked(s.runCtx, s.store.Jobs[i])
			}
		} else {
			s.store.Jobs[i].State.NextRunAt = nil
			s.cancelTimerLocked(id)
		}
		s.saveLocked()
		return s.store.Jobs[i], true
	}
	return Job{}, false
}

// RunJob manually executes a job (force=true ignores the disabled flag).
func (s *Service) RunJob(ctx context.Context, id string, force bool) bool {
	s.mu.Lock()
	var job *Job
	for i := range s.store.Jobs {
		if s.store.Jobs[i].ID == id {
			if !force && !s.store.Jobs[i].Enabled {
				s.mu.Unlock()
				return false
			}
			job = &s.store.Jobs[i]
			break
		}
	}
	if job == nil {
		s.mu.Unlock()
		return false
	}
	jobCopy := *job
	s.mu.Unlock()

	s.executeJob(ctx, jobCopy)
	return true
}

// --------------------------------------------------------------------------
// Internal scheduling logic
// --------------------------------------------------------------------------

func (s *Service) recomputeNextRunsLocked() {
	now := time.Now()
	for i := range s.store.Jobs {
		if s.store.Jobs[i].Enabled {
			s.store.Jobs[i].State.NextRunAt = computeNextRun(s.store.Jobs[i].Schedule, now)
		}
	}
}

func (s *Service) armAllLocked(ctx context.Context) {
	for _, j := range s.store.Jobs {
		if j.Enabled {
			s.armJobLocked(ctx, j)
		}
	}
}

func (s *Service) armJobLocked(ctx context.Context, job Job) {
	s.cancelTimerLocked(job.ID)

	switch job.Schedule.Kind {
	case "every":
		if job.Schedule.EverySec == nil || *job.Schedule.EverySec <= 0 {
			return
		}
		d := time.Duration(*job.Schedule.EverySec) * time.Second
		t := time.AfterFunc(d, func() {
			s.executeJob(ctx, job)
			// Re-arm for the next tick; the job may have changed meanwhile.
			s.mu.Lock()
			for _, j := range s.store.Jobs {
				if j.ID == job.ID && j.Enabled {
					s.armJobLocked(ctx, j)
					break
				}
			}
			s.mu.Unlock()
		})
		s.timers[job.ID] = t

	case "at":
		if job.Schedule.At == nil {
			return
		}
		delay := time.Until(*job.Schedule.At)
		if delay < 0 {
			return
		}
		t := time.AfterFunc(delay, func() {
			s.executeJob(ctx, job)
		})
		s.timers[job.ID] = t

	case "cron":
		if job.Schedule.Expr == nil {
			return
		}
		sched, err := cronParser().Parse(*job.Schedule.Expr)
		if err != nil {
			slog.Warn("cron: invalid cron expression", "job", job.ID, "expr", *job.Schedule.Expr, "err", err)
			return
		}
		jobCopy := job
		entryID := s.robfig.Schedule(
			withLocation(sched, scheduleLocation(job.Schedule)),
			robfigcron.FuncJob(func() { s.executeJob(ctx, jobCopy) }),
		)
		s.robfigIDs[job.ID] = entryID
	}
}

func (s *Service) cancelTimerLocked(id string) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	if eid, ok := s.robfigIDs[id]; ok {
		s.robfig.Remove(eid)
		delete(s.robfigIDs, id)
	}
}

func (s *Service) executeJob(ctx context.Context, job Job) {
	started := time.Now()
	slog.Info("cron: executing job", "name", job.Name, "id", job.ID)

	lastStatus := "ok"
	var lastErr *string

	if s.onJob != nil {
		if _, err := s.onJob(ctx, job); err != nil {
			lastStatus = "error"
			e := err.Error()
			lastErr = &e
			slog.Error("cron: job failed", "name", job.Name, "err", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.store.Jobs {
		if s.store.Jobs[i].ID != job.ID {
			continue
		}
		now := time.Now()
		s.store.Jobs[i].State.LastRunAt = &started
		s.store.Jobs[i].State.LastStatus = &lastStatus
		s.store.Jobs[i].State.LastError = lastErr
		s.store.Jobs[i].UpdatedAt = now

		if job.Schedule.Kind == "at" {
			if job.DeleteAfterRun {
				filtered := s.store.Jobs[:0]
				for _, j := range s.store.Jobs {
					if j.ID != job.ID {
						filtered = append(filtered, j)
					}
				}
				s.store.Jobs = filtered
			} else {
				s.store.Jobs[i].Enabled = false
				s.store.Jobs[i].State.NextRunAt = nil
			}
		} else {
			s.store.Jobs[i].State.NextRunAt = computeNextRun(job.Schedule, now)
		}
		break
	}
	s.saveLocked()
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

func (s *Service) loadLocked() error {
	if len(s.store.Jobs) > 0 {
		return nil // already loaded
	}
	data, err := os.ReadFile(s.storePath)
	if os.IsNotExist(err) {
		s.store = jobStore{Version: 1}
		return nil
	}
	if err != nil {
		return err
	}
	var st jobStore
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	s.store = st
	return nil
}

func (s *Service) saveLocked() {
	if err := os.MkdirAll(filepath.Dir(s.storePath), 0o755); err != nil {
		slog.Warn("cron: mkdir failed", "err", err)
		return
	}
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		slog.Warn("cron: marshal failed", "err", err)
		return
	}
	if err := os.WriteFile(s.storePath, data, 0o644); err != nil {
		slog.Warn("cron: write failed", "err", err)
	}
}

// --------------------------------------------------------------------------
// Utility
// --------------------------------------------------------------------------

var maxTime = time.Unix(1<<62, 0)

func shortID() string {
	return fmt.Sprintf("%08x", time.Now().UnixNano()&0xFFFFFFFF)
}

func cronParser() robfigcron.Parser {
	return robfigcron.NewParser(
		robfigcron.Minute | robfigcron.Hour | robfigcron.Dom | robfigcron.Month | robfigcron.Dow,
	)
}

func scheduleLocation(sched Schedule) *time.Location {
	if sched.TZ != nil && *sched.TZ != "" {
		if l, err := time.LoadLocation(*sched.TZ); err == nil {
			return l
		}
	}
	return time.Local
}

func computeNextRun(sched Schedule, now time.Time) *time.Time {
	switch sched.Kind {
	case "at":
		if sched.At != nil && sched.At.After(now) {
			v := *sched.At
			return &v
		}
	case "every":
		if sched.EverySec != nil && *sched.EverySec > 0 {
			v := now.Add(time.Duration(*sched.EverySec) * time.Second)
			return &v
		}
	case "cron":
		if sched.Expr != nil {
			if parsed, err := cronParser().Parse(*sched.Expr); err == nil {
				v := parsed.Next(now.In(scheduleLocation(sched)))
				return &v
			}
		}
	}
	return nil
}

// withLocation wraps a Schedule to always evaluate in a specific location.
type locSchedule struct {
	inner robfigcron.Schedule
	loc   *time.Location
}

func (l locSchedule) Next(t time.Time) time.Time {
	return l.inner.Next(t.In(l.loc))
}

func withLocation(s robfigcron.Schedule, loc *time.Location) robfigcron.Schedule {
	return locSchedule{inner: s, loc: loc}
}
