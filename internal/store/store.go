package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/meridian-research/memogen/internal/model"
)

// CurrentSessionID is the session row used by CLI and serve flows. A single
// process tracks one working session at a time.
const CurrentSessionID = "current"

// ErrRunNotFound is returned by GetRun for unknown run IDs. Callers that map
// store errors to HTTP statuses match on it with errors.Is.
var ErrRunNotFound = eris.New("run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Kind    model.RunKind   `json:"kind,omitempty"`
	Status  model.RunStatus `json:"status,omitempty"`
	Company string          `json:"company,omitempty"`
	Limit   int             `json:"limit,omitempty"`
	Offset  int             `json:"offset,omitempty"`
}

// Stats aggregates run history across both generation flows.
type Stats struct {
	TotalRuns        int `json:"total_runs"`
	CompletedRuns    int `json:"completed_runs"`
	FailedRuns       int `json:"failed_runs"`
	MemoRuns         int `json:"memo_runs"`
	InfographicRuns  int `json:"infographic_runs"`
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Store defines the persistence interface for the generation pipeline.
type Store interface {
	// Runs
	SaveRun(ctx context.Context, run *model.Run) error
	UpdateRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	RunStats(ctx context.Context) (*Stats, error)

	// Session
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
