package model

import "time"

// RunKind distinguishes the two generation flows.
type RunKind string

const (
	RunKindMemo        RunKind = "memo"
	RunKindInfographic RunKind = "infographic"
)

// RunStatus represents the current state of a generation run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusExtracting  RunStatus = "extracting"
	RunStatusPrompting   RunStatus = "prompting"
	RunStatusGenerating  RunStatus = "generating"
	RunStatusNormalizing RunStatus = "normalizing"
	RunStatusSplitting   RunStatus = "splitting"
	RunStatusRendering   RunStatus = "rendering"
	RunStatusSummarizing RunStatus = "summarizing"
	RunStatusComposing   RunStatus = "composing"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// Run represents a single memo or infographic generation run.
type Run struct {
	ID        string        `json:"id"`
	Kind      RunKind       `json:"kind"`
	Company   string        `json:"company"`
	Situation SituationType `json:"situation"`
	Status    RunStatus     `json:"status"`
	Result    *RunResult    `json:"result,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// RunResult holds the final outcome of a run.
type RunResult struct {
	Stages           []StageResult `json:"stages"`
	SectionTitles    []string      `json:"section_titles,omitempty"`
	ArtifactPath     string        `json:"artifact_path,omitempty"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Error            string        `json:"error,omitempty"`
}

// StageStatus represents the current state of a pipeline stage.
type StageStatus string

const (
	StageStatusRunning  StageStatus = "running"
	StageStatusComplete StageStatus = "complete"
	StageStatusFailed   StageStatus = "failed"
	StageStatusSkipped  StageStatus = "skipped"
)

// StageResult holds the outcome of a pipeline stage.
type StageResult struct {
	Name     string      `json:"name"`
	Status   StageStatus `json:"status"`
	Duration int64       `json:"duration_ms"`
	Error    string      `json:"error,omitempty"`
}

// Session tracks the most recent memo so the infographic flow can locate it
// without explicit arguments.
type Session struct {
	ID              string        `json:"id"`
	Company         string        `json:"company"`
	Situation       SituationType `json:"situation"`
	MemoPath        string        `json:"memo_path"`
	InfographicPath string        `json:"infographic_path,omitempty"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// SourceDoc is one uploaded source document.
type SourceDoc struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}
