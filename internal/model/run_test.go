package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The run JSON shape is the wire format for both the result column in the
// store and the /api/runs responses, so field names are load-bearing.
func TestRun_JSONShape(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	run := Run{
		ID:        "run-123",
		Kind:      RunKindMemo,
		Company:   "Acme Corp",
		Situation: SituationSpinOff,
		Status:    RunStatusComplete,
		Result: &RunResult{
			Stages: []StageResult{
				{Name: "extracting", Status: StageStatusComplete, Duration: 120},
				{Name: "generating", Status: StageStatusFailed, Duration: 4500, Error: "rate limited"},
			},
			SectionTitles:    []string{"Transaction Overview"},
			ArtifactPath:     "out/Acme Corp_Spin-Off or Split-Up_Memo.docx",
			PromptTokens:     100,
			CompletionTokens: 400,
		},
		CreatedAt: created,
		UpdatedAt: created.Add(2 * time.Minute),
	}

	data, err := json.Marshal(run)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "run-123", decoded["id"])
	assert.Equal(t, "memo", decoded["kind"])
	assert.Equal(t, "spinoff", decoded["situation"])
	assert.Equal(t, "complete", decoded["status"])
	assert.Contains(t, decoded, "created_at")
	assert.Contains(t, decoded, "updated_at")

	result := decoded["result"].(map[string]any)
	assert.Equal(t, float64(100), result["prompt_tokens"])
	stages := result["stages"].([]any)
	require.Len(t, stages, 2)
	failed := stages[1].(map[string]any)
	assert.Equal(t, "generating", failed["name"])
	assert.Equal(t, float64(4500), failed["duration_ms"])
	assert.Equal(t, "rate limited", failed["error"])
}

func TestRun_JSONOmitsEmptyResult(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Run{ID: "run-1", Kind: RunKindInfographic, Status: RunStatusQueued})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "result")
}

func TestRunResult_RoundTripThroughStoreColumn(t *testing.T) {
	t.Parallel()

	orig := &RunResult{
		Stages:        []StageResult{{Name: "composing", Status: StageStatusComplete, Duration: 88}},
		SectionTitles: []string{"Executive Summary", "Risks and Overhangs"},
		ArtifactPath:  "out/Acme Corp_Infographic.html",
		Error:         "",
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded RunResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, orig.Stages, decoded.Stages)
	assert.Equal(t, orig.SectionTitles, decoded.SectionTitles)
	assert.Equal(t, orig.ArtifactPath, decoded.ArtifactPath)
}
