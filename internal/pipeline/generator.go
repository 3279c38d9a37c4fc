// Package pipeline runs the memo and infographic generation flows: corpus
// extraction, prompting, completion, normalization, section splitting, and
// artifact rendering, with every stage tracked on a persisted run record.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-research/memogen/internal/completion"
	"github.com/meridian-research/memogen/internal/config"
	"github.com/meridian-research/memogen/internal/docx"
	"github.com/meridian-research/memogen/internal/extract"
	"github.com/meridian-research/memogen/internal/infographic"
	"github.com/meridian-research/memogen/internal/model"
	"github.com/meridian-research/memogen/internal/outline"
	"github.com/meridian-research/memogen/internal/section"
	"github.com/meridian-research/memogen/internal/store"
	"github.com/meridian-research/memogen/pkg/marketdata"
)

// ErrNoSessionMemo is returned by the infographic flow when no run ID or
// memo path is given and the current session has no memo to fall back on.
var ErrNoSessionMemo = eris.New("pipeline: no memo in the current session; generate one first")

// Generator runs generation pipelines end to end.
type Generator struct {
	cfg       *config.Config
	store     store.Store
	registry  *outline.Registry
	extractor extract.Extractor
	completer completion.Completer
	market    marketdata.Client // nil when no market data key is configured
}

// NewGenerator wires the pipeline dependencies together.
func NewGenerator(cfg *config.Config, st store.Store, reg *outline.Registry, ex extract.Extractor, comp completion.Completer, md marketdata.Client) *Generator {
	return &Generator{
		cfg:       cfg,
		store:     st,
		registry:  reg,
		extractor: ex,
		completer: comp,
		market:    md,
	}
}

// MemoRequest carries everything needed to generate one memo.
type MemoRequest struct {
	Company       string
	Situation     model.SituationType
	Docs          []model.SourceDoc
	ValuationMode string
	ParentPeers   []string
	SpincoPeers   []string
}

// MemoResult reports a finished memo run.
type MemoResult struct {
	RunID            string
	ArtifactPath     string
	Sections         *model.SectionMap
	Stages           []model.StageResult
	PromptTokens     int
	CompletionTokens int
}

// GenerateMemo runs the memo pipeline: extract the corpus, build the
// prompt, call the model, normalize, split into sections, and render the
// DOCX. The run record is updated after every stage; a stage failure is
// recorded on the run and returned.
func (g *Generator) GenerateMemo(ctx context.Context, req MemoRequest) (*MemoResult, error) {
	out, err := g.registry.For(req.Situation)
	if err != nil {
		return nil, err
	}
	if len(req.Docs) == 0 {
		return nil, eris.New("pipeline: at least one source document is required")
	}
	mode := req.ValuationMode
	if mode == "" {
		mode = ValuationNone
	}
	if mode == ValuationResolved && g.market == nil {
		return nil, eris.New("pipeline: resolved valuation requires a market data API key")
	}

	run := &model.Run{
		Kind:      model.RunKindMemo,
		Company:   req.Company,
		Situation: req.Situation,
		Status:    model.RunStatusQueued,
	}
	if err := g.store.SaveRun(ctx, run); err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	log := zap.L().With(
		zap.String("run_id", run.ID),
		zap.String("company", req.Company),
		zap.String("situation", string(req.Situation)),
	)
	log.Info("pipeline: memo run started", zap.Int("docs", len(req.Docs)))

	tr := &runTracker{store: g.store, run: run, log: log}

	var corpus string
	if err := tr.stage(ctx, model.RunStatusExtracting, func() (*model.StageResult, error) {
		corpus = g.extractor.Corpus(req.Docs)
		st := &model.StageResult{}
		if n := extract.FailureCount(corpus); n > 0 {
			st.Error = fmt.Sprintf("%d source file(s) could not be extracted", n)
		}
		return st, nil
	}); err != nil {
		return nil, tr.fail(ctx, err)
	}

	var valuation *Summary
	var promptText string
	if err := tr.stage(ctx, model.RunStatusPrompting, func() (*model.StageResult, error) {
		st := &model.StageResult{}
		if req.Situation.SupportsValuation() && mode == ValuationResolved {
			valuation = ResolveValuation(ctx, g.market, req.Company, req.ParentPeers, req.SpincoPeers)
			if n := unresolvedPeers(valuation); n > 0 {
				st.Error = fmt.Sprintf("%d peer(s) could not be resolved", n)
			}
		}
		promptText = MemoPrompt(MemoInput{
			Company:        req.Company,
			Situation:      req.Situation,
			Outline:        out,
			Corpus:         corpus,
			Mode:           mode,
			ParentPeers:    req.ParentPeers,
			SpincoPeers:    req.SpincoPeers,
			Valuation:      valuation,
			MaxCorpusChars: g.cfg.Output.MaxCorpusChars,
		})
		return st, nil
	}); err != nil {
		return nil, tr.fail(ctx, err)
	}

	var usage Usage
	var memoText string
	if err := tr.stage(ctx, model.RunStatusGenerating, func() (*model.StageResult, error) {
		res, err := g.completer.Complete(ctx, promptText)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: generate memo")
		}
		usage.Add(res)
		memoText = res.Text
		return nil, nil
	}); err != nil {
		return nil, tr.fail(ctx, err)
	}

	if err := tr.stage(ctx, model.RunStatusNormalizing, func() (*model.StageResult, error) {
		memoText = Normalize(memoText)
		return nil, nil
	}); err != nil {
		return nil, tr.fail(ctx, err)
	}

	var sections *model.SectionMap
	if err := tr.stage(ctx, model.RunStatusSplitting, func() (*model.StageResult, error) {
		sections = section.Split(memoText, out)
		return nil, nil
	}); err != nil {
		return nil, tr.fail(ctx, err)
	}

	var artifactPath string
	if err := tr.stage(ctx, model.RunStatusRendering, func() (*model.StageResult, error) {
		path, err := g.writeArtifact(docx.MemoFileName(req.Company, req.Situation.Label()), func(w io.Writer) error {
			return docx.Render(w, req.Company, req.Situation.Label(), sections)
		})
		if err != nil {
			return nil, err
		}
		artifactPath = path
		return nil, nil
	}); err != nil {
		return nil, tr.fail(ctx, err)
	}

	// A fresh memo supersedes whatever the session pointed at, including
	// any infographic built from the previous memo.
	sess := &model.Session{
		Company:   req.Company,
		Situation: req.Situation,
		MemoPath:  artifactPath,
	}
	if err := g.store.SaveSession(ctx, sess); err != nil {
		log.Warn("pipeline: failed to save session", zap.Error(err))
	}

	tr.complete(ctx, &model.RunResult{
		SectionTitles:    sections.Keys(),
		ArtifactPath:     artifactPath,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	})

	log.Info("pipeline: memo run complete",
		zap.String("path", artifactPath),
		zap.Int("sections", sections.Len()),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
	)

	return &MemoResult{
		RunID:            run.ID,
		ArtifactPath:     artifactPath,
		Sections:         sections,
		Stages:           tr.stages,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	}, nil
}

// InfographicRequest locates the memo to condense. RunID takes precedence
// over MemoPath; with neither, the current session supplies the memo.
type InfographicRequest struct {
	RunID     string
	MemoPath  string
	Company   string
	Situation model.SituationType
}

// InfographicResult reports a finished infographic run.
type InfographicResult struct {
	RunID            string
	ArtifactPath     string
	Sections         []model.SectionSummary
	Stages           []model.StageResult
	PromptTokens     int
	CompletionTokens int
}

// GenerateInfographic runs the infographic pipeline: read the memo DOCX
// back, walk its paragraphs into sections, summarize each section into
// bullets, and render the HTML page.
func (g *Generator) GenerateInfographic(ctx context.Context, req InfographicRequest) (*InfographicResult, error) {
	company, situation, memoPath, err := g.resolveMemo(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := g.registry.For(situation)
	if err != nil {
		return nil, err
	}

	run := &model.Run{
		Kind:      model.RunKindInfographic,
		Company:   company,
		Situation: situation,
		Status:    model.RunStatusQueued,
	}
	if err := g.store.SaveRun(ctx, run); err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	log := zap.L().With(
		zap.String("run_id", run.ID),
		zap.String("company", company),
		zap.String("memo", memoPath),
	)
	log.Info("pipeline: infographic run started")

	tr := &runTracker{store: g.store, run: run, log: log}

	var sections *model.SectionMap
	if err := tr.stage(ctx, model.RunStatusExtracting, func() (*model.StageResult, error) {
		data, err := os.ReadFile(memoPath)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: read memo %s", memoPath)
		}
		paras, err := docx.Paragraphs(data)
		if err != nil {
			return nil, err
		}
		sections = section.Walk(paras, out)
		if sections.Len() == 0 {
			return nil, eris.Errorf("pipeline: no known sections found in %s", memoPath)
		}
		return nil, nil
	}); err != nil {
		return nil, tr.fail(ctx, err)
	}

	var summaries []model.SectionSummary
	var usage Usage
	if err := tr.stage(ctx, model.RunStatusSummarizing, func() (*model.StageResult, error) {
		summaries, usage = SummarizeSections(ctx, g.completer, sections)
		st := &model.StageResult{}
		if n := placeholderCount(summaries); n > 0 {
			st.Error = fmt.Sprintf("%d section(s) fell back to placeholder bullets", n)
		}
		return st, nil
	}); err != nil {
		return nil, tr.fail(ctx, err)
	}

	var artifactPath string
	if err := tr.stage(ctx, model.RunStatusComposing, func() (*model.StageResult, error) {
		path, err := g.writeArtifact(infographic.FileName(company), func(w io.Writer) error {
			return infographic.Render(w, company, summaries)
		})
		if err != nil {
			return nil, err
		}
		artifactPath = path
		return nil, nil
	}); err != nil {
		return nil, tr.fail(ctx, err)
	}

	sess := &model.Session{
		Company:         company,
		Situation:       situation,
		MemoPath:        memoPath,
		InfographicPath: artifactPath,
	}
	if err := g.store.SaveSession(ctx, sess); err != nil {
		log.Warn("pipeline: failed to save session", zap.Error(err))
	}

	titles := make([]string, 0, len(summaries))
	for _, s := range summaries {
		titles = append(titles, s.Title)
	}
	tr.complete(ctx, &model.RunResult{
		SectionTitles:    titles,
		ArtifactPath:     artifactPath,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	})

	log.Info("pipeline: infographic run complete",
		zap.String("path", artifactPath),
		zap.Int("sections", len(summaries)),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
	)

	return &InfographicResult{
		RunID:            run.ID,
		ArtifactPath:     artifactPath,
		Sections:         summaries,
		Stages:           tr.stages,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	}, nil
}

// resolveMemo finds the memo an infographic request points at, in
// precedence order: explicit run ID, explicit memo path, current session.
func (g *Generator) resolveMemo(ctx context.Context, req InfographicRequest) (company string, situation model.SituationType, memoPath string, err error) {
	if req.RunID != "" {
		run, err := g.store.GetRun(ctx, req.RunID)
		if err != nil {
			return "", "", "", err
		}
		if run.Kind != model.RunKindMemo {
			return "", "", "", eris.Errorf("pipeline: run %s is not a memo run", req.RunID)
		}
		if run.Result == nil || run.Result.ArtifactPath == "" {
			return "", "", "", eris.Errorf("pipeline: run %s has no memo artifact", req.RunID)
		}
		return run.Company, run.Situation, run.Result.ArtifactPath, nil
	}
	if req.MemoPath != "" {
		if req.Company == "" {
			return "", "", "", eris.New("pipeline: company is required with an explicit memo path")
		}
		return req.Company, req.Situation, req.MemoPath, nil
	}
	sess, err := g.store.GetSession(ctx, "")
	if err != nil {
		return "", "", "", eris.Wrap(err, "pipeline: load session")
	}
	if sess == nil || sess.MemoPath == "" {
		return "", "", "", ErrNoSessionMemo
	}
	return sess.Company, sess.Situation, sess.MemoPath, nil
}

// writeArtifact renders into a file under the output directory and returns
// the written path.
func (g *Generator) writeArtifact(name string, render func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(g.cfg.Output.Dir, 0o755); err != nil {
		return "", eris.Wrap(err, "pipeline: create output dir")
	}
	path := filepath.Join(g.cfg.Output.Dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", eris.Wrapf(err, "pipeline: create %s", path)
	}
	defer file.Close() //nolint:errcheck

	if err := render(file); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", eris.Wrapf(err, "pipeline: close %s", path)
	}
	return path, nil
}

func unresolvedPeers(s *Summary) int {
	var n int
	for _, p := range s.Peers {
		if !p.Resolved {
			n++
		}
	}
	return n
}

// runTracker records stage outcomes on a run as the pipeline advances.
type runTracker struct {
	store  store.Store
	run    *model.Run
	log    *zap.Logger
	stages []model.StageResult
}

func (t *runTracker) setStatus(ctx context.Context, s model.RunStatus) {
	t.run.Status = s
	if err := t.store.UpdateRun(ctx, t.run); err != nil {
		t.log.Warn("pipeline: failed to update status", zap.Error(err))
	}
}

// stage advances the run to status, times fn, and appends its StageResult.
// fn may return a partial StageResult to attach a non-fatal note; Name,
// Status, and Duration are always filled in here.
func (t *runTracker) stage(ctx context.Context, status model.RunStatus, fn func() (*model.StageResult, error)) error {
	t.setStatus(ctx, status)

	name := string(status)
	start := time.Now()
	st, fnErr := fn()
	duration := time.Since(start).Milliseconds()

	if st == nil {
		st = &model.StageResult{}
	}
	st.Name = name
	st.Duration = duration

	if fnErr != nil {
		st.Status = model.StageStatusFailed
		st.Error = fnErr.Error()
		t.log.Error("pipeline: stage failed",
			zap.String("stage", name),
			zap.Int64("duration_ms", duration),
			zap.Error(fnErr))
	} else {
		st.Status = model.StageStatusComplete
		t.log.Info("pipeline: stage complete",
			zap.String("stage", name),
			zap.Int64("duration_ms", duration))
	}

	t.stages = append(t.stages, *st)
	return fnErr
}

// fail records a terminal failure on the run and returns err unchanged.
func (t *runTracker) fail(ctx context.Context, err error) error {
	t.run.Status = model.RunStatusFailed
	t.run.Result = &model.RunResult{Stages: t.stages, Error: err.Error()}
	if uerr := t.store.UpdateRun(ctx, t.run); uerr != nil {
		t.log.Warn("pipeline: failed to save run result", zap.Error(uerr))
	}
	return err
}

// complete records the successful result on the run. result.Stages is
// filled from the tracker.
func (t *runTracker) complete(ctx context.Context, result *model.RunResult) {
	result.Stages = t.stages
	t.run.Status = model.RunStatusComplete
	t.run.Result = result
	if err := t.store.UpdateRun(ctx, t.run); err != nil {
		t.log.Warn("pipeline: failed to save run result", zap.Error(err))
	}
}
