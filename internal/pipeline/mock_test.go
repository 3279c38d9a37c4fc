package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/meridian-research/memogen/internal/completion"
	"github.com/meridian-research/memogen/internal/extract"
	"github.com/meridian-research/memogen/internal/model"
	"github.com/meridian-research/memogen/internal/store"
	"github.com/meridian-research/memogen/pkg/marketdata"
)

// --- Completer Mock ---

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (*completion.Result, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*completion.Result), args.Error(1)
}

func (m *mockCompleter) Name() string { return "mock" }

// --- Extractor Mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Corpus(docs []model.SourceDoc) string {
	args := m.Called(docs)
	return args.String(0)
}

// --- Market Data Mock ---

type mockMarketData struct {
	mock.Mock
}

func (m *mockMarketData) Search(ctx context.Context, query string) ([]marketdata.SearchHit, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]marketdata.SearchHit), args.Error(1)
}

func (m *mockMarketData) EVToEBITDA(ctx context.Context, symbol string) (float64, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockMarketData) MarketCap(ctx context.Context, symbol string) (float64, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockMarketData) NetDebt(ctx context.Context, symbol string) (float64, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockMarketData) TrailingEBITDA(ctx context.Context, symbol string) (float64, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(float64), args.Error(1)
}

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SaveRun(ctx context.Context, run *model.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockStore) UpdateRun(ctx context.Context, run *model.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) RunStats(ctx context.Context) (*store.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Stats), args.Error(1)
}

func (m *mockStore) SaveSession(ctx context.Context, sess *model.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *mockStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Ensure interface compliance ---
var (
	_ completion.Completer = (*mockCompleter)(nil)
	_ extract.Extractor    = (*mockExtractor)(nil)
	_ marketdata.Client    = (*mockMarketData)(nil)
	_ store.Store          = (*mockStore)(nil)
)
