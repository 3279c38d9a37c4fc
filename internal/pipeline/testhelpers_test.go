package pipeline

import (
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/meridian-research/memogen/internal/config"
	"github.com/meridian-research/memogen/internal/model"
)

// testConfig returns a config whose output directory is a per-test temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Output: config.OutputConfig{Dir: t.TempDir(), MaxCorpusChars: 7000},
	}
}

// capture records what the pipeline persisted.
type capture struct {
	Run     *model.Run
	Session *model.Session
}

// newPipelineStore returns a mockStore that accepts every run and session
// write, plus a capture of the saved objects. SaveRun assigns a fixed ID
// the way the real store does.
func newPipelineStore() (*mockStore, *capture) {
	rec := &capture{}
	st := &mockStore{}
	st.On("SaveRun", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		r := args.Get(1).(*model.Run)
		r.ID = "run-1"
		rec.Run = r
	}).Return(nil)
	st.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)
	st.On("SaveSession", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		rec.Session = args.Get(1).(*model.Session)
	}).Return(nil)
	return st, rec
}
