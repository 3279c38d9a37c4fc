package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meridian-research/memogen/pkg/marketdata"
)

func hit(symbol string) []marketdata.SearchHit {
	return []marketdata.SearchHit{{Symbol: symbol, Name: symbol}}
}

func TestResolveValuation_AveragesResolvedPeers(t *testing.T) {
	t.Parallel()

	md := &mockMarketData{}
	md.On("Search", mock.Anything, "Alpha").Return(hit("AAA"), nil)
	md.On("Search", mock.Anything, "Beta").Return(hit("BBB"), nil)
	md.On("Search", mock.Anything, "Gamma").Return(nil, eris.New("api down"))
	md.On("Search", mock.Anything, "Acme Corp").Return(hit("ACME"), nil)
	md.On("EVToEBITDA", mock.Anything, "AAA").Return(8.0, nil)
	md.On("EVToEBITDA", mock.Anything, "BBB").Return(10.0, nil)
	md.On("MarketCap", mock.Anything, "ACME").Return(2e9, nil)
	md.On("NetDebt", mock.Anything, "ACME").Return(5e8, nil)
	md.On("TrailingEBITDA", mock.Anything, "ACME").Return(4e8, nil)

	s := ResolveValuation(context.Background(), md, "Acme Corp", []string{"Alpha", "Beta"}, []string{"Gamma"})
	require.NotNil(t, s)

	require.Len(t, s.Peers, 3)
	assert.Equal(t, "Alpha", s.Peers[0].Peer)
	assert.True(t, s.Peers[0].Resolved)
	assert.Equal(t, 8.0, s.Peers[0].Multiple)
	assert.False(t, s.Peers[2].Resolved)

	assert.Equal(t, 9.0, s.AverageMultiple)
	assert.Equal(t, 2e9, s.MarketCap)
	assert.Equal(t, 5e8, s.NetDebt)
	assert.Equal(t, 4e8, s.TrailingEBITDA)
	assert.Equal(t, 3.6e9, s.ImpliedEV)
	assert.Equal(t, 3.1e9, s.ImpliedEquity)
	assert.Equal(t, "55.0%", s.UpsideString())
}

func TestResolveValuation_NoPeersResolved(t *testing.T) {
	t.Parallel()

	md := &mockMarketData{}
	md.On("Search", mock.Anything, mock.Anything).Return(nil, eris.New("api down"))

	s := ResolveValuation(context.Background(), md, "Acme Corp", []string{"Alpha"}, nil)
	require.NotNil(t, s)

	assert.Zero(t, s.AverageMultiple)
	assert.Zero(t, s.ImpliedEV)
	assert.Zero(t, s.ImpliedEquity)
	assert.Equal(t, "N/A", s.UpsideString())
}

func TestResolveValuation_ZeroMultipleExcluded(t *testing.T) {
	t.Parallel()

	md := &mockMarketData{}
	md.On("Search", mock.Anything, "Alpha").Return(hit("AAA"), nil)
	md.On("Search", mock.Anything, "Beta").Return(hit("BBB"), nil)
	md.On("Search", mock.Anything, "Acme Corp").Return(nil, eris.New("not listed"))
	md.On("EVToEBITDA", mock.Anything, "AAA").Return(0.0, nil)
	md.On("EVToEBITDA", mock.Anything, "BBB").Return(10.0, nil)

	s := ResolveValuation(context.Background(), md, "Acme Corp", []string{"Alpha", "Beta"}, nil)

	assert.False(t, s.Peers[0].Resolved)
	assert.True(t, s.Peers[1].Resolved)
	assert.Equal(t, 10.0, s.AverageMultiple)
}

func TestResolveValuation_NoSymbolMatch(t *testing.T) {
	t.Parallel()

	md := &mockMarketData{}
	md.On("Search", mock.Anything, mock.Anything).Return([]marketdata.SearchHit{}, nil)

	s := ResolveValuation(context.Background(), md, "Acme Corp", []string{"Alpha"}, nil)

	assert.False(t, s.Peers[0].Resolved)
	assert.Empty(t, s.Peers[0].Symbol)
}

func TestMergePeers(t *testing.T) {
	t.Parallel()

	merged := mergePeers([]string{"Alpha", "Beta", ""}, []string{"Beta", "Gamma", "Alpha"})
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, merged)
}

func TestMergePeers_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, mergePeers(nil, nil))
}
