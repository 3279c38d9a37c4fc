package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-research/memogen/internal/config"
)

func TestServeCommand_Flags(t *testing.T) {
	assert.NotNil(t, serveCmd.Flags().Lookup("addr"))
}

func TestBuildServer_AddrPrecedence(t *testing.T) {
	c := &config.Config{
		Server: config.ServerConfig{
			Addr:             ":8080",
			ReadTimeoutSecs:  30,
			WriteTimeoutSecs: 300,
		},
	}
	env := &generatorEnv{}

	srv := buildServer(c, env)
	require.NotNil(t, srv.Handler)
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 30*time.Second, srv.ReadTimeout)
	assert.Equal(t, 300*time.Second, srv.WriteTimeout)

	serveAddr = ":9999"
	defer func() { serveAddr = "" }()
	assert.Equal(t, ":9999", buildServer(c, env).Addr)
}
