package main

import (
	"net"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

type recordingShutdowner struct {
	calls int
}

func (r *recordingShutdowner) Shutdown(...fx.ShutdownOption) error {
	r.calls++
	return nil
}

func TestServeFailureShutsAppDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	log, hook := test.NewNullLogger()
	sd := &recordingShutdowner{}

	serve(&http.Server{Handler: http.NotFoundHandler()}, ln, sd, log)

	assert.Equal(t, 1, sd.calls)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "server stopped unexpectedly", hook.LastEntry().Message)
}

func TestServeClosedServerIsQuiet(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &http.Server{Handler: http.NotFoundHandler()}
	require.NoError(t, server.Close())

	log, hook := test.NewNullLogger()
	sd := &recordingShutdowner{}

	serve(server, ln, sd, log)

	assert.Zero(t, sd.calls)
	assert.Empty(t, hook.AllEntries())
}
