package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HurstLab/internal/domain/models"
	"HurstLab/pkg/cache"
	xhttp "HurstLab/pkg/http"
)

type closingPublisher struct {
	closed bool
	err    error
}

func (p *closingPublisher) Publish(context.Context, *models.AnalysisReport) error { return nil }

func (p *closingPublisher) Close() error {
	p.closed = true
	return p.err
}

func TestApp_RunContextClosesResources(t *testing.T) {
	srv := xhttp.NewServer(nil, xhttp.ServerConfig{Host: "127.0.0.1"}, nil)
	pub := &closingPublisher{err: errors.New("broker gone")}
	c := cache.NewMemoryCache(0)

	app := New(nil, srv, pub, c, nil, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := app.RunContext(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker gone")
	assert.True(t, pub.closed)
	require.NotNil(t, srv.Addr())
}

func TestApp_RunContextBindError(t *testing.T) {
	taken := xhttp.NewServer(nil, xhttp.ServerConfig{Host: "127.0.0.1"}, nil)
	require.NoError(t, taken.Start())
	defer taken.Stop(context.Background())

	port := taken.Addr().(*net.TCPAddr).Port
	srv := xhttp.NewServer(nil, xhttp.ServerConfig{Host: "127.0.0.1", Port: port}, nil)
	err := New(nil, srv, nil, nil, nil, nil, nil).RunContext(context.Background())
	assert.ErrorContains(t, err, "listen")
}

type orderLog struct {
	events []string
}

type loggingDrainer struct{ log *orderLog }

func (d loggingDrainer) Drain(context.Context) error {
	d.log.events = append(d.log.events, "drain")
	return nil
}

type loggingPublisher struct{ log *orderLog }

func (p loggingPublisher) Publish(context.Context, *models.AnalysisReport) error { return nil }

func (p loggingPublisher) Close() error {
	p.log.events = append(p.log.events, "close")
	return nil
}

func TestApp_ShutdownDrainsReportsBeforeClose(t *testing.T) {
	log := &orderLog{}
	srv := xhttp.NewServer(nil, xhttp.ServerConfig{Host: "127.0.0.1"}, nil)
	app := New(nil, srv, loggingPublisher{log}, nil, nil, nil, loggingDrainer{log})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, app.RunContext(ctx))
	assert.Equal(t, []string{"drain", "close"}, log.events)
}
