package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPServer_RequiresContext(t *testing.T) {
	_, err := NewHTTPServer(nil, HTTPServerConfig{})
	assert.Error(t, err)
}

func TestHTTPServer_Defaults(t *testing.T) {
	s := newTestHTTPServer(t, &fakeCalendar{}, HTTPServerConfig{})
	assert.Equal(t, DefaultHTTPAddr, s.Addr())
	assert.Nil(t, s.limiter)
	assert.Equal(t, DefaultWriteTimeout, s.httpServer.WriteTimeout)
}

func TestHTTPServer_ServeAndShutdown(t *testing.T) {
	s := newTestHTTPServer(t, &fakeCalendar{}, HTTPServerConfig{RateLimit: 100, RateBurst: 100})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "http://" + ln.Addr().String()

	serverErr := make(chan error, 1)
	go func() { serverErr <- s.Serve(ln) }()

	resp, err := http.Get(url + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, <-serverErr)

	assert.False(t, s.Health().IsReady())
	assert.True(t, s.sc.IsShutdown())
}
