package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ServesMetrics(t *testing.T) {
	RoundsTotal.WithLabelValues("201").Inc()

	s := NewServer("127.0.0.1:0")
	require.NoError(t, s.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	}()

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), `ringwalk_rounds_total{worker="201"}`))
	assert.NoError(t, s.Err())
}

func TestServer_StartFailsOnBadAddress(t *testing.T) {
	s := NewServer("256.0.0.1:bad")
	assert.Error(t, s.Start())
}
