package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, Client: srv.Client()}
}

func TestCheckNewerRelease(t *testing.T) {
	c := serve(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)
	res, err := c.Check(context.Background(), "v1.1.0")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "1.2.0", res.LatestVersion)
}

func TestCheckUpToDate(t *testing.T) {
	c := serve(t, http.StatusOK, `{"tag_name":"v1.2.0"}`)
	res, err := c.Check(context.Background(), "1.2.0")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestCheckErrors(t *testing.T) {
	_, err := serve(t, http.StatusForbidden, `{}`).Check(context.Background(), "1.0.0")
	assert.Error(t, err)

	_, err = serve(t, http.StatusOK, `not json`).Check(context.Background(), "1.0.0")
	assert.Error(t, err)
}
