package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogHTML = `<html>
<head><title>Scaling Postgres</title><style>body{}</style></head>
<body>
  <nav>Home | About</nav>
  <article>
    <h1>Scaling Postgres</h1>
    <p>We partitioned   our tables
       and moved reads to replicas.</p>
    <script>track()</script>
  </article>
  <footer>© me</footer>
</body></html>`

func TestPageFetcherBlogText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(blogHTML))
	}))
	defer srv.Close()

	text, err := NewPageFetcher().BlogText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Scaling Postgres\nWe partitioned our tables\nand moved reads to replicas.", text)
	assert.NotContains(t, text, "Home")
	assert.NotContains(t, text, "track()")
}

func TestPageFetcherFallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div>Hiring: Go engineer</div></body></html>`))
	}))
	defer srv.Close()

	text, err := NewPageFetcher().PostingText(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hiring: Go engineer", text)
}

func TestPageFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewPageFetcher().BlogText(context.Background(), srv.URL)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusNotFound, pe.StatusCode)
	assert.Equal(t, KindTerminal, pe.Kind)
}
