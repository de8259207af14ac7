package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<!DOCTYPE html>
<html>
<head><title>Engineer at Acme</title><style>body { color: red; }</style></head>
<body>
<nav>Home | Jobs | About</nav>
<script>trackPageView();</script>
<div class="job-description">
  <h1>Software Engineer</h1>
  <p>We   build    document   pipelines.</p>
  <ul>
    <li>Ship Go services</li>
    <li>Own the data model</li>
  </ul>
</div>
<footer>Copyright Acme</footer>
</body>
</html>`

func TestFetchJobDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "FolioAPI")
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	text, err := NewFetcher().FetchJobDescription(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Software Engineer")
	assert.Contains(t, text, "We build document pipelines.")
	assert.Contains(t, text, "Ship Go services")
	assert.NotContains(t, text, "Home | Jobs", "navigation is stripped")
	assert.NotContains(t, text, "trackPageView", "scripts are stripped")
	assert.NotContains(t, text, "Copyright Acme", "footer is stripped")
	assert.NotContains(t, text, "color: red", "styles are stripped")
}

func TestFetchJobDescription_FallsBackToBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Plain posting text.</p></body></html>`))
	}))
	defer srv.Close()

	text, err := NewFetcher().FetchJobDescription(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain posting text.", text)
}

func TestFetchJobDescription_InvalidURL(t *testing.T) {
	f := NewFetcher()
	ctx := context.Background()

	_, err := f.FetchJobDescription(ctx, "not a url")
	var ingErr *Error
	require.ErrorAs(t, err, &ingErr)

	_, err = f.FetchJobDescription(ctx, "ftp://example.com/posting")
	require.ErrorAs(t, err, &ingErr)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestFetchJobDescription_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewFetcher().FetchJobDescription(context.Background(), srv.URL)
	var ingErr *Error
	require.ErrorAs(t, err, &ingErr)
	assert.Contains(t, err.Error(), "HTTP status 404")
}
