package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postingHTML = `<html>
<head><title>Job</title><script>track()</script></head>
<body>
<nav>Home | Jobs | About</nav>
<div class="job-description">
  <h1>Senior   Go Engineer</h1>
  <p>Build and operate backend services.</p>
</div>
<footer>Copyright</footer>
</body>
</html>`

func TestExtractMainTextPrefersJobContainer(t *testing.T) {
	text, err := ExtractMainText(postingHTML)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Go Engineer")
	assert.Contains(t, text, "Build and operate backend services.")
	assert.NotContains(t, text, "Home | Jobs")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "track()")
}

func TestExtractMainTextFallsBackToBody(t *testing.T) {
	text, err := ExtractMainText("<html><body><p>Plain posting text</p></body></html>")
	require.NoError(t, err)
	assert.Equal(t, "Plain posting text", text)
}

func TestJobPosting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	text, err := JobPosting(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Senior Go Engineer")
}

func TestJobPostingErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	tests := []struct {
		name string
		url  string
	}{
		{"invalid url", "not a url"},
		{"missing scheme", "example.com/job"},
		{"non-200 status", srv.URL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JobPosting(context.Background(), tt.url)
			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
		})
	}
}
