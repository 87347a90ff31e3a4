package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sabarim/metaldata/internal/config"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return New(config.SourceConfig{
		URLTemplate: serverURL + "/markdaten.php?action=table&field=LME_{symbol}_cash",
		UserAgent:   "metaldata-test",
		Timeout:     5,
	})
}

func TestURL(t *testing.T) {
	c := New(config.Default().Source)
	require.Equal(t,
		"https://www.westmetall.com/en/markdaten.php?action=table&field=LME_Al_cash",
		c.URL("Al"),
	)
}

func TestFetch(t *testing.T) {
	var gotField, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotField = r.URL.Query().Get("field")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<table></table>"))
	}))
	defer server.Close()

	body, err := newTestClient(server.URL).Fetch(context.Background(), "Cu")
	require.NoError(t, err)
	require.Equal(t, "<table></table>", body)
	require.Equal(t, "LME_Cu_cash", gotField)
	require.Equal(t, "metaldata-test", gotAgent)
}

func TestFetchStatusError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Fetch(context.Background(), "Ni")
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, "Ni", fetchErr.Symbol)
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
	require.Equal(t, 1, calls, "failed requests are not retried")
}

func TestFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Fetch(context.Background(), "Zn")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Zero(t, fetchErr.StatusCode)
	require.Error(t, fetchErr.Unwrap())
}

func TestFetchDecodesDeclaredCharset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.Write([]byte("<table><tr><th>date</th><th>Pr\xe9sentation</th></tr></table>"))
	}))
	defer server.Close()

	body, err := newTestClient(server.URL).Fetch(context.Background(), "Al")
	require.NoError(t, err)
	require.Contains(t, body, "Présentation")
}

func TestFetchKeepsUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<p>Zürich</p>"))
	}))
	defer server.Close()

	body, err := newTestClient(server.URL).Fetch(context.Background(), "Al")
	require.NoError(t, err)
	require.Equal(t, "<p>Zürich</p>", body)
}
