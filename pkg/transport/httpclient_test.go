package transport

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = "<html><body><table><tr><td>1</td></tr></table></body></html>"

func TestGetHtmlDecodesEncodings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "br")
		switch r.URL.Query().Get("enc") {
		case "br":
			w.Header().Set("Content-Encoding", "br")
			bw := brotli.NewWriter(w)
			bw.Write([]byte(page))
			bw.Close()
		case "gzip":
			w.Header().Set("Content-Encoding", "gzip")
			gw := gzip.NewWriter(w)
			gw.Write([]byte(page))
			gw.Close()
		default:
			w.Write([]byte(page))
		}
	}))
	defer srv.Close()

	// disable the transport's own transparent gzip handling so our decoder is exercised
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	f := &HTTPFetcher{Client: client}

	for _, enc := range []string{"", "gzip", "br"} {
		body, err := f.Fetch(context.Background(), srv.URL+"/?enc="+enc)
		require.NoError(t, err, enc)
		assert.Equal(t, page, string(body), enc)
	}
}

func TestGetHtmlRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := GetHtml(context.Background(), srv.Client(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestGetHtmlHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GetHtml(ctx, srv.Client(), srv.URL)
	assert.Error(t, err)
}

func TestFetcherFunc(t *testing.T) {
	var f Fetcher = FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(url), nil
	})
	b, err := f.Fetch(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", string(b))
}
