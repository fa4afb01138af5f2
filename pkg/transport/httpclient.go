package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
	"github.com/andybalholm/brotli"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var (
	httpClient     *http.Client
	httpClientOnce sync.Once
)

// loadCABundle reads an extra PEM bundle (corporate proxies etc.) if LOTECA_CA_BUNDLE points at one
func loadCABundle() ([]byte, error) {
	path := os.Getenv("LOTECA_CA_BUNDLE")
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA bundle %s: %w", path, err)
	}
	return b, nil
}

// GetCustomHTTPClient returns the shared HTTP client, built once
func GetCustomHTTPClient() *http.Client {
	httpClientOnce.Do(func() {
		rootCAs, err := x509.SystemCertPool()
		if err != nil {
			logger.Warn("Failed to get system cert pool", err)
			rootCAs = x509.NewCertPool()
		}

		bundle, err := loadCABundle()
		if err != nil {
			logger.Warn("Proceeding without extra CA bundle", err)
		} else if bundle != nil {
			if ok := rootCAs.AppendCertsFromPEM(bundle); !ok {
				logger.Warn("Failed to append extra CA bundle")
			} else {
				logger.Info("Added extra CA bundle to root CAs")
			}
		}

		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{RootCAs: rootCAs},
				Proxy:           http.ProxyFromEnvironment,
			},
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		}
	})
	return httpClient
}

// HTTPFetcher fetches pages with a plain HTTP client, decoding gzip/deflate/brotli bodies
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher backed by the shared client
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: GetCustomHTTPClient()}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = GetCustomHTTPClient()
	}
	return GetHtml(ctx, client, url)
}

// GetHtml performs a browser-like GET and returns the decoded body
func GetHtml(ctx context.Context, client *http.Client, htmlUrl string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, htmlUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch html: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request to %s returned error status %d", htmlUrl, resp.StatusCode)
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return data, nil
}

// decodeBody wraps the response body according to its Content-Encoding
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch enc := resp.Header.Get("Content-Encoding"); enc {
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	case "gzip":
		logger.Debug("Handling gzip compressed content")
		r, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return r, nil
	case "deflate":
		logger.Debug("Handling deflate compressed content")
		return flate.NewReader(resp.Body), nil
	case "br":
		logger.Debug("Handling brotli compressed content")
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	default:
		logger.Warn("Unknown content encoding:", enc)
		return io.NopCloser(resp.Body), nil
	}
}
