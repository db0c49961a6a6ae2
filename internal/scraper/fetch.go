package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// proxyAPIURL is the bypass-proxy endpoint. The proxy fetches the target on
// our behalf from addresses the site does not block.
const proxyAPIURL = "https://app.scrapingbee.com/api/v1/"

// TransportError reports a failed page fetch: a network error, a timeout,
// or a non-success status. Transport failures are subject-scoped and
// recoverable; retry policy belongs to the orchestrator, not here.
type TransportError struct {
	URL    string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// fetch retrieves raw page markup. With a proxy key configured the request
// is routed through the bypass proxy, passing the real target as a
// parameter; script rendering is disabled since the target is
// server-rendered. Without a key it issues a direct request with a
// realistic browser header set.
func (s *Scraper) fetch(ctx context.Context, targetURL string) (string, error) {
	req, err := s.buildRequest(ctx, targetURL)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &TransportError{URL: targetURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{URL: targetURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{URL: targetURL, Err: err}
	}

	return string(body), nil
}

func (s *Scraper) buildRequest(ctx context.Context, targetURL string) (*http.Request, error) {
	if s.proxyKey != "" {
		params := url.Values{}
		params.Set("api_key", s.proxyKey)
		params.Set("url", targetURL)
		params.Set("render_js", "false")
		return http.NewRequestWithContext(ctx, http.MethodGet, s.proxyURL+"?"+params.Encode(), nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", s.baseURL+"/")
	return req, nil
}
