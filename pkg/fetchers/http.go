package fetchers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/statekit-dev/statekit/pkg/disposer"
)

// HTTP returns a load function that GETs url and yields the response body.
// The request is bound to the invocation disposer's context, so superseding
// the invocation aborts the request. A nil client uses http.DefaultClient.
func HTTP(client *http.Client, url string) func(*disposer.Disposer) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	return func(d *disposer.Disposer) ([]byte, error) {
		req, err := http.NewRequestWithContext(d.Context(), http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("fetchers: build request for %s: %w", url, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetchers: GET %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("fetchers: GET %s: unexpected status %s", url, resp.Status)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("fetchers: read %s: %w", url, err)
		}
		return body, nil
	}
}
