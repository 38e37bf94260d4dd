// Package sourcefetch pulls a contract's ABI from an Etherscan-style
// block explorer API. It is a downstream consumer of proxydetect, not a
// collaborator of it: cmd/harpoon calls it with the implementation
// address a Detect call already resolved.
package sourcefetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// ErrNotVerified is returned when the explorer has no ABI on file for
// the requested address — the contract exists but its source was never
// verified.
var ErrNotVerified = fmt.Errorf("sourcefetch: contract not verified")

// Fetcher fetches and caches ABI JSON blobs by contract address. The
// cache is an in-memory map scoped to the process lifetime; it belongs
// to this package, not to proxydetect, which caches nothing.
type Fetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client

	mu    sync.RWMutex
	cache map[string]string
}

// New returns a Fetcher against an Etherscan-compatible explorer API
// (baseURL should end in "/api", e.g. "https://api.etherscan.io/api").
func New(baseURL, apiKey string) *Fetcher {
	return &Fetcher{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  http.DefaultClient,
		cache:   make(map[string]string),
	}
}

type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// FetchABI returns the ABI JSON for address, serving from the
// in-memory cache on repeat lookups within the process lifetime.
func (f *Fetcher) FetchABI(address string) (string, error) {
	f.mu.RLock()
	if cached, ok := f.cache[address]; ok {
		f.mu.RUnlock()
		return cached, nil
	}
	f.mu.RUnlock()

	endpoint := fmt.Sprintf("%s?module=contract&action=getabi&address=%s&apikey=%s",
		f.baseURL, url.QueryEscape(address), url.QueryEscape(f.apiKey))

	resp, err := f.client.Get(endpoint)
	if err != nil {
		return "", fmt.Errorf("sourcefetch: request: %w", err)
	}
	defer resp.Body.Close()

	var out etherscanResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("sourcefetch: decode response: %w", err)
	}
	if out.Status != "1" {
		if out.Result == "Contract source code not verified" {
			return "", ErrNotVerified
		}
		return "", fmt.Errorf("sourcefetch: explorer error: %s", out.Message)
	}

	f.mu.Lock()
	f.cache[address] = out.Result
	f.mu.Unlock()

	return out.Result, nil
}
