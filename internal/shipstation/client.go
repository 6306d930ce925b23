package shipstation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Error taxonomy for fetch failures. Credential errors are permanent for a
// given call; rate-limit and network errors are surfaced only after bounded
// retries. None of these messages carry the API secret.
var (
	ErrNotConfigured      = errors.New("shipstation credentials not configured")
	ErrInvalidCredentials = errors.New("invalid shipstation api credentials")
	ErrRateLimited        = errors.New("shipstation rate limit reached after retries")
	ErrNetwork            = errors.New("network error fetching shipstation orders")
)

const (
	pageSize   = 100
	maxPages   = 50 // safety bound against runaway pagination
	maxRetries = 3
)

type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client

	// Delays are fields so tests can shrink them.
	pageDelay        time.Duration // between page requests (~40 req/min allowed)
	rateLimitBackoff time.Duration // doubled per 429 retry: 30s, 60s, 120s
	networkBackoff   time.Duration // multiplied linearly per network retry
}

func NewClient(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pageDelay:        1500 * time.Millisecond,
		rateLimitBackoff: 30 * time.Second,
		networkBackoff:   5 * time.Second,
	}
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiSecret != ""
}

// FetchOrders returns every order modified at or after the cutoff, paging
// through the remote API in modification-time-descending order. Pages are
// fetched sequentially with a fixed delay to respect the remote rate limit.
func (c *Client) FetchOrders(modifiedAfter time.Time) ([]Order, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var allOrders []Order
	page := 1

	log.Printf("shipstation: starting order fetch, modifiedAfter=%s", modifiedAfter.UTC().Format(time.RFC3339))

	for {
		result, err := c.fetchPage(page, modifiedAfter)
		if err != nil {
			return nil, err
		}

		allOrders = append(allOrders, result.Orders...)
		log.Printf("shipstation: fetched page %d/%d, ordersOnPage=%d, total=%d",
			page, result.Pages, len(result.Orders), len(allOrders))

		if page >= result.Pages || page >= maxPages {
			break
		}
		page++
		time.Sleep(c.pageDelay)
	}

	log.Printf("shipstation: completed order fetch, totalOrders=%d", len(allOrders))
	return allOrders, nil
}

// fetchPage requests a single page, retrying 429s with exponential backoff and
// transient network errors with linear backoff. A 401 fails immediately:
// retrying bad credentials will not succeed.
func (c *Client) fetchPage(page int, modifiedAfter time.Time) (*ordersPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("sortBy", "ModifyDate")
	params.Set("sortDir", "DESC")
	params.Set("modifyDateStart", modifiedAfter.UTC().Format(time.RFC3339))

	reqURL := c.baseURL + "/orders?" + params.Encode()

	var resp *http.Response
	rateLimitRetries := 0
	networkRetries := 0

	for {
		req, err := http.NewRequest("GET", reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.SetBasicAuth(c.apiKey, c.apiSecret)
		req.Header.Set("Content-Type", "application/json")

		resp, err = c.httpClient.Do(req)
		if err != nil {
			networkRetries++
			if networkRetries >= maxRetries {
				return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
			}
			log.Printf("shipstation: fetch error, retrying (attempt %d): %v", networkRetries, err)
			time.Sleep(c.networkBackoff * time.Duration(networkRetries))
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			rateLimitRetries++
			if rateLimitRetries >= maxRetries {
				return nil, ErrRateLimited
			}
			wait := c.rateLimitBackoff << (rateLimitRetries - 1)
			log.Printf("shipstation: rate limited, waiting %s before retry %d", wait, rateLimitRetries)
			time.Sleep(wait)
			continue
		}
		break
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		log.Printf("shipstation: authentication failed (status 401)")
		return nil, ErrInvalidCredentials
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("shipstation api error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result ordersPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode orders page: %w", err)
	}

	return &result, nil
}

// VerifyCredentials makes a lightweight call to the /stores endpoint. It is
// non-destructive and safe to call before sync operations.
func (c *Client) VerifyCredentials() *CredentialCheck {
	if !c.Configured() {
		return &CredentialCheck{
			Valid:     false,
			Error:     "Missing API credentials",
			ErrorCode: "missing_credentials",
		}
	}

	req, err := http.NewRequest("GET", c.baseURL+"/stores", nil)
	if err != nil {
		return &CredentialCheck{Valid: false, Error: err.Error(), ErrorCode: "network_error"}
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &CredentialCheck{Valid: false, Error: err.Error(), ErrorCode: "network_error"}
	}
	defer resp.Body.Close()

	remaining, _ := strconv.Atoi(resp.Header.Get("X-Rate-Limit-Remaining"))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &CredentialCheck{Valid: false, Error: "Invalid API credentials", ErrorCode: "invalid_credentials"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &CredentialCheck{Valid: false, Error: "Rate limit exceeded", ErrorCode: "rate_limited"}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return &CredentialCheck{
			Valid:     false,
			Error:     fmt.Sprintf("API error: %d %s", resp.StatusCode, truncate(string(body), 100)),
			ErrorCode: "api_error",
		}
	}

	var stores []Store
	if err := json.NewDecoder(resp.Body).Decode(&stores); err != nil {
		return &CredentialCheck{Valid: false, Error: fmt.Sprintf("failed to decode stores: %v", err), ErrorCode: "api_error"}
	}

	return &CredentialCheck{
		Valid:              true,
		RateLimitRemaining: remaining,
		Stores:             stores,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
