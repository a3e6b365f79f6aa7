package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abelbrown/hackerstories/internal/story"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the Hacker News search API root.
const DefaultBaseURL = "https://hn.algolia.com/api/v1/"

const userAgent = "hackerstories/1.0 (+https://github.com/abelbrown/hackerstories)"

// searchResponse is the subset of the search API response we consume.
type searchResponse struct {
	Hits    []story.Story `json:"hits"`
	Page    int           `json:"page"`
	NbPages int           `json:"nbPages"`
}

// AlgoliaOptions configures the live source.
type AlgoliaOptions struct {
	BaseURL string
	Timeout time.Duration
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	Burst     int
}

// Algolia fetches stories from the Hacker News search API. The API is read
// only, so mutations are applied to the caller's collection locally.
type Algolia struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewAlgolia creates the live source.
func NewAlgolia(opts AlgoliaOptions) *Algolia {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Algolia{
		baseURL: base,
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: limiter,
	}
}

// Name implements Source.
func (a *Algolia) Name() string { return "live" }

// FetchPage implements Source.
func (a *Algolia) FetchPage(ctx context.Context, query string, page int) (Page, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return Page{}, &FetchError{Err: err}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	endpoint := a.baseURL + "search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Page{}, &FetchError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Page{}, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, &FetchError{Status: resp.StatusCode}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Page{}, &FetchError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if body.Hits == nil {
		body.Hits = []story.Story{}
	}

	return Page{Items: body.Hits, Page: body.Page, TotalPages: body.NbPages}, nil
}

// Delete implements Source.
func (a *Algolia) Delete(ctx context.Context, id int, current []story.Story) ([]story.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return remove(id, current)
}

// Edit implements Source.
func (a *Algolia) Edit(ctx context.Context, s story.Story, current []story.Story) ([]story.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return replace(s, current)
}

// Add implements Source.
func (a *Algolia) Add(ctx context.Context, s story.Story, current []story.Story) ([]story.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return appendNew(s, current)
}
