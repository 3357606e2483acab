package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/Ollennjj/stoa-api/pkg/logger_i"
)

type snapshot struct {
	text      string
	fetchedAt time.Time
}

// TemplateCache holds the remotely managed persona template. The
// template is fetched lazily, kept for the TTL and refreshed on the
// next access after expiry. Concurrent refreshes race benignly:
// last writer wins, readers always see a whole snapshot.
type TemplateCache struct {
	url    string
	ttl    time.Duration
	client *http.Client
	logger *logger_i.Logger
	last   atomic.Pointer[snapshot]
	now    func() time.Time
}

func NewTemplateCache(url string, ttl time.Duration, client *http.Client) *TemplateCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &TemplateCache{
		url:    url,
		ttl:    ttl,
		client: client,
		logger: logger_i.NewLogger("PromptCache"),
		now:    time.Now,
	}
}

// Get returns the cached template, refetching when empty or expired.
// A failing fetch is logged and the previous value returned; with no
// previous value the empty string tells the caller to use its built-in
// static template. Fetch failures never propagate.
func (c *TemplateCache) Get(ctx context.Context) string {
	if cached := c.last.Load(); cached != nil && c.now().Sub(cached.fetchedAt) <= c.ttl {
		c.logger.Debug("Serving cached persona template")
		return cached.text
	}

	text, err := c.fetch(ctx)
	if err != nil {
		c.logger.Error("Error fetching persona template", "error", err)
		if cached := c.last.Load(); cached != nil {
			return cached.text
		}
		return ""
	}

	c.last.Store(&snapshot{text: text, fetchedAt: c.now()})
	c.logger.Debug("Fetched persona template")
	return text
}

func (c *TemplateCache) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("prompt service returned status %d", resp.StatusCode)
	}

	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Prompt, nil
}
