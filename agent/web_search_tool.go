package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"taskpilot/config"
)

const webSearchToolName = "web_search"

// noResultsSentinel is returned when a search yields nothing usable.
const noResultsSentinel = "No results found."

// Provider endpoints. Kept as defaults on the tool so tests can point the
// providers at local servers.
const (
	defaultTavilyURL     = "https://api.tavily.com/search"
	defaultDuckDuckGoURL = "https://html.duckduckgo.com/html"
)

// WebSearchTool searches the web and returns stitched text snippets.
// Providers: "tavily" (API key) and "duckduckgo" (keyless HTML results).
type WebSearchTool struct {
	provider      string
	apiKey        string
	maxResults    int
	client        *http.Client
	logger        func(string)
	tavilyURL     string
	duckduckgoURL string
}

// webSearchInput is the tool-call argument payload. "query" is accepted as
// an alias for "user_input".
type webSearchInput struct {
	UserInput  string `json:"user_input"`
	Query      string `json:"query,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

// NewWebSearchTool creates the search tool from the configuration.
func NewWebSearchTool(cfg config.Config, logger func(string)) *WebSearchTool {
	provider := cfg.Search.Provider
	if provider == "" {
		provider = "tavily"
	}
	maxResults := cfg.Search.MaxResults
	if maxResults <= 0 {
		maxResults = 2
	}
	return &WebSearchTool{
		provider:      provider,
		apiKey:        cfg.TavilyAPIKey,
		maxResults:    maxResults,
		client:        &http.Client{Timeout: 30 * time.Second},
		logger:        logger,
		tavilyURL:     defaultTavilyURL,
		duckduckgoURL: defaultDuckDuckGoURL,
	}
}

func (t *WebSearchTool) log(msg string) {
	if t.logger != nil {
		t.logger(msg)
	}
}

// Info returns tool information for the LLM.
func (t *WebSearchTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: webSearchToolName,
		Desc: "Search the web and return stitched text content from the top results. " +
			"Use for current facts, statistics, and news that the conversation does not already contain.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"user_input": {
				Type:     schema.String,
				Desc:     "Search query keywords (be specific for better results)",
				Required: true,
			},
			"max_results": {
				Type:     schema.Number,
				Desc:     "Maximum number of results to return",
				Required: false,
			},
		}),
	}, nil
}

// InvokableRun executes the search and returns snippets joined with blank
// lines, or the no-results sentinel.
func (t *WebSearchTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	var input webSearchInput
	if err := json.Unmarshal([]byte(argumentsInJSON), &input); err != nil {
		return "", fmt.Errorf("failed to parse input: %w", err)
	}

	query := input.UserInput
	if query == "" {
		query = input.Query
	}
	if query == "" {
		return "", fmt.Errorf("user_input is required")
	}

	maxResults := input.MaxResults
	if maxResults <= 0 {
		maxResults = t.maxResults
	}

	t.log(fmt.Sprintf("[WEB-SEARCH] Searching with %s: %s (max: %d results)", t.provider, query, maxResults))

	var snippets []string
	var err error
	switch t.provider {
	case "duckduckgo":
		snippets, err = t.searchDuckDuckGo(ctx, query, maxResults)
	case "tavily":
		snippets, err = t.searchTavily(ctx, query, maxResults)
	default:
		return "", fmt.Errorf("unsupported search provider: %s", t.provider)
	}
	if err != nil {
		t.log(fmt.Sprintf("[WEB-SEARCH] Search failed: %v", err))
		return "", fmt.Errorf("search failed: %w", err)
	}

	t.log(fmt.Sprintf("[WEB-SEARCH] Found %d snippets", len(snippets)))
	if len(snippets) == 0 {
		return noResultsSentinel, nil
	}
	return strings.Join(snippets, "\n\n"), nil
}

// searchTavily queries the Tavily search API.
func (t *WebSearchTool) searchTavily(ctx context.Context, query string, maxResults int) ([]string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"api_key":     t.apiKey,
		"query":       query,
		"max_results": maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tavilyURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var tavilyResp struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &tavilyResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var snippets []string
	for _, r := range tavilyResp.Results {
		if r.Content == "" {
			continue
		}
		snippets = append(snippets, r.Content)
		if len(snippets) >= maxResults {
			break
		}
	}
	return snippets, nil
}

// searchDuckDuckGo scrapes the keyless DuckDuckGo HTML results page.
func (t *WebSearchTool) searchDuckDuckGo(ctx context.Context, query string, maxResults int) ([]string, error) {
	searchURL := t.duckduckgoURL + "/?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "taskpilot/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var snippets []string
	doc.Find(".result").Each(func(i int, s *goquery.Selection) {
		if len(snippets) >= maxResults {
			return
		}
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())
		if snippet != "" {
			snippets = append(snippets, snippet)
		}
	})
	return snippets, nil
}
