package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const (
	webUserAgent     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36"
	maxRedirects     = 5
	httpResponseCap  = 5000
	defaultFetchSize = 50000
)

// validateURL checks that url is http(s) with a valid domain.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("only http/https allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing domain in URL")
	}
	return nil
}

// ---------------------------------------------------------------------------
// WebSearchTool
// ---------------------------------------------------------------------------

// WebSearchTool searches the web by scraping the DuckDuckGo HTML endpoint.
// No API key required.
type WebSearchTool struct {
	maxResults int
	httpClient *http.Client
}

// NewWebSearchTool creates a WebSearchTool. maxResults defaults to 5.
func NewWebSearchTool(maxResults int) *WebSearchTool {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &WebSearchTool{
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *WebSearchTool) Name() string { return "web_search" }
func (t *WebSearchTool) Description() string {
	return "Search the web. Returns titles, URLs, and snippets."
}
func (t *WebSearchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"query": {
				"type": "string",
				"description": "Search query"
			},
			"num_results": {
				"type": "integer",
				"description": "Results (1-10)",
				"minimum": 1,
				"maximum": 10
			}
		},
		"required": ["query"]
	}`)
}

var (
	reSearchResult  = regexp.MustCompile(`(?is)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>([\s\S]*?)</a>`)
	reSearchSnippet = regexp.MustCompile(`(?is)<a[^>]+class="result__snippet"[^>]*>([\s\S]*?)</a>`)
)

func (t *WebSearchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	query := stringParam(params, "query")
	if query == "" {
		return "Error: query is required", nil
	}
	n := intParam(params, "num_results", t.maxResults)
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://html.duckduckgo.com/html/", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Error: Search request failed: %v", err), nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error: Search returned HTTP %d", resp.StatusCode), nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	links := reSearchResult.FindAllStringSubmatch(string(body), n)
	snippets := reSearchSnippet.FindAllStringSubmatch(string(body), n)
	if len(links) == 0 {
		return fmt.Sprintf("No results for: %s", query), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Results for: %s\n\n", query))
	for i, m := range links {
		title := strings.TrimSpace(stripHTMLTags(m[2]))
		link := decodeSearchURL(m[1])
		sb.WriteString(fmt.Sprintf("%d. %s\n   %s", i+1, html.UnescapeString(title), link))
		if i < len(snippets) {
			snippet := strings.TrimSpace(stripHTMLTags(snippets[i][1]))
			if snippet != "" {
				sb.WriteString("\n   " + html.UnescapeString(snippet))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// decodeSearchURL unwraps DuckDuckGo's redirect links (//duckduckgo.com/l/?uddg=...).
func decodeSearchURL(raw string) string {
	u, err := url.Parse(html.UnescapeString(raw))
	if err != nil {
		return raw
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + u.String()
	}
	return u.String()
}

// ---------------------------------------------------------------------------
// HTTPRequestTool
// ---------------------------------------------------------------------------

// HTTPRequestTool performs a GET or POST request and returns status, headers,
// and a capped slice of the response body.
type HTTPRequestTool struct {
	httpClient *http.Client
}

func NewHTTPRequestTool() *HTTPRequestTool {
	return &HTTPRequestTool{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

func (t *HTTPRequestTool) Name() string { return "http_request" }
func (t *HTTPRequestTool) Description() string {
	return "Make an HTTP GET or POST request and return the response."
}
func (t *HTTPRequestTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {
				"type": "string",
				"description": "URL to request."
			},
			"method": {
				"type": "string",
				"description": "HTTP method: GET (default) or POST."
			},
			"body": {
				"type": "string",
				"description": "Request body for POST."
			},
			"content_type": {
				"type": "string",
				"description": "Content-Type header for POST (default: application/json)."
			}
		},
		"required": ["url"]
	}`)
}

func (t *HTTPRequestTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	rawURL := stringParam(params, "url")
	if rawURL == "" {
		return "Error: url is required", nil
	}
	if err := validateURL(rawURL); err != nil {
		return fmt.Sprintf("Error: URL validation failed: %v", err), nil
	}

	method := strings.ToUpper(stringParam(params, "method"))
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return fmt.Sprintf("Error: Unsupported method '%s'. Use GET or POST", method), nil
	}

	var bodyReader io.Reader
	if method == http.MethodPost {
		bodyReader = strings.NewReader(stringParam(params, "body"))
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	req.Header.Set("User-Agent", webUserAgent)
	if method == http.MethodPost {
		ctype := stringParam(params, "content_type")
		if ctype == "" {
			ctype = "application/json"
		}
		req.Header.Set("Content-Type", ctype)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Sprintf("Error: Request failed: %v", err), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, httpResponseCap+1))
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\nStatus: %s\nContent-Type: %s\n\n",
		method, rawURL, resp.Status, resp.Header.Get("Content-Type"))
	if len(body) > httpResponseCap {
		sb.Write(body[:httpResponseCap])
		fmt.Fprintf(&sb, "\n... (response truncated at %d characters)", httpResponseCap)
	} else {
		sb.Write(body)
	}
	return sb.String(), nil
}

// ---------------------------------------------------------------------------
// WebFetchTool
// ---------------------------------------------------------------------------

// WebFetchTool fetches a URL and extracts readable content.
type WebFetchTool struct {
	maxChars   int
	httpClient *http.Client
}

// NewWebFetchTool creates a WebFetchTool. maxChars defaults to 50000.
func NewWebFetchTool(maxChars int) *WebFetchTool {
	if maxChars <= 0 {
		maxChars = defaultFetchSize
	}
	client := &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return &WebFetchTool{maxChars: maxChars, httpClient: client}
}

func (t *WebFetchTool) Name() string { return "web_fetch" }
func (t *WebFetchTool) Description() string {
	return "Fetch URL and extract readable content (HTML → markdown/text)."
}
func (t *WebFetchTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"url": {
				"type": "string",
				"description": "URL to fetch"
			},
			"extract_mode": {
				"type": "string",
				"enum": ["markdown", "text"],
				"default": "markdown"
			},
			"max_chars": {
				"type": "integer",
				"minimum": 100
			}
		},
		"required": ["url"]
	}`)
}

func (t *WebFetchTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	rawURL := stringParam(params, "url")
	if rawURL == "" {
		return "Error: url is required", nil
	}
	if err := validateURL(rawURL); err != nil {
		result, _ := json.Marshal(map[string]any{
			"error": fmt.Sprintf("URL validation failed: %v", err),
			"url":   rawURL,
		})
		return string(result), nil
	}

	extractMode := stringParam(params, "extract_mode")
	if extractMode == "" {
		extractMode = "markdown"
	}
	maxChars := intParam(params, "max_chars", t.maxChars)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		out, _ := json.Marshal(map[string]any{"error": err.Error(), "url": rawURL})
		return string(out), nil
	}
	req.Header.Set("User-Agent", webUserAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		out, _ := json.Marshal(map[string]any{"error": err.Error(), "url": rawURL})
		return string(out), nil
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		out, _ := json.Marshal(map[string]any{"error": err.Error(), "url": rawURL})
		return string(out), nil
	}

	ctype := resp.Header.Get("Content-Type")
	finalURL := resp.Request.URL.String()

	var text, extractor string

	switch {
	case strings.Contains(ctype, "application/json"):
		var jsonData any
		if err := json.Unmarshal(bodyBytes, &jsonData); err == nil {
			formatted, _ := json.MarshalIndent(jsonData, "", "  ")
			text = string(formatted)
		} else {
			text = string(bodyBytes)
		}
		extractor = "json"

	case strings.Contains(ctype, "text/html") || isHTMLPrefix(bodyBytes):
		parsedURL, _ := url.Parse(rawURL)
		article, err := readability.FromReader(bytes.NewReader(bodyBytes), parsedURL)
		if err == nil {
			if extractMode == "markdown" {
				text = htmlToMarkdown(article.Content)
			} else {
				text = stripHTMLTags(article.Content)
			}
			if article.Title != "" {
				text = "# " + article.Title + "\n\n" + text
			}
		} else {
			// Fallback: just strip tags
			text = stripHTMLTags(string(bodyBytes))
		}
		extractor = "readability"

	default:
		text = string(bodyBytes)
		extractor = "raw"
	}

	truncated := len(text) > maxChars
	if truncated {
		text = text[:maxChars]
	}

	out, _ := json.Marshal(map[string]any{
		"url":       rawURL,
		"finalUrl":  finalURL,
		"status":    resp.StatusCode,
		"extractor": extractor,
		"truncated": truncated,
		"length":    len(text),
		"text":      text,
	})
	return string(out), nil
}

// isHTMLPrefix returns true if the body starts with an HTML declaration.
func isHTMLPrefix(b []byte) bool {
	prefix := strings.ToLower(strings.TrimSpace(string(b[:min(256, len(b))])))
	return strings.HasPrefix(prefix, "<!doctype") || strings.HasPrefix(prefix, "<html")
}

// ---------------------------------------------------------------------------
// HTML → text/markdown helpers
// ---------------------------------------------------------------------------

var (
	reScript    = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	reStyle     = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
	reTags      = regexp.MustCompile(`<[^>]+>`)
	reSpaces    = regexp.MustCompile(`[ \t]+`)
	reNewlines  = regexp.MustCompile(`\n{3,}`)
	reLinks     = regexp.MustCompile(`(?is)<a\s+[^>]*href=["']([^"']+)["'][^>]*>([\s\S]*?)</a>`)
	reHeadings  = regexp.MustCompile(`(?is)<h([1-6])[^>]*>([\s\S]*?)</h[1-6]>`)
	reListItems = regexp.MustCompile(`(?is)<li[^>]*>([\s\S]*?)</li>`)
	reBlockEnd  = regexp.MustCompile(`(?is)</(p|div|section|article)>`)
	reLineBreak = regexp.MustCompile(`(?is)<(br|hr)\s*/?>`)
)

// stripHTMLTags removes all HTML tags and normalizes whitespace.
func stripHTMLTags(text string) string {
	text = reScript.ReplaceAllString(text, "")
	text = reStyle.ReplaceAllString(text, "")
	text = reTags.ReplaceAllString(text, "")
	text = reSpaces.ReplaceAllString(text, " ")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// htmlToMarkdown converts HTML to a simple markdown representation.
func htmlToMarkdown(htmlText string) string {
	text := reLinks.ReplaceAllStringFunc(htmlText, func(m string) string {
		parts := reLinks.FindStringSubmatch(m)
		if len(parts) < 3 {
			return m
		}
		return fmt.Sprintf("[%s](%s)", stripHTMLTags(parts[2]), parts[1])
	})
	text = reHeadings.ReplaceAllStringFunc(text, func(m string) string {
		parts := reHeadings.FindStringSubmatch(m)
		if len(parts) < 3 {
			return m
		}
		hashes := strings.Repeat("#", int(parts[1][0]-'0'))
		return fmt.Sprintf("\n%s %s\n", hashes, stripHTMLTags(parts[2]))
	})
	text = reListItems.ReplaceAllStringFunc(text, func(m string) string {
		parts := reListItems.FindStringSubmatch(m)
		if len(parts) < 2 {
			return m
		}
		return "\n- " + stripHTMLTags(parts[1])
	})
	text = reBlockEnd.ReplaceAllString(text, "\n\n")
	text = reLineBreak.ReplaceAllString(text, "\n")
	return normalizeWhitespace(stripHTMLTags(text))
}

func normalizeWhitespace(text string) string {
	text = reSpaces.ReplaceAllString(text, " ")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
