package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	if err := validateURL("https://example.com/page"); err != nil {
		t.Fatalf("valid URL rejected: %v", err)
	}
	if err := validateURL("ftp://example.com"); err == nil {
		t.Fatal("expected scheme error for ftp")
	}
	if err := validateURL("https://"); err == nil {
		t.Fatal("expected error for missing domain")
	}
}

func TestDecodeSearchURL(t *testing.T) {
	got := decodeSearchURL("//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fpage&rut=abc")
	if got != "https://example.com/page" {
		t.Fatalf("redirect not unwrapped: %q", got)
	}
	// Plain URLs pass through.
	if got := decodeSearchURL("https://example.com"); got != "https://example.com" {
		t.Fatalf("plain URL mangled: %q", got)
	}
	// Scheme-relative URLs get https.
	if got := decodeSearchURL("//example.com/x"); got != "https://example.com/x" {
		t.Fatalf("scheme-relative URL mangled: %q", got)
	}
}

func TestStripHTMLTags(t *testing.T) {
	in := "<html><script>var x=1;</script><body><p>Hello   world</p></body></html>"
	got := stripHTMLTags(in)
	if got != "Hello world" {
		t.Fatalf("stripHTMLTags = %q", got)
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	in := `<h2>Title</h2><p>Some <a href="https://example.com">link</a> text.</p><ul><li>one</li><li>two</li></ul>`
	got := htmlToMarkdown(in)
	for _, want := range []string{"## Title", "[link](https://example.com)", "- one", "- two"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestHTTPRequestTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
		}
		fmt.Fprintf(w, "method=%s", r.Method)
	}))
	defer srv.Close()

	tool := NewHTTPRequestTool()

	out, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "200") || !strings.Contains(out, "method=GET") {
		t.Fatalf("unexpected GET output: %q", out)
	}

	out, err = tool.Execute(context.Background(), map[string]any{
		"url":    srv.URL,
		"method": "POST",
		"body":   `{"a":1}`,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "201") || !strings.Contains(out, "method=POST") {
		t.Fatalf("unexpected POST output: %q", out)
	}
}

func TestHTTPRequestToolRejectsBadURL(t *testing.T) {
	tool := NewHTTPRequestTool()
	out, err := tool.Execute(context.Background(), map[string]any{"url": "file:///etc/passwd"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.HasPrefix(out, "Error:") {
		t.Fatalf("expected in-band error, got %q", out)
	}
}

func TestWebFetchHTMLExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!doctype html><html><head><title>T</title></head>`+
			`<body><article><h1>Heading</h1><p>`+strings.Repeat("Interesting content. ", 40)+
			`</p></article></body></html>`)
	}))
	defer srv.Close()

	tool := NewWebFetchTool(0)
	out, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out, "Interesting content.") {
		t.Fatalf("expected extracted text, got %q", out)
	}
	if !strings.Contains(out, `"status": 200`) && !strings.Contains(out, `"status":200`) {
		t.Fatalf("expected status field, got %q", out)
	}
}
