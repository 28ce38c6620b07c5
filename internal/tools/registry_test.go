package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

type fakeTool struct {
	name string
}

func (f *fakeTool) Name() string                { return f.name }
func (f *fakeTool) Description() string         { return "fake tool " + f.name }
func (f *fakeTool) Parameters() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (f *fakeTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	return "ok", nil
}

func TestRegistryBuilder_Build(t *testing.T) {
	reg, err := NewRegistryBuilder().
		WithTool(&fakeTool{name: "alpha"}).
		WithTool(&fakeTool{name: "beta"}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 tools, got %d", reg.Len())
	}
	if reg.Get("alpha") == nil {
		t.Error("expected alpha to be registered")
	}
}

func TestRegistryBuilder_DuplicateName(t *testing.T) {
	_, err := NewRegistryBuilder().
		WithTool(&fakeTool{name: "alpha"}).
		WithTool(&fakeTool{name: "alpha"}).
		Build()
	if err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if !strings.Contains(err.Error(), "alpha") {
		t.Errorf("error should name the duplicate tool, got: %v", err)
	}
}

func TestRegistry_UnknownTool(t *testing.T) {
	reg, err := NewRegistryBuilder().WithTool(&fakeTool{name: "alpha"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := reg.Get("nope"); got != nil {
		t.Errorf("expected nil for unknown tool, got %v", got)
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg, err := NewRegistryBuilder().
		WithTool(&fakeTool{name: "zeta"}).
		WithTool(&fakeTool{name: "alpha"}).
		WithTool(&fakeTool{name: "mid"}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := reg.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestRegistry_Definitions(t *testing.T) {
	reg, err := NewRegistryBuilder().WithTool(&fakeTool{name: "alpha"}).Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defs := reg.Definitions()
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	fn, ok := defs[0]["function"].(map[string]any)
	if !ok {
		t.Fatalf("definition missing function block: %v", defs[0])
	}
	if fn["name"] != "alpha" {
		t.Errorf("expected name alpha, got %v", fn["name"])
	}
}

func TestBuildCatalogue(t *testing.T) {
	reg, err := BuildCatalogue(CatalogueOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No cron service wired, so schedule_task is absent.
	if reg.Get("schedule_task") != nil {
		t.Error("schedule_task should not be registered without a scheduler")
	}
	for _, name := range []string{"read_file", "git_status", "web_search", "execute_command", "read_yaml"} {
		if reg.Get(name) == nil {
			t.Errorf("expected %s to be registered", name)
		}
	}
	if reg.Len() != 45 {
		t.Errorf("expected 45 tools without scheduler, got %d", reg.Len())
	}
}
