package llm

import "testing"

func TestParseRoute(t *testing.T) {
	route, err := parseRoute("openai:gpt-4o")
	if err != nil {
		t.Fatalf("parseRoute: %v", err)
	}
	if route.Provider != "openai" || route.Model != "gpt-4o" {
		t.Fatalf("got %+v", route)
	}

	route, err = parseRoute("gemini")
	if err != nil {
		t.Fatalf("parseRoute: %v", err)
	}
	if route.Provider != "gemini" || route.Model != "" {
		t.Fatalf("got %+v", route)
	}

	if _, err := parseRoute(":model-only"); err == nil {
		t.Fatalf("want error for empty provider")
	}
}

func TestConfigResolve(t *testing.T) {
	cfg := Config{
		DefaultProvider: "gemini",
		Routes: map[Step]Route{
			StepGeneration: {Provider: "openai", Model: "gpt-4o"},
		},
	}

	route := cfg.Resolve(StepGeneration, "", "")
	if route.Provider != "openai" || route.Model != "gpt-4o" {
		t.Fatalf("configured route = %+v", route)
	}

	// Unrouted step falls back to the default provider.
	route = cfg.Resolve(StepGrading, "", "")
	if route.Provider != "gemini" || route.Model != "" {
		t.Fatalf("default route = %+v", route)
	}

	// A provider override without a model drops the configured model.
	route = cfg.Resolve(StepGeneration, "gemini", "")
	if route.Provider != "gemini" || route.Model != "" {
		t.Fatalf("override route = %+v", route)
	}

	route = cfg.Resolve(StepGeneration, "", "gpt-4o-mini")
	if route.Provider != "openai" || route.Model != "gpt-4o-mini" {
		t.Fatalf("model override route = %+v", route)
	}
}
