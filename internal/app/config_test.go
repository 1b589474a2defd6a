package app

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("EVENT_DISPATCH_MODE", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("TEMPORAL_ADDRESS", "")
	t.Setenv("GOOGLE_PROJECT_ID", "jb-test")
	t.Setenv("NEXT_PUBLIC_FREE_TIER_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DispatchMode != DispatchInline {
		t.Fatalf("dispatch=%q", cfg.DispatchMode)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("llm=%q", cfg.LLMProvider)
	}
	if !cfg.Public.FreeTierEnabled || cfg.Public.FirebaseProjectID != "jb-test" {
		t.Fatalf("public config=%+v", cfg.Public)
	}
	if !cfg.runsPipelineInAPI() {
		t.Fatalf("inline dispatch runs the pipeline in the API")
	}
}

func TestLoadConfigRejectsBadModes(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown dispatch", map[string]string{"EVENT_DISPATCH_MODE": "kafka"}},
		{"temporal without address", map[string]string{"EVENT_DISPATCH_MODE": "temporal", "TEMPORAL_ADDRESS": ""}},
		{"unknown llm", map[string]string{"LLM_PROVIDER": "llama"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("EVENT_DISPATCH_MODE", "")
			t.Setenv("LLM_PROVIDER", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestRunsPipelineInAPI(t *testing.T) {
	cases := []struct {
		mode    DispatchMode
		consume bool
		want    bool
	}{
		{DispatchInline, false, true},
		{DispatchMemory, false, true},
		{DispatchRedis, true, true},
		{DispatchRedis, false, false},
		{DispatchTemporal, true, false},
	}
	for _, tc := range cases {
		cfg := Config{DispatchMode: tc.mode, ConsumeInAPI: tc.consume}
		if got := cfg.runsPipelineInAPI(); got != tc.want {
			t.Fatalf("%s consume=%v: got %v want %v", tc.mode, tc.consume, got, tc.want)
		}
	}
}
