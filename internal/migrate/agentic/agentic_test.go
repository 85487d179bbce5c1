package agentic

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mongrate/internal/analyzer"
	"mongrate/internal/llm"
)

// stubClient dispatches on the request contents.
type stubClient struct {
	generate func(messages []llm.Message) (string, error)
}

func (c *stubClient) Generate(_ context.Context, messages []llm.Message) (string, error) {
	return c.generate(messages)
}

func isSpeakerSelection(messages []llm.Message) bool {
	return strings.Contains(messages[1].Content, "who should speak next?")
}

func TestManagerRunTerminates(t *testing.T) {
	var speakers []string
	client := &stubClient{generate: func(messages []llm.Message) (string, error) {
		if isSpeakerSelection(messages) {
			if len(speakers) == 0 {
				return "CodeAnalyzer", nil
			}
			return "SchemaDesigner", nil
		}
		if strings.Contains(messages[1].Content, "Respond as CodeAnalyzer") {
			speakers = append(speakers, "CodeAnalyzer")
			return "analysis done", nil
		}
		speakers = append(speakers, "SchemaDesigner")
		return "schemas designed TERMINATE", nil
	}}

	agents := []*Agent{
		NewAgent(client, "CodeAnalyzer", "analyze"),
		NewAgent(client, "SchemaDesigner", "design"),
	}

	transcript, err := NewManager(client, agents).Run(context.Background(), "migrate the app")
	if err != nil {
		t.Fatal(err)
	}

	if len(speakers) != 2 {
		t.Fatalf("speakers = %v", speakers)
	}
	if len(transcript) != 3 {
		t.Fatalf("transcript = %+v", transcript)
	}
	if transcript[0].Speaker != "Manager" || transcript[0].Content != "migrate the app" {
		t.Errorf("task message = %+v", transcript[0])
	}
	last := transcript[2]
	if last.Speaker != "SchemaDesigner" {
		t.Errorf("last speaker = %q", last.Speaker)
	}
	if strings.Contains(last.Content, TerminateMarker) {
		t.Errorf("terminate marker not stripped: %q", last.Content)
	}
}

func TestManagerRunToolRunsOnce(t *testing.T) {
	toolRuns := 0
	rounds := 0
	client := &stubClient{generate: func(messages []llm.Message) (string, error) {
		if isSpeakerSelection(messages) {
			return "CodeAnalyzer", nil
		}
		rounds++
		if rounds >= 3 {
			return "TERMINATE", nil
		}
		return "still analyzing", nil
	}}

	agent := NewAgent(client, "CodeAnalyzer", "analyze").WithTool(&Tool{
		Name:        "analyze_codebase",
		Description: "analyzes the codebase",
		Run: func(context.Context) (string, error) {
			toolRuns++
			return "summary", nil
		},
	})

	transcript, err := NewManager(client, []*Agent{agent}).Run(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}

	if toolRuns != 1 {
		t.Errorf("tool runs = %d, want 1", toolRuns)
	}

	var toolMessages int
	for _, m := range transcript {
		if m.Role == "tool" {
			toolMessages++
		}
	}
	if toolMessages != 1 {
		t.Errorf("tool messages = %d, want 1", toolMessages)
	}
}

func TestManagerSelectSpeakerFallback(t *testing.T) {
	rounds := 0
	client := &stubClient{generate: func(messages []llm.Message) (string, error) {
		if isSpeakerSelection(messages) {
			return "nobody in particular", nil
		}
		rounds++
		if rounds == 2 {
			return "TERMINATE", nil
		}
		return "working", nil
	}}

	agents := []*Agent{
		NewAgent(client, "First", "a"),
		NewAgent(client, "Second", "b"),
	}

	transcript, err := NewManager(client, agents).Run(context.Background(), "go")
	if err != nil {
		t.Fatal(err)
	}

	// Fallback is round-robin: First speaks, then Second terminates.
	if len(transcript) != 2 || transcript[1].Speaker != "First" {
		t.Errorf("transcript = %+v", transcript)
	}
}

func TestManagerRunRoundLimit(t *testing.T) {
	replies := 0
	client := &stubClient{generate: func(messages []llm.Message) (string, error) {
		if isSpeakerSelection(messages) {
			return "Only", nil
		}
		replies++
		return "never done", nil
	}}

	m := NewManager(client, []*Agent{NewAgent(client, "Only", "x")})
	m.MaxRounds = 3

	if _, err := m.Run(context.Background(), "go"); err != nil {
		t.Fatal(err)
	}
	if replies != 3 {
		t.Errorf("replies = %d, want 3", replies)
	}
}

func TestSystemRun(t *testing.T) {
	root := t.TempDir()
	entity := filepath.Join(root, "Customer.java")
	if err := os.WriteFile(entity, []byte("@Entity\npublic class Customer {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	client := &stubClient{generate: func(messages []llm.Message) (string, error) {
		switch {
		case isSpeakerSelection(messages):
			return "CodeAnalyzer", nil
		case strings.Contains(messages[1].Content, "comprehensive migration report"):
			return "# Migration Report", nil
		default:
			return "analysis complete TERMINATE", nil
		}
	}}

	outputDir := filepath.Join(t.TempDir(), "migration-output")
	system := NewSystem(client, analyzer.New(analyzer.Config{}), outputDir)
	system.now = func() time.Time { return time.Date(2026, 3, 1, 12, 30, 45, 0, time.UTC) }

	result, err := system.Run(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	if result.Report != "# Migration Report" {
		t.Errorf("report = %q", result.Report)
	}

	wantReport := filepath.Join(outputDir, "migration_report_20260301_123045.md")
	if result.ReportPath != wantReport {
		t.Errorf("report path = %q, want %q", result.ReportPath, wantReport)
	}
	if _, err := os.Stat(wantReport); err != nil {
		t.Errorf("report file: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "migration_context_20260301_123045.json"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"speaker": "CodeAnalyzer"`) {
		t.Errorf("transcript missing tool speaker: %s", out)
	}
	if !strings.Contains(out, "Customer") {
		t.Errorf("transcript missing analyzed entity: %s", out)
	}
}

func TestSystemRunAnalyzerToolFailure(t *testing.T) {
	client := &stubClient{generate: func(messages []llm.Message) (string, error) {
		if isSpeakerSelection(messages) {
			return "CodeAnalyzer", nil
		}
		return "TERMINATE", nil
	}}

	system := NewSystem(client, analyzer.New(analyzer.Config{}), t.TempDir())
	if _, err := system.Run(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing repository")
	}
}
