package filter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/cmdgate/internal/classify"
	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/pkg/logger"
	"github.com/doeshing/cmdgate/internal/policy"
	"github.com/doeshing/cmdgate/internal/sanitize"
)

func newTestFilter(t *testing.T) *Filter {
	t.Helper()
	s, err := sanitize.New(policy.DefaultDangerPatterns(), 0)
	if err != nil {
		t.Fatalf("sanitize.New error: %v", err)
	}
	c, err := classify.New(policy.DefaultCategoryRules(), policy.DefaultRiskRules())
	if err != nil {
		t.Fatalf("classify.New error: %v", err)
	}
	return New(s, c, logger.Nop{})
}

func TestExtractFencedBlock(t *testing.T) {
	f := newTestFilter(t)
	text := "Run these:\n```bash\ngit add .\n# a comment\nnpm install\n```\ndone"
	result := f.Process(text)
	want := []string{"git add .", "npm install"}
	if diff := cmp.Diff(want, result.ExtractedCommands); diff != "" {
		t.Fatalf("extraction mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPromptMarkers(t *testing.T) {
	f := newTestFilter(t)
	text := "First do\n$ git status\nthen\n> yarn install\nthat is all"
	result := f.Process(text)
	want := []string{"git status", "yarn install"}
	if diff := cmp.Diff(want, result.ExtractedCommands); diff != "" {
		t.Fatalf("extraction mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractBareCommandLines(t *testing.T) {
	f := newTestFilter(t)
	text := "git status\nThis sentence is prose.\nnpm install"
	result := f.Process(text)
	want := []string{"git status", "npm install"}
	if diff := cmp.Diff(want, result.ExtractedCommands); diff != "" {
		t.Fatalf("extraction mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractRecognizesThaiPrefixedCommand(t *testing.T) {
	f := newTestFilter(t)
	result := f.Process("แgit add .")
	if len(result.ExtractedCommands) != 1 {
		t.Fatalf("extracted = %v", result.ExtractedCommands)
	}
	if result.ExtractedCommands[0] != "แgit add ." {
		t.Fatalf("candidate = %q", result.ExtractedCommands[0])
	}
}

func TestExtractDeduplicates(t *testing.T) {
	f := newTestFilter(t)
	result := f.Process("git status\ngit status\n$ git status")
	if len(result.ExtractedCommands) != 1 {
		t.Fatalf("extracted = %v", result.ExtractedCommands)
	}
}

func TestPartitionSafeUnsafe(t *testing.T) {
	f := newTestFilter(t)
	result := f.Process("แgit add .\ngit status\nnpm install")

	if len(result.UnsafeCommands) != 1 {
		t.Fatalf("unsafe = %+v", result.UnsafeCommands)
	}
	if result.UnsafeCommands[0].Original != "แgit add ." {
		t.Fatalf("unsafe command = %q", result.UnsafeCommands[0].Original)
	}
	if result.UnsafeCommands[0].Sanitized != "git add ." {
		t.Fatalf("unsafe sanitized = %q", result.UnsafeCommands[0].Sanitized)
	}
	if len(result.UnsafeCommands[0].Issues) == 0 {
		t.Fatalf("unsafe command carries no issues")
	}

	if len(result.SafeCommands) != 2 {
		t.Fatalf("safe = %+v", result.SafeCommands)
	}
	for _, cmd := range result.SafeCommands {
		if len(cmd.Issues) != 0 {
			t.Fatalf("safe command %q carries issues %v", cmd.Original, cmd.Issues)
		}
	}
}

func TestDangerousCommandIsUnsafe(t *testing.T) {
	f := newTestFilter(t)
	result := f.Process("rm -rf /\nls -la")
	if len(result.UnsafeCommands) != 1 || result.UnsafeCommands[0].Original != "rm -rf /" {
		t.Fatalf("unsafe = %+v", result.UnsafeCommands)
	}
	if result.UnsafeCommands[0].RiskLevel != domain.RiskCritical {
		t.Fatalf("risk = %s", result.UnsafeCommands[0].RiskLevel)
	}
}

func TestStatisticsAccumulate(t *testing.T) {
	f := newTestFilter(t)
	f.Process("git status\nnpm install")
	f.Process("แgit add .")

	stats := f.Statistics()
	if stats.ResponsesProcessed != 2 {
		t.Fatalf("responses = %d", stats.ResponsesProcessed)
	}
	if stats.CommandsExtracted != 3 {
		t.Fatalf("extracted = %d", stats.CommandsExtracted)
	}
	if stats.SafeCommands != 2 || stats.UnsafeCommands != 1 {
		t.Fatalf("safe/unsafe = %d/%d", stats.SafeCommands, stats.UnsafeCommands)
	}
	if stats.ByCategory[domain.CategoryGit] != 2 {
		t.Fatalf("git category count = %d", stats.ByCategory[domain.CategoryGit])
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newTestFilter(t)
	f.Process("git status")
	f.Process("npm install\nyarn install")

	history := f.History(0)
	if len(history) != 2 {
		t.Fatalf("history = %+v", history)
	}
	if history[0].Extracted != 2 || history[1].Extracted != 1 {
		t.Fatalf("order wrong: %+v", history)
	}
}

func TestExportFormats(t *testing.T) {
	f := newTestFilter(t)
	f.Process("git status")

	jsonOut, err := f.Export("json")
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	if !strings.Contains(jsonOut, "proc-") {
		t.Fatalf("json export missing record: %s", jsonOut)
	}

	csvOut, err := f.Export("csv")
	if err != nil {
		t.Fatalf("csv export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csvOut), "\n")
	if lines[0] != "id,timestamp,responseLength,extracted,safe,unsafe" {
		t.Fatalf("csv header = %q", lines[0])
	}
	if len(lines) != 2 {
		t.Fatalf("csv rows = %d", len(lines)-1)
	}

	if _, err := f.Export("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestClearResetsState(t *testing.T) {
	f := newTestFilter(t)
	f.Process("git status")
	f.Clear()

	if len(f.History(0)) != 0 {
		t.Fatalf("history not cleared")
	}
	stats := f.Statistics()
	if stats.ResponsesProcessed != 0 || stats.CommandsExtracted != 0 {
		t.Fatalf("stats not cleared: %+v", stats)
	}
}
