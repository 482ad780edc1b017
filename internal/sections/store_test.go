// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sections

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

const testContent = "This invention relates to distributed caching systems in general.\n\n" +
	"Conventional caches suffer from stale reads under concurrent writes."

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.StoreConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func saveStage(t *testing.T, store *Store, stage types.Stage, content string) int64 {
	t.Helper()
	id, err := store.SaveSection(context.Background(),
		types.StageSection(stage), "Test Title", "test query", content, false, StageNumbering(stage))
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testStore(t)

	tables := []string{"sections", "paragraphs", "section_current", "claims", "title_of_invention"}
	for _, table := range tables {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	dataDir := t.TempDir()
	store, err := NewStore(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	path := DatabasePath(types.StoreConfig{DataDir: dataDir})
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", path)
	}
}

// --- section tests ---

func TestSaveAndGetSection(t *testing.T) {
	store := testStore(t)

	id := saveStage(t, store, types.StageBackground, testContent)

	section, err := store.GetSection(context.Background(), types.StageSection(types.StageBackground))
	if err != nil {
		t.Fatal(err)
	}
	if section == nil {
		t.Fatal("GetSection returned nil for saved section")
	}
	if section.ID != id {
		t.Errorf("ID = %d, want %d", section.ID, id)
	}
	if section.Title != "Test Title" {
		t.Errorf("Title = %q, want %q", section.Title, "Test Title")
	}
	if section.Query != "test query" {
		t.Errorf("Query = %q, want %q", section.Query, "test query")
	}
	if section.Skipped {
		t.Error("Skipped = true, want false")
	}
	if len(section.Paragraphs) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(section.Paragraphs))
	}
	if section.Paragraphs[0].Number != "[1]" {
		t.Errorf("first paragraph number = %q, want [1]", section.Paragraphs[0].Number)
	}
	if section.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestGetSectionReturnsNilWhenUnsaved(t *testing.T) {
	store := testStore(t)

	section, err := store.GetSection(context.Background(), types.StageSection(types.StageSummary))
	if err != nil {
		t.Fatal(err)
	}
	if section != nil {
		t.Errorf("GetSection = %+v, want nil", section)
	}
}

func TestResaveMovesCurrentPointer(t *testing.T) {
	store := testStore(t)

	saveStage(t, store, types.StageBackground, testContent)
	second := saveStage(t, store, types.StageBackground,
		"A revised background paragraph that replaces the first version entirely.")

	section, err := store.GetSection(context.Background(), types.StageSection(types.StageBackground))
	if err != nil {
		t.Fatal(err)
	}
	if section.ID != second {
		t.Errorf("current section ID = %d, want %d", section.ID, second)
	}
	if !strings.Contains(section.Paragraphs[0].Text, "revised") {
		t.Errorf("current content is not the latest: %q", section.Paragraphs[0].Text)
	}
}

func TestSkippedSectionHasNoParagraphs(t *testing.T) {
	store := testStore(t)

	_, err := store.SaveSection(context.Background(),
		types.StageSection(types.StageSummary), "Test Title", "", testContent, true, NumberingSectionReset)
	if err != nil {
		t.Fatal(err)
	}

	section, err := store.GetSection(context.Background(), types.StageSection(types.StageSummary))
	if err != nil {
		t.Fatal(err)
	}
	if !section.Skipped {
		t.Error("Skipped = false, want true")
	}
	if len(section.Paragraphs) != 0 {
		t.Errorf("skipped section has %d paragraphs, want 0", len(section.Paragraphs))
	}
}

func TestDrawingsUsesPatentGlobalNumbering(t *testing.T) {
	store := testStore(t)

	saveStage(t, store, types.StageDrawings, testContent)

	section, err := store.GetSection(context.Background(), types.StageSection(types.StageDrawings))
	if err != nil {
		t.Fatal(err)
	}
	if section.Paragraphs[0].Number != "[0006]" {
		t.Errorf("first drawings paragraph number = %q, want [0006]", section.Paragraphs[0].Number)
	}
}

func TestDynamicSectionRoundTrip(t *testing.T) {
	store := testStore(t)

	typ := types.DynamicSection("enablement", "C1F1")
	_, err := store.SaveSection(context.Background(), typ, "Test Title", "",
		"The processing unit validates each request before admission to the queue.",
		false, NumberingSectionReset)
	if err != nil {
		t.Fatal(err)
	}

	section, err := store.GetSection(context.Background(), typ)
	if err != nil {
		t.Fatal(err)
	}
	if section == nil {
		t.Fatal("dynamic section not found")
	}
	if section.Type.Tag() != "enablement:C1F1" {
		t.Errorf("Tag = %q, want enablement:C1F1", section.Type.Tag())
	}

	// A different key is a different record.
	other, err := store.GetSection(context.Background(), types.DynamicSection("enablement", "C1F2"))
	if err != nil {
		t.Fatal(err)
	}
	if other != nil {
		t.Errorf("unexpected section for different key: %+v", other)
	}
}

func TestSectionHistory(t *testing.T) {
	store := testStore(t)

	first := saveStage(t, store, types.StageBackground, testContent)
	second := saveStage(t, store, types.StageBackground, testContent)
	third := saveStage(t, store, types.StageBackground, testContent)

	history, err := store.SectionHistory(context.Background(), types.StageSection(types.StageBackground))
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 {
		t.Fatalf("got %d versions, want 3", len(history))
	}
	if history[0].ID != third || history[2].ID != first {
		t.Errorf("history order = [%d %d %d], want newest first [%d %d %d]",
			history[0].ID, history[1].ID, history[2].ID, third, second, first)
	}
}

func TestSaveSectionFailureKeepsPrevious(t *testing.T) {
	cfg := types.StoreConfig{DataDir: t.TempDir()}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}

	first, err := store.SaveSection(context.Background(),
		types.StageSection(types.StageBackground), "t", "", testContent, false, NumberingSectionReset)
	if err != nil {
		t.Fatal(err)
	}

	// Close the underlying handle so the next write fails mid-flight.
	store.db.Close()

	_, err = store.SaveSection(context.Background(),
		types.StageSection(types.StageBackground), "t", "", testContent, false, NumberingSectionReset)
	if err == nil {
		t.Fatal("expected error from closed store")
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Errorf("error type = %T, want *PersistenceError", err)
	}

	// Reopen the same file and confirm the first snapshot is intact.
	reopened, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	section, err := reopened.GetSection(context.Background(), types.StageSection(types.StageBackground))
	if err != nil {
		t.Fatal(err)
	}
	if section == nil || section.ID != first {
		t.Errorf("previous snapshot lost after failed write")
	}
}

// --- claims tests ---

func TestSaveAndReadClaims(t *testing.T) {
	store := testStore(t)

	claimList := []types.Claim{
		{Number: 1, Text: "1. A system, comprising: a processor configured to cache entries."},
		{Number: 2, Text: "2. The system of claim 1, further comprising: an eviction policy."},
	}
	if err := store.SaveClaims(context.Background(), claimList, "claims.txt"); err != nil {
		t.Fatal(err)
	}

	got, err := store.Claims(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d claims, want 2", len(got))
	}
	if got[0].Number != 1 || got[1].Number != 2 {
		t.Errorf("claims out of order: %v", got)
	}
	if got[0].Text != claimList[0].Text {
		t.Errorf("claim text not stored verbatim: %q", got[0].Text)
	}
}

func TestSaveClaimsReplacesPreviousSet(t *testing.T) {
	store := testStore(t)

	old := []types.Claim{{Number: 1, Text: "old claim"}, {Number: 2, Text: "old claim two"}}
	if err := store.SaveClaims(context.Background(), old, "v1.txt"); err != nil {
		t.Fatal(err)
	}
	replacement := []types.Claim{{Number: 1, Text: "new claim"}}
	if err := store.SaveClaims(context.Background(), replacement, "v2.txt"); err != nil {
		t.Fatal(err)
	}

	got, err := store.Claims(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d claims, want 1", len(got))
	}
	if got[0].Text != "new claim" {
		t.Errorf("claim text = %q, want %q", got[0].Text, "new claim")
	}
}

func TestIndependentClaim(t *testing.T) {
	store := testStore(t)

	if text, err := store.IndependentClaim(context.Background()); err != nil || text != "" {
		t.Errorf("IndependentClaim on empty store = (%q, %v), want (\"\", nil)", text, err)
	}

	claimList := []types.Claim{
		{Number: 1, Text: "independent"},
		{Number: 2, Text: "dependent"},
	}
	if err := store.SaveClaims(context.Background(), claimList, ""); err != nil {
		t.Fatal(err)
	}
	text, err := store.IndependentClaim(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if text != "independent" {
		t.Errorf("IndependentClaim = %q, want %q", text, "independent")
	}
}

func TestSaveAndReadTitle(t *testing.T) {
	store := testStore(t)

	if title, err := store.Title(context.Background()); err != nil || title != "" {
		t.Errorf("Title on empty store = (%q, %v), want (\"\", nil)", title, err)
	}

	if err := store.SaveTitle(context.Background(), "DISTRIBUTED CACHE COHERENCE", "doc.txt"); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveTitle(context.Background(), "IMPROVED CACHE COHERENCE", "doc2.txt"); err != nil {
		t.Fatal(err)
	}

	title, err := store.Title(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if title != "IMPROVED CACHE COHERENCE" {
		t.Errorf("Title = %q, want the replacement", title)
	}
}

// --- export tests ---

func TestExportText(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.SaveTitle(ctx, "DISTRIBUTED CACHE COHERENCE", ""); err != nil {
		t.Fatal(err)
	}
	saveStage(t, store, types.StageBackground, testContent)
	if _, err := store.SaveSection(ctx, types.StageSection(types.StageSummary),
		"", "", "", true, NumberingSectionReset); err != nil {
		t.Fatal(err)
	}

	var buf strings.Builder
	if err := store.ExportText(ctx, &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"DISTRIBUTED CACHE COHERENCE",
		"BACKGROUND",
		"SUMMARY",
		"(SKIPPED - No content generated)",
		"[1] ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export text missing %q", want)
		}
	}
}

func TestExportYAMLRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.SaveTitle(ctx, "DISTRIBUTED CACHE COHERENCE", ""); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveClaims(ctx, []types.Claim{{Number: 1, Text: "a claim"}}, ""); err != nil {
		t.Fatal(err)
	}
	saveStage(t, store, types.StageBackground, testContent)

	var buf strings.Builder
	if err := store.ExportYAML(ctx, &buf); err != nil {
		t.Fatal(err)
	}

	var doc ExportDocument
	if err := yaml.Unmarshal([]byte(buf.String()), &doc); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	if doc.Title != "DISTRIBUTED CACHE COHERENCE" {
		t.Errorf("Title = %q", doc.Title)
	}
	if len(doc.Claims) != 1 {
		t.Errorf("got %d claims, want 1", len(doc.Claims))
	}
	if len(doc.Sections) != 1 {
		t.Errorf("got %d sections, want 1", len(doc.Sections))
	}
}

func TestExportOrdersSectionsByStage(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	// Save out of pipeline order; export must follow stage order anyway.
	saveStage(t, store, types.StageTechnicalProblems, testContent)
	saveStage(t, store, types.StageBackground, testContent)

	doc, err := store.Export(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(doc.Sections))
	}
	if doc.Sections[0].Type.Stage != types.StageBackground {
		t.Errorf("first exported stage = %s, want background", doc.Sections[0].Type.Stage)
	}
}
