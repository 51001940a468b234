package state

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/wingbeat/wingbeat/pkg/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "wingbeat.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndGetPrompt(t *testing.T) {
	db := openTestDB(t)

	rec := PromptRecord{
		ID:            "p1",
		Content:       "Test prompt",
		Status:        models.PromptSent,
		FragmentCount: 2,
		CreatedAt:     time.Now(),
	}
	if err := db.SavePrompt(rec); err != nil {
		t.Fatalf("SavePrompt failed: %v", err)
	}

	got, err := db.GetPrompt("p1")
	if err != nil {
		t.Fatalf("GetPrompt failed: %v", err)
	}
	if got.Content != "Test prompt" || got.Status != models.PromptSent || got.FragmentCount != 2 {
		t.Errorf("unexpected record: %+v", got)
	}
	if got.CompletedAt != nil {
		t.Error("fresh prompt should have no completion time")
	}
}

func TestGetPrompt_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetPrompt("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPrompt on unknown id = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	db := openTestDB(t)
	db.SavePrompt(PromptRecord{ID: "p1", Content: "x", Status: models.PromptSent, CreatedAt: time.Now()})

	if err := db.UpdateStatus("p1", models.PromptInWhirlwind); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	got, _ := db.GetPrompt("p1")
	if got.Status != models.PromptInWhirlwind {
		t.Errorf("status = %s, want %s", got.Status, models.PromptInWhirlwind)
	}

	if err := db.UpdateStatus("missing", models.PromptComplete); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateStatus on unknown id = %v, want ErrNotFound", err)
	}
}

func TestCompletePrompt_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wingbeat.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}

	db.SavePrompt(PromptRecord{ID: "p1", Content: "test prompt", Status: models.PromptSpinning, CreatedAt: time.Now()})
	if err := db.CompletePrompt("p1", "TEST PROMPT"); err != nil {
		t.Fatalf("CompletePrompt failed: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	got, err := db.GetPrompt("p1")
	if err != nil {
		t.Fatalf("GetPrompt after reopen failed: %v", err)
	}
	if got.Output != "TEST PROMPT" {
		t.Errorf("output = %q, want %q", got.Output, "TEST PROMPT")
	}
	if got.Status != models.PromptComplete {
		t.Errorf("status = %s, want %s", got.Status, models.PromptComplete)
	}
	if got.CompletedAt == nil {
		t.Error("completed prompt should record a completion time")
	}
}

func TestListPrompts_NewestFirst(t *testing.T) {
	db := openTestDB(t)

	base := time.Now()
	db.SavePrompt(PromptRecord{ID: "old", Content: "a", Status: models.PromptComplete, CreatedAt: base.Add(-time.Hour)})
	db.SavePrompt(PromptRecord{ID: "new", Content: "b", Status: models.PromptSent, CreatedAt: base})

	list, err := db.ListPrompts()
	if err != nil {
		t.Fatalf("ListPrompts failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("listed %d prompts, want 2", len(list))
	}
	if list[0].ID != "new" || list[1].ID != "old" {
		t.Errorf("prompts should list newest first, got %s, %s", list[0].ID, list[1].ID)
	}
}

func TestRemovePrompt(t *testing.T) {
	db := openTestDB(t)
	db.SavePrompt(PromptRecord{ID: "p1", Content: "x", Status: models.PromptComplete, CreatedAt: time.Now()})

	if err := db.RemovePrompt("p1"); err != nil {
		t.Fatalf("RemovePrompt failed: %v", err)
	}
	if _, err := db.GetPrompt("p1"); !errors.Is(err, ErrNotFound) {
		t.Error("removed prompt should be gone")
	}
	if err := db.RemovePrompt("p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("removing twice = %v, want ErrNotFound", err)
	}
}
