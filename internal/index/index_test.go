package index

import (
	"context"
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "othala-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes`).Scan(&count); err != nil {
		t.Fatalf("notes table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM links`).Scan(&count); err != nil {
		t.Fatalf("links table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		Path:      "hello.md",
		Title:     "Hello World",
		Checksum:  "abc123",
		Tags:      []string{"go", "test"},
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertNote(row, "This is a hello world note.", []string{"other.md"}); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	cs, err := db.GetChecksum("hello.md")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestBacklinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "a.md", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"b.md"})
	_ = db.UpsertNote(NoteRow{Path: "c.md", Checksum: "2", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"b.md"})

	bl, err := db.Backlinks("b.md")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(bl) != 2 {
		t.Fatalf("expected 2 backlinks, got %d", len(bl))
	}
}

func TestDeleteNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "del.md", Checksum: "x", Tags: []string{}, UpdatedAt: time.Now()}, "body", []string{"target.md"})

	if err := db.DeleteNote("del.md"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	cs, _ := db.GetChecksum("del.md")
	if cs != "" {
		t.Errorf("deleted note still has checksum %q", cs)
	}
	bl, _ := db.Backlinks("target.md")
	if len(bl) != 0 {
		t.Errorf("expected 0 backlinks after delete, got %d", len(bl))
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "Old", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "old body", []string{"x.md"})
	_ = db.UpsertNote(NoteRow{Path: "up.md", Title: "New", Checksum: "2", Tags: []string{"new"}, UpdatedAt: now}, "new body", []string{"y.md"})

	cs, _ := db.GetChecksum("up.md")
	if cs != "2" {
		t.Errorf("checksum = %q, want %q", cs, "2")
	}
	bl, _ := db.Backlinks("x.md")
	if len(bl) != 0 {
		t.Error("old link should be removed on upsert")
	}
	bl, _ = db.Backlinks("y.md")
	if len(bl) != 1 {
		t.Error("new link should exist")
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestGetNote(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "g.md", Title: "Gettable", Checksum: "c", Tags: []string{"one"}, UpdatedAt: time.Now()}, "body", nil)

	row, err := db.GetNote("g.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if row.Title != "Gettable" || len(row.Tags) != 1 || row.Tags[0] != "one" {
		t.Errorf("row = %+v", row)
	}

	if _, err := db.GetNote("ghost.md"); err == nil {
		t.Error("expected error for missing note")
	}
}

func TestListNotes(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "b.md", Title: "Beta", Checksum: "1", Tags: []string{"x"}, UpdatedAt: now}, "", nil)
	_ = db.UpsertNote(NoteRow{Path: "a.md", Title: "Alpha", Checksum: "2", Tags: []string{"y"}, UpdatedAt: now.Add(time.Second)}, "", nil)

	rows, total, err := db.ListNotes(10, 0, "", "path")
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("total = %d, rows = %d", total, len(rows))
	}
	if rows[0].Path != "a.md" {
		t.Errorf("sort by path: first = %q", rows[0].Path)
	}

	// Tag filter.
	rows, total, err = db.ListNotes(10, 0, "x", "")
	if err != nil {
		t.Fatalf("ListNotes tag: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Path != "b.md" {
		t.Errorf("tag filter rows = %+v, total = %d", rows, total)
	}

	// Unknown sort falls back to updated_at DESC.
	rows, _, err = db.ListNotes(10, 0, "", "bogus")
	if err != nil {
		t.Fatalf("ListNotes bogus sort: %v", err)
	}
	if rows[0].Path != "a.md" {
		t.Errorf("updated_at sort: first = %q", rows[0].Path)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "a.md", Checksum: "ca", Tags: []string{}, UpdatedAt: time.Now()}, "", nil)
	_ = db.UpsertNote(NoteRow{Path: "b.md", Checksum: "cb", Tags: []string{}, UpdatedAt: time.Now()}, "", nil)

	all, err := db.AllChecksums()
	if err != nil {
		t.Fatalf("AllChecksums: %v", err)
	}
	if len(all) != 2 || all["a.md"] != "ca" || all["b.md"] != "cb" {
		t.Errorf("checksums = %v", all)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "s.md", Title: "Search Me", Checksum: "1", Tags: []string{}, UpdatedAt: time.Now()}, "uniqueword appears here", nil)

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.md" {
		t.Errorf("search results = %+v, want 1 hit for s.md", results)
	}
}

func TestFetchNotes(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "a.md", Title: "Alpha", Checksum: "1", Tags: []string{"t1"}, UpdatedAt: now}, "", []string{"Beta", "Gone"})
	_ = db.UpsertNote(NoteRow{Path: "b.md", Title: "Beta", Checksum: "2", Tags: []string{}, UpdatedAt: now}, "", nil)

	notes, err := db.FetchNotes(context.Background())
	if err != nil {
		t.Fatalf("FetchNotes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("notes = %d, want 2", len(notes))
	}
	// Ordered by path.
	if notes[0].ID != "a.md" || notes[1].ID != "b.md" {
		t.Errorf("order = %q, %q", notes[0].ID, notes[1].ID)
	}
	if notes[0].Title != "Alpha" || len(notes[0].Tags) != 1 {
		t.Errorf("note a = %+v", notes[0])
	}
	if len(notes[0].OutgoingLinks) != 2 {
		t.Errorf("outgoing links = %v, want [Beta Gone]", notes[0].OutgoingLinks)
	}
	if len(notes[1].OutgoingLinks) != 0 {
		t.Errorf("note b should have no outgoing links, got %v", notes[1].OutgoingLinks)
	}
}

func TestFetchNotes_EmptyCorpus(t *testing.T) {
	db := testDB(t)
	notes, err := db.FetchNotes(context.Background())
	if err != nil {
		t.Fatalf("FetchNotes: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("notes = %d, want 0", len(notes))
	}
}

func TestFetchNotes_CorruptTags(t *testing.T) {
	db := testDB(t)
	row := NoteRow{Path: "bad.md", Title: "Bad", Checksum: "b1", Tags: []string{"keep"}, UpdatedAt: time.Now()}
	if err := db.UpsertNote(row, "body", nil); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	if _, err := db.conn.Exec(`UPDATE notes SET tags = 'not-json' WHERE path = 'bad.md'`); err != nil {
		t.Fatalf("corrupt tags: %v", err)
	}

	// A corrupt tags blob must not fail the fetch; the note comes back untagged.
	notes, err := db.FetchNotes(context.Background())
	if err != nil {
		t.Fatalf("FetchNotes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes))
	}
	if notes[0].ID != "bad.md" || len(notes[0].Tags) != 0 {
		t.Errorf("note = %+v, want bad.md with no tags", notes[0])
	}
}
