// Package models defines the domain types for Othala.
package models

import "time"

// Note represents a parsed Markdown file in the vault.
type Note struct {
	Path        string                 `json:"path"`
	Content     []byte                 `json:"-"`
	Body        string                 `json:"body"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Links       []string               `json:"links,omitempty"`
	Tags        []string               `json:"tags,omitempty"`
	Checksum    string                 `json:"checksum"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link is a single wikilink occurrence in a note body. Source is the note the
// link was found in, Target the referenced title after alias stripping and
// trimming, RawMatch the full `[[...]]` text, and Position its byte offset in
// the body. Links are transient parser output; only deduplicated targets are
// persisted on the note record.
type Link struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	RawMatch string `json:"raw_match"`
	Position int    `json:"position"`
}
