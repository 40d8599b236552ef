// Package models defines the domain types for the science blog.
package models

import "time"

// Document is one authored article without its body.
type Document struct {
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Date       string    `json:"date,omitempty"` // as authored
	Published  time.Time `json:"published"`
	Categories []string  `json:"categories"`
	Tags       []string  `json:"tags"`
	Summary    string    `json:"summary,omitempty"`
	Thumbnail  string    `json:"thumbnail,omitempty"`
	Path       string    `json:"-"`
	Checksum   string    `json:"checksum"`
}

// HasCategory reports whether the document carries the category id.
func (d Document) HasCategory(id string) bool {
	for _, c := range d.Categories {
		if c == id {
			return true
		}
	}
	return false
}

// HasTag reports whether the document carries the tag.
func (d Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Heading is one table-of-contents entry.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"` // 2 or 3
}

// Timestamp is a seek marker found in a body, e.g. [04:32].
type Timestamp struct {
	Label   string `json:"label"`
	Seconds int    `json:"seconds"`
}

// Neighbors holds the documents adjacent to the current one in collection
// order. Previous is the newer document, Next the older one.
type Neighbors struct {
	Previous *Document `json:"previous,omitempty"`
	Next     *Document `json:"next,omitempty"`
}
