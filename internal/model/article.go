package model

import "time"

// Article data model. ID is assigned by the store on creation and never
// changes afterwards.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewArticle creates an unsaved Article stamped with the given time.
func NewArticle(title, body string, now time.Time) Article {
	return Article{
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
