package model

import "time"

type Comment struct {
	ID          int64     `json:"id"`
	Kind        EntryKind `json:"type"`
	GeneratedID string    `json:"generatedId"`
	Text        string    `json:"text"`
	Author      string    `json:"author"`
	AuthorID    int64     `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CommentList struct {
	Comments []Comment `json:"comments"`
}

type Reference struct {
	ID          int64     `json:"id"`
	Kind        EntryKind `json:"type"`
	GeneratedID string    `json:"generatedId"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ReferenceList struct {
	References []Reference `json:"references"`
}
