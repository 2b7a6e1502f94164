package models

import "time"

const (
	// MaxPostLength mirrors the compose-box limit enforced by clients.
	MaxPostLength = 280
	// MaxCommentLength mirrors the comment input limit enforced by clients.
	MaxCommentLength = 100
	// MaxCommentsPerPost is advisory: it gates the comment form, the store
	// itself never rejects a longer comments array.
	MaxCommentsPerPost = 2
)

type Post struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	AuthorID    string    `json:"authorId"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	CreatedAt   time.Time `json:"createdAt"`
	Likes       []string  `json:"likes"`
	Comments    []Comment `json:"comments"`
}

type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Fields flattens a comment into the map shape stored inside a post
// document's comments array.
func (c Comment) Fields() map[string]interface{} {
	return map[string]interface{}{
		"id":         c.ID,
		"content":    c.Content,
		"authorId":   c.AuthorID,
		"authorName": c.AuthorName,
		"createdAt":  c.CreatedAt,
	}
}

// PostFromDocument rebuilds a Post from raw document fields. Missing or
// mistyped fields fall back to zero values rather than failing the whole
// feed; the store is schema-less and old documents may predate new fields.
func PostFromDocument(id string, data map[string]interface{}) Post {
	p := Post{
		ID:          id,
		Content:     stringField(data, "content"),
		AuthorID:    stringField(data, "authorId"),
		AuthorName:  stringField(data, "authorName"),
		AuthorEmail: stringField(data, "authorEmail"),
		Likes:       []string{},
		Comments:    []Comment{},
	}

	if t, ok := data["createdAt"].(time.Time); ok {
		p.CreatedAt = t
	}

	if likes, ok := data["likes"].([]interface{}); ok {
		for _, l := range likes {
			if uid, ok := l.(string); ok {
				p.Likes = append(p.Likes, uid)
			}
		}
	}

	if comments, ok := data["comments"].([]interface{}); ok {
		for _, c := range comments {
			fields, ok := c.(map[string]interface{})
			if !ok {
				continue
			}
			comment := Comment{
				ID:         stringField(fields, "id"),
				Content:    stringField(fields, "content"),
				AuthorID:   stringField(fields, "authorId"),
				AuthorName: stringField(fields, "authorName"),
			}
			if t, ok := fields["createdAt"].(time.Time); ok {
				comment.CreatedAt = t
			}
			p.Comments = append(p.Comments, comment)
		}
	}

	return p
}

func stringField(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}
