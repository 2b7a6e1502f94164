package services

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/store"
)

var (
	ErrEmptyContent   = errors.New("content is empty")
	ErrContentTooLong = errors.New("content is too long")
)

// Mutator issues field-level writes against single documents. None of the
// operations read the target document first; the feed only moves when the
// store fans the change back out through the subscription.
type Mutator struct {
	store store.Store
}

func NewMutator(st store.Store) *Mutator {
	return &Mutator{store: st}
}

// CreatePost writes a new post with the author identity snapshotted as it is
// right now. Later display-name edits do not touch it.
func (m *Mutator) CreatePost(ctx context.Context, identity models.Identity, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > models.MaxPostLength {
		return ErrContentTooLong
	}

	fields := map[string]interface{}{
		"content":     content,
		"authorId":    identity.ID,
		"authorName":  identity.PostName(),
		"authorEmail": identity.Email,
		"createdAt":   store.ServerTimestamp,
		"likes":       []interface{}{},
		"comments":    []interface{}{},
	}

	if _, err := m.store.Create(ctx, store.PostsCollection, fields); err != nil {
		log.Printf("[MUTATE] Failed to create post for %s: %v", identity.ID, err)
		return err
	}
	return nil
}

// ToggleLike trusts the caller's current liked flag rather than re-reading
// the document. Union and remove are idempotent per identity, so concurrent
// toggles by different users commute.
func (m *Mutator) ToggleLike(ctx context.Context, postID, userID string, liked bool) error {
	var err error
	if liked {
		err = m.store.ArrayRemove(ctx, store.PostsCollection, postID, "likes", userID)
	} else {
		err = m.store.ArrayUnion(ctx, store.PostsCollection, postID, "likes", userID)
	}
	if err != nil {
		log.Printf("[MUTATE] Failed to toggle like on %s by %s: %v", postID, userID, err)
	}
	return err
}

// AddComment appends one comment with a client-assigned id and timestamp.
// The id is the creation instant in milliseconds, so two comments landing in
// the same millisecond collide; display ordering across users is only as
// consistent as their clocks. The 2-comment cap is not checked here.
func (m *Mutator) AddComment(ctx context.Context, postID string, identity models.Identity, content string) (models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return models.Comment{}, ErrContentTooLong
	}

	now := time.Now()
	comment := models.Comment{
		ID:         strconv.FormatInt(now.UnixMilli(), 10),
		Content:    content,
		AuthorID:   identity.ID,
		AuthorName: identity.PostName(),
		CreatedAt:  now,
	}

	if err := m.store.ArrayUnion(ctx, store.PostsCollection, postID, "comments", comment.Fields()); err != nil {
		log.Printf("[MUTATE] Failed to add comment to %s by %s: %v", postID, identity.ID, err)
		return models.Comment{}, err
	}
	return comment, nil
}

// SaveProfile merges the given fields into the user's profile document,
// leaving everything else untouched.
func (m *Mutator) SaveProfile(ctx context.Context, uid string, fields map[string]interface{}) error {
	if err := m.store.Merge(ctx, store.UsersCollection, uid, fields); err != nil {
		log.Printf("[MUTATE] Failed to save profile for %s: %v", uid, err)
		return err
	}
	return nil
}
