package services

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/store"
)

func TestCreatePostTrimsContent(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	ctx := context.Background()

	err := mutator.CreatePost(ctx, testIdentity(), "  Hello world  ")
	assert.Equal(t, nil, err)

	docs, _ := st.List(ctx, store.PostsCollection)
	assert.Equal(t, 1, len(docs))
	assert.Equal(t, "Hello world", docs[0].Data["content"])
}

func TestCreatePostRejectsEmptyAfterTrim(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	ctx := context.Background()

	err := mutator.CreatePost(ctx, testIdentity(), "   \n\t  ")
	assert.Equal(t, ErrEmptyContent, err)

	docs, _ := st.List(ctx, store.PostsCollection)
	assert.Equal(t, 0, len(docs))
}

func TestCreatePostRejectsOverlong(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)

	err := mutator.CreatePost(context.Background(), testIdentity(), strings.Repeat("x", models.MaxPostLength+1))
	assert.Equal(t, ErrContentTooLong, err)

	exact := strings.Repeat("x", models.MaxPostLength)
	assert.Equal(t, nil, mutator.CreatePost(context.Background(), testIdentity(), exact))
}

func TestCreatePostSnapshotsAuthorNameFallback(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	ctx := context.Background()

	noName := models.Identity{ID: "u9", Email: "carol@example.com"}
	assert.Equal(t, nil, mutator.CreatePost(ctx, noName, "hi"))

	docs, _ := st.List(ctx, store.PostsCollection)
	assert.Equal(t, "carol", docs[0].Data["authorName"])
}

func createPost(t *testing.T, st store.Store) string {
	t.Helper()
	mutator := NewMutator(st)
	if err := mutator.CreatePost(context.Background(), testIdentity(), "a post"); err != nil {
		t.Fatal(err)
	}
	docs, err := st.List(context.Background(), store.PostsCollection)
	if err != nil || len(docs) == 0 {
		t.Fatal("post was not created")
	}
	return docs[len(docs)-1].ID
}

func TestToggleLikeFinalStateMatchesLastOperation(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	ctx := context.Background()
	postID := createPost(t, st)

	// (user, currently-liked flag) pairs; the final set is exactly the users
	// whose last operation was a like.
	ops := []struct {
		user  string
		liked bool
	}{
		{"u1", false}, // u1 likes
		{"u2", false}, // u2 likes
		{"u1", true},  // u1 unlikes
		{"u3", false}, // u3 likes
		{"u2", true},  // u2 unlikes
		{"u2", false}, // u2 likes again
	}
	for _, op := range ops {
		assert.Equal(t, nil, mutator.ToggleLike(ctx, postID, op.user, op.liked))
	}

	doc, _ := st.Get(ctx, store.PostsCollection, postID)
	post := models.PostFromDocument(doc.ID, doc.Data)
	assert.Equal(t, []string{"u3", "u2"}, post.Likes)
}

func TestToggleLikeIsIdempotentPerIdentity(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	ctx := context.Background()
	postID := createPost(t, st)

	// A racing double-like carries the same stale flag twice; union keeps
	// the set membership single.
	assert.Equal(t, nil, mutator.ToggleLike(ctx, postID, "u1", false))
	assert.Equal(t, nil, mutator.ToggleLike(ctx, postID, "u1", false))

	doc, _ := st.Get(ctx, store.PostsCollection, postID)
	post := models.PostFromDocument(doc.ID, doc.Data)
	assert.Equal(t, []string{"u1"}, post.Likes)
}

func TestAddCommentRejectsEmptyAfterTrim(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	ctx := context.Background()
	postID := createPost(t, st)

	_, err := mutator.AddComment(ctx, postID, testIdentity(), "   ")
	assert.Equal(t, ErrEmptyContent, err)

	doc, _ := st.Get(ctx, store.PostsCollection, postID)
	post := models.PostFromDocument(doc.ID, doc.Data)
	assert.Equal(t, 0, len(post.Comments))
}

func TestAddCommentRejectsOverlong(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	postID := createPost(t, st)

	_, err := mutator.AddComment(context.Background(), postID, testIdentity(), strings.Repeat("x", models.MaxCommentLength+1))
	assert.Equal(t, ErrContentTooLong, err)
}

func TestAddCommentAssignsClientIDAndTime(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	postID := createPost(t, st)

	comment, err := mutator.AddComment(context.Background(), postID, testIdentity(), " nice post ")
	assert.Equal(t, nil, err)
	assert.Equal(t, "nice post", comment.Content)
	assert.Equal(t, "Alice", comment.AuthorName)
	assert.Equal(t, false, comment.CreatedAt.IsZero())
	assert.NotEqual(t, "", comment.ID)
}

func TestCommentCapIsNotEnforcedAtTheStore(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	ctx := context.Background()
	postID := createPost(t, st)

	// The 2-comment cap lives at the request boundary. Writers going
	// straight through the mutation layer can exceed it; the comments keep
	// their submission order.
	for _, text := range []string{"first", "second", "third"} {
		_, err := mutator.AddComment(ctx, postID, testIdentity(), text)
		assert.Equal(t, nil, err)
	}

	doc, _ := st.Get(ctx, store.PostsCollection, postID)
	post := models.PostFromDocument(doc.ID, doc.Data)
	assert.Equal(t, 3, len(post.Comments))
	assert.Equal(t, "first", post.Comments[0].Content)
	assert.Equal(t, "second", post.Comments[1].Content)
	assert.Equal(t, "third", post.Comments[2].Content)
}

func TestSaveProfileMergesFields(t *testing.T) {
	st := store.NewMemoryStore()
	mutator := NewMutator(st)
	ctx := context.Background()

	assert.Equal(t, nil, mutator.SaveProfile(ctx, "u1", map[string]interface{}{"bio": "hello"}))
	assert.Equal(t, nil, mutator.SaveProfile(ctx, "u1", map[string]interface{}{"displayName": "Alice"}))

	doc, _ := st.Get(ctx, store.UsersCollection, "u1")
	assert.Equal(t, "hello", doc.Data["bio"])
	assert.Equal(t, "Alice", doc.Data["displayName"])
}
