package services

import (
	"context"
	"log"
	"sync"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/store"
)

type FeedState int

const (
	// FeedLoading means no snapshot has arrived yet.
	FeedLoading FeedState = iota
	// FeedEmpty means the latest snapshot held zero posts.
	FeedEmpty
	// FeedPopulated means the latest snapshot held at least one post.
	FeedPopulated
)

func (s FeedState) String() string {
	switch s {
	case FeedEmpty:
		return "empty"
	case FeedPopulated:
		return "populated"
	default:
		return "loading"
	}
}

// FeedWatcher holds one live subscription over the posts collection ordered
// by creation time, newest first. On every snapshot the local list is
// replaced wholesale; no diffing. Registered observers each receive the full
// list after every change, latest-wins if they fall behind. The watcher
// never writes to the store.
type FeedWatcher struct {
	sub store.Subscription

	mu        sync.Mutex
	state     FeedState
	posts     []models.Post
	observers map[chan []models.Post]struct{}
	closed    bool

	done chan struct{}
}

// WatchFeed starts the feed subscription. Close releases it.
func WatchFeed(ctx context.Context, st store.Store) (*FeedWatcher, error) {
	sub, err := st.Subscribe(ctx, store.PostsCollection, "createdAt", store.Desc)
	if err != nil {
		log.Printf("[FEED] Failed to subscribe to posts: %v", err)
		return nil, err
	}

	w := &FeedWatcher{
		sub:       sub,
		state:     FeedLoading,
		observers: make(map[chan []models.Post]struct{}),
		done:      make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *FeedWatcher) run() {
	for snap := range w.sub.Snapshots() {
		posts := make([]models.Post, 0, len(snap.Docs))
		for _, doc := range snap.Docs {
			posts = append(posts, models.PostFromDocument(doc.ID, doc.Data))
		}

		w.mu.Lock()
		w.posts = posts
		if len(posts) == 0 {
			w.state = FeedEmpty
		} else {
			w.state = FeedPopulated
		}
		for ch := range w.observers {
			deliverPosts(ch, posts)
		}
		w.mu.Unlock()
	}

	w.mu.Lock()
	w.closed = true
	for ch := range w.observers {
		close(ch)
	}
	w.observers = make(map[chan []models.Post]struct{})
	w.mu.Unlock()

	close(w.done)
}

// deliverPosts is latest-wins: an unread stale list is replaced, never queued.
func deliverPosts(ch chan []models.Post, posts []models.Post) {
	select {
	case ch <- posts:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- posts
	}
}

func (w *FeedWatcher) State() FeedState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Posts returns a copy of the current list.
func (w *FeedWatcher) Posts() []models.Post {
	w.mu.Lock()
	defer w.mu.Unlock()
	posts := make([]models.Post, len(w.posts))
	copy(posts, w.posts)
	return posts
}

// Observe registers an observer that receives the full post list after every
// remote change, starting with the current list if one has arrived. The
// returned cancel func unregisters it.
func (w *FeedWatcher) Observe() (<-chan []models.Post, func()) {
	ch := make(chan []models.Post, 1)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	w.observers[ch] = struct{}{}
	if w.state != FeedLoading {
		deliverPosts(ch, w.posts)
	}
	w.mu.Unlock()

	cancel := func() {
		w.mu.Lock()
		if _, ok := w.observers[ch]; ok {
			delete(w.observers, ch)
			close(ch)
		}
		w.mu.Unlock()
	}
	return ch, cancel
}

// Close releases the subscription and waits for the snapshot loop to drain.
func (w *FeedWatcher) Close() {
	w.sub.Close()
	<-w.done
}
