package handlers

import (
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/social-feed-app/social-feed-backend/models"
	"github.com/social-feed-app/social-feed-backend/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The browser client is served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type feedFrame struct {
	State string        `json:"state"`
	Posts []models.Post `json:"posts"`
}

// StreamFeed upgrades to a WebSocket and pushes the full feed list on every
// remote change, mirroring the snapshot subscription: whole-list frames, no
// diffs. The observer is released when the client disconnects.
func StreamFeed(watcher *services.FeedWatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("StreamFeed upgrade error:", err)
			return
		}

		connID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.New(rand.NewSource(time.Now().UnixNano()))).String()
		log.Printf("[STREAM] Client %s connected", connID)

		posts, cancel := watcher.Observe()
		defer cancel()
		defer conn.Close()

		// The read loop only exists to notice the client going away.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		// Clients connecting before the first snapshot see a loading frame.
		if watcher.State() == services.FeedLoading {
			if err := conn.WriteJSON(feedFrame{State: services.FeedLoading.String(), Posts: []models.Post{}}); err != nil {
				log.Printf("[STREAM] Client %s write failed: %v", connID, err)
				return
			}
		}

		for {
			select {
			case list, ok := <-posts:
				if !ok {
					log.Printf("[STREAM] Feed watcher closed, dropping client %s", connID)
					return
				}
				frame := feedFrame{State: watcher.State().String(), Posts: list}
				if err := conn.WriteJSON(frame); err != nil {
					log.Printf("[STREAM] Client %s write failed: %v", connID, err)
					return
				}
			case <-closed:
				log.Printf("[STREAM] Client %s disconnected", connID)
				return
			}
		}
	}
}
