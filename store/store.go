package store

import (
	"context"
	"errors"
)

// Collection names used by the application.
const (
	PostsCollection = "posts"
	UsersCollection = "users"
	ItemsCollection = "items"
)

var ErrNotFound = errors.New("document not found")

// ServerTimestamp marks a field whose value is assigned by the store at
// write time. It is translated by each implementation; the raw sentinel is
// never persisted.
var ServerTimestamp = serverTimestamp{}

type serverTimestamp struct{}

type Direction int

const (
	Asc Direction = iota
	Desc
)

// Document is one stored document: its id plus its raw field map. Array
// fields come back as []interface{} and timestamps as time.Time regardless
// of implementation.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Snapshot is the complete current result set of a subscribed query.
type Snapshot struct {
	Docs []Document
}

// Write is one entry of an atomic batch; Fields replaces the document.
type Write struct {
	Collection string
	ID         string
	Fields     map[string]interface{}
}

// Subscription is a live query. Snapshots delivers the full ordered result
// set on the initial load and after every remote change; the channel is
// closed once the subscription ends. Close releases the underlying listener
// and is safe to call more than once.
type Subscription interface {
	Snapshots() <-chan Snapshot
	Close()
}

// Store is the document database boundary. Update, ArrayUnion and
// ArrayRemove are field-level operations that do not require reading the
// document first; Merge writes only the given fields and leaves the rest of
// the document untouched; BatchSet is all-or-nothing.
type Store interface {
	Subscribe(ctx context.Context, collection, orderBy string, dir Direction) (Subscription, error)
	Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error
	ArrayUnion(ctx context.Context, collection, id, field string, values ...interface{}) error
	ArrayRemove(ctx context.Context, collection, id, field string, values ...interface{}) error
	Get(ctx context.Context, collection, id string) (Document, error)
	List(ctx context.Context, collection string) ([]Document, error)
	BatchSet(ctx context.Context, writes []Write) error
}
