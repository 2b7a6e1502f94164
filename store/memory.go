package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and local development.
// It reproduces the managed store's observable behavior: array union and
// remove are set-like per value, merge leaves absent fields alone, ordered
// subscriptions exclude documents missing the order field, and every change
// fans the full result set out to all live subscriptions.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]interface{}
	subs        map[*memorySubscription]struct{}
	nextID      int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]interface{}),
		subs:        make(map[*memorySubscription]struct{}),
	}
}

type memorySubscription struct {
	store      *MemoryStore
	collection string
	orderBy    string
	dir        Direction
	snapshots  chan Snapshot
	closeOnce  sync.Once
}

func (s *memorySubscription) Snapshots() <-chan Snapshot {
	return s.snapshots
}

func (s *memorySubscription) Close() {
	s.closeOnce.Do(func() {
		s.store.mu.Lock()
		delete(s.store.subs, s)
		s.store.mu.Unlock()
		close(s.snapshots)
	})
}

func (s *MemoryStore) Subscribe(ctx context.Context, collection, orderBy string, dir Direction) (Subscription, error) {
	sub := &memorySubscription{
		store:      s,
		collection: collection,
		orderBy:    orderBy,
		dir:        dir,
		snapshots:  make(chan Snapshot, 1),
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	sub.deliver(s.snapshotLocked(collection, orderBy, dir))
	s.mu.Unlock()

	return sub, nil
}

// deliver is latest-wins: an undelivered stale snapshot is replaced.
func (s *memorySubscription) deliver(snap Snapshot) {
	select {
	case s.snapshots <- snap:
	default:
		select {
		case <-s.snapshots:
		default:
		}
		s.snapshots <- snap
	}
}

func (s *MemoryStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := fmt.Sprintf("doc-%d", s.nextID)
	s.collectionLocked(collection)[id] = s.materialize(fields)
	s.notifyLocked(collection)
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collectionLocked(collection)[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range s.materialize(fields) {
		doc[k] = v
	}
	s.notifyLocked(collection)
	return nil
}

func (s *MemoryStore) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collectionLocked(collection)
	doc, ok := col[id]
	if !ok {
		doc = make(map[string]interface{})
		col[id] = doc
	}
	for k, v := range s.materialize(fields) {
		doc[k] = v
	}
	s.notifyLocked(collection)
	return nil
}

func (s *MemoryStore) ArrayUnion(ctx context.Context, collection, id, field string, values ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collectionLocked(collection)[id]
	if !ok {
		return ErrNotFound
	}

	arr, _ := doc[field].([]interface{})
	for _, v := range values {
		v = s.materializeValue(v)
		if !containsValue(arr, v) {
			arr = append(arr, v)
		}
	}
	doc[field] = arr
	s.notifyLocked(collection)
	return nil
}

func (s *MemoryStore) ArrayRemove(ctx context.Context, collection, id, field string, values ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collectionLocked(collection)[id]
	if !ok {
		return ErrNotFound
	}

	arr, _ := doc[field].([]interface{})
	kept := arr[:0]
	for _, existing := range arr {
		removed := false
		for _, v := range values {
			if reflect.DeepEqual(existing, s.materializeValue(v)) {
				removed = true
				break
			}
		}
		if !removed {
			kept = append(kept, existing)
		}
	}
	doc[field] = append([]interface{}{}, kept...)
	s.notifyLocked(collection)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collectionLocked(collection)[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: copyFields(doc)}, nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col := s.collectionLocked(collection)
	ids := make([]string, 0, len(col))
	for id := range col {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, Data: copyFields(col[id])})
	}
	return docs, nil
}

func (s *MemoryStore) BatchSet(ctx context.Context, writes []Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[string]struct{})
	for _, w := range writes {
		s.collectionLocked(w.Collection)[w.ID] = s.materialize(w.Fields)
		touched[w.Collection] = struct{}{}
	}
	for collection := range touched {
		s.notifyLocked(collection)
	}
	return nil
}

func (s *MemoryStore) collectionLocked(name string) map[string]map[string]interface{} {
	col, ok := s.collections[name]
	if !ok {
		col = make(map[string]map[string]interface{})
		s.collections[name] = col
	}
	return col
}

func (s *MemoryStore) notifyLocked(collection string) {
	for sub := range s.subs {
		if sub.collection == collection {
			sub.deliver(s.snapshotLocked(sub.collection, sub.orderBy, sub.dir))
		}
	}
}

// snapshotLocked builds the ordered result set. Documents without the order
// field are excluded, matching the managed store's ordered-query behavior.
func (s *MemoryStore) snapshotLocked(collection, orderBy string, dir Direction) Snapshot {
	col := s.collectionLocked(collection)

	var docs []Document
	for id, fields := range col {
		if _, ok := fields[orderBy]; !ok {
			continue
		}
		docs = append(docs, Document{ID: id, Data: copyFields(fields)})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if dir == Desc {
			return lessValue(docs[j].Data[orderBy], docs[i].Data[orderBy])
		}
		return lessValue(docs[i].Data[orderBy], docs[j].Data[orderBy])
	})

	return Snapshot{Docs: docs}
}

// materialize deep-copies incoming fields and resolves write-time sentinels.
func (s *MemoryStore) materialize(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = s.materializeValue(v)
	}
	return out
}

func (s *MemoryStore) materializeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case serverTimestamp:
		return time.Now()
	case map[string]interface{}:
		return s.materialize(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = s.materializeValue(e)
		}
		return out
	case []string:
		// Stored arrays are always []interface{}, as they come back from
		// the managed store.
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = e
		}
		return out
	default:
		return v
	}
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return copyFields(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, e := range val {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

func containsValue(arr []interface{}, v interface{}) bool {
	for _, existing := range arr {
		if reflect.DeepEqual(existing, v) {
			return true
		}
	}
	return false
}

func lessValue(a, b interface{}) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case int:
		if bv, ok := b.(int); ok {
			return av < bv
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	}
	return false
}
