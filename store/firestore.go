package store

import (
	"context"
	"log"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore backs the Store interface with Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Subscribe(ctx context.Context, collection, orderBy string, dir Direction) (Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	direction := firestore.Asc
	if dir == Desc {
		direction = firestore.Desc
	}

	iter := s.client.Collection(collection).OrderBy(orderBy, direction).Snapshots(ctx)

	sub := &firestoreSubscription{
		snapshots: make(chan Snapshot, 1),
		cancel:    cancel,
	}
	go sub.run(iter)
	return sub, nil
}

type firestoreSubscription struct {
	snapshots chan Snapshot
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (s *firestoreSubscription) Snapshots() <-chan Snapshot {
	return s.snapshots
}

func (s *firestoreSubscription) Close() {
	s.closeOnce.Do(s.cancel)
}

func (s *firestoreSubscription) run(iter *firestore.QuerySnapshotIterator) {
	defer close(s.snapshots)
	defer iter.Stop()

	for {
		qs, err := iter.Next()
		if err != nil {
			// Context cancellation is the normal teardown path.
			log.Printf("[STORE] Snapshot listener stopped: %v", err)
			return
		}

		var snap Snapshot
		docs, err := qs.Documents.GetAll()
		if err != nil {
			log.Printf("[STORE] Failed to read snapshot documents: %v", err)
			continue
		}
		for _, doc := range docs {
			snap.Docs = append(snap.Docs, Document{ID: doc.Ref.ID, Data: doc.Data()})
		}

		// Each snapshot supersedes the previous one, so a stale undelivered
		// snapshot is dropped rather than queued.
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
}

func (s *FirestoreStore) Create(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, translateSentinels(fields))
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		if _, ok := value.(serverTimestamp); ok {
			value = firestore.ServerTimestamp
		}
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	return mapErr(err)
}

func (s *FirestoreStore) Merge(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, translateSentinels(fields), firestore.MergeAll)
	return err
}

func (s *FirestoreStore) ArrayUnion(ctx context.Context, collection, id, field string, values ...interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.ArrayUnion(values...)},
	})
	return mapErr(err)
}

func (s *FirestoreStore) ArrayRemove(ctx context.Context, collection, id, field string, values ...interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.ArrayRemove(values...)},
	})
	return mapErr(err)
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if snap != nil && !snap.Exists() {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) List(ctx context.Context, collection string) ([]Document, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) BatchSet(ctx context.Context, writes []Write) error {
	batch := s.client.Batch()
	for _, w := range writes {
		batch.Set(s.client.Collection(w.Collection).Doc(w.ID), translateSentinels(w.Fields))
	}
	_, err := batch.Commit(ctx)
	return err
}

func mapErr(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func translateSentinels(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = firestore.ServerTimestamp
		} else {
			out[k] = v
		}
	}
	return out
}
