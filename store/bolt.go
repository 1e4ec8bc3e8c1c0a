package store

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

func marshalEnvelope(e stamped) ([]byte, error) { return json.Marshal(e) }

func unmarshalEnvelope(b []byte) (stamped, error) {
	var e stamped
	err := json.Unmarshal(b, &e)
	return e, err
}

var sessionsBucket = []byte("sessions")

// BoltStore is a durable, file-backed store for persisted session
// documents, keyed by session id, one bucket for the whole store.
// Sessions are few and small; this isn't a high-cardinality workload
// that needs per-session buckets.
type BoltStore struct {
	db     *bolt.DB
	secret string
}

// OpenBolt opens (creating if necessary) a bbolt database at path and
// ensures the sessions bucket exists. secret, when non-empty, is used
// to compute an integrity stamp (store/integrity.go) over every saved
// document; pass "" to skip stamping entirely.
func OpenBolt(path, secret string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open session store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init session store: %w", err)
	}
	return &BoltStore{db: db, secret: secret}, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

// stamped is the on-disk envelope: the document bytes plus an
// optional integrity stamp over them.
type stamped struct {
	Data  []byte `json:"data"`
	Stamp string `json:"stamp,omitempty"`
}

// Save encodes doc to JSON, optionally stamps it, and writes it under
// sessionID, overwriting any prior save for that id.
func (s *BoltStore) Save(sessionID string, doc *Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sessionID, err)
	}
	env := stamped{Data: data}
	if s.secret != "" {
		env.Stamp = Stamp(data, s.secret)
	}
	payload, err := marshalEnvelope(env)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(sessionID), payload)
	})
}

// Load reads and decodes the document stored under sessionID. If the
// store was opened with a secret and the saved envelope carries a
// stamp, it is verified first; ErrTampered is returned on mismatch. An
// unstamped envelope (an older save, or a store opened with no
// secret) is accepted as-is.
func (s *BoltStore) Load(sessionID string) (*Document, error) {
	var payload []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(sessionsBucket).Get([]byte(sessionID))
		if v == nil {
			return fmt.Errorf("session %s: not found", sessionID)
		}
		payload = append([]byte{}, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	env, err := unmarshalEnvelope(payload)
	if err != nil {
		return nil, err
	}
	if s.secret != "" && env.Stamp != "" && !Verify(env.Data, s.secret, env.Stamp) {
		return nil, ErrTampered
	}
	return Unmarshal(env.Data)
}

// Delete removes a session's saved document, if any.
func (s *BoltStore) Delete(sessionID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(sessionID))
	})
}

// List returns every session id with a saved document.
func (s *BoltStore) List() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}
