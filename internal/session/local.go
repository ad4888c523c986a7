// Package session implements the session pointer stores used by
// users.Service: Redis for the server and the local blob store for the CLI.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ecomlens/internal/localstore"
	"ecomlens/internal/models"
)

const localKeyPrefix = "ecomlens_current_user_v2:"

// LocalStore keeps session pointers as blobs next to the user blob. With a
// positive ttl each pointer expires ttl after it was set; expired pointers
// read as absent and are deleted on sight.
type LocalStore struct {
	kv  *localstore.KV
	ttl time.Duration
	now func() time.Time
}

func NewLocalStore(kv *localstore.KV, ttl time.Duration) *LocalStore {
	return &LocalStore{kv: kv, ttl: ttl, now: time.Now}
}

func (s *LocalStore) Get(ctx context.Context, key string) (*models.Session, error) {
	raw, err := s.kv.Get(ctx, localKeyPrefix+key)
	if err != nil || raw == nil {
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: session %s: %v", localstore.ErrCorruptStore, key, err)
	}
	if s.expired(&sess) {
		return nil, s.Delete(ctx, key)
	}
	return &sess, nil
}

func (s *LocalStore) expired(sess *models.Session) bool {
	return !sess.ExpiresAt.IsZero() && !s.now().Before(sess.ExpiresAt)
}

func (s *LocalStore) Set(ctx context.Context, sess *models.Session) error {
	stored := *sess
	if s.ttl > 0 {
		stored.ExpiresAt = s.now().UTC().Add(s.ttl)
	}
	raw, err := json.Marshal(&stored)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, localKeyPrefix+sess.ID, raw)
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, localKeyPrefix+key)
}

// PurgeExpired deletes every expired pointer and reports how many went.
// Unreadable pointers are left for Get to report.
func (s *LocalStore) PurgeExpired(ctx context.Context) (int, error) {
	keys, err := s.kv.Keys(ctx, localKeyPrefix)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, k := range keys {
		raw, err := s.kv.Get(ctx, k)
		if err != nil {
			return purged, err
		}
		var sess models.Session
		if raw == nil || json.Unmarshal(raw, &sess) != nil || !s.expired(&sess) {
			continue
		}
		if err := s.Delete(ctx, strings.TrimPrefix(k, localKeyPrefix)); err != nil {
			return purged, err
		}
		purged++
	}
	return purged, nil
}
