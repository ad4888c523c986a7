package localstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecomlens/internal/models"
)

const (
	usersKey       = "ecomlens_users"
	legacyUsersKey = "ecomlens_users_v1"

	schemaVersion = 2
)

// ErrCorruptStore means a stored blob exists but cannot be decoded.
var ErrCorruptStore = errors.New("corrupt local store")

type usersDocument struct {
	Version int          `json:"version"`
	Users   []userRecord `json:"users"`
}

// userRecord keeps the field names of the version 1 blobs so legacy arrays
// decode into the same shape.
type userRecord struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	CreditsUsed   *int       `json:"creditsUsed"`
	MaxCredits    *int       `json:"maxCredits"`
	LastResetDate string     `json:"lastResetDate"`
	PasswordHash  string     `json:"passwordHash,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

func decodeUsers(raw []byte) ([]models.User, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty users blob", ErrCorruptStore)
	}

	var records []userRecord
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
	} else {
		var doc usersDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
		if doc.Version != schemaVersion {
			return nil, fmt.Errorf("%w: unsupported schema version %d", ErrCorruptStore, doc.Version)
		}
		records = doc.Users
	}

	users := make([]models.User, 0, len(records))
	for i, rec := range records {
		u, err := rec.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrCorruptStore, i, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func encodeUsers(users []models.User) ([]byte, error) {
	doc := usersDocument{Version: schemaVersion, Users: make([]userRecord, 0, len(users))}
	for _, u := range users {
		doc.Users = append(doc.Users, fromModel(u))
	}
	return json.Marshal(doc)
}

func (r userRecord) toModel() (models.User, error) {
	switch {
	case r.ID == "":
		return models.User{}, errors.New("missing id")
	case r.Email == "":
		return models.User{}, errors.New("missing email")
	case r.CreditsUsed == nil || *r.CreditsUsed < 0:
		return models.User{}, errors.New("missing or negative creditsUsed")
	case r.MaxCredits == nil || *r.MaxCredits < 0:
		return models.User{}, errors.New("missing or negative maxCredits")
	}

	role := models.Role(r.Role)
	if role != models.RoleAdmin && role != models.RoleUser {
		return models.User{}, fmt.Errorf("unknown role %q", r.Role)
	}
	if _, err := time.Parse(models.DateLayout, r.LastResetDate); err != nil {
		return models.User{}, fmt.Errorf("bad lastResetDate %q", r.LastResetDate)
	}

	u := models.User{
		ID:            r.ID,
		Email:         r.Email,
		Role:          role,
		UsageCount:    *r.CreditsUsed,
		UsageLimit:    *r.MaxCredits,
		LastResetDate: r.LastResetDate,
		PasswordHash:  r.PasswordHash,
	}
	if r.CreatedAt != nil {
		u.CreatedAt = *r.CreatedAt
	}
	return u, nil
}

func fromModel(u models.User) userRecord {
	used, limit := u.UsageCount, u.UsageLimit
	rec := userRecord{
		ID:            u.ID,
		Email:         u.Email,
		Role:          string(u.Role),
		CreditsUsed:   &used,
		MaxCredits:    &limit,
		LastResetDate: u.LastResetDate,
		PasswordHash:  u.PasswordHash,
	}
	if !u.CreatedAt.IsZero() {
		created := u.CreatedAt
		rec.CreatedAt = &created
	}
	return rec
}
