//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mailvault/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IProfileRepository interface {
	CreateProfile(email, username, hashedPassword string) (Profile, error)
	GetProfileByEmail(email string) (Profile, error)
	UpdateProfile(profile Profile) (Profile, error)
	ListProfiles() ([]Profile, error)
}

// Profile is one row of the account store.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	Plan         string    `json:"plan"`
	BetaAccess   bool      `json:"betaAccess"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ProfileRepository struct {
	db *badger.DB
}

func NewProfileRepository(db *badger.DB) IProfileRepository {
	return &ProfileRepository{db: db}
}

const profilePrefix = "profile:"

func profileKey(email string) []byte {
	return []byte(profilePrefix + strings.ToLower(email))
}

// CreateProfile persists a new account row. The email is the row key,
// so a second signup with the same address fails with
// ErrUserAlreadyExists.
func (r ProfileRepository) CreateProfile(email, username, hashedPassword string) (Profile, error) {
	now := time.Now().UTC()
	profile := Profile{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		Username:     username,
		PasswordHash: hashedPassword,
		Plan:         "free",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	data, err := marshalProfile(profile)
	if err != nil {
		return Profile{}, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		key := profileKey(email)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func (r ProfileRepository) GetProfileByEmail(email string) (Profile, error) {
	var profile Profile
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(profileKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &profile)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return Profile{}, errors.ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// UpdateProfile overwrites the stored row, refreshing UpdatedAt. The
// row must already exist; updates never create accounts.
func (r ProfileRepository) UpdateProfile(profile Profile) (Profile, error) {
	profile.UpdatedAt = time.Now().UTC()

	data, err := marshalProfile(profile)
	if err != nil {
		return Profile{}, err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		key := profileKey(profile.Email)
		if _, err := txn.Get(key); err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.ErrNotFound
			}
			return err
		}
		return txn.Set(key, data)
	})
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// ListProfiles scans every account row; admin tooling only.
func (r ProfileRepository) ListProfiles() ([]Profile, error) {
	var profiles []Profile
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(profilePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var p Profile
				if err := json.Unmarshal(val, &p); err != nil {
					return err
				}
				profiles = append(profiles, p)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return profiles, err
}

func marshalProfile(p Profile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}
	return data, nil
}
