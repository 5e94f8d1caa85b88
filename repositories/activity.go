//go:generate go run go.uber.org/mock/mockgen -source=activity.go -destination=../mocks/mock_activity_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"mailvault/errors"

	"github.com/dgraph-io/badger/v4"
)

type IActivityRepository interface {
	RecordActivity(email, action string) error
}

// Activity is a best-effort last-seen row. The feature is optional:
// when the relation is disabled, callers degrade to a no-op instead of
// failing the request.
type Activity struct {
	Email      string    `json:"email"`
	LastAction string    `json:"lastAction"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

type ActivityRepository struct {
	db      *badger.DB
	enabled bool
}

func NewActivityRepository(db *badger.DB, enabled bool) IActivityRepository {
	return &ActivityRepository{db: db, enabled: enabled}
}

const activityPrefix = "activity:"

// RecordActivity upserts the last-seen row for an account. A disabled
// relation reports ErrRelationMissing so the caller can distinguish it
// from a store failure.
func (r ActivityRepository) RecordActivity(email, action string) error {
	if !r.enabled {
		return errors.ErrRelationMissing
	}

	row := Activity{
		Email:      strings.ToLower(email),
		LastAction: action,
		LastSeenAt: time.Now().UTC(),
	}
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(activityPrefix+row.Email), data)
	})
	if err != nil {
		return stderrors.Join(errors.ErrDependency, err)
	}
	return nil
}
