//go:generate go run go.uber.org/mock/mockgen -source=beta.go -destination=../mocks/mock_beta_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"mailvault/errors"

	"github.com/dgraph-io/badger/v4"
)

type IBetaCodeRepository interface {
	CreateCodes(codes []string) error
	GetCode(code string) (BetaCode, error)
	MarkRedeemed(code, redeemedBy string) error
	ListCodes() ([]BetaCode, error)
}

// BetaCode is a single-use access code row. Codes are stored and
// matched uppercased.
type BetaCode struct {
	Code       string     `json:"code"`
	CreatedAt  time.Time  `json:"createdAt"`
	RedeemedBy string     `json:"redeemedBy,omitempty"`
	RedeemedAt *time.Time `json:"redeemedAt,omitempty"`
}

func (c BetaCode) Redeemed() bool {
	return c.RedeemedAt != nil
}

type BetaCodeRepository struct {
	db *badger.DB
}

func NewBetaCodeRepository(db *badger.DB) IBetaCodeRepository {
	return &BetaCodeRepository{db: db}
}

const betaPrefix = "betacode:"

func betaKey(code string) []byte {
	return []byte(betaPrefix + strings.ToUpper(strings.TrimSpace(code)))
}

func (r BetaCodeRepository) CreateCodes(codes []string) error {
	now := time.Now().UTC()
	return r.db.Update(func(txn *badger.Txn) error {
		for _, code := range codes {
			row := BetaCode{Code: strings.ToUpper(strings.TrimSpace(code)), CreatedAt: now}
			data, err := json.Marshal(row)
			if err != nil {
				return err
			}
			if err := txn.Set(betaKey(code), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r BetaCodeRepository) GetCode(code string) (BetaCode, error) {
	var row BetaCode
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(betaKey(code))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &row)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return BetaCode{}, errors.ErrInvalidCode
	}
	if err != nil {
		return BetaCode{}, err
	}
	return row, nil
}

// MarkRedeemed burns a code inside one transaction so two concurrent
// redeems cannot both succeed.
func (r BetaCodeRepository) MarkRedeemed(code, redeemedBy string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(betaKey(code))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrInvalidCode
		}
		if err != nil {
			return err
		}

		var row BetaCode
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &row) }); err != nil {
			return err
		}
		if row.Redeemed() {
			return errors.ErrCodeAlreadyUsed
		}

		now := time.Now().UTC()
		row.RedeemedBy = strings.ToLower(redeemedBy)
		row.RedeemedAt = &now

		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		return txn.Set(betaKey(code), data)
	})
}

func (r BetaCodeRepository) ListCodes() ([]BetaCode, error) {
	var rows []BetaCode
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(betaPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var row BetaCode
				if err := json.Unmarshal(val, &row); err != nil {
					return err
				}
				rows = append(rows, row)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}
