//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message StoredMessage) error
	GetMessages(owner, folder string, limit int) ([]StoredMessage, error)
}

// Folder names for stored copies.
const (
	FolderInbox = "inbox"
	FolderSent  = "sent"
	FolderSpam  = "spam"
)

// StoredMessage is the persisted copy of a delivered or received
// email, including the sanitizer/scorer output for inbound mail.
type StoredMessage struct {
	ID          uuid.UUID `json:"id"`
	Owner       string    `json:"owner"`
	Folder      string    `json:"folder"`
	FromEmail   string    `json:"fromEmail"`
	FromName    string    `json:"fromName,omitempty"`
	To          []string  `json:"to"`
	Subject     string    `json:"subject"`
	TextBody    string    `json:"text,omitempty"`
	HTMLBody    string    `json:"html,omitempty"`
	Preview     string    `json:"preview,omitempty"`
	SpamScore   int       `json:"spamScore"`
	SpamReasons []string  `json:"spamReasons,omitempty"`
	IsSpam      bool      `json:"isSpam"`
	At          time.Time `json:"at"`
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// messageKey formats "mail:{owner}:{folder}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the UUID as a collision disconnector
//     if two messages arrive at the same nanosecond.
func messageKey(m StoredMessage) []byte {
	return []byte(fmt.Sprintf("mail:%s:%s:%019d:%s",
		strings.ToLower(m.Owner),
		m.Folder,
		m.At.UnixNano(),
		m.ID,
	))
}

func (r MessageRepository) StoreMessage(message StoredMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), data)
	})
}

// GetMessages returns the newest messages first, walking the
// time-ordered keys in reverse.
func (r MessageRepository) GetMessages(owner, folder string, limit int) ([]StoredMessage, error) {
	var messages []StoredMessage
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("mail:%s:%s:", strings.ToLower(owner), folder)
		prefix := []byte(prefixStr)

		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then walk back.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d messages reached", limit))
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var m StoredMessage
				if err := json.Unmarshal(val, &m); err != nil {
					return err
				}
				messages = append(messages, m)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}
