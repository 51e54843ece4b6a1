//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"space-chat/codec"
	"space-chat/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(username, hashedPassword string) (User, error)
	GetUserByUsername(username string) (User, error)
}

type UserRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewUserRepository(db *badger.DB) (*UserRepository, error) {
	seq, err := newSequence(db, "user")
	if err != nil {
		return nil, fmt.Errorf("user sequence: %w", err)
	}
	return &UserRepository{db: db, seq: seq}, nil
}

// User is the repository representation of an account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type userRecord struct {
	ID           int64  `cbor:"id"`
	Username     string `cbor:"username"`
	PasswordHash string `cbor:"password_hash"`
	CreatedAt    int64  `cbor:"created_at"`
}

func userKey(username string) []byte {
	return []byte("user:" + username)
}

// CreateUser persists a new account keyed by username.
// The password must already be hashed, the repository never sees it in clear.
func (u *UserRepository) CreateUser(username, hashedPassword string) (User, error) {
	id, err := nextID(u.seq)
	if err != nil {
		return User{}, fmt.Errorf("user id: %w", err)
	}
	user := User{
		ID:           id,
		Username:     username,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := codec.Marshal(fromUser(user))
	if err != nil {
		return User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := userKey(username)
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return errors.ErrUserAlreadyExists
		case !isNotFound(err):
			return err
		}
		return txn.Set(key, data)
	})
	if isConflict(err) {
		return User{}, errors.ErrUserAlreadyExists
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUserByUsername returns ErrNotFound for unknown usernames.
func (u *UserRepository) GetUserByUsername(username string) (User, error) {
	var record userRecord
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(username))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return codec.Unmarshal(val, &record)
		})
	})
	if isNotFound(err) {
		return User{}, fmt.Errorf("%w: user %q", errors.ErrNotFound, username)
	}
	if err != nil {
		return User{}, err
	}
	return toUser(record), nil
}

// Close returns the unused part of the id lease.
func (u *UserRepository) Close() error {
	return u.seq.Release()
}

func fromUser(user User) userRecord {
	return userRecord{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt.UnixNano(),
	}
}

func toUser(record userRecord) User {
	return User{
		ID:           record.ID,
		Username:     record.Username,
		PasswordHash: record.PasswordHash,
		CreatedAt:    time.Unix(0, record.CreatedAt).UTC(),
	}
}
