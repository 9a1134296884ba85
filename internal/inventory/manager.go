package inventory

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLen is the bcrypt input limit. bcrypt ignores anything past it, so
// longer candidates could match a stored digest on their prefix alone.
const maxPasswordLen = 72

type Manager struct {
	Username     string `json:"username" yaml:"username"`
	PasswordHash string `json:"password_hash" yaml:"password_hash"`
}

// AddManager appends a manager with a bcrypt digest of password. Usernames are not
// required to be unique.
func (s *Store) AddManager(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("%w: hash password: %w", ErrInvalidInput, err)
	}

	s.mu.Lock()
	s.managers = append(s.managers, Manager{Username: username, PasswordHash: string(hash)})
	s.mu.Unlock()

	s.log.Debug("manager added", zap.String("username", username))
	return nil
}

// Authenticate reports whether any manager named username has a digest matching password.
func (s *Store) Authenticate(username, password string) bool {
	if len(password) > maxPasswordLen {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.managers {
		if m.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) == nil {
			return true
		}
	}
	return false
}

func (s *Store) Managers() []Manager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.managers)
}
