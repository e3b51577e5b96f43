package devbackend

import (
	"errors"
	"fmt"
)

// SeedAdmin creates a superuser that can log in, unless the username already exists.
func SeedAdmin(store *Store, hasher PasswordHasher, username, password string) (User, error) {
	if u, err := store.UserByUsername(username); err == nil {
		return u, nil
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash admin password: %w", err)
	}

	return store.CreateUser(User{
		Username:     username,
		PasswordHash: hash,
		IsSuperuser:  true,
		IsStaff:      true,
	})
}
