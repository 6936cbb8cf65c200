package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func userID(u entity.User) int { return u.ID }

// CreateUser appends a new user account. The engine assigns the id and the
// creation timestamp; whatever the caller put in those fields is discarded.
func (s *Store) CreateUser(ctx context.Context, u entity.User) (entity.User, error) {
	event, err := s.mutate(ctx, "CreateUser", func(st *State) (shared.Event, error) {
		u.ID = nextID(st.Users, userID)
		u.CreatedAt = s.now()
		st.Users = append(st.Users, u)
		return s.newEvent(shared.KindUser, shared.OpCreated, u), nil
	})
	if err != nil {
		return entity.User{}, err
	}
	return event.Record.(entity.User), nil
}

// GetUserByID returns the user with the given id, or ErrUserNotFound.
func (s *Store) GetUserByID(ctx context.Context, id int) (entity.User, error) {
	var (
		out   entity.User
		found bool
	)
	if err := s.read("GetUserByID", func(st *State) {
		if i := indexByID(st.Users, userID, id); i >= 0 {
			out, found = st.Users[i], true
		}
	}); err != nil {
		return entity.User{}, err
	}
	if !found {
		return entity.User{}, ErrUserNotFound
	}
	return out, nil
}

// GetUserByEmail returns the user with the given email, or ErrUserNotFound.
// Sign-in flows look accounts up by email, not id.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (entity.User, error) {
	var (
		out   entity.User
		found bool
	)
	if err := s.read("GetUserByEmail", func(st *State) {
		for _, u := range st.Users {
			if u.Email == email {
				out, found = u, true
				return
			}
		}
	}); err != nil {
		return entity.User{}, err
	}
	if !found {
		return entity.User{}, ErrUserNotFound
	}
	return out, nil
}

// UpdateUser shallow-merges the patch over the stored user: set fields win,
// nil fields keep their current values. Returns ErrUserNotFound (with no
// state change and no event) when the id does not exist.
func (s *Store) UpdateUser(ctx context.Context, id int, patch entity.UserPatch) (entity.User, error) {
	event, err := s.mutate(ctx, "UpdateUser", func(st *State) (shared.Event, error) {
		i := indexByID(st.Users, userID, id)
		if i < 0 {
			return shared.Event{}, ErrUserNotFound
		}
		u := st.Users[i]
		if patch.Name != nil {
			u.Name = *patch.Name
		}
		if patch.Email != nil {
			u.Email = *patch.Email
		}
		if patch.PasswordHash != nil {
			u.PasswordHash = *patch.PasswordHash
		}
		if patch.Role != nil {
			u.Role = *patch.Role
		}
		st.Users[i] = u
		return s.newEvent(shared.KindUser, shared.OpUpdated, u), nil
	})
	if err != nil {
		return entity.User{}, err
	}
	return event.Record.(entity.User), nil
}

// ListUsers returns every user account.
func (s *Store) ListUsers(ctx context.Context) ([]entity.User, error) {
	var out []entity.User
	err := s.read("ListUsers", func(st *State) {
		out = filterCopy(st.Users, func(entity.User) bool { return true })
	})
	return out, err
}

// ListUsersByRole returns the accounts holding the given role.
func (s *Store) ListUsersByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	var out []entity.User
	err := s.read("ListUsersByRole", func(st *State) {
		out = filterCopy(st.Users, func(u entity.User) bool { return u.Role == role })
	})
	return out, err
}
