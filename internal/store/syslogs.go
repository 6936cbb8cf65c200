package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func systemLogID(l entity.SystemLog) int { return l.ID }

// CreateSystemLog appends an audit entry. Log entries are append-only; there
// are no update or delete operations for this kind.
func (s *Store) CreateSystemLog(ctx context.Context, l entity.SystemLog) (entity.SystemLog, error) {
	event, err := s.mutate(ctx, "CreateSystemLog", func(st *State) (shared.Event, error) {
		l.ID = nextID(st.Logs, systemLogID)
		l.Timestamp = s.now()
		st.Logs = append(st.Logs, l)
		return s.newEvent(shared.KindSystemLog, shared.OpCreated, l), nil
	})
	if err != nil {
		return entity.SystemLog{}, err
	}
	return event.Record.(entity.SystemLog), nil
}

// GetSystemLogByID returns the audit entry with the given id.
func (s *Store) GetSystemLogByID(ctx context.Context, id int) (entity.SystemLog, error) {
	var (
		out   entity.SystemLog
		found bool
	)
	if err := s.read("GetSystemLogByID", func(st *State) {
		if i := indexByID(st.Logs, systemLogID, id); i >= 0 {
			out, found = st.Logs[i], true
		}
	}); err != nil {
		return entity.SystemLog{}, err
	}
	if !found {
		return entity.SystemLog{}, ErrLogNotFound
	}
	return out, nil
}

// ListSystemLogs returns every audit entry.
func (s *Store) ListSystemLogs(ctx context.Context) ([]entity.SystemLog, error) {
	var out []entity.SystemLog
	err := s.read("ListSystemLogs", func(st *State) {
		out = filterCopy(st.Logs, func(entity.SystemLog) bool { return true })
	})
	return out, err
}

// ListSystemLogsByUser returns the audit entries attributed to one user.
func (s *Store) ListSystemLogsByUser(ctx context.Context, userID int) ([]entity.SystemLog, error) {
	var out []entity.SystemLog
	err := s.read("ListSystemLogsByUser", func(st *State) {
		out = filterCopy(st.Logs, func(l entity.SystemLog) bool { return l.UserID == userID })
	})
	return out, err
}
