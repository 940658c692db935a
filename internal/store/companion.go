package store

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pavelanni/wellness/internal/model"
)

const companionColumns = `id, user_id, started_at, ended_at, completed, duration`

func scanCompanion(row scanner) (model.CompanionSession, error) {
	var cs model.CompanionSession
	err := row.Scan(&cs.ID, &cs.UserID, &cs.StartedAt, &cs.EndedAt, &cs.Completed, &cs.Duration)
	return cs, err
}

// StartCompanionSession opens a new Tara session for a user.
func (s *Store) StartCompanionSession(userID int64, at time.Time) (model.CompanionSession, error) {
	cs := model.CompanionSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: at.UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO companion_sessions (id, user_id, started_at, completed, duration) VALUES (?, ?, ?, 0, 0)`,
		cs.ID, cs.UserID, cs.StartedAt,
	)
	return cs, err
}

// insertCompanionSession stores a finished session as given.
func (s *Store) insertCompanionSession(cs model.CompanionSession) error {
	_, err := s.db.Exec(
		`INSERT INTO companion_sessions (id, user_id, started_at, ended_at, completed, duration)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cs.ID, cs.UserID, cs.StartedAt.UTC(), cs.EndedAt, cs.Completed, cs.Duration,
	)
	return err
}

// GetCompanionSession returns a session by ID.
func (s *Store) GetCompanionSession(id string) (*model.CompanionSession, error) {
	cs, err := scanCompanion(s.db.QueryRow(`SELECT `+companionColumns+` FROM companion_sessions WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return &cs, nil
}

// EndCompanionSession marks a session completed and records its length in
// whole minutes, rounded up. Ending an already ended session is a no-op.
func (s *Store) EndCompanionSession(id string, at time.Time) (*model.CompanionSession, error) {
	cs, err := s.GetCompanionSession(id)
	if err != nil {
		return nil, err
	}
	if cs.Completed {
		return cs, nil
	}
	end := at.UTC()
	minutes := int(math.Ceil(end.Sub(cs.StartedAt).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	if _, err := s.db.Exec(
		`UPDATE companion_sessions SET ended_at = ?, completed = 1, duration = ? WHERE id = ?`,
		end, minutes, id,
	); err != nil {
		return nil, err
	}
	cs.EndedAt = &end
	cs.Completed = true
	cs.Duration = minutes
	return cs, nil
}

// ListCompanionSessions returns all sessions, newest first.
func (s *Store) ListCompanionSessions() ([]model.CompanionSession, error) {
	return s.queryCompanion(`SELECT ` + companionColumns + ` FROM companion_sessions ORDER BY started_at DESC`)
}

// ListCompanionSessionsByUser returns one user's sessions, newest first.
func (s *Store) ListCompanionSessionsByUser(userID int64) ([]model.CompanionSession, error) {
	return s.queryCompanion(
		`SELECT `+companionColumns+` FROM companion_sessions WHERE user_id = ? ORDER BY started_at DESC`, userID,
	)
}

func (s *Store) queryCompanion(query string, args ...any) ([]model.CompanionSession, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.CompanionSession
	for rows.Next() {
		cs, err := scanCompanion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// AddChatMessage appends a message to a session transcript.
func (s *Store) AddChatMessage(msg model.ChatMessage) (int64, error) {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	res, err := s.db.Exec(
		`INSERT INTO chat_messages (session_id, sender, content, created_at) VALUES (?, ?, ?, ?)`,
		msg.SessionID, msg.Sender, msg.Content, msg.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AddChatExchange stores a user message and Tara's reply together, so a
// transcript never ends on an unanswered message.
func (s *Store) AddChatExchange(msg, reply model.ChatMessage) (model.ChatMessage, model.ChatMessage, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return msg, reply, err
	}
	defer tx.Rollback()

	for _, m := range []*model.ChatMessage{&msg, &reply} {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		m.CreatedAt = m.CreatedAt.UTC()
		res, err := tx.Exec(
			`INSERT INTO chat_messages (session_id, sender, content, created_at) VALUES (?, ?, ?, ?)`,
			m.SessionID, m.Sender, m.Content, m.CreatedAt,
		)
		if err != nil {
			return msg, reply, fmt.Errorf("insert %s message: %w", m.Sender, err)
		}
		if m.ID, err = res.LastInsertId(); err != nil {
			return msg, reply, err
		}
	}
	return msg, reply, tx.Commit()
}

// GetChatMessages returns a session transcript in order.
func (s *Store) GetChatMessages(sessionID string) ([]model.ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, sender, content, created_at FROM chat_messages WHERE session_id = ? ORDER BY id`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
