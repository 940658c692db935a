package store

import "github.com/pavelanni/wellness/internal/model"

// CreateAppointment stores an appointment.
func (s *Store) CreateAppointment(a model.Appointment) (int64, error) {
	if a.Status == "" {
		a.Status = model.StatusScheduled
	}
	res, err := s.db.Exec(
		`INSERT INTO appointments (user_id, title, type, counselor, location, starts_at, duration_minutes, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.Title, a.Type, a.Counselor, a.Location, a.StartsAt.UTC(), a.DurationMinutes, a.Status,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const appointmentColumns = `id, user_id, title, type, counselor, location, starts_at, duration_minutes, status`

// ListAppointments returns every student's appointments in start order.
func (s *Store) ListAppointments() ([]model.Appointment, error) {
	return s.queryAppointments(`SELECT ` + appointmentColumns + ` FROM appointments ORDER BY starts_at`)
}

// ListAppointmentsByUser returns one user's appointments in start order.
func (s *Store) ListAppointmentsByUser(userID int64) ([]model.Appointment, error) {
	return s.queryAppointments(
		`SELECT `+appointmentColumns+` FROM appointments WHERE user_id = ? ORDER BY starts_at`, userID,
	)
}

func (s *Store) queryAppointments(query string, args ...any) ([]model.Appointment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Type, &a.Counselor, &a.Location, &a.StartsAt, &a.DurationMinutes, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
