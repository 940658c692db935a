package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/pavelanni/wellness/internal/model"
)

// GetUserSettings returns a user's saved settings, or the defaults when the
// user never saved any.
func (s *Store) GetUserSettings(userID int64) (model.UserSettings, error) {
	st := model.UserSettings{UserID: userID}
	var updated time.Time
	err := s.db.QueryRow(
		`SELECT phone, emergency_contact, emergency_phone,
		        email_notifications, sms_notifications, appointment_reminders, assessment_reminders, wellness_updates,
		        share_with_researchers, allow_anonymous_usage, data_retention,
		        theme, language, timezone, updated_at
		 FROM user_settings WHERE user_id = ?`, userID,
	).Scan(
		&st.Profile.Phone, &st.Profile.EmergencyContact, &st.Profile.EmergencyPhone,
		&st.Notifications.Email, &st.Notifications.SMS, &st.Notifications.AppointmentReminders,
		&st.Notifications.AssessmentReminders, &st.Notifications.WellnessUpdates,
		&st.Privacy.ShareWithResearchers, &st.Privacy.AllowAnonymousUsage, &st.Privacy.DataRetention,
		&st.Preferences.Theme, &st.Preferences.Language, &st.Preferences.Timezone, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultUserSettings(userID), nil
	}
	if err != nil {
		return st, err
	}
	st.UpdatedAt = &updated
	return st, nil
}

// SaveUserSettings upserts a user's settings.
func (s *Store) SaveUserSettings(st model.UserSettings) error {
	updated := time.Now().UTC()
	if st.UpdatedAt != nil {
		updated = st.UpdatedAt.UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO user_settings (user_id, phone, emergency_contact, emergency_phone,
		        email_notifications, sms_notifications, appointment_reminders, assessment_reminders, wellness_updates,
		        share_with_researchers, allow_anonymous_usage, data_retention,
		        theme, language, timezone, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		        phone = excluded.phone,
		        emergency_contact = excluded.emergency_contact,
		        emergency_phone = excluded.emergency_phone,
		        email_notifications = excluded.email_notifications,
		        sms_notifications = excluded.sms_notifications,
		        appointment_reminders = excluded.appointment_reminders,
		        assessment_reminders = excluded.assessment_reminders,
		        wellness_updates = excluded.wellness_updates,
		        share_with_researchers = excluded.share_with_researchers,
		        allow_anonymous_usage = excluded.allow_anonymous_usage,
		        data_retention = excluded.data_retention,
		        theme = excluded.theme,
		        language = excluded.language,
		        timezone = excluded.timezone,
		        updated_at = excluded.updated_at`,
		st.UserID, st.Profile.Phone, st.Profile.EmergencyContact, st.Profile.EmergencyPhone,
		st.Notifications.Email, st.Notifications.SMS, st.Notifications.AppointmentReminders,
		st.Notifications.AssessmentReminders, st.Notifications.WellnessUpdates,
		st.Privacy.ShareWithResearchers, st.Privacy.AllowAnonymousUsage, st.Privacy.DataRetention,
		st.Preferences.Theme, st.Preferences.Language, st.Preferences.Timezone, updated,
	)
	return err
}
