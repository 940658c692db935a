package model

import (
	"fmt"
	"slices"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/language"
)

// Settings choices.
var (
	Themes         = []string{"light", "dark", "auto"}
	DataRetentions = []string{"1year", "2years", "5years", "indefinite"}
)

// UserSettings holds a user's portal preferences.
type UserSettings struct {
	UserID        int64                `json:"-"`
	Profile       ProfileSettings      `json:"profile"`
	Notifications NotificationSettings `json:"notifications"`
	Privacy       PrivacySettings      `json:"privacy"`
	Preferences   PreferenceSettings   `json:"preferences"`
	UpdatedAt     *time.Time           `json:"updated_at,omitempty"`
}

// ProfileSettings are contact details beyond the account's name and email.
type ProfileSettings struct {
	Phone            string `json:"phone"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
}

type NotificationSettings struct {
	Email                bool `json:"email"`
	SMS                  bool `json:"sms"`
	AppointmentReminders bool `json:"appointment_reminders"`
	AssessmentReminders  bool `json:"assessment_reminders"`
	WellnessUpdates      bool `json:"wellness_updates"`
}

type PrivacySettings struct {
	ShareWithResearchers bool   `json:"share_with_researchers"`
	AllowAnonymousUsage  bool   `json:"allow_anonymous_usage"`
	DataRetention        string `json:"data_retention"`
}

// PreferenceSettings control presentation. Language is a BCP 47 tag and
// takes precedence over the browser's Accept-Language header.
type PreferenceSettings struct {
	Theme    string `json:"theme"`
	Language string `json:"language"`
	Timezone string `json:"timezone"`
}

// DefaultUserSettings returns the settings of a user who never saved any.
func DefaultUserSettings(userID int64) UserSettings {
	return UserSettings{
		UserID: userID,
		Notifications: NotificationSettings{
			Email:                true,
			AppointmentReminders: true,
			AssessmentReminders:  true,
			WellnessUpdates:      true,
		},
		Privacy: PrivacySettings{
			AllowAnonymousUsage: true,
			DataRetention:       "2years",
		},
		Preferences: PreferenceSettings{
			Theme:    "light",
			Language: "en",
			Timezone: "America/New_York",
		},
	}
}

// SettingsError names the first invalid settings field.
type SettingsError struct {
	Field string
	Value string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

// Validate checks the enumerated and structured fields.
func (s UserSettings) Validate() error {
	p := s.Preferences
	if !slices.Contains(Themes, p.Theme) {
		return &SettingsError{Field: "theme", Value: p.Theme}
	}
	if !slices.Contains(DataRetentions, s.Privacy.DataRetention) {
		return &SettingsError{Field: "data_retention", Value: s.Privacy.DataRetention}
	}
	if _, err := language.Parse(p.Language); err != nil {
		return &SettingsError{Field: "language", Value: p.Language}
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil || p.Timezone == "" {
		return &SettingsError{Field: "timezone", Value: p.Timezone}
	}
	return nil
}
