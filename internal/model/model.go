package model

import (
	"context"
	"time"

	"github.com/pavelanni/wellness/internal/assessment"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleStudent is a student user role.
	UserRoleStudent UserRole = "student"
	// UserRoleAdmin is an admin user role.
	UserRoleAdmin UserRole = "admin"
)

// User represents a portal user.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	PasswordHash  string    `json:"-"`
	Role          UserRole  `json:"role"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	WellnessScore *int      `json:"wellness_score,omitempty"`
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

// AssessmentRecord is a completed questionnaire as stored. Score, MaxScore and
// Band are a snapshot taken at submission time.
type AssessmentRecord struct {
	ID          int64               `json:"id"`
	UserID      int64               `json:"user_id"`
	Kind        assessment.Kind     `json:"type"`
	Title       string              `json:"title"`
	Score       int                 `json:"score"`
	MaxScore    int                 `json:"max_score"`
	Band        assessment.Band     `json:"band"`
	CompletedAt time.Time           `json:"completed_at"`
	Responses   []assessment.Answer `json:"responses,omitempty"`
}

// Percentage is the rounded share of the maximum score.
func (a AssessmentRecord) Percentage() int {
	return assessment.Percentage(a.Score, a.MaxScore)
}

// Sender identifies the author of a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderTara Sender = "tara"
)

// CompanionSession is one conversation with Tara.
type CompanionSession struct {
	ID        string     `json:"id"`
	UserID    int64      `json:"user_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Completed bool       `json:"completed"`
	Duration  int        `json:"duration"` // minutes
}

// ChatMessage is a single line of a companion session transcript.
type ChatMessage struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// AppointmentType categorizes an appointment.
type AppointmentType string

const (
	AppointmentCounseling AppointmentType = "counseling"
	AppointmentGroup      AppointmentType = "group"
	AppointmentWellness   AppointmentType = "wellness"
	AppointmentAssessment AppointmentType = "assessment"
)

// AppointmentStatus represents the state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a scheduled meeting with a counselor or group.
type Appointment struct {
	ID              int64             `json:"id"`
	UserID          int64             `json:"user_id"`
	Title           string            `json:"title"`
	Type            AppointmentType   `json:"type"`
	Counselor       string            `json:"counselor"`
	Location        string            `json:"location"`
	StartsAt        time.Time         `json:"starts_at"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          AppointmentStatus `json:"status"`
}

// ServerConfig holds runtime parameters set via CLI flags.
type ServerConfig struct {
	SecureCookies  bool    // Set Secure flag on cookies (disable for local dev)
	SimulateTyping bool    // Delay Tara replies like a human typist
	ChatRate       float64 // Tara messages per second per user, 0 = unlimited
	ChatBurst      int
	LoginRate      float64 // Login attempts per second across all clients, 0 = unlimited
	LoginBurst     int
}
