package models

import "time"

// User roles
const (
	RoleWorker   = "worker"
	RoleEmployer = "employer"
	RoleAdmin    = "admin"
)

// User is a registered worker or employer.
type User struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Location  string    `json:"location,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a copy of the user.
func (u User) Clone() User {
	return u
}

// Merge copies the non-zero fields of patch onto a copy of the user and
// returns it. Used for partial profile updates.
func (u User) Merge(patch User) User {
	out := u
	if patch.Email != "" {
		out.Email = patch.Email
	}
	if patch.FirstName != "" {
		out.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		out.LastName = patch.LastName
	}
	if patch.Phone != "" {
		out.Phone = patch.Phone
	}
	if patch.Location != "" {
		out.Location = patch.Location
	}
	if patch.Bio != "" {
		out.Bio = patch.Bio
	}
	if patch.AvatarURL != "" {
		out.AvatarURL = patch.AvatarURL
	}
	return out
}

// Application status constants
const (
	ApplicationPending   = "pending"
	ApplicationAccepted  = "accepted"
	ApplicationRejected  = "rejected"
	ApplicationWithdrawn = "withdrawn"
)

// Application is a worker's application to a posted job.
type Application struct {
	ID          string    `json:"id,omitempty"`
	JobID       string    `json:"job_id"`
	WorkerID    string    `json:"worker_id"`
	CoverLetter string    `json:"cover_letter,omitempty"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Rating is feedback left after a completed job, either direction.
type Rating struct {
	ID        string    `json:"id,omitempty"`
	JobID     string    `json:"job_id"`
	RaterID   string    `json:"rater_id"`
	RateeID   string    `json:"ratee_id"`
	Score     int       `json:"score"` // 1..5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
