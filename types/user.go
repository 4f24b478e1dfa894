package types

import "time"

// User represents a club member row in the directory. One row exists per
// identity that has ever signed in; rows are created lazily with a pending
// status and are never deleted in normal flow.
type User struct {
	// ID is the identity provider's account id for this member.
	ID string `json:"id" db:"id"`

	// Name is the member's display or full name.
	Name string `json:"name" db:"name"`

	// Email is the member's unique email address, mirrored from the
	// identity provider.
	Email string `json:"email" db:"email"`

	// Grade is the member's school grade level (9-12). Zero until the
	// member completes their profile.
	Grade int `json:"grade" db:"grade"`

	// GithubUsername is the member's GitHub handle.
	GithubUsername string `json:"github_username" db:"github_username"`

	// Bio is a short self-description supplied on the join form.
	Bio string `json:"bio" db:"bio"`

	// Status is the membership approval state gating dashboard access.
	Status ApprovalStatus `json:"status" db:"status"`

	// CreatedAt is the timestamp when the row was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Admin represents a back-office account. An Admin row existing for an id
// does not imply the matching User is approved; membership and admin role
// are independent gates.
type Admin struct {
	// ID is the identity provider's account id for this admin.
	ID string `json:"id" db:"id"`

	// Email is the admin's email address.
	Email string `json:"email" db:"email"`

	// Role is the admin's authorization level.
	Role AdminRole `json:"role" db:"role"`

	// CreatedAt is the timestamp when the row was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Profile holds the optional public-profile fields a member maintains for
// themselves, 1:1 with User.
type Profile struct {
	UserID        string    `json:"user_id" db:"user_id"`
	ProfilePicURL string    `json:"profile_pic_url,omitempty" db:"profile_pic_url"`
	Bio           string    `json:"bio,omitempty" db:"bio"`
	Skills        []string  `json:"skills" db:"skills"`
	GithubLink    string    `json:"github_link,omitempty" db:"github_link"`
	LinkedinLink  string    `json:"linkedin_link,omitempty" db:"linkedin_link"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Achievement records a recognition an admin has assigned to a member.
type Achievement struct {
	ID          int       `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
