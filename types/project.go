package types

import "time"

// Project represents a member-submitted project. Projects enter the system
// as pending and appear in the public showcase only once an admin approves
// them; they are not editable by the submitter after creation.
type Project struct {
	// ID is the unique identifier of the project.
	ID int `json:"id" db:"id"`

	// Title is the human-readable name of the project.
	Title string `json:"title" db:"title"`

	// Description contains the project write-up shown on the showcase.
	Description string `json:"description" db:"description"`

	// GithubLink points at the project repository.
	GithubLink string `json:"github_link" db:"github_link"`

	// DemoLink optionally points at a live demo.
	DemoLink string `json:"demo_link,omitempty" db:"demo_link"`

	// ThumbnailURL optionally points at the uploaded thumbnail image in
	// object storage.
	ThumbnailURL string `json:"thumbnail_url,omitempty" db:"thumbnail_url"`

	// SubmittedBy is the User id of the submitting member.
	SubmittedBy string `json:"submitted_by" db:"submitted_by"`

	// Status is the review state deciding showcase visibility.
	Status ApprovalStatus `json:"status" db:"status"`

	// CreatedAt is the timestamp when the project was submitted.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
