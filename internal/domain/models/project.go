package models

import "time"

// Visibility controls who can view a project.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// MemberRole is a user's role on a project they don't own.
type MemberRole string

const (
	RoleViewer MemberRole = "viewer"
	RoleEditor MemberRole = "editor"
	RoleAdmin  MemberRole = "admin"
)

// Project is the tenant boundary: every document and revision batch belongs
// to exactly one project and never outlives it.
type Project struct {
	ID          string     `json:"id" db:"id"`
	Slug        string     `json:"slug" db:"slug"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description" db:"description"`
	Visibility  Visibility `json:"visibility" db:"visibility"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
