package model

import "time"

// User represents a registered account in the system
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Phone        string    `json:"phone"`
	Profession   string    `json:"profession"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the outward view of a user, without credential material
type Profile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Profession string    `json:"profession"`
	CreatedAt  time.Time `json:"created_at"`
}

// Profile projects the user onto its public view
func (u *User) Profile() *Profile {
	return &Profile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Profession: u.Profession,
		CreatedAt:  u.CreatedAt,
	}
}

// ProfilePatch carries the optional fields of an edit request.
// An empty string means the field was not supplied and must be left untouched.
type ProfilePatch struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"phone"`
	Profession      string `json:"profession"`
}
