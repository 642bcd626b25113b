package models

// User is an authenticated citizen account. The draft/validation core only
// ever sees the ID and email as opaque identifiers.
type User struct {
	ID           string `json:"_id,omitempty"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	CreatedAt    string `json:"createdAt"`
}

// PublicUser is the wire shape of a user, without the password hash.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
