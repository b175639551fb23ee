package users

import "time"

// User is a member of a recruiting team. Role and department feed the
// activity log's user display info.
type User struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"companyId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	PictureURL string    `json:"pictureUrl"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DisplayName renders the name used for archivedByName and activity entries.
func (u User) DisplayName() string {
	switch {
	case u.Name == "" && u.Surname == "":
		return "Unknown User"
	case u.Surname == "":
		return u.Name
	default:
		return u.Name + " " + u.Surname
	}
}
