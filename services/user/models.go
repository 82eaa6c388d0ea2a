package user

// User accounts start inactive; the activation token is cleared once the
// emailed link is followed. Password is always a bcrypt hash.
type User struct {
	ID                 uint    `json:"id" gorm:"primaryKey"`
	Username           string  `json:"username" gorm:"size:32;not null"`
	Email              string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password           string  `json:"-" gorm:"not null"`
	Inactive           bool    `json:"-" gorm:"not null;default:true"`
	ActivationToken    *string `json:"-" gorm:"index"`
	PasswordResetToken *string `json:"-" gorm:"index"`
	Image              *string `json:"image"`
}

func (User) TableName() string {
	return "users"
}

// View is the public projection of a user returned by listing and lookup.
type View struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Image    *string `json:"image"`
}

type Page struct {
	Content    []View `json:"content"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	TotalPages int    `json:"totalPages"`
}
