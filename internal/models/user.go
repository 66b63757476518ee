package models

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// User is a back-office account. Shoppers check out without an account.
type User struct {
	BaseModel
	Phone        string `gorm:"uniqueIndex" json:"phone"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
}
