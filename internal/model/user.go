package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a store staff account allowed into the admin surface.
// Shoppers check out as guests and never get a User row.
type User struct {
	BaseModel
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	RoleID       *uint  `gorm:"index" json:"role_id"`
	Role         *Role  `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
	TokenVersion string `gorm:"type:varchar(255);default:''" json:"-"` // single session enforcement
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// PrivilegeCodes returns the codes granted through the user's role.
func (u *User) PrivilegeCodes() []string {
	if u.Role == nil {
		return []string{}
	}
	codes := make([]string, len(u.Role.Privileges))
	for i, p := range u.Role.Privileges {
		codes[i] = p.Code
	}
	return codes
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role,omitempty"`
	IsActive   bool      `json:"is_active"`
	Privileges []string  `json:"privileges"`
}

func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		IsActive:   u.IsActive,
		Privileges: u.PrivilegeCodes(),
	}
	if u.Role != nil {
		resp.Role = u.Role.Code
	}
	return resp
}
