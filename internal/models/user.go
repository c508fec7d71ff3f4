package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Role distinguishes ordinary members from administrators.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the credential store record: identity, password hash, role, and the
// single verification-code slot shared by the activation, password-reset, and
// email-change flows. Issuing a new code overwrites any prior one.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	MemberNo string `gorm:"uniqueIndex;size:16" json:"memberNo"`
	Email    string `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Name     string `gorm:"size:50" json:"name"`

	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"not null;default:USER;size:8" json:"role"`

	IsEmailVerified bool       `gorm:"default:false" json:"isEmailVerified"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`

	VerificationCode      *string    `gorm:"size:8" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`

	Orders        []Order        `gorm:"foreignKey:UserID" json:"-"`
	Subscriptions []Subscription `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AfterCreate derives the member number from the assigned numeric ID.
func (u *User) AfterCreate(tx *gorm.DB) error {
	if u.MemberNo != "" {
		return nil
	}
	u.MemberNo = fmt.Sprintf("M%08d", u.ID)
	return tx.Model(u).Update("member_no", u.MemberNo).Error
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
