package model

import "time"

type User struct {
	UserID             string    `bson:"user_id" json:"user_id"`
	Username           string    `bson:"username" json:"username" validate:"required,min=3,max=30"`
	Email              string    `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Password           string    `bson:"password" json:"-"`
	IsAdmin            bool      `bson:"is_admin" json:"is_admin"`
	FamilyID           string    `bson:"family_id,omitempty" json:"family_id,omitempty"` // group model: at most one family
	TwoFactorSecret    string    `bson:"two_factor_secret,omitempty" json:"-"`
	TwoFactorEnabled   bool      `bson:"two_factor_enabled" json:"two_factor_enabled"`
	RecoveryCodes      []string  `bson:"recovery_codes,omitempty" json:"-"`
	LastPasswordChange time.Time `bson:"last_password_change,omitempty" json:"-"`
	LastEmailChange    time.Time `bson:"last_email_change,omitempty" json:"-"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

type LoginRequest struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	TwoFactorCode string `json:"two_factor_code,omitempty"`
}
