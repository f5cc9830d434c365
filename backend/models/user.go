package models

import (
	"time"

	"engilearn/backend/gamification"
)

type User struct {
	Model
	Email            string     `gorm:"uniqueIndex;not null" json:"email"`
	Username         string     `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	Level            int        `gorm:"not null;default:0" json:"level"`
	TotalXP          int        `gorm:"column:total_xp;not null;default:0" json:"totalXp"`
	StreakCount      int        `gorm:"not null;default:0" json:"streakCount"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	AvatarURL        string     `gorm:"size:500" json:"avatarUrl,omitempty"`
	Bio              string     `json:"bio,omitempty"`
	SubscriptionTier string     `gorm:"not null;default:'free'" json:"subscriptionTier"` // free, pro, lifetime
	EmailVerified    bool       `json:"emailVerified"`
}

// AddXP applies an award and keeps Level derived from TotalXP.
func (u *User) AddXP(amount int) {
	u.TotalXP += amount
	u.Level = gamification.LevelForXP(u.TotalXP)
}
