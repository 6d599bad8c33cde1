package model

import (
	"time"

	"gorm.io/datatypes"
)

type Skill struct {
	Name     string `json:"name"`
	Level    int    `json:"level"` // 0-100
	Category string `json:"category"`
}

type Certificate struct {
	Title        string `json:"title"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId"`
	Verified     bool   `json:"verified"`
}

type LearningActivity struct {
	Course   string `json:"course"`
	Progress int    `json:"progress"` // 0-100
	Status   string `json:"status"`   // In Progress / Completed / Not Started
}

type UserStats struct {
	CoursesCompleted   int `json:"coursesCompleted"`
	CertificatesEarned int `json:"certificatesEarned"`
	LearningStreak     int `json:"learningStreak"`
	HoursLearned       int `json:"hoursLearned"`
}

// User 用户档案。认证由外部签发的token承担，这里不存凭据
type User struct {
	UUIDBase
	Name             string                                `gorm:"size:50;not null" json:"name"`
	Email            string                                `gorm:"size:255;index" json:"email"`
	Phone            string                                `gorm:"size:32" json:"phone"`
	Location         string                                `gorm:"size:128" json:"location"`
	Role             string                                `gorm:"size:32;default:Student" json:"role"`
	Skills           datatypes.JSONSlice[Skill]            `json:"skills"`
	Certificates     datatypes.JSONSlice[Certificate]      `json:"certificates"`
	LearningActivity datatypes.JSONSlice[LearningActivity] `json:"learningActivity"`
	Stats            UserStats                             `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	JoinDate         time.Time                             `json:"joinDate"`
	LastSeenAt       time.Time                             `json:"lastSeenAt"`
}

func (User) TableName() string {
	return "users"
}
