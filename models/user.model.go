package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can sign up with
const (
	RoleStudent    = "Student"
	RoleInstructor = "Instructor"
	RoleAdmin      = "Admin"
)

type User struct {
	gorm.Model
	FirstName string    `json:"firstName" gorm:"not null"`
	LastName  string    `json:"lastName" gorm:"not null"`
	Email     string    `json:"email" gorm:"unique;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"not null;default:'Student'"`
	Avatar    string    `json:"avatar" gorm:"default:''"`
	Active    bool      `json:"active" gorm:"default:true"`
	LastLogin time.Time `json:"lastLogin" gorm:"default:NULL"`
	ProfileID uint      `json:"profileId"`
	Profile   Profile   `json:"profile,omitempty" gorm:"foreignKey:ProfileID"`

	// Owned courses and progress records, appended by enrollment
	Courses        []UserCourse     `json:"courses,omitempty" gorm:"foreignKey:UserID"`
	CourseProgress []CourseProgress `json:"courseProgress,omitempty" gorm:"foreignKey:UserID"`
}

// FullName joins first and last name for greetings
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Profile holds optional personal details shown on the dashboard
type Profile struct {
	gorm.Model
	Gender        *string    `json:"gender"`
	DOB           *time.Time `json:"dob"`
	About         *string    `json:"about"`
	ContactNumber string     `json:"contactNumber" gorm:"default:''"`
}
