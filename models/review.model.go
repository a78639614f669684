package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	UserID   uint    `json:"userId" gorm:"not null;uniqueIndex:idx_review_user_course"`
	CourseID uint    `json:"courseId" gorm:"not null;index;uniqueIndex:idx_review_user_course"`
	Rating   int     `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1 to 5
	Review   string  `json:"review" gorm:"type:text;not null"`
	User     *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course   *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
