package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseProgress exists once per (course, user) pair and is created at enrollment
type CourseProgress struct {
	gorm.Model
	CourseID          uint               `json:"courseId" gorm:"not null;uniqueIndex:idx_progress_course_user"`
	UserID            uint               `json:"userId" gorm:"not null;uniqueIndex:idx_progress_course_user"`
	CompletedLectures []CompletedLecture `json:"completedVideos" gorm:"foreignKey:CourseProgressID"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

// CompletedLecture marks a lecture as watched within a progress record
type CompletedLecture struct {
	CourseProgressID uint      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	SubSectionID     uint      `json:"subSectionId" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt        time.Time `json:"completedAt"`
}
