package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course publication states
const (
	CourseDraft     = "Draft"
	CoursePublished = "Published"
)

// Course is a purchasable course. Price is in whole rupees.
type Course struct {
	gorm.Model
	Title            string                      `json:"title" gorm:"not null"`
	Description      string                      `json:"description" gorm:"type:text"`
	WhatYouWillLearn string                      `json:"whatYouWillLearn" gorm:"type:text"`
	InstructorID     uint                        `json:"instructorId" gorm:"index;not null"`
	Instructor       *User                       `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	CategoryID       *uint                       `json:"categoryId" gorm:"index"`
	Category         *Category                   `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Price            int64                       `json:"price" gorm:"not null;default:0"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	Instructions     datatypes.JSONSlice[string] `json:"instructions"`
	Thumbnail        string                      `json:"thumbnail"`
	AverageRating    float64                     `json:"averageRating" gorm:"default:0"`
	EnrolledCount    int64                       `json:"numberOfEnrolledStudents" gorm:"not null;default:0"`
	TotalDuration    int64                       `json:"totalDuration" gorm:"default:0"` // seconds
	Status           string                      `json:"status" gorm:"index;default:'Draft'"`
	Sections         []Section                   `json:"sections,omitempty" gorm:"foreignKey:CourseID"`
}

// CourseStudent is one entry of a course's enrolled-students list.
// The composite key keeps a student listed at most once per course.
type CourseStudent struct {
	CourseID  uint `json:"courseId" gorm:"primaryKey;autoIncrement:false"`
	UserID    uint `json:"userId" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

func (CourseStudent) TableName() string {
	return "course_students"
}

// UserCourse is one entry of a purchaser's owned-courses list
type UserCourse struct {
	UserID           uint      `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	CourseID         uint      `json:"courseId" gorm:"primaryKey;autoIncrement:false"`
	CourseProgressID uint      `json:"courseProgressId" gorm:"not null"`
	CreatedAt        time.Time `json:"enrolledAt"`
	Course           Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (UserCourse) TableName() string {
	return "user_courses"
}
