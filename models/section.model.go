package models

import "gorm.io/gorm"

// Section groups lectures inside a course
type Section struct {
	gorm.Model
	Title       string       `json:"title" gorm:"not null"`
	CourseID    uint         `json:"courseId" gorm:"index;not null"`
	SubSections []SubSection `json:"subSections,omitempty" gorm:"foreignKey:SectionID"`
}

// SubSection is a single lecture
type SubSection struct {
	gorm.Model
	Title        string `json:"title" gorm:"not null"`
	Description  string `json:"description"`
	TimeDuration int64  `json:"timeDuration" gorm:"default:0"` // seconds
	VideoURL     string `json:"videoUrl,omitempty" gorm:"not null"`
	SectionID    uint   `json:"sectionId" gorm:"index;not null"`
	CourseID     uint   `json:"courseId" gorm:"index;not null"`
}
