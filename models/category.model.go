package models

import "gorm.io/gorm"

// Category groups published courses on the catalogue pages
type Category struct {
	gorm.Model
	Name        string   `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Description string   `json:"description"`
	Courses     []Course `json:"courses,omitempty" gorm:"foreignKey:CategoryID"`
}
