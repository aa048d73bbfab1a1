package domain

// Course Model
type Course struct {
	ID          uint         `gorm:"primaryKey"` // Primary key
	Name        string       `gorm:"not null"`   // Course name
	Price       float64      `gorm:"not null"`   // List price
	Description string       `gorm:"type:text"`  // Course description
	Enrollments []Enrollment // Enrollments into this course
}
