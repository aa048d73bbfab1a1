package domain

// Student Model: profile attached to a student User
type Student struct {
	ID          uint         `gorm:"primaryKey"`           // Primary key
	UserID      uint         `gorm:"uniqueIndex;not null"` // Foreign key to User, one profile per user
	FullName    string       `gorm:"not null"`             // Display name
	Enrollments []Enrollment // Courses this student is enrolled in
}
