package domain

// Enrollment Model: links one Student to one Course.
// At most one enrollment per (student, course) pair.
type Enrollment struct {
	ID              uint    `gorm:"primaryKey"`          // Primary key
	StudentID       uint    `gorm:"index;not null"`      // Foreign key to Student
	CourseID        uint    `gorm:"index;not null"`      // Foreign key to Course
	Course          Course  `gorm:"foreignKey:CourseID"` // Enrolled course, for display
	AmountPaid      float64 `gorm:"not null"`            // Amount paid at enrollment
	RemainingAmount float64 `gorm:"not null"`            // Unpaid balance, floored at zero
	Commission      float64 `gorm:"not null"`            // Absolute commission amount: 10% of list price, fixed at enrollment time
	CreatedAt       int64   `gorm:"autoCreateTime:milli"` // Timestamp of creation in milliseconds
}
