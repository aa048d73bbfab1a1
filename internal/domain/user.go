package domain

// Role values stored on User.Role
const (
	RoleAdmin   = "admin"   // Administrator account
	RoleStudent = "student" // Student account
)

// User Model
type User struct {
	ID       uint     `gorm:"primaryKey"`                                     // Primary key
	Username string   `gorm:"unique;not null"`                                // Unique login username
	Password string   `gorm:"not null"`                                       // Hashed password
	Role     string   `gorm:"default:student"`                                // Role: admin or student
	Student  *Student `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"` // Optional one-to-one student profile
	Wallet   Wallet   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"` // One-to-one relationship with Wallet
}
