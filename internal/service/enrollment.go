package service

import (
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Username normalization

	"github.com/mohamedousama/Scola-System/internal/domain" // Domain models

	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// CommissionRate is the flat commission on a course's list price,
// credited to both the student's and the admin's wallet at enrollment time.
const CommissionRate = 0.10

// Actor is the request-scoped identity performing an operation,
// populated from the session token by the auth middleware.
type Actor struct {
	UserID   uint   // Authenticated user ID
	Username string // Authenticated username
	Role     string // Authenticated role
}

// EnrollInput carries the enrollment form fields
type EnrollInput struct {
	StudentName string  // Student display name, also the source of the login username
	CourseID    uint    // Target course
	AmountPaid  float64 // Amount paid up front, may exceed the list price
}

// EnrollResult carries the data displayed after a successful enrollment
type EnrollResult struct {
	StudentName     string  `json:"student_name"`     // Student display name
	CourseName      string  `json:"course_name"`      // Enrolled course name
	AmountPaid      float64 `json:"amount_paid"`      // Amount paid
	RemainingAmount float64 `json:"remaining_amount"` // Unpaid balance, floored at zero
	Commission      float64 `json:"commission"`       // Commission credited to each wallet
	StudentCreated  bool    `json:"student_created"`  // Whether a new student account was provisioned
	StudentUserID   uint    `json:"-"`                // Credited student user, for cache invalidation
	AdminUserID     uint    `json:"-"`                // Credited admin user, zero when no admin exists
}

// EnrollmentService implements the enrollment transaction
type EnrollmentService struct {
	db              *gorm.DB // Database handle
	defaultPassword string   // Default credential for admin-provisioned student accounts
}

// NewEnrollmentService creates an EnrollmentService.
// defaultPassword is the credential assigned to student accounts provisioned
// during enrollment; it is injected from configuration.
func NewEnrollmentService(db *gorm.DB, defaultPassword string) *EnrollmentService {
	return &EnrollmentService{db: db, defaultPassword: defaultPassword}
}

// NormalizeUsername derives the login username from a student display name:
// lowercased, with spaces replaced by underscores.
func NormalizeUsername(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Enroll executes the enrollment transaction: it provisions a student account
// if needed, rejects duplicate enrollments, records the enrollment and credits
// the commission to the student's and the admin's wallet. All writes happen in
// one database transaction, so a mid-sequence failure leaves no partial state.
func (s *EnrollmentService) Enroll(actor Actor, in EnrollInput) (*EnrollResult, error) {
	// Only admins may enroll students
	if actor.Role != domain.RoleAdmin {
		return nil, ErrNotAdmin
	}
	// Negative payments are rejected; zero is allowed (fully unpaid enrollment)
	if in.AmountPaid < 0 {
		return nil, ErrInvalidAmount
	}
	fullName := strings.TrimSpace(in.StudentName)
	if NormalizeUsername(fullName) == "" {
		return nil, ErrInvalidStudentName
	}

	var result EnrollResult
	// Atomic transaction: every write lands or none does
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Resolve the course
		var course domain.Course
		if err := tx.First(&course, in.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return fmt.Errorf("load course %d: %w", in.CourseID, err)
		}

		// Reuse or provision the student account
		student, created, err := s.provisionStudent(tx, fullName)
		if err != nil {
			return err
		}

		// An existing student must not already hold this course
		if !created {
			var count int64
			if err := tx.Model(&domain.Enrollment{}).
				Where("student_id = ? AND course_id = ?", student.ID, course.ID).
				Count(&count).Error; err != nil {
				return fmt.Errorf("check existing enrollment: %w", err)
			}
			if count > 0 {
				return ErrAlreadyEnrolled
			}
		}

		// Remaining balance, floored at zero: overpayment is allowed
		remaining := course.Price - in.AmountPaid
		if remaining < 0 {
			remaining = 0
		}
		// Commission is always computed on the full list price, not the amount paid
		commission := course.Price * CommissionRate

		// Record the enrollment
		enrollment := domain.Enrollment{
			StudentID:       student.ID,
			CourseID:        course.ID,
			AmountPaid:      in.AmountPaid,
			RemainingAmount: remaining,
			Commission:      commission,
		}
		if err := tx.Create(&enrollment).Error; err != nil {
			return fmt.Errorf("create enrollment: %w", err)
		}

		// Credit the student's wallet
		if err := creditWallet(tx, student.UserID, commission, enrollment.ID); err != nil {
			return err
		}

		// Credit the designated admin's wallet; skipped silently if no admin exists
		var adminUserID uint
		var admin domain.User
		if err := tx.Where("role = ?", domain.RoleAdmin).Order("id").First(&admin).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("load admin account: %w", err)
			}
		} else {
			if err := creditWallet(tx, admin.ID, commission, enrollment.ID); err != nil {
				return err
			}
			adminUserID = admin.ID
		}

		result = EnrollResult{
			StudentName:     fullName,
			CourseName:      course.Name,
			AmountPaid:      in.AmountPaid,
			RemainingAmount: remaining,
			Commission:      commission,
			StudentCreated:  created,
			StudentUserID:   student.UserID,
			AdminUserID:     adminUserID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// provisionStudent returns the student profile for the given display name,
// creating the User/Student/Wallet triple when no account exists yet.
// The bool result reports whether the account was created on this call.
//
// An existing account is only reused when its profile carries the same full
// name; two different students whose names normalize to the same username are
// rejected instead of silently merged.
func (s *EnrollmentService) provisionStudent(tx *gorm.DB, fullName string) (*domain.Student, bool, error) {
	username := NormalizeUsername(fullName)

	student, err := findStudentAccount(tx, username, fullName)
	if err == nil {
		return student, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	// No account yet: provision User + Student + Wallet with the default credential
	hash, err := bcrypt.GenerateFromPassword([]byte(s.defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("hash default password: %w", err)
	}
	user := domain.User{Username: username, Password: string(hash), Role: domain.RoleStudent}
	if err := tx.Create(&user).Error; err != nil {
		// Lost a provisioning race on the unique username index: use the row that won
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			student, err := findStudentAccount(tx, username, fullName)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, false, ErrStudentConflict
				}
				return nil, false, err
			}
			return student, false, nil
		}
		return nil, false, fmt.Errorf("create student user: %w", err)
	}
	newStudent := domain.Student{UserID: user.ID, FullName: fullName}
	if err := tx.Create(&newStudent).Error; err != nil {
		return nil, false, fmt.Errorf("create student profile: %w", err)
	}
	wallet := domain.Wallet{UserID: user.ID, Balance: 0}
	if err := tx.Create(&wallet).Error; err != nil {
		return nil, false, fmt.Errorf("create student wallet: %w", err)
	}
	return &newStudent, true, nil
}

// findStudentAccount looks up the user owning the given username and returns
// its student profile. gorm.ErrRecordNotFound is returned when no such user
// exists; ErrStudentConflict when the username belongs to a different person
// or to an account without a student profile.
func findStudentAccount(tx *gorm.DB, username, fullName string) (*domain.Student, error) {
	var user domain.User
	if err := tx.Preload("Student").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("look up student account %q: %w", username, err)
	}
	if user.Student == nil || user.Student.FullName != fullName {
		return nil, ErrStudentConflict
	}
	return user.Student, nil
}

// creditWallet adds amount to the wallet owned by userID and records a ledger
// entry. A missing wallet skips the credit without failing the transaction.
func creditWallet(tx *gorm.DB, userID uint, amount float64, enrollmentID uint) error {
	var wallet domain.Wallet
	if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // No wallet to credit
		}
		return fmt.Errorf("load wallet for user %d: %w", userID, err)
	}
	// Increment in SQL so concurrent credits do not lose updates
	if err := tx.Model(&wallet).Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		return fmt.Errorf("credit wallet %d: %w", wallet.ID, err)
	}
	entry := domain.Transaction{
		ToWalletID:   wallet.ID,
		EnrollmentID: &enrollmentID,
		Amount:       amount,
		Type:         domain.TxTypeCommission,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("record wallet credit: %w", err)
	}
	return nil
}
