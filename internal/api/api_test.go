package api

import (
	"encoding/json"     // For decoding JSON responses
	"net/http"          // HTTP status codes
	"net/http/httptest" // HTTP test helpers
	"net/url"           // For building form bodies
	"path/filepath"     // Test DB file placement
	"strconv"           // String conversion
	"strings"           // Form body readers
	"testing"           // Go's testing package

	"github.com/mohamedousama/Scola-System/internal/config"     // Configuration
	scoladb "github.com/mohamedousama/Scola-System/internal/db" // Migration and seeding
	"github.com/mohamedousama/Scola-System/internal/domain"     // Domain models
	"github.com/mohamedousama/Scola-System/internal/middleware" // Auth middleware
	"github.com/mohamedousama/Scola-System/internal/service"    // Business logic

	"github.com/gin-gonic/gin"            // Gin web framework
	"github.com/redis/go-redis/v9"        // Redis client
	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // For setup assertions
	"gorm.io/driver/sqlite"               // SQLite driver for test databases
	"gorm.io/gorm"                        // GORM ORM library
)

const testJWTSecret = "test-secret"

// setupTestApp builds the full router against a fresh SQLite database, seeded
// with the bootstrap admin and sample courses. The Redis client points at an
// unreachable address, so the caches degrade to database reads.
func setupTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, scoladb.Migrate(db))

	cfg := &config.Config{
		AdminUsername:   "admin",
		AdminPassword:   "admin123",
		StudentPassword: "123456",
	}
	require.NoError(t, scoladb.Seed(db, cfg))

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:1"}) // Unreachable on purpose

	accounts := service.NewAccountService(db)
	enrollments := service.NewEnrollmentService(db, cfg.StudentPassword)

	r := gin.New()
	r.GET("/", ListCoursesHandler(db, rdb))
	r.POST("/register", RegisterHandler(accounts))
	r.POST("/login", LoginHandler(db, testJWTSecret))

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(testJWTSecret, rdb))
	auth.GET("/dashboard", DashboardHandler(db, rdb))
	auth.GET("/logout", LogoutHandler(testJWTSecret, rdb))

	admin := r.Group("/")
	admin.Use(middleware.JWTAuthMiddleware(testJWTSecret, rdb), middleware.AdminOnlyMiddleware(db))
	admin.POST("/enroll_student", EnrollStudentHandler(enrollments, rdb))
	admin.GET("/enrollments", ListEnrollmentsHandler(db, rdb))

	return r, db
}

// postForm submits a form-encoded POST, optionally with a bearer token
func postForm(r *gin.Engine, path string, form url.Values, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

// get performs a GET request, optionally with a bearer token
func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

// login authenticates and returns the session token
func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := postForm(r, "/login", url.Values{"username": {username}, "password": {password}}, "")
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

// courseID looks up a seeded course by name
func courseID(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	var course domain.Course
	require.NoError(t, db.Where("name = ?", name).First(&course).Error)
	return course.ID
}

// enrollForm builds the enroll_student form body
func enrollForm(studentName string, courseID uint, amountPaid string) url.Values {
	return url.Values{
		"student_name": {studentName},
		"course_id":    {strconv.Itoa(int(courseID))},
		"amount_paid":  {amountPaid},
	}
}

func TestListCourses(t *testing.T) {
	r, _ := setupTestApp(t)

	w := get(r, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Courses []CourseResponse `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Courses, 4) // The seeded sample catalog
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupTestApp(t)

	form := url.Values{
		"username":  {"sara"},
		"password":  {"secret-pass"},
		"full_name": {"Sara Omar"},
	}
	w := postForm(r, "/register", form, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate username is rejected
	w = postForm(r, "/register", form, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Registered credentials log in
	token := login(t, r, "sara", "secret-pass")
	assert.NotEmpty(t, token)

	// Wrong password does not
	w = postForm(r, "/login", url.Values{"username": {"sara"}, "password": {"wrong"}}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEnrollStudentEndpoint(t *testing.T) {
	r, db := setupTestApp(t)
	adminToken := login(t, r, "admin", "admin123")
	pythonID := courseID(t, db, "Python Programming")

	// The concrete scenario: price 500, paid 300
	w := postForm(r, "/enroll_student", enrollForm("Ahmed Ali", pythonID, "300"), adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Enrollment service.EnrollResult `json:"enrollment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200.0, resp.Enrollment.RemainingAmount)
	assert.Equal(t, 50.0, resp.Enrollment.Commission)
	assert.True(t, resp.Enrollment.StudentCreated)

	// Both wallets were credited
	var adminUser, studentUser domain.User
	require.NoError(t, db.Where("username = ?", "admin").First(&adminUser).Error)
	require.NoError(t, db.Where("username = ?", "ahmed_ali").First(&studentUser).Error)
	var adminWallet, studentWallet domain.Wallet
	require.NoError(t, db.Where("user_id = ?", adminUser.ID).First(&adminWallet).Error)
	require.NoError(t, db.Where("user_id = ?", studentUser.ID).First(&studentWallet).Error)
	assert.Equal(t, 50.0, adminWallet.Balance)
	assert.Equal(t, 50.0, studentWallet.Balance)

	// Enrolling the same student into the same course again conflicts
	w = postForm(r, "/enroll_student", enrollForm("Ahmed Ali", pythonID, "100"), adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown course
	w = postForm(r, "/enroll_student", enrollForm("Ahmed Ali", 999, "100"), adminToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Negative payment is rejected at binding time
	w = postForm(r, "/enroll_student", enrollForm("Omar Hassan", pythonID, "-5"), adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnrollStudentRequiresAdmin(t *testing.T) {
	r, db := setupTestApp(t)
	pythonID := courseID(t, db, "Python Programming")

	// No token at all
	w := postForm(r, "/enroll_student", enrollForm("Ahmed Ali", pythonID, "300"), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A student session is forbidden, and no records are created
	form := url.Values{
		"username":  {"sara"},
		"password":  {"secret-pass"},
		"full_name": {"Sara Omar"},
	}
	require.Equal(t, http.StatusCreated, postForm(r, "/register", form, "").Code)
	studentToken := login(t, r, "sara", "secret-pass")

	w = postForm(r, "/enroll_student", enrollForm("Ahmed Ali", pythonID, "300"), studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var enrollments int64
	require.NoError(t, db.Model(&domain.Enrollment{}).Count(&enrollments).Error)
	assert.Equal(t, int64(0), enrollments)
}

func TestListEnrollments(t *testing.T) {
	r, db := setupTestApp(t)
	adminToken := login(t, r, "admin", "admin123")
	pythonID := courseID(t, db, "Python Programming")
	webID := courseID(t, db, "Web Development")

	require.Equal(t, http.StatusOK,
		postForm(r, "/enroll_student", enrollForm("Ahmed Ali", pythonID, "300"), adminToken).Code)
	require.Equal(t, http.StatusOK,
		postForm(r, "/enroll_student", enrollForm("Ahmed Ali", webID, "750"), adminToken).Code)

	w := get(r, "/enrollments", adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Enrollments []EnrollmentAdminResponse `json:"enrollments"`
		Total       int64                     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Enrollments, 2)
	for _, e := range resp.Enrollments {
		assert.Equal(t, "Ahmed Ali", e.StudentName)
	}

	// Students cannot reach the admin listing
	studentToken := login(t, r, "ahmed_ali", "123456")
	assert.Equal(t, http.StatusForbidden, get(r, "/enrollments", studentToken).Code)
}

func TestDashboard(t *testing.T) {
	r, db := setupTestApp(t)
	adminToken := login(t, r, "admin", "admin123")
	pythonID := courseID(t, db, "Python Programming")

	// Admin dashboard shows the catalog and the admin wallet
	w := get(r, "/dashboard", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var adminResp struct {
		Role    string          `json:"role"`
		Courses []domain.Course `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adminResp))
	assert.Equal(t, domain.RoleAdmin, adminResp.Role)
	assert.Len(t, adminResp.Courses, 4)

	// Enroll a student, then view their dashboard with the provisioned
	// default credential
	require.Equal(t, http.StatusOK,
		postForm(r, "/enroll_student", enrollForm("Ahmed Ali", pythonID, "300"), adminToken).Code)
	studentToken := login(t, r, "ahmed_ali", "123456")

	w = get(r, "/dashboard", studentToken)
	require.Equal(t, http.StatusOK, w.Code)
	var studentResp struct {
		Role        string           `json:"role"`
		FullName    string           `json:"full_name"`
		Enrollments []EnrollmentView `json:"enrollments"`
		Wallet      domain.Wallet    `json:"wallet"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &studentResp))
	assert.Equal(t, domain.RoleStudent, studentResp.Role)
	assert.Equal(t, "Ahmed Ali", studentResp.FullName)
	require.Len(t, studentResp.Enrollments, 1)
	assert.Equal(t, "Python Programming", studentResp.Enrollments[0].CourseName)
	assert.Equal(t, 200.0, studentResp.Enrollments[0].RemainingAmount)
	assert.Equal(t, 50.0, studentResp.Wallet.Balance)

	// No session at all
	w = get(r, "/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
