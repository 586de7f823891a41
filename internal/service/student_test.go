package service

import (
	"context"
	"testing"
	"time"

	"shopease-backend/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func newStudentService(repo *mockStudentRepo) StudentService {
	return NewStudentService(repo, testJWTSecret, time.Hour)
}

func registerReq() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		SchoolID:  "SCS-001",
		Email:     "ada@example.com",
		Password:  "correct-horse",
	}
}

func TestStudentRegister_HashesPassword(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())

	student, err := svc.Register(context.Background(), registerReq())

	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", student.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte("correct-horse")))
}

func TestStudentRegister_DuplicateEmail(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())

	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), registerReq())

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestStudentLogin_ReturnsSignedToken(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())
	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	student, token, err := svc.Login(context.Background(), "ada@example.com", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", student.Email)
	require.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", claims["email"])
}

func TestStudentLogin_WrongPassword(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())
	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ada@example.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStudentLogin_UnknownEmail(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestStudentSaveCourses_ReplacesSelection(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())
	_, err := svc.Register(context.Background(), registerReq())
	require.NoError(t, err)

	_, err = svc.SaveCourses(context.Background(), "ada@example.com", []dto.CourseSelection{
		{Course: "Algorithms", Lecturer: "Dr. Knuth"},
	})
	require.NoError(t, err)

	student, err := svc.SaveCourses(context.Background(), "ada@example.com", []dto.CourseSelection{
		{Course: "Databases", Lecturer: "Dr. Codd"},
		{Course: "Networks", Lecturer: "Dr. Cerf"},
	})

	require.NoError(t, err)
	require.Len(t, student.Courses, 2)
	assert.Equal(t, "Databases", student.Courses[0].Course)
}

func TestStudentSaveCourses_UnknownStudent(t *testing.T) {
	svc := newStudentService(newMockStudentRepo())

	_, err := svc.SaveCourses(context.Background(), "ghost@example.com", nil)

	assert.ErrorIs(t, err, ErrStudentNotFound)
}
