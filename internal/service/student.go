package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopease-backend/internal/dto"
	"shopease-backend/internal/model"
	"shopease-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStudentNotFound    = errors.New("student not found")
)

type StudentService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*model.Student, error)
	Login(ctx context.Context, email, password string) (*model.Student, string, error)
	SaveCourses(ctx context.Context, email string, courses []dto.CourseSelection) (*model.Student, error)
}

type studentServiceImpl struct {
	studentRepo repository.StudentRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
}

func NewStudentService(studentRepo repository.StudentRepository, jwtSecret string, tokenTTL time.Duration) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

func (s *studentServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*model.Student, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		SchoolID:     req.SchoolID,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create student: %w", err)
	}

	return student, nil
}

func (s *studentServiceImpl) Login(ctx context.Context, email, password string) (*model.Student, string, error) {
	student, err := s.studentRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find student: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   student.ID,
		"email": student.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	return student, token, nil
}

func (s *studentServiceImpl) SaveCourses(ctx context.Context, email string, courses []dto.CourseSelection) (*model.Student, error) {
	student, err := s.studentRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	selection := make([]model.StudentCourse, 0, len(courses))
	for _, c := range courses {
		selection = append(selection, model.StudentCourse{
			Course:   c.Course,
			Lecturer: c.Lecturer,
		})
	}

	if err := s.studentRepo.ReplaceCourses(ctx, student.ID, selection); err != nil {
		return nil, fmt.Errorf("save courses: %w", err)
	}

	return s.studentRepo.FindByEmail(ctx, email)
}
