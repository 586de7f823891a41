package repository

import (
	"context"
	"errors"

	"shopease-backend/internal/model"

	"gorm.io/gorm"
)

var ErrDuplicateEmail = errors.New("email already registered")

type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	FindByEmail(ctx context.Context, email string) (*model.Student, error)
	ReplaceCourses(ctx context.Context, studentID uint, courses []model.StudentCourse) error
}

type studentRepoImpl struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepoImpl{
		db: db,
	}
}

func (r *studentRepoImpl) Create(ctx context.Context, student *model.Student) error {
	err := r.db.WithContext(ctx).Create(student).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *studentRepoImpl) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Courses").
		Where("email = ?", email).
		First(&student).Error

	if err != nil {
		return nil, err
	}

	return &student, nil
}

func (r *studentRepoImpl) ReplaceCourses(ctx context.Context, studentID uint, courses []model.StudentCourse) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&model.StudentCourse{}).Error; err != nil {
			return err
		}
		if len(courses) == 0 {
			return nil
		}
		for i := range courses {
			courses[i].StudentID = studentID
		}
		return tx.Create(&courses).Error
	})
}
