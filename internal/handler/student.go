package handler

import (
	"errors"
	"net/http"
	"regexp"

	"shopease-backend/internal/dto"
	"shopease-backend/internal/service"

	"github.com/labstack/echo/v4"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type StudentHandler struct {
	studentService service.StudentService
}

func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
	}
}

func (h *StudentHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if req.FirstName == "" || req.LastName == "" || req.SchoolID == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields are required")
	}
	if !emailPattern.MatchString(req.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email address")
	}
	if len(req.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	student, err := h.studentService.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
		}
		return err
	}

	return c.JSON(http.StatusCreated, &dto.AuthResponse{
		Message: "student registered successfully",
		Student: student,
	})
}

func (h *StudentHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	student, token, err := h.studentService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return err
	}

	return c.JSON(http.StatusOK, &dto.AuthResponse{
		Message: "login successful",
		Token:   token,
		Student: student,
	})
}

func (h *StudentHandler) SaveCourses(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CoursesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	student, err := h.studentService.SaveCourses(ctx, req.Email, req.Courses)
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "student not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, &dto.AuthResponse{
		Message: "courses saved successfully",
		Student: student,
	})
}
