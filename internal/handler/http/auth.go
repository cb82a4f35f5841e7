package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/service"
)

// cookieMaxAge matches the JWT expiry default of 24 hours.
const cookieMaxAge = 24 * 60 * 60

// AuthHandler exposes signup and login for the three account classes.
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	if authService == nil {
		panic("AuthService cannot be nil for AuthHandler")
	}
	return &AuthHandler{authService: authService}
}

type studentSignupRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	RollNumber string `json:"rollNumber" binding:"required"`
	College    string `json:"college" binding:"required"`
	Course     string `json:"course" binding:"required"`
}

// StudentSignup handles POST /api/auth/student/signup.
func (h *AuthHandler) StudentSignup(c *gin.Context) {
	var req studentSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid signup payload: "+err.Error())
		return
	}

	student := &domain.Student{
		Name:       req.Name,
		Email:      req.Email,
		RollNumber: req.RollNumber,
		College:    req.College,
		Course:     req.Course,
	}
	created, err := h.authService.RegisterStudent(c.Request.Context(), student, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created)
}

type recruiterSignupRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	CompanyName string `json:"companyName" binding:"required"`
	CompanyID   string `json:"companyId" binding:"required"`
}

// RecruiterSignup handles POST /api/auth/recruiter/signup.
func (h *AuthHandler) RecruiterSignup(c *gin.Context) {
	var req recruiterSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid signup payload: "+err.Error())
		return
	}

	rec := &domain.Recruiter{
		Name:        req.Name,
		Email:       req.Email,
		CompanyName: req.CompanyName,
		CompanyID:   req.CompanyID,
	}
	created, err := h.authService.RegisterRecruiter(c.Request.Context(), rec, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created)
}

type collegeSignupRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	CollegeName string `json:"collegeName" binding:"required"`
}

// CollegeSignup handles POST /api/auth/college/signup.
func (h *AuthHandler) CollegeSignup(c *gin.Context) {
	var req collegeSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid signup payload: "+err.Error())
		return
	}

	college := &domain.College{
		Name:        req.Name,
		Email:       req.Email,
		CollegeName: req.CollegeName,
	}
	created, err := h.authService.RegisterCollege(c.Request.Context(), college, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"userType" binding:"required"`
}

// Login handles POST /api/auth/login. The JWT is returned in the body and
// also set as an http-only cookie so browser websocket upgrades carry it.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid login payload: "+err.Error())
		return
	}

	role, err := domain.ParseRole(req.UserType)
	if err != nil {
		badRequest(c, "Unknown user type")
		return
	}

	token, identity, err := h.authService.Login(c.Request.Context(), role, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.SetCookie("token", token, cookieMaxAge, "/", "", false, true)
	respondOK(c, http.StatusOK, gin.H{
		"token":    token,
		"userId":   identity.ID,
		"userType": identity.Role,
	})
}

// Logout clears the auth cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	respondMessage(c, http.StatusOK, "Logged out")
}
