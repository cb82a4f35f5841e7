package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/repository"
)

// AuthService registers and authenticates the three account classes and issues
// the JWTs the middleware later verifies. The rest of the system only ever sees
// the resulting domain.Identity.
type AuthService struct {
	accountRepo repository.AccountRepository
	jwtSecret   []byte
	jwtExpiry   time.Duration
}

func NewAuthService(accountRepo repository.AccountRepository, jwtSecretKey string, jwtExpiryHours int) (*AuthService, error) {
	if accountRepo == nil {
		panic("AccountRepository cannot be nil for AuthService")
	}
	if jwtSecretKey == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}
	return &AuthService{
		accountRepo: accountRepo,
		jwtSecret:   []byte(jwtSecretKey),
		jwtExpiry:   time.Duration(jwtExpiryHours) * time.Hour,
	}, nil
}

// RegisterStudent creates a student account. Returns ErrRegistrationFailed on
// email or roll-number collision.
func (s *AuthService) RegisterStudent(ctx context.Context, student *domain.Student, password string) (*domain.Student, error) {
	logCtx := logrus.WithFields(logrus.Fields{"email": student.Email, "role": domain.RoleStudent})

	if student.Name == "" || student.Email == "" || password == "" || student.RollNumber == "" || student.College == "" || student.Course == "" {
		return nil, ErrValidation
	}
	hash, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password")
		return nil, ErrInternalServer
	}
	student.Password = hash

	if err := s.accountRepo.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Student registration failed: duplicate")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during student registration")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", student.ID).Info("Student registered")
	student.Password = ""
	return student, nil
}

// RegisterRecruiter creates a recruiter account.
func (s *AuthService) RegisterRecruiter(ctx context.Context, rec *domain.Recruiter, password string) (*domain.Recruiter, error) {
	logCtx := logrus.WithFields(logrus.Fields{"email": rec.Email, "role": domain.RoleRecruiter})

	if rec.Name == "" || rec.Email == "" || password == "" || rec.CompanyName == "" || rec.CompanyID == "" {
		return nil, ErrValidation
	}
	hash, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password")
		return nil, ErrInternalServer
	}
	rec.Password = hash

	if err := s.accountRepo.CreateRecruiter(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Recruiter registration failed: duplicate")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during recruiter registration")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", rec.ID).Info("Recruiter registered")
	rec.Password = ""
	return rec, nil
}

// RegisterCollege creates a college account.
func (s *AuthService) RegisterCollege(ctx context.Context, college *domain.College, password string) (*domain.College, error) {
	logCtx := logrus.WithFields(logrus.Fields{"email": college.Email, "role": domain.RoleCollege})

	if college.Name == "" || college.Email == "" || password == "" || college.CollegeName == "" {
		return nil, ErrValidation
	}
	hash, err := hashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password")
		return nil, ErrInternalServer
	}
	college.Password = hash

	if err := s.accountRepo.CreateCollege(ctx, college); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("College registration failed: duplicate")
			return nil, ErrRegistrationFailed
		}
		logCtx.WithError(err).Error("Database error during college registration")
		return nil, ErrInternalServer
	}

	logCtx.WithField("user_id", college.ID).Info("College registered")
	college.Password = ""
	return college, nil
}

// Login authenticates an account of the given role and returns a signed JWT
// plus the resolved identity. Bad credentials and unknown accounts both report
// ErrAuthenticationFailed.
func (s *AuthService) Login(ctx context.Context, role domain.Role, email, password string) (string, domain.Identity, error) {
	logCtx := logrus.WithFields(logrus.Fields{"email": email, "role": role})

	var (
		id   uint
		hash string
		err  error
	)
	switch role {
	case domain.RoleStudent:
		var st *domain.Student
		if st, err = s.accountRepo.FindStudentByEmail(ctx, email); err == nil {
			id, hash = st.ID, st.Password
		}
	case domain.RoleRecruiter:
		var rec *domain.Recruiter
		if rec, err = s.accountRepo.FindRecruiterByEmail(ctx, email); err == nil {
			id, hash = rec.ID, rec.Password
		}
	case domain.RoleCollege:
		var c *domain.College
		if c, err = s.accountRepo.FindCollegeByEmail(ctx, email); err == nil {
			id, hash = c.ID, c.Password
		}
	default:
		return "", domain.Identity{}, ErrValidation
	}
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			logCtx.Warn("Login failed: account not found")
		} else {
			logCtx.WithError(err).Warn("Login failed: error finding account")
		}
		return "", domain.Identity{}, ErrAuthenticationFailed
	}

	if !checkPassword(password, hash) {
		logCtx.Warn("Login failed: invalid password")
		return "", domain.Identity{}, ErrAuthenticationFailed
	}

	identity := domain.Identity{ID: id, Role: role}
	token, err := s.generateJWT(identity)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate JWT")
		return "", domain.Identity{}, ErrInternalServer
	}

	logCtx.WithField("user_id", id).Info("Login successful")
	return token, identity, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) generateJWT(id domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   id.ID,
		"user_type": string(id.Role),
		"exp":       time.Now().Add(s.jwtExpiry).Unix(),
		"iat":       time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
