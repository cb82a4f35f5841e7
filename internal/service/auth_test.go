package service_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harshrajsoni/campusconnect/internal/domain"
	"github.com/harshrajsoni/campusconnect/internal/repository"
	"github.com/harshrajsoni/campusconnect/internal/repository/mocks"
	"github.com/harshrajsoni/campusconnect/internal/service"
)

const testSecret = "very-secret-key"

func newAuthService(t *testing.T, repo *mocks.MockAccountRepository) *service.AuthService {
	t.Helper()
	svc, err := service.NewAuthService(repo, testSecret, 1)
	require.NoError(t, err)
	return svc
}

func TestAuthService_RegisterStudent_Success(t *testing.T) {
	mockRepo := new(mocks.MockAccountRepository)
	svc := newAuthService(t, mockRepo)
	ctx := context.Background()

	password := "StrongPass123"
	mockRepo.On("CreateStudent", ctx, mock.MatchedBy(func(s *domain.Student) bool {
		assert.Equal(t, "asha@example.com", s.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(s.Password), []byte(password)), "password must be stored hashed")
		return true
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Student).ID = 5
	}).Return(nil).Once()

	student := &domain.Student{
		Name:       "Asha",
		Email:      "asha@example.com",
		RollNumber: "CS-2023-042",
		College:    "IIT Delhi",
		Course:     "B.Tech CSE",
	}
	created, err := svc.RegisterStudent(ctx, student, password)

	require.NoError(t, err)
	assert.Equal(t, uint(5), created.ID)
	assert.Empty(t, created.Password, "the stored hash must not leak back to the caller")
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterStudent_MissingFields(t *testing.T) {
	mockRepo := new(mocks.MockAccountRepository)
	svc := newAuthService(t, mockRepo)

	_, err := svc.RegisterStudent(context.Background(), &domain.Student{Name: "Asha"}, "pw")

	assert.ErrorIs(t, err, service.ErrValidation)
	mockRepo.AssertNotCalled(t, "CreateStudent", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterRecruiter_Duplicate(t *testing.T) {
	mockRepo := new(mocks.MockAccountRepository)
	svc := newAuthService(t, mockRepo)
	ctx := context.Background()

	mockRepo.On("CreateRecruiter", ctx, mock.AnythingOfType("*domain.Recruiter")).
		Return(repository.ErrDuplicateEntry).Once()

	rec := &domain.Recruiter{Name: "Ravi", Email: "ravi@acme.com", CompanyName: "Acme", CompanyID: "ACME-01"}
	_, err := svc.RegisterRecruiter(ctx, rec, "password")

	assert.ErrorIs(t, err, service.ErrRegistrationFailed)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterCollege_Success(t *testing.T) {
	mockRepo := new(mocks.MockAccountRepository)
	svc := newAuthService(t, mockRepo)
	ctx := context.Background()

	mockRepo.On("CreateCollege", ctx, mock.AnythingOfType("*domain.College")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.College).ID = 3
		}).Return(nil).Once()

	college := &domain.College{Name: "Admin", Email: "tpo@iitd.ac.in", CollegeName: "IIT Delhi"}
	created, err := svc.RegisterCollege(ctx, college, "password")

	require.NoError(t, err)
	assert.Equal(t, uint(3), created.ID)
	assert.Empty(t, created.Password)
}

func TestAuthService_Login_Success(t *testing.T) {
	mockRepo := new(mocks.MockAccountRepository)
	svc := newAuthService(t, mockRepo)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	mockRepo.On("FindStudentByEmail", ctx, "asha@example.com").
		Return(&domain.Student{ID: 5, Email: "asha@example.com", Password: string(hash)}, nil).Once()

	token, identity, err := svc.Login(ctx, domain.RoleStudent, "asha@example.com", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, domain.Identity{ID: 5, Role: domain.RoleStudent}, identity)
	require.NotEmpty(t, token)

	// The token round-trips and carries the identity claims.
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(5), claims["user_id"])
	assert.Equal(t, "student", claims["user_type"])
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	mockRepo := new(mocks.MockAccountRepository)
	svc := newAuthService(t, mockRepo)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	mockRepo.On("FindRecruiterByEmail", ctx, "ravi@acme.com").
		Return(&domain.Recruiter{ID: 7, Email: "ravi@acme.com", Password: string(hash)}, nil).Once()

	_, _, err := svc.Login(ctx, domain.RoleRecruiter, "ravi@acme.com", "wrong")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestAuthService_Login_UnknownAccount(t *testing.T) {
	mockRepo := new(mocks.MockAccountRepository)
	svc := newAuthService(t, mockRepo)
	ctx := context.Background()

	mockRepo.On("FindCollegeByEmail", ctx, "nobody@example.com").
		Return(nil, repository.ErrAccountNotFound).Once()

	_, _, err := svc.Login(ctx, domain.RoleCollege, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestAuthService_Login_UnknownRole(t *testing.T) {
	mockRepo := new(mocks.MockAccountRepository)
	svc := newAuthService(t, mockRepo)

	_, _, err := svc.Login(context.Background(), domain.Role("admin"), "a@b.c", "pw")
	assert.ErrorIs(t, err, service.ErrValidation)
}
