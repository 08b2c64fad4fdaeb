package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPasswordMismatch is returned when the current password does not match during a change.
	ErrPasswordMismatch = errors.New("current password is incorrect")
)

// AuthConfig carries token settings. Statistics, when set, is invalidated
// after every successful registration.
type AuthConfig struct {
	Secret        string
	TTL           time.Duration
	AdminUsername string
	Statistics    CacheInvalidator
}

// AdminSeed describes an administrator account to create or reset.
type AdminSeed struct {
	Username string
	Email    string
	Password string
	Reset    bool
}

// AuthService registers students and issues tokens.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	Me(ctx context.Context, actor Actor) (dto.UserResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req dto.ChangePasswordRequest) error
	EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error)
}

type authService struct {
	students  repository.StudentRepository
	admins    repository.AdminRepository
	validator *validator.Validate
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
	cost      int
}

// NewAuthService constructs the authentication service.
func NewAuthService(students repository.StudentRepository, admins repository.AdminRepository, validate *validator.Validate, cfg AuthConfig, logger zerolog.Logger) AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}
	return &authService{
		students:  students,
		admins:    admins,
		validator: validate,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
		cost:      bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	registration, err := placement.ValidateRegistration(placement.RegistrationInput{
		Identifier: req.USN,
		Email:      req.Email,
		Semester:   req.Semester,
		Branch:     req.Branch,
		CGPA:       req.CGPA,
	})
	if err != nil {
		return dto.AuthResponse{}, err
	}

	if err := placement.CheckUniqueness(ctx, s.students, registration.Identifier, registration.Email); err != nil {
		return dto.AuthResponse{}, err
	}

	dob, err := parseDate(req.DOB)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	student := models.Student{
		Name:            strings.TrimSpace(req.Name),
		USN:             registration.Identifier,
		Email:           registration.Email,
		PasswordHash:    string(hash),
		Semester:        registration.Semester,
		Branch:          registration.Branch,
		CGPA:            registration.CGPA,
		DOB:             dob,
		PlacementStatus: placement.StatusNotPlaced,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, placement.ErrDuplicateIdentifier) || errors.Is(err, placement.ErrDuplicateEmail) {
			s.logger.Info().Str("usn", registration.Identifier).Msg("registration lost a uniqueness race")
		}
		return dto.AuthResponse{}, storeError(err, "student")
	}
	if s.cfg.Statistics != nil {
		s.cfg.Statistics.Invalidate(ctx)
	}

	s.logger.Info().Str("usn", student.USN).Str("email", maskEmailAddress(student.Email)).Int("enrollment_year", student.EnrollmentYear).Msg("student registered")

	return s.issue(student.ID, RoleStudent, dto.NewStudentUserResponse(student, RoleStudent))
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	username := strings.TrimSpace(req.Username)
	if strings.EqualFold(username, s.cfg.AdminUsername) {
		admin, err := s.admins.GetByUsername(ctx, username)
		if err != nil {
			return dto.AuthResponse{}, s.credentialError(err)
		}
		if !checkPassword(admin.PasswordHash, req.Password) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return s.issue(admin.ID, RoleAdmin, dto.NewAdminUserResponse(admin, RoleAdmin))
	}

	student, err := s.students.GetByUSN(ctx, placement.NormalizeIdentifier(username))
	if err != nil {
		return dto.AuthResponse{}, s.credentialError(err)
	}
	if !checkPassword(student.PasswordHash, req.Password) {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.issue(student.ID, RoleStudent, dto.NewStudentUserResponse(student, RoleStudent))
}

func (s *authService) Me(ctx context.Context, actor Actor) (dto.UserResponse, error) {
	if actor.IsAdmin() {
		admin, err := s.admins.GetByID(ctx, actor.ID)
		if err != nil {
			return dto.UserResponse{}, storeError(err, "admin")
		}
		return dto.NewAdminUserResponse(admin, RoleAdmin), nil
	}

	student, err := s.students.GetByID(ctx, actor.ID)
	if err != nil {
		return dto.UserResponse{}, storeError(err, "student")
	}
	return dto.NewStudentUserResponse(student, RoleStudent), nil
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	var currentHash string
	if actor.IsAdmin() {
		admin, err := s.admins.GetByID(ctx, actor.ID)
		if err != nil {
			return storeError(err, "admin")
		}
		currentHash = admin.PasswordHash
	} else {
		student, err := s.students.GetByID(ctx, actor.ID)
		if err != nil {
			return storeError(err, "student")
		}
		currentHash = student.PasswordHash
	}

	if !checkPassword(currentHash, req.CurrentPassword) {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return err
	}

	if actor.IsAdmin() {
		return storeError(s.admins.UpdatePassword(ctx, actor.ID, string(hash)), "admin")
	}
	_, err = s.students.Update(ctx, actor.ID, map[string]interface{}{"password_hash": string(hash)})
	return storeError(err, "student")
}

// EnsureAdmin creates the administrator when missing. With Reset set, an
// existing administrator gets the new password. It reports whether anything changed.
func (s *authService) EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	username := strings.ToLower(strings.TrimSpace(seed.Username))
	if username == "" || seed.Password == "" {
		return false, errors.New("admin username and password are required")
	}

	existing, err := s.admins.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if !seed.Reset {
			return false, nil
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(seed.Password), s.cost)
		if hashErr != nil {
			return false, hashErr
		}
		if err := s.admins.UpdatePassword(ctx, existing.ID, string(hash)); err != nil {
			return false, storeError(err, "admin")
		}
		s.logger.Info().Str("username", username).Msg("admin password reset")
		return true, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, storeError(err, "admin")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), s.cost)
	if err != nil {
		return false, err
	}

	email := strings.ToLower(strings.TrimSpace(seed.Email))
	if email == "" {
		email = username + "@localhost"
	}
	admin := models.Admin{Username: username, Email: email, PasswordHash: string(hash)}
	if err := s.admins.Create(ctx, &admin); err != nil {
		return false, storeError(err, "admin")
	}

	s.logger.Info().Str("username", username).Msg("admin account created")
	return true, nil
}

func (s *authService) issue(id uint, role string, user dto.UserResponse) (dto.AuthResponse, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.TTL)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(id), 10),
		"role": role,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) credentialError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInvalidCredentials
	}
	return storeError(err, "user")
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
