package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
)

const authTestSecret = "auth-secret"

func newTestAuthService() (*authService, *memoryStudentRepo, *memoryAdminRepo) {
	students := newMemoryStudentRepo()
	admins := newMemoryAdminRepo()
	svc := NewAuthService(students, admins, testValidator(), AuthConfig{Secret: authTestSecret, TTL: time.Hour}, testLogger()).(*authService)
	svc.cost = bcrypt.MinCost
	svc.now = func() time.Time { return time.Now() }
	return svc, students, admins
}

func validRegistration() dto.RegisterRequest {
	return dto.RegisterRequest{
		Name:     "Priya Sharma",
		USN:      "1ms22cs154",
		Email:    "1MS22CS154@college.edu",
		Password: "secret123",
		Semester: 6,
		Branch:   "Computer Science",
		CGPA:     floatPtr(8.7),
		DOB:      stringPtr("2004-03-15"),
	}
}

func TestAuthServiceRegisterIssuesStudentToken(t *testing.T) {
	svc, students, _ := newTestAuthService()

	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.Equal(t, "1MS22CS154", resp.User.USN)
	require.Equal(t, 2022, resp.User.Year)
	require.Equal(t, placement.StatusNotPlaced, resp.User.PlacementStatus)
	require.Equal(t, "1ms22cs154@college.edu", resp.User.Email)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) { return []byte(authTestSecret), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "student", claims["role"])
	require.Equal(t, "1", claims["sub"])

	stored, err := students.GetByUSN(context.Background(), "1MS22CS154")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", stored.PasswordHash)
	require.NotNil(t, stored.DOB)
}

// registeredPlacements feeds statistics from the in-memory student store.
type registeredPlacements struct {
	students *memoryStudentRepo
}

func (r registeredPlacements) ListPlacements(ctx context.Context) ([]placement.Placement, error) {
	r.students.mu.Lock()
	defer r.students.mu.Unlock()
	placements := make([]placement.Placement, 0, len(r.students.students))
	for range r.students.students {
		placements = append(placements, placement.MarkNotPlaced())
	}
	return placements, nil
}

func (r registeredPlacements) ListOffers(ctx context.Context) ([]placement.Offer, error) {
	return nil, nil
}

func TestAuthServiceRegisterInvalidatesStatistics(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	svc, students, _ := newTestAuthService()
	stats := NewStatisticsService(registeredPlacements{students: students}, client, time.Minute, testLogger())
	svc.cfg.Statistics = stats

	before, err := stats.Get(context.Background())
	require.NoError(t, err)
	require.Zero(t, before.TotalStudents)
	cached, err := stats.Get(context.Background())
	require.NoError(t, err)
	require.True(t, cached.CacheHit)

	_, err = svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.False(t, server.Exists(statisticsCacheKey))

	after, err := stats.Get(context.Background())
	require.NoError(t, err)
	require.False(t, after.CacheHit)
	require.EqualValues(t, 1, after.TotalStudents)
	require.EqualValues(t, 1, after.NotPlacedStudents)
}

// racingStudentRepo passes the pre-insert checks but loses the insert to a
// concurrent registration, as the unique index reports it.
type racingStudentRepo struct {
	*memoryStudentRepo
	conflict string
}

func (r *racingStudentRepo) Create(ctx context.Context, student *models.Student) error {
	return placement.Conflict(r.conflict)
}

func TestAuthServiceRegisterConcurrentDuplicate(t *testing.T) {
	for _, tc := range []struct {
		conflict string
		want     error
	}{
		{conflict: "email", want: placement.ErrDuplicateEmail},
		{conflict: "usn", want: placement.ErrDuplicateIdentifier},
	} {
		t.Run(tc.conflict, func(t *testing.T) {
			stats := &countingInvalidator{}
			repo := &racingStudentRepo{memoryStudentRepo: newMemoryStudentRepo(), conflict: tc.conflict}
			svc := NewAuthService(repo, newMemoryAdminRepo(), testValidator(), AuthConfig{Secret: authTestSecret, Statistics: stats}, testLogger()).(*authService)
			svc.cost = bcrypt.MinCost

			_, err := svc.Register(context.Background(), validRegistration())
			require.ErrorIs(t, err, tc.want)
			require.NotErrorIs(t, err, placement.ErrStoreUnavailable)

			var pe *placement.Error
			require.True(t, errors.As(err, &pe))
			require.Equal(t, tc.conflict, pe.Field)
			require.Zero(t, stats.calls())
		})
	}
}

func TestAuthServiceRegisterValidationOrder(t *testing.T) {
	svc, _, _ := newTestAuthService()

	req := validRegistration()
	req.USN = "22CS154"
	_, err := svc.Register(context.Background(), req)
	require.ErrorIs(t, err, placement.ErrInvalidFormat)

	req = validRegistration()
	req.Email = "someone@college.edu"
	req.Semester = 11
	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, placement.ErrEmailMismatch)

	req = validRegistration()
	req.Semester = 9
	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, placement.ErrSemesterOutOfRange)

	req = validRegistration()
	req.DOB = stringPtr("15/03/2004")
	_, err = svc.Register(context.Background(), req)
	require.ErrorIs(t, err, placement.ErrInvalidFormat)
}

func TestAuthServiceRegisterRejectsDuplicates(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	require.ErrorIs(t, err, placement.ErrDuplicateIdentifier)
}

func TestAuthServiceRegisterStoreFailure(t *testing.T) {
	svc, students, _ := newTestAuthService()
	students.failWith = errors.New("connection refused")

	_, err := svc.Register(context.Background(), validRegistration())
	require.ErrorIs(t, err, placement.ErrStoreUnavailable)
}

func TestAuthServiceLoginStudentAndAdmin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	created, err := svc.EnsureAdmin(context.Background(), AdminSeed{Username: "admin", Email: "tpo@college.edu", Password: "admin-pass"})
	require.NoError(t, err)
	require.True(t, created)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "1ms22cs154", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, RoleStudent, resp.User.Role)

	resp, err = svc.Login(context.Background(), dto.LoginRequest{Username: "Admin", Password: "admin-pass"})
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, resp.User.Role)
	require.Equal(t, "admin", resp.User.Username)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "1MS22CS154", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "1MS22CS999", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceChangePasswordAndMe(t *testing.T) {
	svc, _, _ := newTestAuthService()
	registered, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	actor := Actor{ID: registered.User.ID, Role: RoleStudent}

	err = svc.ChangePassword(context.Background(), actor, dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "another1"})
	require.ErrorIs(t, err, ErrPasswordMismatch)

	require.NoError(t, svc.ChangePassword(context.Background(), actor, dto.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "another1"}))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "1MS22CS154", Password: "another1"})
	require.NoError(t, err)

	me, err := svc.Me(context.Background(), actor)
	require.NoError(t, err)
	require.Equal(t, "Priya Sharma", me.Name)

	_, err = svc.Me(context.Background(), Actor{ID: 99, Role: RoleStudent})
	require.ErrorIs(t, err, placement.ErrNotFound)
}

func TestAuthServiceEnsureAdminIsIdempotentUnlessReset(t *testing.T) {
	svc, _, admins := newTestAuthService()

	created, err := svc.EnsureAdmin(context.Background(), AdminSeed{Username: "admin", Password: "first-pass"})
	require.NoError(t, err)
	require.True(t, created)

	changed, err := svc.EnsureAdmin(context.Background(), AdminSeed{Username: "admin", Password: "second-pass"})
	require.NoError(t, err)
	require.False(t, changed)

	changed, err = svc.EnsureAdmin(context.Background(), AdminSeed{Username: "admin", Password: "second-pass", Reset: true})
	require.NoError(t, err)
	require.True(t, changed)

	admin, err := admins.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("second-pass")))

	_, err = svc.EnsureAdmin(context.Background(), AdminSeed{Username: "admin"})
	require.Error(t, err)
}
