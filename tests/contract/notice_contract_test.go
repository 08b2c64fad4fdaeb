package contract_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/handler"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/service"
)

type stubNoticeService struct {
	student dto.StudentNoticesResponse
}

func (s stubNoticeService) Create(context.Context, service.Actor, dto.NoticeCreateRequest) (dto.NoticeResponse, error) {
	return dto.NoticeResponse{}, errors.New("not implemented")
}

func (s stubNoticeService) ListAll(context.Context) (dto.NoticeListResponse, error) {
	return dto.NoticeListResponse{}, errors.New("not implemented")
}

func (s stubNoticeService) Delete(context.Context, service.Actor, uint) error {
	return errors.New("not implemented")
}

func (s stubNoticeService) ListForStudent(context.Context, service.Actor) (dto.StudentNoticesResponse, error) {
	return s.student, nil
}

func (s stubNoticeService) VisitedCompanies(context.Context) (dto.VisitedCompaniesResponse, error) {
	return dto.VisitedCompaniesResponse{}, errors.New("not implemented")
}

func (s stubNoticeService) Live(context.Context, service.Actor) (<-chan dto.NoticeEvent, func(), error) {
	return nil, nil, errors.New("not implemented")
}

func asStudent(c *fiber.Ctx) error {
	c.Locals("user_id", uint(7))
	c.Locals("user_role", "student")
	return c.Next()
}

func TestStudentNoticesContract(t *testing.T) {
	schema := compileSchema(t, "student_notices.schema.json")

	notice := dto.NoticeResponse{
		ID:              3,
		CompanyName:     "Acme",
		Description:     "<p>Backend engineer</p>",
		Link:            "https://acme.example/careers",
		TargetSemesters: []int{6, 7},
		TargetBranches:  []placement.Branch{placement.BranchCS, placement.BranchIT},
		MinCGPA:         7,
		MaxCGPA:         10,
		PackageOffered:  "12 LPA",
		JobType:         placement.JobTypeFullTime,
		CreatedAt:       time.Now().UTC(),
	}
	serviceStub := stubNoticeService{student: dto.StudentNoticesResponse{
		Items: []dto.NoticeResponse{notice},
		Count: 1,
	}}

	app := fiber.New()
	handler.NewNoticeHandler(serviceStub, zerolog.Nop()).Register(app.Group("/api/v1/notices", asStudent), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/notices/student", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	validateResponse(t, schema, resp)
}

func TestStudentNoticesContractWhenPlaced(t *testing.T) {
	schema := compileSchema(t, "student_notices.schema.json")

	serviceStub := stubNoticeService{student: dto.StudentNoticesResponse{
		Items:   []dto.NoticeResponse{},
		Placed:  true,
		Message: "You are already placed at Acme",
	}}

	app := fiber.New()
	handler.NewNoticeHandler(serviceStub, zerolog.Nop()).Register(app.Group("/api/v1/notices", asStudent), nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/notices/student", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	validateResponse(t, schema, resp)
}
