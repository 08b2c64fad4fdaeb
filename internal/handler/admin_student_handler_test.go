package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/placement-portal-api/internal/dto"
	"github.com/noah-isme/placement-portal-api/internal/handler"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/service"
)

type mockAdminStudentService struct {
	lastList      dto.AdminStudentListRequest
	lastUSN       string
	lastPlacement dto.PlacementStatusRequest
	placementErr  error
	getErr        error
}

func (m *mockAdminStudentService) List(_ context.Context, req dto.AdminStudentListRequest) (dto.AdminStudentListResponse, error) {
	m.lastList = req
	return dto.AdminStudentListResponse{
		Items:      []dto.StudentResponse{{ID: 1, USN: "1MS22CS154"}},
		Pagination: dto.PaginationMeta{Page: req.Page, PageSize: req.PageSize, TotalItems: 1, TotalPages: 1},
	}, nil
}

func (m *mockAdminStudentService) Get(_ context.Context, usn string) (dto.StudentResponse, error) {
	m.lastUSN = usn
	if m.getErr != nil {
		return dto.StudentResponse{}, m.getErr
	}
	return dto.StudentResponse{USN: usn}, nil
}

func (m *mockAdminStudentService) UpdatePlacementStatus(_ context.Context, usn string, req dto.PlacementStatusRequest, _ service.Actor) (dto.PlacementStatusResponse, error) {
	m.lastUSN = usn
	m.lastPlacement = req
	if m.placementErr != nil {
		return dto.PlacementStatusResponse{}, m.placementErr
	}
	company := "Acme"
	return dto.PlacementStatusResponse{
		Summary: "Student Priya has been marked as Placed in Acme",
		Student: dto.StudentResponse{USN: usn, PlacementStatus: placement.StatusPlaced, PlacedCompany: &company},
	}, nil
}

func (m *mockAdminStudentService) Update(_ context.Context, usn string, _ dto.AdminStudentUpdateRequest, _ service.Actor) (dto.StudentResponse, error) {
	m.lastUSN = usn
	return dto.StudentResponse{USN: usn}, nil
}

type mockStatisticsService struct {
	err error
}

func (m *mockStatisticsService) Invalidate(context.Context) {}

func (m *mockStatisticsService) Get(context.Context) (dto.StatisticsResponse, error) {
	if m.err != nil {
		return dto.StatisticsResponse{}, m.err
	}
	return dto.StatisticsResponse{TotalStudents: 4, PlacedStudents: 3, PlacementPercentage: 75}, nil
}

func newAdminStudentApp(svc service.AdminStudentService, stats service.StatisticsService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/students", withUser(1, "admin"))
	handler.NewAdminStudentHandler(svc, stats, discardLogger()).Register(group, nil)
	return app
}

func TestAdminStudentHandlerList(t *testing.T) {
	svc := &mockAdminStudentService{}
	app := newAdminStudentApp(svc, &mockStatisticsService{})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students?page=2&page_size=500&branch=CS&semester=6&status=Placed", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope
	decodeResponse(t, resp, &body)
	require.Equal(t, 2, svc.lastList.Page)
	require.Equal(t, 100, svc.lastList.PageSize)
	require.Equal(t, "CS", svc.lastList.Branch)
	require.Equal(t, 6, svc.lastList.Semester)

	var meta dto.PaginationMeta
	require.NoError(t, json.Unmarshal(body.Meta, &meta))
	require.EqualValues(t, 1, meta.TotalItems)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students?semester=six", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminStudentHandlerPlacementStatus(t *testing.T) {
	svc := &mockAdminStudentService{}
	app := newAdminStudentApp(svc, &mockStatisticsService{})

	resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/v1/students/1ms22cs154/placement-status", map[string]string{
		"placement_status": "Placed",
		"placed_company":   "Acme",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope
	decodeResponse(t, resp, &body)
	require.Equal(t, "Student Priya has been marked as Placed in Acme", body.Message)
	require.Equal(t, "1ms22cs154", svc.lastUSN)
	require.Equal(t, "Acme", *svc.lastPlacement.PlacedCompany)

	svc.placementErr = placement.ErrCompanyRequired
	resp, err = app.Test(jsonRequest(t, http.MethodPut, "/api/v1/students/1MS22CS154/placement-status", map[string]string{"placement_status": "Placed"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	decodeResponse(t, resp, &body)
	require.Equal(t, "COMPANY_REQUIRED", body.Details.Code)
}

func TestAdminStudentHandlerStatisticsRouteIsNotAUSN(t *testing.T) {
	svc := &mockAdminStudentService{getErr: placement.NotFound("student")}
	app := newAdminStudentApp(svc, &mockStatisticsService{})

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students/statistics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Empty(t, svc.lastUSN)

	var body envelope
	decodeResponse(t, resp, &body)
	var stats dto.StatisticsResponse
	require.NoError(t, json.Unmarshal(body.Data, &stats))
	require.EqualValues(t, 3, stats.PlacedStudents)

	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/v1/students/1MS22CS999", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	failing := newAdminStudentApp(svc, &mockStatisticsService{err: errors.New("boom")})
	resp, err = failing.Test(jsonRequest(t, http.MethodGet, "/api/v1/students/statistics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
