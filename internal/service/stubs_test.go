package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
	"github.com/noah-isme/placement-portal-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type memoryStudentRepo struct {
	mu       sync.Mutex
	students map[uint]models.Student
	nextID   uint
	failWith error
}

func newMemoryStudentRepo() *memoryStudentRepo {
	return &memoryStudentRepo{students: make(map[uint]models.Student)}
}

func (m *memoryStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if err := student.BeforeSave(nil); err != nil {
		return err
	}
	m.nextID++
	student.ID = m.nextID
	if student.CreatedAt.IsZero() {
		student.CreatedAt = time.Now()
	}
	m.students[student.ID] = *student
	return nil
}

func (m *memoryStudentRepo) GetByID(ctx context.Context, id uint) (models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.Student{}, m.failWith
	}
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) GetByUSN(ctx context.Context, usn string) (models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return models.Student{}, m.failWith
	}
	normalized := strings.ToUpper(strings.TrimSpace(usn))
	for _, student := range m.students {
		if student.USN == normalized {
			return student, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (m *memoryStudentRepo) IdentifierExists(ctx context.Context, usn string) (bool, error) {
	_, err := m.GetByUSN(ctx, usn)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *memoryStudentRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return false, m.failWith
	}
	for _, student := range m.students {
		if strings.EqualFold(student.Email, strings.TrimSpace(email)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryStudentRepo) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	student, ok := m.students[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	applyStudentUpdates(&student, updates)
	m.students[id] = student
	return student, nil
}

func (m *memoryStudentRepo) List(ctx context.Context, filter repository.AdminStudentFilter) ([]models.Student, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]models.Student, 0, len(m.students))
	for _, student := range m.students {
		if filter.Branch != "" && string(student.Branch) != filter.Branch {
			continue
		}
		if filter.Status != "" && string(student.PlacementStatus) != filter.Status {
			continue
		}
		if filter.Semester > 0 && student.Semester != filter.Semester {
			continue
		}
		items = append(items, student)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, int64(len(items)), nil
}

func (m *memoryStudentRepo) UpdateByUSN(ctx context.Context, usn string, updates map[string]interface{}) (models.Student, error) {
	student, err := m.GetByUSN(ctx, usn)
	if err != nil {
		return models.Student{}, err
	}
	return m.Update(ctx, student.ID, updates)
}

func applyStudentUpdates(student *models.Student, updates map[string]interface{}) {
	for column, value := range updates {
		switch column {
		case "name":
			student.Name = value.(string)
		case "semester":
			student.Semester = value.(int)
		case "cgpa":
			student.CGPA = value.(float64)
		case "dob":
			dob := value.(time.Time)
			student.DOB = &dob
		case "password_hash":
			student.PasswordHash = value.(string)
		case "resume_url":
			student.ResumeURL = value.(string)
		case "placement_status":
			student.PlacementStatus = placement.PlacementStatus(value.(string))
		case "placed_company":
			company := value.(*string)
			if company == nil {
				student.PlacedCompany = nil
			} else {
				copied := *company
				student.PlacedCompany = &copied
			}
		}
	}
	student.UpdatedAt = time.Now()
}

func (m *memoryStudentRepo) seed(usn, name string, branch placement.Branch, semester int, cgpa float64) models.Student {
	student := models.Student{
		Name:         name,
		USN:          usn,
		Email:        strings.ToLower(usn) + "@college.edu",
		PasswordHash: "unused",
		Semester:     semester,
		Branch:       branch,
		CGPA:         cgpa,
	}
	if err := m.Create(context.Background(), &student); err != nil {
		panic(err)
	}
	return student
}

type memoryAdminRepo struct {
	admins map[uint]models.Admin
	nextID uint
}

func newMemoryAdminRepo() *memoryAdminRepo {
	return &memoryAdminRepo{admins: make(map[uint]models.Admin)}
}

func (m *memoryAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	m.nextID++
	admin.ID = m.nextID
	m.admins[admin.ID] = *admin
	return nil
}

func (m *memoryAdminRepo) GetByID(ctx context.Context, id uint) (models.Admin, error) {
	admin, ok := m.admins[id]
	if !ok {
		return models.Admin{}, gorm.ErrRecordNotFound
	}
	return admin, nil
}

func (m *memoryAdminRepo) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	for _, admin := range m.admins {
		if strings.EqualFold(admin.Username, strings.TrimSpace(username)) {
			return admin, nil
		}
	}
	return models.Admin{}, gorm.ErrRecordNotFound
}

func (m *memoryAdminRepo) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	admin, ok := m.admins[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	admin.PasswordHash = passwordHash
	m.admins[id] = admin
	return nil
}

type memoryNoticeRepo struct {
	mu      sync.Mutex
	notices map[uint]models.Notice
	nextID  uint
	clock   time.Time
}

func newMemoryNoticeRepo() *memoryNoticeRepo {
	return &memoryNoticeRepo{
		notices: make(map[uint]models.Notice),
		clock:   time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryNoticeRepo) Create(ctx context.Context, notice *models.Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	notice.ID = m.nextID
	if notice.CreatedAt.IsZero() {
		m.clock = m.clock.Add(time.Minute)
		notice.CreatedAt = m.clock
	}
	m.notices[notice.ID] = *notice
	return nil
}

func (m *memoryNoticeRepo) GetByID(ctx context.Context, id uint) (models.Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	notice, ok := m.notices[id]
	if !ok {
		return models.Notice{}, gorm.ErrRecordNotFound
	}
	return notice, nil
}

func (m *memoryNoticeRepo) List(ctx context.Context) ([]models.Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]models.Notice, 0, len(m.notices))
	for _, notice := range m.notices {
		items = append(items, notice)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (m *memoryNoticeRepo) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notices[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.notices, id)
	return nil
}

func (m *memoryNoticeRepo) ListCompanyNames(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.notices))
	for _, notice := range m.notices {
		names = append(names, notice.CompanyName)
	}
	return names, nil
}

type countingInvalidator struct {
	mu    sync.Mutex
	count int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
}

func (c *countingInvalidator) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func floatPtr(v float64) *float64 {
	return &v
}

func stringPtr(v string) *string {
	return &v
}

func intPtr(v int) *int {
	return &v
}
