package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/models"
	"github.com/noah-isme/placement-portal-api/internal/placement"
)

func TestAdminStudentRepositoryListFiltersAndSorts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdminStudentRepository(db)

	older := newStudent("1MS21CS001", "Alice Johnson", placement.BranchCS, 5)
	older.CreatedAt = time.Now().Add(-2 * time.Hour)
	newer := newStudent("1MS22EC002", "Bob Stone", placement.BranchECE, 3)
	newer.CreatedAt = time.Now().Add(-1 * time.Hour)
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	students, total, err := repo.List(context.Background(), AdminStudentFilter{Search: "alice", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, students, 1)
	require.Equal(t, "Alice Johnson", students[0].Name)
	require.Equal(t, 2021, students[0].EnrollmentYear)

	students, total, err = repo.List(context.Background(), AdminStudentFilter{PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "Bob Stone", students[0].Name, "expected newest record first")

	students, total, err = repo.List(context.Background(), AdminStudentFilter{Branch: string(placement.BranchECE), Semester: 3})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "1MS22EC002", students[0].USN)
}

func TestAdminStudentRepositoryUpdateByUSN(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAdminStudentRepository(db)

	student := newStudent("1MS22CS154", "Priya", placement.BranchCS, 6)
	require.NoError(t, db.Create(&student).Error)

	updated, err := repo.UpdateByUSN(context.Background(), "1ms22cs154", map[string]interface{}{
		"placement_status": placement.StatusPlaced,
		"placed_company":   "Acme",
	})
	require.NoError(t, err)
	require.Equal(t, placement.StatusPlaced, updated.PlacementStatus)
	require.NotNil(t, updated.PlacedCompany)
	require.Equal(t, "Acme", *updated.PlacedCompany)
	require.Equal(t, 2022, updated.EnrollmentYear)

	_, err = repo.UpdateByUSN(context.Background(), "1MS22CS999", map[string]interface{}{"name": "Ghost"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Admin{}, &models.Notice{}, &models.ActivityLog{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newStudent(usn, name string, branch placement.Branch, semester int) models.Student {
	return models.Student{
		Name:         name,
		USN:          usn,
		Email:        strings.ToLower(usn) + "@college.edu",
		PasswordHash: "hash",
		Semester:     semester,
		Branch:       branch,
		CGPA:         8.0,
	}
}
