package utils

import (
	"testing"

	"logiclabs/database/dbtest"
	"logiclabs/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileEnrollmentCounts(t *testing.T) {
	db := dbtest.New(t)

	instructor := models.User{FirstName: "Ravi", LastName: "K", Email: "ravi@example.com", Password: "x", Role: models.RoleInstructor}
	require.NoError(t, db.Create(&instructor).Error)

	inSync := models.Course{Title: "Go", Status: models.CoursePublished, InstructorID: instructor.ID, EnrolledCount: 2}
	tooHigh := models.Course{Title: "SQL", Status: models.CoursePublished, InstructorID: instructor.ID, EnrolledCount: 5}
	tooLow := models.Course{Title: "K8s", Status: models.CoursePublished, InstructorID: instructor.ID, EnrolledCount: 0}
	require.NoError(t, db.Create(&inSync).Error)
	require.NoError(t, db.Create(&tooHigh).Error)
	require.NoError(t, db.Create(&tooLow).Error)

	require.NoError(t, db.Create(&[]models.CourseStudent{
		{CourseID: inSync.ID, UserID: 10},
		{CourseID: inSync.ID, UserID: 11},
		{CourseID: tooHigh.ID, UserID: 10},
		{CourseID: tooLow.ID, UserID: 10},
		{CourseID: tooLow.ID, UserID: 11},
		{CourseID: tooLow.ID, UserID: 12},
	}).Error)

	drifts, err := ReconcileEnrollmentCounts(db)
	require.NoError(t, err)
	assert.Equal(t, []CountDrift{
		{CourseID: tooHigh.ID, Stored: 5, Actual: 1},
		{CourseID: tooLow.ID, Stored: 0, Actual: 3},
	}, drifts)

	counts := map[uint]int64{}
	var courses []models.Course
	require.NoError(t, db.Find(&courses).Error)
	for _, c := range courses {
		counts[c.ID] = c.EnrolledCount
	}
	assert.Equal(t, map[uint]int64{inSync.ID: 2, tooHigh.ID: 1, tooLow.ID: 3}, counts)

	// A second pass finds nothing to repair
	drifts, err = ReconcileEnrollmentCounts(db)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestInitializeEnrollmentReconciler_InvalidSchedule(t *testing.T) {
	db := dbtest.New(t)

	_, err := InitializeEnrollmentReconciler(db, "every now and then")
	assert.Error(t, err)

	c, err := InitializeEnrollmentReconciler(db, "*/30 * * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
