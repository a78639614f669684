package utils

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CountDrift is a course whose stored enrollment counter disagrees with its student list
type CountDrift struct {
	CourseID uint  `json:"courseId"`
	Stored   int64 `json:"stored"`
	Actual   int64 `json:"actual"`
}

// InitializeEnrollmentReconciler schedules ReconcileEnrollmentCounts and starts the cron.
// The caller stops the returned cron on shutdown.
func InitializeEnrollmentReconciler(db *gorm.DB, schedule string) (*cron.Cron, error) {
	logger := log.With().Str("component", "reconciler").Logger()
	logger.Info().Str("schedule", schedule).Msg("Initializing enrollment reconciler...")

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		logger.Debug().Msg("Running enrollment count check...")
		if _, err := ReconcileEnrollmentCounts(db); err != nil {
			logger.Error().Err(err).Msg("Enrollment reconciliation failed")
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid reconcile schedule %q", schedule)
	}

	c.Start()
	return c, nil
}

// ReconcileEnrollmentCounts sets every course's enrolled_count to the size of its
// student list and returns the courses that were off.
func ReconcileEnrollmentCounts(db *gorm.DB) ([]CountDrift, error) {
	logger := log.With().Str("component", "reconciler").Logger()

	var drifts []CountDrift
	err := db.Raw(`
		SELECT c.id AS course_id, c.enrolled_count AS stored, COUNT(cs.user_id) AS actual
		FROM courses c
		LEFT JOIN course_students cs ON cs.course_id = c.id
		WHERE c.deleted_at IS NULL
		GROUP BY c.id, c.enrolled_count
		HAVING c.enrolled_count <> COUNT(cs.user_id)
		ORDER BY c.id`).Scan(&drifts).Error
	if err != nil {
		return nil, errors.Wrap(err, "find enrollment count drift")
	}

	for _, d := range drifts {
		// Recount inside the UPDATE so enrollments landing meanwhile are not lost
		err := db.Exec(
			`UPDATE courses SET enrolled_count = (SELECT COUNT(*) FROM course_students WHERE course_id = ?) WHERE id = ?`,
			d.CourseID, d.CourseID,
		).Error
		if err != nil {
			return drifts, errors.Wrapf(err, "repair enrolled_count of course %d", d.CourseID)
		}
		logger.Warn().Uint("courseId", d.CourseID).Int64("stored", d.Stored).Int64("actual", d.Actual).
			Msg("Repaired enrolled student count")
	}

	if len(drifts) == 0 {
		logger.Debug().Msg("Enrollment counts are consistent")
	}
	return drifts, nil
}
