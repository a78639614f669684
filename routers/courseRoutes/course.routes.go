package courseRoutes

import (
	controllers "logiclabs/controllers/course"
	"logiclabs/middleware"
	"logiclabs/models"
	validators "logiclabs/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the catalogue, instructor and student course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	instructorOnly := middleware.RequireRole(models.RoleInstructor)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	// Static paths go first so they are not taken for an :id
	courseGroup.Get("/list", validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/enrolled", middleware.JWTMiddleware, studentOnly, controllers.GetEnrolledCourses)
	courseGroup.Get("/instructor/stats", middleware.JWTMiddleware, instructorOnly, controllers.InstructorStats)
	courseGroup.Get("/instructor/courses", middleware.JWTMiddleware, instructorOnly, controllers.GetCreatedCourses)

	// Course authoring
	courseGroup.Post("/", middleware.JWTMiddleware, instructorOnly, validators.CreateCourse(), controllers.CreateCourse)
	courseGroup.Patch("/:id/status", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), validators.UpdateStatus(), controllers.UpdateCourseStatus)
	courseGroup.Get("/:id/full", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), controllers.GetFullCourseDetails)
	courseGroup.Patch("/:id", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), validators.EditCourse(), controllers.EditCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), controllers.DeleteCourse)

	courseGroup.Post("/:id/section", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), validators.CreateSection(), controllers.CreateSection)
	courseGroup.Patch("/section/:id", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), validators.UpdateSection(), controllers.UpdateSection)
	courseGroup.Delete("/section/:id", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), controllers.DeleteSection)

	courseGroup.Post("/section/:id/lecture", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), validators.CreateLecture(), controllers.CreateLecture)
	courseGroup.Patch("/lecture/:id", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), validators.UpdateLecture(), controllers.UpdateLecture)
	courseGroup.Delete("/lecture/:id", middleware.JWTMiddleware, instructorOnly, validators.IDParam("id"), controllers.DeleteLecture)

	// Enrolled students
	courseGroup.Get("/:id/content", middleware.JWTMiddleware, studentOnly, validators.IDParam("id"), controllers.GetEnrolledCourseContent)

	courseGroup.Get("/:id", validators.IDParam("id"), controllers.GetCourseDetails)
}
