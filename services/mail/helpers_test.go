package mail

import "logiclabs/models"

func testUser() models.User {
	return models.User{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com"}
}

func testCourse() models.Course {
	return models.Course{Title: "Go <Basics>"}
}
