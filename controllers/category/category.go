package categoryController

import (
	"errors"
	"logiclabs/database"
	"logiclabs/middleware"
	"logiclabs/models"
	categoryValidator "logiclabs/validators/category"
	"math/rand"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const topSellingLimit = 10

// GetAllCategories lists categories without their courses
func GetAllCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.Database.Db.
		Order("name asc").
		Find(&categories).Error; err != nil {
		log.Error().Err(err).Msg("Failed to fetch categories")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", categories)
}

func CreateCategory(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCategory").(*categoryValidator.CreateCategoryRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	err := db.Where("name = ?", reqData.Name).First(&models.Category{}).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category already exists!", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Str("name", reqData.Name).Msg("Failed to check category")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}

	category := models.Category{Name: reqData.Name, Description: reqData.Description}
	if err := db.Create(&category).Error; err != nil {
		log.Error().Err(err).Str("name", reqData.Name).Msg("Failed to create category")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}

	log.Info().Uint("categoryId", category.ID).Str("name", category.Name).Msg("Category created")
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully!", category)
}

// GetCategoryPageDetails returns the published courses of a category ordered two ways,
// the courses of one other category and the best selling courses overall
func GetCategoryPageDetails(c *fiber.Ctx) error {
	categoryID, ok := c.Locals("id").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid category ID!", nil)
	}

	db := database.Database.Db

	var selected models.Category
	err := db.First(&selected, categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
	}
	if err != nil {
		log.Error().Err(err).Uint("categoryId", categoryID).Msg("Failed to fetch category")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch category!", nil)
	}

	var mostPopular, newest []models.Course
	if err := publishedCourses(db).Where("category_id = ?", categoryID).
		Order("enrolled_count desc").Find(&mostPopular).Error; err != nil {
		log.Error().Err(err).Uint("categoryId", categoryID).Msg("Failed to fetch category courses")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch category courses!", nil)
	}
	if err := publishedCourses(db).Where("category_id = ?", categoryID).
		Order("created_at desc, id desc").Find(&newest).Error; err != nil {
		log.Error().Err(err).Uint("categoryId", categoryID).Msg("Failed to fetch category courses")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch category courses!", nil)
	}

	var others []models.Category
	if err := db.Where("id <> ?", categoryID).Find(&others).Error; err != nil {
		log.Error().Err(err).Msg("Failed to fetch other categories")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch category courses!", nil)
	}
	var other *models.Category
	if len(others) > 0 {
		other = &others[rand.Intn(len(others))]
		if err := publishedCourses(db).Where("category_id = ?", other.ID).
			Order("enrolled_count desc").Find(&other.Courses).Error; err != nil {
			log.Error().Err(err).Uint("categoryId", other.ID).Msg("Failed to fetch category courses")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch category courses!", nil)
		}
	}

	var topSelling []models.Course
	if err := publishedCourses(db).Order("enrolled_count desc").Limit(topSellingLimit).Find(&topSelling).Error; err != nil {
		log.Error().Err(err).Msg("Failed to fetch top selling courses")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch category courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category courses fetched successfully!", fiber.Map{
		"selectedCategory":   selected,
		"mostPopularCourses": mostPopular,
		"newestCourses":      newest,
		"otherCategory":      other,
		"topSellingCourses":  topSelling,
	})
}

func publishedCourses(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Course{}).
		Preload("Instructor").
		Preload("Category").
		Where("status = ?", models.CoursePublished)
}
