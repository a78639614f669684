package authController

import (
	"errors"
	"logiclabs/config"
	"logiclabs/database"
	"logiclabs/middleware"
	"logiclabs/models"
	"logiclabs/services/mail"
	authValidator "logiclabs/validators/auth"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedUser").(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Error().Err(err).Msg("Error hashing password")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Email:     reqData.Email,
		Password:  string(hashedPassword),
		Role:      reqData.Role,
		Active:    true,
	}

	// Profile and user are created together
	err = db.Transaction(func(tx *gorm.DB) error {
		profile := models.Profile{}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		newUser.ProfileID = profile.ID
		newUser.Profile = profile
		return tx.Create(&newUser).Error
	})
	if err != nil {
		log.Error().Err(err).Str("email", reqData.Email).Msg("Error saving user to database")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	log.Info().Uint("userId", newUser.ID).Str("role", newUser.Role).Msg("User registered")
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
		}
		log.Error().Err(err).Msg("Error fetching user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if !user.Active {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account is deactivated!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Role, user.Email)
	if err != nil {
		log.Error().Err(err).Uint("userId", user.ID).Msg("Error generating token")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	user.LastLogin = time.Now()
	if err := db.Model(&user).Update("last_login", user.LastLogin).Error; err != nil {
		log.Warn().Err(err).Uint("userId", user.ID).Msg("Failed to update last login")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Me returns the logged in user with profile and owned courses
func Me(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.
		Preload("Profile").
		Preload("Courses.Course").
		First(&user, userId).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully.", user)
}

// Logout expires the token cookie. Bearer tokens stay valid until they expire.
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "none",
		Expires:  time.Now().Add(10 * time.Second),
		HTTPOnly: true,
	})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully.", nil)
}

func ChangePassword(notifications *mail.Notifications) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId, ok := c.Locals("userId").(uint)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}
		reqData, ok := c.Locals("validatedPasswordChange").(*authValidator.ChangePasswordRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		db := database.Database.Db

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
			}
			log.Error().Err(err).Uint("userId", userId).Msg("Error fetching user")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.OldPassword)); err != nil {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "The password is incorrect!", nil)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
		if err != nil {
			log.Error().Err(err).Msg("Error hashing password")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}

		if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
			log.Error().Err(err).Uint("userId", userId).Msg("Error updating password")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password!", nil)
		}

		if notifications != nil {
			notifications.PasswordUpdated(user)
		}

		log.Info().Uint("userId", userId).Msg("Password changed")
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Password updated successfully.", nil)
	}
}
