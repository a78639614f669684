package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"logiclabs/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Currency every order is opened in
const Currency = "INR"

// Notifier is told about every course a purchaser got enrolled in.
// Implementations must not block the caller.
type Notifier interface {
	EnrollmentConfirmed(user models.User, course models.Course)
}

// VerifyRequest is the payment triple returned by the gateway checkout plus the basket
type VerifyRequest struct {
	OrderID   string
	PaymentID string
	Signature string
	CourseIDs []uint
	UserID    uint
}

// EnrollmentResult lists the courses of a batch the purchaser now owns
type EnrollmentResult struct {
	Status          string `json:"status"`
	Courses         []uint `json:"courses"`
	AlreadyEnrolled []uint `json:"alreadyEnrolled,omitempty"`
}

// Service runs order creation, signature verification and enrollment
type Service struct {
	db       *gorm.DB
	gateway  Gateway
	secret   string
	notifier Notifier
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(db *gorm.DB, gateway Gateway, secret string, notifier Notifier) *Service {
	return &Service{
		db:       db,
		gateway:  gateway,
		secret:   secret,
		notifier: notifier,
		now:      time.Now,
		log:      log.With().Str("component", "checkout").Logger(),
	}
}

// errSkipEnrolled rolls back the per-course transaction when the purchaser is already listed
var errSkipEnrolled = errors.New("already enrolled")

// CreateOrder prices the basket and opens a gateway order. Nothing is written locally.
func (s *Service) CreateOrder(ctx context.Context, userID uint, courseIDs []uint) (*Order, error) {
	if err := validateBasket(userID, courseIDs); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var total int64
	for _, courseID := range courseIDs {
		var course models.Course
		err := db.Where("id = ? AND status = ?", courseID, models.CoursePublished).First(&course).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, courseError(CodeNotFound, courseID, "No such course found")
		}
		if err != nil {
			return nil, internalError(err, "load course")
		}

		var enrolled int64
		if err := db.Model(&models.CourseStudent{}).
			Where("course_id = ? AND user_id = ?", courseID, userID).
			Count(&enrolled).Error; err != nil {
			return nil, internalError(err, "check enrollment")
		}
		if enrolled > 0 {
			return nil, courseError(CodeAlreadyEnrolled, courseID, "Student is already enrolled in a course")
		}

		total += course.Price
	}

	req := OrderRequest{
		Amount:   total * 100,
		Currency: Currency,
		Receipt:  fmt.Sprintf("R%d-%d", userID, s.now().UnixMilli()),
		Notes: map[string]string{
			"userId":    strconv.FormatUint(uint64(userID), 10),
			"courseIds": joinCourseIDs(courseIDs),
		},
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.log.Error().Err(err).Uint("userId", userID).Int64("amount", req.Amount).Msg("Gateway order creation failed")
		return nil, &Error{Code: CodeUpstreamFailure, Message: "Failed to create order. Please try again", Err: err}
	}

	s.log.Info().Uint("userId", userID).Str("orderId", order.ID).Int64("amount", order.Amount).Msg("Order created")
	return order, nil
}

// VerifyPayment checks the gateway signature and, when it matches, enrolls the purchaser
func (s *Service) VerifyPayment(ctx context.Context, req VerifyRequest) (*EnrollmentResult, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, newError(CodeValidation, "Some fields are missing")
	}
	if err := validateBasket(req.UserID, req.CourseIDs); err != nil {
		return nil, err
	}

	if !VerifySignature(s.secret, req.OrderID, req.PaymentID, req.Signature) {
		s.log.Warn().Uint("userId", req.UserID).Str("orderId", req.OrderID).Msg("Payment signature mismatch")
		return nil, newError(CodeInvalidSignature, "Invalid request")
	}

	txn, err := s.recordPayment(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := s.Enroll(ctx, req.UserID, req.CourseIDs)
	s.settlePayment(ctx, txn, err)
	return result, err
}

// recordPayment stores the verified payment once. The first verification must match the
// gateway order; replays must present the same purchaser and basket as the stored row.
func (s *Service) recordPayment(ctx context.Context, req VerifyRequest) (*models.PaymentTransaction, error) {
	db := s.db.WithContext(ctx)

	var stored models.PaymentTransaction
	err := db.Where("payment_id = ?", req.PaymentID).First(&stored).Error
	if err == nil {
		return s.matchStored(&stored, req)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalError(err, "load payment")
	}

	order, err := s.gateway.FetchOrder(ctx, req.OrderID)
	if errors.Is(err, ErrOrderNotFound) {
		s.log.Warn().Str("orderId", req.OrderID).Uint("userId", req.UserID).Msg("Payment verified for an unknown order")
		return nil, newError(CodeInvalidSignature, "Invalid request")
	}
	if err != nil {
		s.log.Error().Err(err).Str("orderId", req.OrderID).Msg("Gateway order lookup failed")
		return nil, &Error{Code: CodeUpstreamFailure, Message: "Failed to verify payment. Please try again", Err: err}
	}
	if !orderMatches(order, req) {
		s.log.Warn().Str("orderId", req.OrderID).Uint("userId", req.UserID).
			Str("orderUser", order.Notes["userId"]).Str("orderCourses", order.Notes["courseIds"]).
			Msg("Payment does not match the order's purchaser or basket")
		return nil, newError(CodeInvalidSignature, "Invalid request")
	}

	txn := models.PaymentTransaction{
		UserID:    req.UserID,
		Gateway:   s.gateway.Name(),
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Amount:    order.Amount,
		Currency:  order.Currency,
		CourseIDs: req.CourseIDs,
		Status:    models.PaymentStatusVerified,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&txn).Error; err != nil {
		return nil, internalError(err, "record payment")
	}

	// a concurrent verification of the same payment may have won the insert
	if err := db.Where("payment_id = ?", req.PaymentID).First(&stored).Error; err != nil {
		return nil, internalError(err, "load payment")
	}
	return s.matchStored(&stored, req)
}

func (s *Service) matchStored(stored *models.PaymentTransaction, req VerifyRequest) (*models.PaymentTransaction, error) {
	if stored.UserID != req.UserID || stored.OrderID != req.OrderID || !sameCourses(stored.CourseIDs, req.CourseIDs) {
		s.log.Warn().Str("paymentId", req.PaymentID).Uint("userId", req.UserID).Msg("Payment replayed with a different purchaser or basket")
		return nil, newError(CodeInvalidSignature, "Invalid request")
	}
	return stored, nil
}

// orderMatches holds when the order was opened by CreateOrder for this purchaser and basket
func orderMatches(order *Order, req VerifyRequest) bool {
	return order.ID == req.OrderID &&
		order.Currency == Currency &&
		order.Amount > 0 &&
		order.Notes["userId"] == strconv.FormatUint(uint64(req.UserID), 10) &&
		order.Notes["courseIds"] == joinCourseIDs(req.CourseIDs)
}

func joinCourseIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

func (s *Service) settlePayment(ctx context.Context, txn *models.PaymentTransaction, enrollErr error) {
	updates := map[string]interface{}{"status": models.PaymentStatusEnrolled, "failure_reason": ""}
	if enrollErr != nil {
		updates = map[string]interface{}{"status": models.PaymentStatusFailed, "failure_reason": AsError(enrollErr).Message}
	}
	if err := s.db.WithContext(ctx).Model(txn).Updates(updates).Error; err != nil {
		s.log.Error().Err(err).Str("paymentId", txn.PaymentID).Msg("Failed to update payment status")
	}
}

// Enroll fans the purchaser out over the courses in the order given.
// It stops at the first failing course; courses enrolled before it stay enrolled.
// Courses the purchaser already owns are skipped, so replaying a batch is safe.
func (s *Service) Enroll(ctx context.Context, userID uint, courseIDs []uint) (*EnrollmentResult, error) {
	if err := validateBasket(userID, courseIDs); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(CodeNotFound, "No such user found")
	}
	if err != nil {
		return nil, internalError(err, "load user")
	}

	result := &EnrollmentResult{Status: "enrolled", Courses: make([]uint, 0, len(courseIDs))}
	for _, courseID := range courseIDs {
		course, err := s.enrollOne(ctx, userID, courseID)
		if errors.Is(err, errSkipEnrolled) {
			result.Courses = append(result.Courses, courseID)
			result.AlreadyEnrolled = append(result.AlreadyEnrolled, courseID)
			continue
		}
		if err != nil {
			s.log.Error().Err(err).Uint("userId", userID).Uint("courseId", courseID).
				Uints("enrolled", result.Courses).Msg("Enrollment stopped")
			return result, err
		}

		result.Courses = append(result.Courses, courseID)
		s.log.Info().Uint("userId", userID).Uint("courseId", courseID).Msg("Student enrolled")

		if s.notifier != nil {
			s.notifier.EnrollmentConfirmed(user, *course)
		}
	}
	return result, nil
}

// enrollOne applies the membership, counter, progress record and owned-course writes in one transaction
func (s *Service) enrollOne(ctx context.Context, userID, courseID uint) (*models.Course, error) {
	var course models.Course

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Course{}).
			Where("id = ? AND status = ?", courseID, models.CoursePublished).
			UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + ?", 1))
		if res.Error != nil {
			return internalError(res.Error, "increment enrolled count")
		}
		if res.RowsAffected == 0 {
			return courseError(CodeNotFound, courseID, "Course not found")
		}

		res = tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.CourseStudent{CourseID: courseID, UserID: userID})
		if res.Error != nil {
			return internalError(res.Error, "add enrolled student")
		}
		if res.RowsAffected == 0 {
			return errSkipEnrolled
		}

		progress := models.CourseProgress{CourseID: courseID, UserID: userID}
		if err := tx.Create(&progress).Error; err != nil {
			return internalError(err, "create course progress")
		}

		owned := models.UserCourse{UserID: userID, CourseID: courseID, CourseProgressID: progress.ID}
		if err := tx.Create(&owned).Error; err != nil {
			return internalError(err, "add owned course")
		}

		if err := tx.First(&course, courseID).Error; err != nil {
			return internalError(err, "reload course")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func validateBasket(userID uint, courseIDs []uint) error {
	if userID == 0 {
		return newError(CodeValidation, "Please provide course and user details")
	}
	if len(courseIDs) == 0 {
		return newError(CodeValidation, "No courses found")
	}
	seen := make(map[uint]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		if id == 0 {
			return newError(CodeValidation, "Invalid course id")
		}
		if _, dup := seen[id]; dup {
			return courseError(CodeValidation, id, "Course listed more than once")
		}
		seen[id] = struct{}{}
	}
	return nil
}

func sameCourses(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
