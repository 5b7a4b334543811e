package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/auth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/employee"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/leave"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/notification"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/task"
	"github.com/cmlabs-hris/hr-admin-backend/internal/domain/user"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/export"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/geofence"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/oauth"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/storage"
	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/hr-admin-backend/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Proximity failures carry the measured distance
	var radiusErr *attendance.OutsideRadiusError
	if errors.As(err, &radiusErr) {
		BadRequest(w, attendance.ErrOutsideAllowedRadius.Error(), map[string]string{
			"distance_meters": strconv.Itoa(radiusErr.DistanceMeters),
			"radius_meters":   strconv.FormatFloat(radiusErr.RadiusMeters, 'f', 0, 64),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrEmailAlreadyExists), errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrGoogleAccountLinked), errors.Is(err, user.ErrOAuthProviderIDExists):
		Conflict(w, err.Error())
	case errors.Is(err, auth.ErrGoogleNotConfigured):
		NotFound(w, "Google sign-in is not configured")
	case errors.Is(err, auth.ErrInvalidOAuthState), errors.Is(err, oauth.ErrEmailNotVerified):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired), errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoEmployeeProfile):
		NotFound(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, err.Error())
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, err.Error())
	case errors.Is(err, employee.ErrCannotDeleteSelf), errors.Is(err, employee.ErrCannotDemoteSelf):
		BadRequest(w, err.Error(), nil)

	// Attendance domain errors
	case errors.Is(err, geofence.ErrLocationRequired):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrInvalidDeviceKey):
		Unauthorized(w, err.Error())
	case errors.Is(err, attendance.ErrOnLeave):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrOutsideAllowedRadius),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrInvalidQRCode),
		errors.Is(err, attendance.ErrQRCodeRequired),
		errors.Is(err, attendance.ErrCheckOutBeforeIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, export.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOverlappingLeaveRequest):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrNotLeaveRequestOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrInvalidDocumentType), errors.Is(err, leave.ErrDocumentTooLarge):
		BadRequest(w, err.Error(), nil)

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrAssigneeNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, task.ErrNotTaskAssignee):
		Forbidden(w, err.Error())
	case errors.Is(err, task.ErrInvalidTransition),
		errors.Is(err, task.ErrTaskStatusChanged),
		errors.Is(err, task.ErrTaskNotEditable):
		Conflict(w, err.Error())
	case errors.Is(err, task.ErrAssigneeInactive),
		errors.Is(err, task.ErrInvalidPhotoType),
		errors.Is(err, task.ErrTooManyPhotos),
		errors.Is(err, task.ErrRejectionNotesEmpty):
		BadRequest(w, err.Error(), nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrInvalidNotificationType):
		BadRequest(w, err.Error(), nil)

	// Files
	case errors.Is(err, file.ErrInvalidFileType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
