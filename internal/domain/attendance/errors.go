package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	ErrAlreadyCheckedIn     = errors.New("you have already checked in today")
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius of the office")
	ErrNotCheckedIn         = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut    = errors.New("you have already checked out")
	ErrInvalidQRCode        = errors.New("invalid or expired attendance QR code")
	ErrQRCodeRequired       = errors.New("qr_code is required for QR check-in")
	ErrInvalidDeviceKey     = errors.New("invalid biometric device key")
	ErrOnLeave              = errors.New("you are on approved leave today")

	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance already recorded for this employee and date")
	ErrCheckOutBeforeIn   = errors.New("check-out time must be after check-in time")
)

// OutsideRadiusError carries the measured distance for the client. It matches
// ErrOutsideAllowedRadius with errors.Is.
type OutsideRadiusError struct {
	OutsideRadiusDetails
}

func (e *OutsideRadiusError) Error() string {
	return fmt.Sprintf("%s (%dm away, allowed %.0fm)", ErrOutsideAllowedRadius.Error(), e.DistanceMeters, e.RadiusMeters)
}

func (e *OutsideRadiusError) Unwrap() error {
	return ErrOutsideAllowedRadius
}
