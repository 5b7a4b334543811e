package attendance

import (
	"mime/multipart"
	"testing"

	"github.com/cmlabs-hris/hr-admin-backend/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestCheckInRequest_Validate(t *testing.T) {
	req := CheckInRequest{Latitude: ptr(11.6), Longitude: ptr(76.2)}
	require.NoError(t, req.Validate())
	assert.Equal(t, "qr", req.Method)

	req = CheckInRequest{Latitude: ptr(120.0), Method: "biometric"}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "latitude")
	assert.Contains(t, verrs.ToMap(), "method")
}

func TestCheckInRequest_PhotoType(t *testing.T) {
	req := CheckInRequest{FileHeader: &multipart.FileHeader{Filename: "selfie.gif", Size: 10}}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "photo")
}

func TestMarkAttendanceRequest_Validate(t *testing.T) {
	req := MarkAttendanceRequest{
		EmployeeID: "0190a6b4-8f00-7000-8000-000000000001",
		Date:       "2026-03-02",
		Status:     "absent",
	}
	require.NoError(t, req.Validate())

	req.Status = "holiday"
	req.CheckIn = ptr("2026-03-02T10:00:00+05:30")
	req.CheckOut = ptr("2026-03-02T09:00:00+05:30")
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "status")
	assert.Contains(t, verrs.ToMap(), "check_out")
}

func TestAttendanceFilter_RangeOrder(t *testing.T) {
	f := AttendanceFilter{StartDate: ptr("2026-03-10"), EndDate: ptr("2026-03-01")}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, f.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "end_date")
}

func TestExportAttendanceRequest_Validate(t *testing.T) {
	req := ExportAttendanceRequest{StartDate: "2026-03-01", EndDate: "2026-03-31"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "xlsx", req.Format)
	assert.Equal(t, 31, req.End.Day())

	req = ExportAttendanceRequest{StartDate: "2026-03-01", EndDate: "2026-03-31", Format: "pdf"}
	assert.Error(t, req.Validate())
}

func TestBiometricPunchRequest_Validate(t *testing.T) {
	req := BiometricPunchRequest{EmployeeCode: "EMP-1", Timestamp: "2026-03-02T09:01:00+05:30"}
	require.NoError(t, req.Validate())
	assert.False(t, req.PunchedAt.IsZero())

	req = BiometricPunchRequest{Timestamp: "yesterday"}
	assert.Error(t, req.Validate())
}
