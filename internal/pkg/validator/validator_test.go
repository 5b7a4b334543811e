package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), email)
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), email)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-12d3-a456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"{123e4567-e89b-12d3-a456-426614174000}",
		"",
	}
	for _, id := range valid {
		assert.True(t, IsValidUUID(id), id)
	}
	for _, id := range invalid {
		assert.False(t, IsValidUUID(id), id)
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		assert.True(t, ok, s)
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "98765-43210", "+91 98765 43210"}
	invalid := []string{"12345", "+1234567890123456", "98765abcde", ""}
	for _, phone := range valid {
		assert.True(t, IsValidPhoneNumber(phone), phone)
	}
	for _, phone := range invalid {
		assert.False(t, IsValidPhoneNumber(phone), phone)
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	assert.True(t, IsValidEmployeeCode("EMP-0001"))
	assert.True(t, IsValidEmployeeCode("A1"))
	assert.False(t, IsValidEmployeeCode("-EMP"))
	assert.False(t, IsValidEmployeeCode("EMP 01"))
	assert.False(t, IsValidEmployeeCode(""))
}

func TestCoordinates(t *testing.T) {
	assert.True(t, IsValidLatitude(11.603722))
	assert.True(t, IsValidLatitude(-90))
	assert.False(t, IsValidLatitude(90.0001))
	assert.True(t, IsValidLongitude(76.209250))
	assert.True(t, IsValidLongitude(180))
	assert.False(t, IsValidLongitude(-180.5))
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	assert.True(t, IsInSlice("a", slice))
	assert.False(t, IsInSlice("d", slice))
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("email", "invalid")
	errs.Add("phone", "required")

	assert.Equal(t, "email: invalid; phone: required", errs.Error())
	assert.Equal(t, map[string]string{"email": "invalid", "phone": "required"}, errs.ToMap())
	assert.Error(t, errs.Err())
}

func TestValidatePagination_Defaults(t *testing.T) {
	var errs ValidationErrors
	page, limit := 0, 0
	ValidatePagination(&errs, &page, &limit)

	assert.Empty(t, errs)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}

func TestValidatePagination_LimitTooLarge(t *testing.T) {
	var errs ValidationErrors
	page, limit := 2, 500
	ValidatePagination(&errs, &page, &limit)

	assert.Contains(t, errs.ToMap(), "limit")
}

func TestValidateSort(t *testing.T) {
	var errs ValidationErrors
	sortBy, sortOrder := "", "ASC"
	ValidateSort(&errs, &sortBy, &sortOrder, []string{"date", "status"}, "date")
	assert.Empty(t, errs)
	assert.Equal(t, "date", sortBy)
	assert.Equal(t, "asc", sortOrder)

	sortBy, sortOrder = "salary", "sideways"
	ValidateSort(&errs, &sortBy, &sortOrder, []string{"date", "status"}, "date")
	assert.Contains(t, errs.ToMap(), "sort_by")
	assert.Contains(t, errs.ToMap(), "sort_order")
}

func TestValidateOptionalFields(t *testing.T) {
	var errs ValidationErrors
	bad := "2024/01/01"
	status := "sleeping"
	ValidateOptionalDate(&errs, "date", nil)
	ValidateOptionalDate(&errs, "start_date", &bad)
	ValidateOptionalEnum(&errs, "status", &status, []string{"present", "absent"})

	m := errs.ToMap()
	assert.Len(t, m, 2)
	assert.Equal(t, "status must be one of: present, absent", m["status"])
}
