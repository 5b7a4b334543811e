package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkAsReadRequest_Validate(t *testing.T) {
	assert.Error(t, (&MarkAsReadRequest{}).Validate())
	assert.Error(t, (&MarkAsReadRequest{NotificationIDs: []string{"nope"}}).Validate())
	assert.NoError(t, (&MarkAsReadRequest{NotificationIDs: []string{"0190a6b4-8f00-7000-8000-000000000001"}}).Validate())
}

func TestUpdatePreferenceRequest_Validate(t *testing.T) {
	assert.Error(t, (&UpdatePreferenceRequest{NotificationType: "payroll_generated"}).Validate())
	assert.NoError(t, (&UpdatePreferenceRequest{NotificationType: TypeTaskAssigned}).Validate())
}

func TestListNotificationsRequest_Defaults(t *testing.T) {
	req := ListNotificationsRequest{}
	assert.NoError(t, req.Validate())
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.Limit)
}
