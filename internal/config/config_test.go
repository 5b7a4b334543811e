package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 11.603722, cfg.Office.Latitude)
	assert.Equal(t, 76.209250, cfg.Office.Longitude)
	assert.Equal(t, float64(100), cfg.Office.RadiusMeters)
	assert.Equal(t, "09:00", cfg.Office.WorkStartTime)
	assert.Equal(t, uint(30), cfg.AttendanceCode.PeriodSeconds)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSAllowedOrigins)
	assert.False(t, cfg.OAuth2Google.Enabled())
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")
}

func TestLoad_InvalidRadius(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OFFICE_RADIUS_METERS", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "OFFICE_RADIUS_METERS")
}

func TestLoad_GoogleRequiresRedirect(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CLIENT_ID", "id")
	t.Setenv("CLIENT_SECRET", "secret")

	_, err := Load()
	assert.ErrorContains(t, err, "REDIRECT_URL")
}

func TestLoad_BootstrapPair(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	_, err := Load()
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")
}

func TestGetEnvSlice_TrimsEntries(t *testing.T) {
	t.Setenv("SCOPES", " email , profile,,")
	assert.Equal(t, []string{"email", "profile"}, getEnvSlice("SCOPES"))
}

func TestOfficeConfig_LocationFallback(t *testing.T) {
	office := OfficeConfig{Timezone: "Not/AZone"}
	assert.Equal(t, "UTC", office.Location().String())
}
