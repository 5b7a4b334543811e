package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestState_RoundTrip(t *testing.T) {
	svc := NewGoogleService("id", "secret", "http://localhost/cb", []string{"email"})

	state := svc.GenerateState("Mozilla/5.0")
	require.NotEmpty(t, state)

	assert.True(t, svc.VerifyState(state, state, "Mozilla/5.0"))
	assert.False(t, svc.VerifyState(state, state, "curl/8.0"))
	assert.False(t, svc.VerifyState(state, "other", "Mozilla/5.0"))
	assert.False(t, svc.VerifyState("", "", "Mozilla/5.0"))
}

func TestRedirectURL_CarriesState(t *testing.T) {
	svc := NewGoogleService("client-1", "secret", "http://localhost/cb", []string{"email"})
	u := svc.RedirectURL("abc")
	assert.Contains(t, u, "state=abc")
	assert.Contains(t, u, "client_id=client-1")
}

func TestVerifyUser(t *testing.T) {
	verified := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		if verified {
			w.Write([]byte(`{"id":"g-1","email":"Asha@Example.com","verified_email":true}`))
			return
		}
		w.Write([]byte(`{"id":"g-1","email":"asha@example.com","verified_email":false}`))
	}))
	defer srv.Close()

	svc := NewGoogleService("id", "secret", "http://localhost/cb", nil).(*GoogleServiceImpl)
	svc.userInfoURL = srv.URL
	token := &oauth2.Token{AccessToken: "tok", TokenType: "Bearer"}

	info, err := svc.VerifyUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.GoogleID)
	assert.Equal(t, "asha@example.com", info.Email)

	verified = false
	_, err = svc.VerifyUser(context.Background(), token)
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}
