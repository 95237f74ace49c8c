package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIClient_SendPasswordReset(t *testing.T) {
	var got mailRequest
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "api-key", "no-reply@voteapp.local", "https://voteapp.example/reset")
	err := client.SendPasswordReset(context.Background(), "voter@example.com", "Voter", "reset-token-123")
	assert.NoError(t, err)

	assert.Equal(t, "Bearer api-key", gotAuth)
	assert.Equal(t, "no-reply@voteapp.local", got.From.Email)
	assert.Len(t, got.To, 1)
	assert.Equal(t, "voter@example.com", got.To[0].Email)
	assert.Contains(t, got.Text, "https://voteapp.example/reset?token=reset-token-123")
	assert.Contains(t, got.Text, "Hello Voter")
}

func TestAPIClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "bad-key", "no-reply@voteapp.local", "https://voteapp.example/reset")
	err := client.SendPasswordReset(context.Background(), "voter@example.com", "", "reset-token-123")
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	assert.NoError(t, LogMailer{}.SendPasswordReset(context.Background(), "voter@example.com", "", "tok"))
}
