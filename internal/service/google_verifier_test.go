package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenInfoVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id_token") {
		case "good":
			_, _ = w.Write([]byte(`{"aud":"client-1","iss":"accounts.google.com","sub":"42","email":"g@example.com","email_verified":"true","name":"G"}`))
		case "other-client":
			_, _ = w.Write([]byte(`{"aud":"client-2","iss":"accounts.google.com","sub":"42","email":"g@example.com"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	v := NewTokenInfoVerifier("client-1")
	v.Endpoint = srv.URL

	id, err := v.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, &GoogleIdentity{Subject: "42", Email: "g@example.com", Name: "G"}, id)

	_, err = v.Verify(context.Background(), "other-client")
	assert.Error(t, err)

	_, err = v.Verify(context.Background(), "expired")
	assert.Error(t, err)
}
