package authenticator

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTokenResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        TokenResponse
		wantErr     *ProviderError
	}{
		{
			name:        "grant",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"access_token":"tok1","token_type":"Bearer","expires_in":3600,"tmobileid":"u42","scope":"a,b"}`,
			want:        TokenResponse{AccessToken: "tok1", TokenType: "Bearer", ExpiresIn: 3600, IdentityID: "u42", Scope: "a,b"},
		},
		{
			name:        "string expiry and numeric id",
			status:      http.StatusOK,
			contentType: "application/json; charset=utf-8",
			body:        `{"access_token":"tok1","expires_in":"120","tmobileid":12345}`,
			want:        TokenResponse{AccessToken: "tok1", ExpiresIn: 120, IdentityID: "12345"},
		},
		{
			name:        "no token",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"tmobileid":"u42"}`,
			want:        TokenResponse{IdentityID: "u42"},
		},
		{
			name:        "false error flag",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"error":false,"access_token":"tok3"}`,
			want:        TokenResponse{AccessToken: "tok3"},
		},
		{
			name:        "form encoded",
			status:      http.StatusOK,
			contentType: "application/x-www-form-urlencoded",
			body:        "access_token=tok2&expires_in=60&scope=read",
			want:        TokenResponse{AccessToken: "tok2", ExpiresIn: 60, Scope: "read"},
		},
		{
			name:        "provider error",
			status:      http.StatusBadRequest,
			contentType: "application/json",
			body:        `{"error":"invalid_grant","error_description":"code expired"}`,
			wantErr:     &ProviderError{Code: "invalid_grant", Description: "code expired"},
		},
		{
			name:        "provider error in form",
			status:      http.StatusOK,
			contentType: "text/plain",
			body:        "error=bad_verification_code&error_description=The+code+is+incorrect",
			wantErr:     &ProviderError{Code: "bad_verification_code", Description: "The code is incorrect"},
		},
		{
			name:        "nested error object",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"error":{"code":"invalid_grant","message":"code expired"},"tmobileid":"u42"}`,
			wantErr:     &ProviderError{Code: "invalid_grant", Description: "code expired"},
		},
		{
			name:        "boolean error flag",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"error":true,"error_description":"code expired"}`,
			wantErr:     &ProviderError{Code: "error", Description: "code expired"},
		},
		{
			name:        "numeric error",
			status:      http.StatusOK,
			contentType: "application/json",
			body:        `{"error":1017}`,
			wantErr:     &ProviderError{Code: "1017"},
		},
		{
			name:        "status without error document",
			status:      http.StatusServiceUnavailable,
			contentType: "application/json",
			body:        `{}`,
			wantErr:     &ProviderError{Code: "http_503", Description: "Service Unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTokenResponse(tt.status, tt.contentType, []byte(tt.body), DefaultIdentityField)
			require.NoError(t, err)

			if tt.wantErr != nil {
				require.True(t, got.IsError())
				assert.Equal(t, tt.wantErr, got.Err)
				assert.Empty(t, got.AccessToken)
				return
			}

			require.False(t, got.IsError())
			assert.Equal(t, tt.want.AccessToken, got.AccessToken)
			assert.Equal(t, tt.want.TokenType, got.TokenType)
			assert.Equal(t, tt.want.ExpiresIn, got.ExpiresIn)
			assert.Equal(t, tt.want.IdentityID, got.IdentityID)
			assert.Equal(t, tt.want.Scope, got.Scope)
			assert.NotNil(t, got.Raw)
		})
	}
}

func TestParseTokenResponse_Malformed(t *testing.T) {
	bodies := []string{
		"",
		"null",
		"<html>502 Bad Gateway</html>",
		`["access_token"]`,
		`{"access_token":"tok","expires_in":true}`,
		`{"access_token":"tok","expires_in":"soon"}`,
		`{"access_token":"tok","expires_in":1e30}`,
		`{"access_token":"tok","expires_in":"-1e30"}`,
	}

	for _, body := range bodies {
		got, err := ParseTokenResponse(http.StatusOK, "application/json", []byte(body), DefaultIdentityField)
		assert.Nil(t, got, body)
		assert.ErrorIs(t, err, ErrMalformedResponse, body)
	}
}

func TestParseTokenResponse_IdentityField(t *testing.T) {
	got, err := ParseTokenResponse(http.StatusOK, "application/json", []byte(`{"access_token":"t","sub":"abc"}`), "sub")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.IdentityID)
}

func TestGrantScopes(t *testing.T) {
	assert.Nil(t, Grant{}.Scopes())
	assert.Equal(t, []string{"a", "b"}, Grant{Scope: "a, b,"}.Scopes())
	assert.Equal(t, []string{"a", "b"}, Grant{Scope: "a b", separator: " "}.Scopes())
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Code: "invalid_grant", Description: "code expired"}
	assert.Equal(t, "provider error invalid_grant: code expired", err.Error())
	assert.Equal(t, "code expired", err.Message())
	assert.ErrorIs(t, err, ErrInvalidCode)

	err = &ProviderError{Code: "server_error"}
	assert.Equal(t, "server_error", err.Message())
	assert.ErrorIs(t, err, ErrProviderRejection)
	assert.NotErrorIs(t, err, ErrInvalidCode)
}
