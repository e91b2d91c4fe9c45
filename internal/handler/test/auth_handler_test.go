package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handlers "tweetbook/internal/handler"
	"tweetbook/internal/models"
	"tweetbook/internal/service"
)

func authResult() *service.AuthResult {
	return &service.AuthResult{
		Account: &models.MinAccount{
			UserID:        "user-1",
			Email:         "alice@example.com",
			Username:      "alice",
			ProfileImgURL: "http://img/alice.png",
		},
		Token: "signed.jwt.token",
	}
}

func TestSignupHandler(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		mockSetup       func(*MockAuthService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "creates account",
			body: `{"email":" alice@example.com ","username":"alice","password":"secret1"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, models.SignupInput{
					Email:    "alice@example.com",
					Username: "alice",
					Password: "secret1",
					Address:  "192.0.2.1",
				}).Return(authResult(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:            "duplicate account",
			body:            `{"email":"alice@example.com","username":"alice","password":"secret1"}`,
			expectedStatus:  http.StatusConflict,
			expectedMessage: handlers.MsgUserAlreadyExists,
			mockSetup: func(m *MockAuthService) {
				m.On("Signup", mock.Anything, mock.Anything).Return(nil, models.ErrUserAlreadyExists)
			},
		},
		{
			name:            "invalid email",
			body:            `{"email":"not-an-email","username":"alice","password":"secret1"}`,
			mockSetup:       func(m *MockAuthService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: handlers.MsgWrongInfo,
		},
		{
			name:            "short password",
			body:            `{"email":"alice@example.com","username":"alice","password":"12345"}`,
			mockSetup:       func(m *MockAuthService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: handlers.MsgWrongInfo,
		},
		{
			name:            "password over the bcrypt limit",
			body:            `{"email":"alice@example.com","username":"alice","password":"` + strings.Repeat("p", 73) + `"}`,
			mockSetup:       func(m *MockAuthService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: handlers.MsgWrongInfo,
		},
		{
			name:            "malformed json",
			body:            `{"email":`,
			mockSetup:       func(m *MockAuthService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: handlers.MsgWrongInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandlers()
			tt.mockSetup(m.auth)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			h.Signup(rr, req)

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, http.StatusOK, rr.Code)

				var resp handlers.AuthResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, handlers.AuthResponse{
					ID:            "user-1",
					Username:      "alice",
					ProfileImgURL: "http://img/alice.png",
					Token:         "signed.jwt.token",
				}, resp)
				assert.NotContains(t, rr.Body.String(), "password")
			} else {
				assertJSONError(t, rr, tt.expectedStatus, tt.expectedMessage)
			}
			m.assertExpectations(t)
		})
	}
}

func TestSigninHandler(t *testing.T) {
	tests := []struct {
		name            string
		body            string
		mockSetup       func(*MockAuthService)
		expectedStatus  int
		expectedMessage string
	}{
		{
			name: "valid credentials",
			body: `{"email":"alice@example.com","password":"secret1"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("Signin", mock.Anything, "alice@example.com", "secret1", "192.0.2.1").Return(authResult(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			body: `{"email":"alice@example.com","password":"nope"}`,
			mockSetup: func(m *MockAuthService) {
				m.On("Signin", mock.Anything, "alice@example.com", "nope", "192.0.2.1").
					Return(nil, models.ErrWrongEmailOrPassword)
			},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: handlers.MsgWrongEmailOrPassword,
		},
		{
			name:            "missing password",
			body:            `{"email":"alice@example.com"}`,
			mockSetup:       func(m *MockAuthService) {},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: handlers.MsgWrongEmailOrPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandlers()
			tt.mockSetup(m.auth)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			h.Signin(rr, req)

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, http.StatusOK, rr.Code)

				var resp map[string]interface{}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "user-1", resp["id"])
				assert.Equal(t, "signed.jwt.token", resp["token"])
			} else {
				assertJSONError(t, rr, tt.expectedStatus, tt.expectedMessage)
			}
			m.assertExpectations(t)
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "203.0.113.7:52311"
	assert.Equal(t, "203.0.113.7", handlers.ClientIP(req))

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", handlers.ClientIP(req))

	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", handlers.ClientIP(req))
}
