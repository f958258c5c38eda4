package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albinmanuel/student-management-client/internal/api"
	"github.com/albinmanuel/student-management-client/internal/clients/school"
	"github.com/albinmanuel/student-management-client/internal/entity"
	"github.com/albinmanuel/student-management-client/internal/repository"
	"github.com/albinmanuel/student-management-client/internal/service"
	"github.com/albinmanuel/student-management-client/pkg/config"
)

const loginBody = `{"token":"tok123","currentUser":{"name":"Alice","role":"staff"}}`

// newConsole wires a full console against a fake backend and returns an
// HTTP client with a cookie jar, so the tab cookie behaves as in a
// browser tab.
func newConsole(t *testing.T, backend http.HandlerFunc) (*httptest.Server, *http.Client) {
	t.Helper()

	return newConsoleWith(t, backend, config.Config{
		TabCookieSecret: "test-secret",
		Gateway: config.GatewayConfig{
			Timeout:       5 * time.Second,
			RetryAttempts: 0,
		},
	})
}

func newConsoleWith(t *testing.T, backend http.HandlerFunc, cfg config.Config) (*httptest.Server, *http.Client) {
	t.Helper()

	backendServer := httptest.NewServer(backend)
	t.Cleanup(backendServer.Close)

	gateway := school.NewClient(backendServer.URL, cfg.Gateway)
	registry := service.NewRegistry(gateway, repository.NewMemoryTabRepository())

	router := api.NewRouter(api.NewHandler(), api.NewMiddleware(registry, cfg))

	console := httptest.NewServer(router)
	t.Cleanup(console.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return console, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		j, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(j)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func login(t *testing.T, client *http.Client, console *httptest.Server) {
	t.Helper()

	resp := doJSON(t, client, http.MethodPost, console.URL+"/console/login", map[string]string{
		"email":    "a@x.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestGuard_RejectsAnonymous(t *testing.T) {
	t.Parallel()

	console, client := newConsole(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	resp := doJSON(t, client, http.MethodGet, console.URL+"/console/staff/students", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decode[api.ResponseError](t, resp)
	assert.Equal(t, entity.ErrMsgUnauthorized, body.Message)
	assert.Equal(t, "/", body.Redirect)
}

func TestLogin_EmptyFieldsBlockedBeforeNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64

	console, client := newConsole(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	})

	resp := doJSON(t, client, http.MethodPost, console.URL+"/console/login", map[string]string{
		"email":    "a@x.com",
		"password": "",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[api.ResponseError](t, resp)
	assert.Equal(t, entity.ErrMsgFillFields, body.Message)
	assert.Zero(t, calls.Load())
}

func TestLoginLogoutFlow(t *testing.T) {
	t.Parallel()

	console, client := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			_, _ = w.Write([]byte(loginBody))
		case "/api/getallstudentsbystaff":
			require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	resp := doJSON(t, client, http.MethodPost, console.URL+"/console/login", map[string]string{
		"email":    "a@x.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	loginResp := decode[map[string]string](t, resp)
	assert.Equal(t, "Alice", loginResp["username"])
	assert.Equal(t, "staff", loginResp["role"])
	assert.Equal(t, "/staff/dashboard", loginResp["redirect"])

	resp = doJSON(t, client, http.MethodGet, console.URL+"/console/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	session := decode[map[string]any](t, resp)
	assert.Equal(t, true, session["authenticated"])
	assert.Equal(t, "Alice", session["username"])

	resp = doJSON(t, client, http.MethodGet, console.URL+"/console/staff/students", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPost, console.URL+"/console/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, console.URL+"/console/staff/students", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestStaffStudents_ViewDeniedResponse(t *testing.T) {
	t.Parallel()

	console, client := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			_, _ = w.Write([]byte(loginBody))
		case "/api/getallstudentsbystaff":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"Permission denied to view students"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	login(t, client, console)

	resp := doJSON(t, client, http.MethodGet, console.URL+"/console/staff/students", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "view denial is a state, not an error")

	body := decode[map[string]any](t, resp)
	assert.Equal(t, true, body["viewDenied"])
	assert.Empty(t, body["students"])
}

func TestDeleteStaff_RequiresConfirmation(t *testing.T) {
	t.Parallel()

	var deletes atomic.Int64

	console, client := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			_, _ = w.Write([]byte(`{"token":"tok123","currentUser":{"name":"Root","role":"superadmin"}}`))
		case "/api/deletestaff/staff-1":
			deletes.Add(1)
			_, _ = w.Write([]byte(`{"message":"Staff deleted"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	login(t, client, console)

	resp := doJSON(t, client, http.MethodDelete, console.URL+"/console/superadmin/staff/staff-1", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Zero(t, deletes.Load())

	resp = doJSON(t, client, http.MethodDelete, console.URL+"/console/superadmin/staff/staff-1?confirm=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, int64(1), deletes.Load())
}

func TestUpdatePermissions_UnchangedSetSkipsWrite(t *testing.T) {
	t.Parallel()

	var updates atomic.Int64

	console, client := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			_, _ = w.Write([]byte(`{"token":"tok123","currentUser":{"name":"Root","role":"superadmin"}}`))
		case "/api/getpermissions/staff-1":
			_, _ = w.Write([]byte(`{"viewStudent":true}`))
		case "/api/updatepermissions/staff-1":
			updates.Add(1)

			_, _ = w.Write([]byte(`{"permissions":{"viewStudent":true,"editStudent":true}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	login(t, client, console)

	resp := doJSON(t, client, http.MethodGet, console.URL+"/console/superadmin/staff/staff-1/permissions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Same set as the fetched baseline: no network write.
	resp = doJSON(t, client, http.MethodPut, console.URL+"/console/superadmin/staff/staff-1/permissions", map[string]any{
		"permissions": map[string]bool{"viewStudent": true},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, false, body["changed"])
	assert.Zero(t, updates.Load())

	// A differing set goes through.
	resp = doJSON(t, client, http.MethodPut, console.URL+"/console/superadmin/staff/staff-1/permissions", map[string]any{
		"permissions": map[string]bool{"viewStudent": true, "editStudent": true},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body = decode[map[string]any](t, resp)
	assert.Equal(t, true, body["changed"])
	assert.Equal(t, int64(1), updates.Load())
}

func TestStaffStudentCompletion_ServedOnce(t *testing.T) {
	t.Parallel()

	console, client := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			_, _ = w.Write([]byte(loginBody))
		case "/api/createstudentbystaff":
			_, _ = w.Write([]byte(`{"student":{"_id":"s1","name":"Dan","age":11,"grade":"5A","contactNumber":"1234567890"},"message":"Student created successfully"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	login(t, client, console)

	resp := doJSON(t, client, http.MethodPost, console.URL+"/console/staff/students", map[string]any{
		"name": "Dan", "age": 11, "grade": "5A", "contactNumber": "1234567890",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, console.URL+"/console/staff/students/completion", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	completion := decode[service.Completion](t, resp)
	assert.Equal(t, entity.OpCreate, completion.Op)

	resp = doJSON(t, client, http.MethodGet, console.URL+"/console/staff/students/completion", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateStaff_BackendMessageSurvivesVerbatim(t *testing.T) {
	t.Parallel()

	console, client := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			_, _ = w.Write([]byte(`{"token":"tok123","currentUser":{"name":"Root","role":"superadmin"}}`))
		case "/api/addstaff":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"Error: email already registered"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	login(t, client, console)

	resp := doJSON(t, client, http.MethodPost, console.URL+"/console/superadmin/staff", map[string]string{
		"name":        "Bob",
		"email":       "bob@school.io",
		"phoneNumber": "1234567890",
		"password":    "secret",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decode[api.ResponseError](t, resp)
	assert.Equal(t, "Error: email already registered", body.Message, "a backend message with a colon must not be truncated")
}

func TestSession_SurfacesLoginFailure(t *testing.T) {
	t.Parallel()

	console, client := newConsole(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
	})

	resp := doJSON(t, client, http.MethodPost, console.URL+"/console/login", map[string]string{
		"email":    "a@x.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, console.URL+"/console/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	session := decode[map[string]any](t, resp)
	assert.Equal(t, string(entity.SessionFailed), session["state"])
	assert.Equal(t, entity.ErrMsgLoginFailed, session["error"])
}

func TestClearErrorEndpoints(t *testing.T) {
	t.Parallel()

	console, client := newConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			_, _ = w.Write([]byte(`{"token":"tok123","currentUser":{"name":"Root","role":"superadmin"}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"backend down"}`))
		}
	})

	login(t, client, console)

	resp := doJSON(t, client, http.MethodGet, console.URL+"/console/superadmin/staff", nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPost, console.URL+"/console/superadmin/staff/clear-error", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodGet, console.URL+"/console/superadmin/students", nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, client, http.MethodPost, console.URL+"/console/superadmin/students/clear-error", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestCors_AllowlistGatesOrigins(t *testing.T) {
	t.Parallel()

	console, client := newConsoleWith(t,
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		config.Config{
			TabCookieSecret:    "test-secret",
			CORSAllowedOrigins: []string{"http://localhost:5173"},
			Gateway: config.GatewayConfig{
				Timeout:       5 * time.Second,
				RetryAttempts: 0,
			},
		})

	req, err := http.NewRequest(http.MethodOptions, console.URL+"/console/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	req, err = http.NewRequest(http.MethodOptions, console.URL+"/console/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")

	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"), "an unlisted origin must get no CORS grant")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))
}
