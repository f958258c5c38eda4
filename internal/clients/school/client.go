package school

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/albinmanuel/student-management-client/internal/entity"
	"github.com/albinmanuel/student-management-client/pkg/config"
)

const defaultRetryWaitMax = time.Second * 5

// Client is the single gateway to the school backend. Every other package
// reaches the backend through it.
type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(baseURL string, cfg config.GatewayConfig) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.Timeout

	retryClient.Logger = nil

	// Mutating calls must not be replayed once the backend has seen them;
	// retry transport errors only, never HTTP statuses.
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}

		return false, nil
	}

	return &Client{
		client:  retryClient.StandardClient(),
		baseURL: baseURL,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token       string          `json:"token"`
	CurrentUser entity.Identity `json:"currentUser"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var data LoginResponse

	err := c.do(ctx, http.MethodPost, "/api/login", "", LoginRequest{Email: email, Password: password}, &data)
	if err != nil {
		return LoginResponse{}, err
	}

	return data, nil
}

type StaffRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	// Password is write-only: required on create, omitted on update means
	// "unchanged". The backend never echoes it back.
	Password string `json:"password,omitempty"`
}

type staffResponse struct {
	Staff entity.Staff `json:"staff"`
}

func (c *Client) CreateStaff(ctx context.Context, token string, req StaffRequest) (entity.Staff, error) {
	var data staffResponse

	err := c.do(ctx, http.MethodPost, "/api/addstaff", token, req, &data)
	if err != nil {
		return entity.Staff{}, err
	}

	return data.Staff, nil
}

func (c *Client) Staffs(ctx context.Context, token string) ([]entity.Staff, error) {
	var data []entity.Staff

	err := c.do(ctx, http.MethodGet, "/api/getallstaffs", token, nil, &data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (c *Client) UpdateStaff(ctx context.Context, token, staffID string, req StaffRequest) (entity.Staff, error) {
	var data staffResponse

	err := c.do(ctx, http.MethodPut, "/api/updatestaff/"+staffID, token, req, &data)
	if err != nil {
		return entity.Staff{}, err
	}

	return data.Staff, nil
}

func (c *Client) DeleteStaff(ctx context.Context, token, staffID string) (string, error) {
	var data messageResponse

	err := c.do(ctx, http.MethodDelete, "/api/deletestaff/"+staffID, token, nil, &data)
	if err != nil {
		return "", err
	}

	return data.Message, nil
}

type permissionsRequest struct {
	Permissions entity.PermissionSet `json:"permissions"`
}

type permissionsResponse struct {
	Permissions entity.PermissionSet `json:"permissions"`
}

func (c *Client) Permissions(ctx context.Context, token, staffID string) (entity.PermissionSet, error) {
	var data entity.PermissionSet

	err := c.do(ctx, http.MethodGet, "/api/getpermissions/"+staffID, token, nil, &data)
	if err != nil {
		return entity.PermissionSet{}, err
	}

	return data, nil
}

func (c *Client) UpdatePermissions(ctx context.Context, token, staffID string, set entity.PermissionSet) (entity.PermissionSet, error) {
	var data permissionsResponse

	err := c.do(ctx, http.MethodPut, "/api/updatepermissions/"+staffID, token, permissionsRequest{Permissions: set}, &data)
	if err != nil {
		return entity.PermissionSet{}, err
	}

	return data.Permissions, nil
}

type StudentRequest struct {
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Grade         string `json:"grade"`
	ContactNumber string `json:"contactNumber"`
}

type studentResponse struct {
	Student *entity.Student `json:"student"`
	Message string          `json:"message"`
}

// decodeStudent tolerates both response shapes the backend uses: a bare
// record and a {student, message} wrapper.
func decodeStudent(raw json.RawMessage) (entity.Student, string, error) {
	var wrapped studentResponse

	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Student != nil {
		return *wrapped.Student, wrapped.Message, nil
	}

	var student entity.Student
	if err := json.Unmarshal(raw, &student); err != nil {
		return entity.Student{}, "", fmt.Errorf("decode student response: %w", err)
	}

	return student, "", nil
}

func (c *Client) CreateStudent(ctx context.Context, token string, req StudentRequest) (entity.Student, error) {
	var raw json.RawMessage

	err := c.do(ctx, http.MethodPost, "/api/addstudent", token, req, &raw)
	if err != nil {
		return entity.Student{}, err
	}

	student, _, err := decodeStudent(raw)

	return student, err
}

func (c *Client) Students(ctx context.Context, token string) ([]entity.Student, error) {
	var data []entity.Student

	err := c.do(ctx, http.MethodGet, "/api/getallstudents", token, nil, &data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (c *Client) UpdateStudent(ctx context.Context, token, studentID string, req StudentRequest) (entity.Student, error) {
	var raw json.RawMessage

	err := c.do(ctx, http.MethodPut, "/api/updatestudent/"+studentID, token, req, &raw)
	if err != nil {
		return entity.Student{}, err
	}

	student, _, err := decodeStudent(raw)

	return student, err
}

func (c *Client) DeleteStudent(ctx context.Context, token, studentID string) (string, error) {
	var data messageResponse

	err := c.do(ctx, http.MethodDelete, "/api/deletestudent/"+studentID, token, nil, &data)
	if err != nil {
		return "", err
	}

	return data.Message, nil
}

func (c *Client) CreateStudentByStaff(ctx context.Context, token string, req StudentRequest) (entity.Student, string, error) {
	var raw json.RawMessage

	err := c.do(ctx, http.MethodPost, "/api/createstudentbystaff", token, req, &raw)
	if err != nil {
		return entity.Student{}, "", err
	}

	return decodeStudent(raw)
}

func (c *Client) StudentsByStaff(ctx context.Context, token string) ([]entity.Student, error) {
	var data []entity.Student

	err := c.do(ctx, http.MethodGet, "/api/getallstudentsbystaff", token, nil, &data)
	if err != nil {
		return nil, err
	}

	return data, nil
}

func (c *Client) UpdateStudentByStaff(ctx context.Context, token, studentID string, req StudentRequest) (entity.Student, string, error) {
	var raw json.RawMessage

	err := c.do(ctx, http.MethodPut, "/api/updatestudentbystaff/"+studentID, token, req, &raw)
	if err != nil {
		return entity.Student{}, "", err
	}

	return decodeStudent(raw)
}

func (c *Client) DeleteStudentByStaff(ctx context.Context, token, studentID string) (string, error) {
	var data messageResponse

	err := c.do(ctx, http.MethodDelete, "/api/deletestudentbystaff/"+studentID, token, nil, &data)
	if err != nil {
		return "", err
	}

	return data.Message, nil
}

func (c *Client) Profile(ctx context.Context, token string) (entity.Profile, error) {
	var data entity.Profile

	err := c.do(ctx, http.MethodGet, "/api/getparticularuser", token, nil, &data)
	if err != nil {
		return entity.Profile{}, err
	}

	return data, nil
}

func (c *Client) Counts(ctx context.Context, token string) (entity.Counts, error) {
	var data entity.Counts

	err := c.do(ctx, http.MethodGet, "/api/getcounts", token, nil, &data)
	if err != nil {
		return entity.Counts{}, err
	}

	return data, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path, token string, reqBody, out any) error {
	var reader io.Reader

	if reqBody != nil {
		j, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}

		reader = bytes.NewReader(j)
	}

	url := c.baseURL + path
	slog.DebugContext(ctx, "school client: sending request", "method", method, "url", url)

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "school client: HTTP request failed", "url", url, "error", err)
		return fmt.Errorf("send request: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		slog.WarnContext(ctx, "school client: unexpected status",
			"url", url,
			"status_code", resp.StatusCode,
			"response_body", string(body))

		return apiError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// apiError maps backend statuses to sentinel errors, carrying the
// backend's own message verbatim when it sent one.
func apiError(status int, body []byte) error {
	msg := string(body)

	var data messageResponse
	if err := json.Unmarshal(body, &data); err == nil && data.Message != "" {
		msg = data.Message
	}

	switch status {
	case http.StatusUnauthorized:
		return &entity.BackendError{Err: entity.ErrUnauthorized, Message: msg}
	case http.StatusForbidden:
		return &entity.BackendError{Err: entity.ErrPermissionDenied, Message: msg}
	case http.StatusNotFound:
		return &entity.BackendError{Err: entity.ErrNotFound, Message: msg}
	case http.StatusConflict:
		return &entity.BackendError{Err: entity.ErrConflict, Message: msg}
	default:
		return &entity.BackendError{Err: fmt.Errorf("unexpected code %d", status), Message: msg}
	}
}
