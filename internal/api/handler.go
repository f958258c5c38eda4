package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/albinmanuel/student-management-client/internal/clients/school"
	"github.com/albinmanuel/student-management-client/internal/entity"
	"github.com/albinmanuel/student-management-client/internal/service"
)

// Handler exposes the console's JSON surface. All state lives on the tab
// aggregate resolved by the Tab middleware; handlers are thin dispatchers
// over the stores.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, entity.ErrMsgBadRequest)
		return
	}

	identity, err := tab.Session().Login(ctx, req.Email, req.Password)
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, loginResponse{
		Username: identity.Name,
		Role:     identity.Role,
		Redirect: identity.LandingPath(),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	if err := tab.Logout(ctx); err != nil {
		sendErr(ctx, w, http.StatusInternalServerError, entity.ErrMsgInternal)
		return
	}

	sendJSON(ctx, w, http.StatusOK, map[string]string{"message": "Logged out", "redirect": "/"})
}

type sessionResponse struct {
	State         entity.SessionState `json:"state"`
	Authenticated bool                `json:"authenticated"`
	Username      string              `json:"username,omitempty"`
	Role          string              `json:"role,omitempty"`
	Error         string              `json:"error,omitempty"`
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)
	session := tab.Session()

	resp := sessionResponse{
		State:         session.State(),
		Authenticated: session.Authenticated(),
		Username:      session.Username(),
	}

	if identity, ok := session.Identity(); ok {
		resp.Role = identity.Role
	}

	if err := session.Err(); err != nil {
		_, resp.Error = mapError(err)
	}

	sendJSON(ctx, w, http.StatusOK, resp)
}

type staffListResponse struct {
	Staffs []entity.Staff `json:"staffs"`
}

func (h *Handler) Staffs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	if err := tab.Staff().Load(ctx); err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, staffListResponse{Staffs: tab.Staff().Staffs()})
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	var req school.StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, entity.ErrMsgBadRequest)
		return
	}

	staff, err := tab.Staff().Create(ctx, req)
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusCreated, map[string]entity.Staff{"staff": staff})
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	var req school.StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, entity.ErrMsgBadRequest)
		return
	}

	staff, err := tab.Staff().Update(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, map[string]entity.Staff{"staff": staff})
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	if !confirmed(r) {
		sendErr(ctx, w, http.StatusBadRequest, "Deletion requires confirmation")
		return
	}

	message, err := tab.Staff().Delete(ctx, chi.URLParam(r, "id"))
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, map[string]string{"message": message})
}

// ClearStaffError is dismissal of the staff table's error banner.
func (h *Handler) ClearStaffError(w http.ResponseWriter, r *http.Request) {
	tab, _ := tabFromContext(r.Context())
	tab.Staff().ClearError()
	w.WriteHeader(http.StatusNoContent)
}

type permissionsResponse struct {
	Permissions entity.PermissionSet `json:"permissions"`
	Changed     bool                 `json:"changed"`
}

func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	set, err := tab.Permissions().Fetch(ctx, chi.URLParam(r, "id"))
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, set)
}

type updatePermissionsRequest struct {
	Permissions entity.PermissionSet `json:"permissions"`
}

func (h *Handler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)
	staffID := chi.URLParam(r, "id")

	var req updatePermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, entity.ErrMsgBadRequest)
		return
	}

	// An unchanged set is a no-op; the write is skipped entirely.
	if baseline, ok := tab.Permissions().Granted(staffID); ok && !service.Changed(baseline, req.Permissions) {
		sendJSON(ctx, w, http.StatusOK, permissionsResponse{Permissions: baseline, Changed: false})
		return
	}

	set, err := tab.Permissions().Update(ctx, staffID, req.Permissions)
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, permissionsResponse{Permissions: set, Changed: true})
}

type studentListResponse struct {
	Students []entity.Student `json:"students"`
}

func (h *Handler) Students(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	if err := tab.Students().Load(ctx); err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, studentListResponse{Students: tab.Students().Students()})
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	var req school.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, entity.ErrMsgBadRequest)
		return
	}

	student, err := tab.Students().Create(ctx, req)
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusCreated, map[string]entity.Student{"student": student})
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	var req school.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, entity.ErrMsgBadRequest)
		return
	}

	student, err := tab.Students().Update(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, map[string]entity.Student{"student": student})
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	if !confirmed(r) {
		sendErr(ctx, w, http.StatusBadRequest, "Deletion requires confirmation")
		return
	}

	message, err := tab.Students().Delete(ctx, chi.URLParam(r, "id"))
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, map[string]string{"message": message})
}

func (h *Handler) ClearStudentError(w http.ResponseWriter, r *http.Request) {
	tab, _ := tabFromContext(r.Context())
	tab.Students().ClearError()
	w.WriteHeader(http.StatusNoContent)
}

type staffStudentListResponse struct {
	Students   []entity.Student `json:"students"`
	ViewDenied bool             `json:"viewDenied"`
	Op         entity.OpKind    `json:"operationType"`
}

// StaffStudents lists the staff-scoped collection. A revoked view
// permission is not an error here: the response carries the view-denied
// flag and an empty table instead of a generic failure.
func (h *Handler) StaffStudents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)
	store := tab.StaffStudents()

	if err := store.Load(ctx); err != nil {
		if store.ViewDenied() {
			sendJSON(ctx, w, http.StatusOK, staffStudentListResponse{
				Students:   nil,
				ViewDenied: true,
				Op:         store.Op(),
			})

			return
		}

		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, staffStudentListResponse{
		Students:   store.Students(),
		ViewDenied: false,
		Op:         store.Op(),
	})
}

type staffStudentResponse struct {
	Student entity.Student `json:"student"`
	Message string         `json:"message"`
}

func (h *Handler) CreateStaffStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	var req school.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, entity.ErrMsgBadRequest)
		return
	}

	student, err := tab.StaffStudents().Create(ctx, req)
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusCreated, staffStudentResponse{
		Student: student,
		Message: tab.StaffStudents().SuccessMessage(),
	})
}

func (h *Handler) UpdateStaffStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	var req school.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErr(ctx, w, http.StatusBadRequest, entity.ErrMsgBadRequest)
		return
	}

	student, err := tab.StaffStudents().Update(ctx, chi.URLParam(r, "id"), req)
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, staffStudentResponse{
		Student: student,
		Message: tab.StaffStudents().SuccessMessage(),
	})
}

func (h *Handler) DeleteStaffStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	if !confirmed(r) {
		sendErr(ctx, w, http.StatusBadRequest, "Deletion requires confirmation")
		return
	}

	message, err := tab.StaffStudents().Delete(ctx, chi.URLParam(r, "id"))
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, map[string]string{"message": message})
}

// StaffStudentCompletion hands the one-shot form-close signal to the UI.
// 204 means there is nothing to act on.
func (h *Handler) StaffStudentCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	completion, ok := tab.StaffStudents().ConsumeCompletion()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	sendJSON(ctx, w, http.StatusOK, completion)
}

func (h *Handler) ClearStaffStudentMessages(w http.ResponseWriter, r *http.Request) {
	tab, _ := tabFromContext(r.Context())
	tab.StaffStudents().ClearMessages()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	profile, err := tab.Gateway().Profile(ctx, tab.Session().Token())
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, profile)
}

func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tab, _ := tabFromContext(ctx)

	counts, err := tab.Gateway().Counts(ctx, tab.Session().Token())
	if err != nil {
		code, msg := mapError(err)
		sendErr(ctx, w, code, msg)

		return
	}

	sendJSON(ctx, w, http.StatusOK, counts)
}

// confirmed implements the second step of delete confirmation: the UI
// collects the user's yes, the request restates it.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}
