package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/classdesk/classdesk/pkg/classdesk"
)

// ModulesHandler handles module and membership endpoints
type ModulesHandler struct {
	service classdesk.Service
}

// NewModulesHandler creates a new modules handler
func NewModulesHandler(service classdesk.Service) *ModulesHandler {
	return &ModulesHandler{service: service}
}

// CreateModuleRequest is the request body for creating a module
type CreateModuleRequest struct {
	Name       string   `json:"name"`
	StudentIDs []string `json:"student_ids"`
}

// MemberResponse is one entry of a module member listing
type MemberResponse struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// CreateModule creates a module with its initial member list
func (h *ModulesHandler) CreateModule(w http.ResponseWriter, r *http.Request) {
	var req CreateModuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	if req.Name == "" {
		badRequest(w, r, "module name is required")
		return
	}

	studentIDs := make([]uuid.UUID, 0, len(req.StudentIDs))
	for _, raw := range req.StudentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, r, "invalid student ID: "+raw)
			return
		}
		studentIDs = append(studentIDs, id)
	}

	module, err := h.service.CreateModule(r.Context(), classdesk.CreateModuleRequest{
		Name:       req.Name,
		StudentIDs: studentIDs,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("module created", "module_id", module.ID.String(), "members", len(module.Members))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, module)
}

// ListModules returns all modules
func (h *ModulesHandler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.service.ListModules(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, modules)
}

// ListMembers returns the member snapshots of a module in insertion order
func (h *ModulesHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := parseURLParam(w, r, "moduleID")
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), moduleID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	resp := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		resp = append(resp, MemberResponse{
			StudentID: member.ID.String(),
			Name:      member.Name,
			Email:     member.Email,
		})
	}

	render.JSON(w, r, resp)
}

// AddMember enrolls a student in a module
func (h *ModulesHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := parseURLParam(w, r, "moduleID")
	if !ok {
		return
	}
	studentID, ok := parseURLParam(w, r, "studentID")
	if !ok {
		return
	}

	if err := h.service.AddMember(r.Context(), moduleID, studentID); err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("member added", "module_id", moduleID.String(), "student_id", studentID.String())
	render.JSON(w, r, map[string]string{"status": "added"})
}

// RemoveMember removes a student from a module
func (h *ModulesHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := parseURLParam(w, r, "moduleID")
	if !ok {
		return
	}
	studentID, ok := parseURLParam(w, r, "studentID")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(r.Context(), moduleID, studentID); err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("member removed", "module_id", moduleID.String(), "student_id", studentID.String())
	render.JSON(w, r, map[string]string{"status": "removed"})
}

func parseURLParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, r, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
