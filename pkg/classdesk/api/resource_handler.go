package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/classdesk/classdesk/pkg/classdesk"
)

// maxUploadBytes caps the in-memory part of a multipart upload.
const maxUploadBytes = 32 << 20

// ResourcesHandler handles the endpoint set of one file-backed resource
// kind. The same handler serves exercises and study materials; the kind
// decides whether a due date is accepted.
type ResourcesHandler struct {
	service classdesk.Service
	kind    classdesk.Kind
}

// NewResourcesHandler creates a handler for the given resource kind
func NewResourcesHandler(service classdesk.Service, kind classdesk.Kind) *ResourcesHandler {
	return &ResourcesHandler{service: service, kind: kind}
}

// ListGrouped returns all resources of the kind grouped by module
func (h *ResourcesHandler) ListGrouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.ListResourcesGroupedByModule(r.Context(), h.kind)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, groups)
}

// ListByModule returns the resources of one module
func (h *ResourcesHandler) ListByModule(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := parseURLParam(w, r, "moduleID")
	if !ok {
		return
	}

	resources, err := h.service.ListResourcesByModule(r.Context(), h.kind, moduleID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, resources)
}

// Upload stores a new file resource: blob first, then metadata
func (h *ResourcesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, r, "invalid multipart form")
		return
	}

	moduleID, ok := parseFormUUID(w, r, "module_id")
	if !ok {
		return
	}

	topic := r.FormValue("topic")
	if topic == "" {
		badRequest(w, r, "topic is required")
		return
	}

	dueDate, ok := h.parseDueDate(w, r)
	if !ok {
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, r, "file is required")
		return
	}
	defer file.Close()

	resource, err := h.service.UploadResource(r.Context(), classdesk.UploadResourceRequest{
		Kind:     h.kind,
		ModuleID: moduleID,
		Topic:    topic,
		DueDate:  dueDate,
		FileName: header.Filename,
		Reader:   file,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("resource uploaded", "kind", string(h.kind), "resource_id", resource.ID.String(), "module_id", moduleID.String())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resource)
}

// Edit updates topic and due date, and swaps the file when one is supplied
func (h *ResourcesHandler) Edit(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := parseURLParam(w, r, "resourceID")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequest(w, r, "invalid multipart form")
		return
	}

	topic := r.FormValue("topic")
	if topic == "" {
		badRequest(w, r, "topic is required")
		return
	}

	dueDate, ok := h.parseDueDate(w, r)
	if !ok {
		return
	}

	var reader io.Reader
	var fileName string
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		reader = file
		fileName = header.Filename
	case errors.Is(err, http.ErrMissingFile):
		// Metadata-only edit
	default:
		badRequest(w, r, "invalid file")
		return
	}

	resource, err := h.service.ReplaceResource(r.Context(), classdesk.ReplaceResourceRequest{
		Kind:     h.kind,
		ID:       resourceID,
		Topic:    topic,
		DueDate:  dueDate,
		FileName: fileName,
		Reader:   reader,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("resource updated", "kind", string(h.kind), "resource_id", resource.ID.String())
	render.JSON(w, r, resource)
}

// Delete removes a resource and its blob
func (h *ResourcesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resourceID, ok := parseURLParam(w, r, "resourceID")
	if !ok {
		return
	}

	if err := h.service.DeleteResource(r.Context(), h.kind, resourceID); err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("resource deleted", "kind", string(h.kind), "resource_id", resourceID.String())
	render.JSON(w, r, map[string]string{"status": "deleted"})
}

// Download streams the blob of a resource scoped to its owning module
func (h *ResourcesHandler) Download(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := parseURLParam(w, r, "moduleID")
	if !ok {
		return
	}
	resourceID, ok := parseURLParam(w, r, "resourceID")
	if !ok {
		return
	}

	download, err := h.service.DownloadResource(r.Context(), h.kind, moduleID, resourceID)
	if err != nil {
		renderError(w, r, err)
		return
	}
	defer download.Body.Close()

	w.Header().Set("Content-Type", download.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.FileName))
	if download.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(download.Size, 10))
	}

	if _, err := io.Copy(w, download.Body); err != nil {
		slog.Error("download stream interrupted", "resource_id", resourceID.String(), "error", err)
	}
}

// parseDueDate reads the due_date form value for kinds that carry one.
// Accepts RFC 3339 timestamps and plain dates.
func (h *ResourcesHandler) parseDueDate(w http.ResponseWriter, r *http.Request) (*time.Time, bool) {
	if !h.kind.HasDueDate() {
		return nil, true
	}

	raw := r.FormValue("due_date")
	if raw == "" {
		return nil, true
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
	}
	if err != nil {
		badRequest(w, r, "invalid due_date")
		return nil, false
	}

	return &t, true
}

func parseFormUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.FormValue(name))
	if err != nil {
		badRequest(w, r, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
