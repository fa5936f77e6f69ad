package handlers

import (
	"net/http"

	"github.com/daiskipp/documenter/internal/api/types"
	"github.com/daiskipp/documenter/internal/services"
)

type VersionsHandler struct {
	versions services.VersionService
}

func NewVersionsHandler(versions services.VersionService) *VersionsHandler {
	return &VersionsHandler{versions: versions}
}

func (h *VersionsHandler) ListByDocument(w http.ResponseWriter, r *http.Request) {
	documentID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.versions.ListVersions(r.Context(), documentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}

func (h *VersionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	v, err := h.versions.GetVersion(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: v})
}

func (h *VersionsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	documentID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	versionID, ok := pathUUID(w, r, "versionID")
	if !ok {
		return
	}

	doc, err := h.versions.RestoreVersion(r.Context(), documentID, versionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: doc})
}

func (h *VersionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	existed, err := h.versions.DeleteVersion(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: types.DeletedResponse{Deleted: existed}})
}
