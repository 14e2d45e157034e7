package http

import (
	"encoding/json"
	"net/http"

	"vencehoje/internal/core"
)

type categoryRequest struct {
	Name     string `json:"name"`
	ColorHex string `json:"color_hex"`
	Icon     string `json:"icon"`
}

type categoryResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ColorHex  string `json:"color_hex"`
	Icon      string `json:"icon"`
	ProfileID int64  `json:"profile_id"`
	IsBuiltIn bool   `json:"is_built_in"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		ColorHex:  c.ColorHex,
		Icon:      c.Icon,
		ProfileID: c.ProfileID,
		IsBuiltIn: c.IsBuiltIn,
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	categories, err := s.storage.ListCategories(r.Context(), profileID)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category := core.Category{
		Name:      sanitizeInput(req.Name),
		ColorHex:  sanitizeInput(req.ColorHex),
		Icon:      sanitizeInput(req.Icon),
		ProfileID: profileID,
	}
	if err := category.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.storage.CreateCategory(r.Context(), category)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := s.storage.DeleteCategory(r.Context(), id); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
