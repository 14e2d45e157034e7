package http

import (
	"encoding/json"
	"net/http"

	"vencehoje/internal/core"
)

type profileRequest struct {
	Name     string `json:"name"`
	ColorHex string `json:"color_hex"`
}

type profileResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ColorHex string `json:"color_hex"`
	IsMain   bool   `json:"is_main"`
}

func toProfileResponse(p core.Profile) profileResponse {
	return profileResponse{
		ID:       p.ID,
		Name:     p.Name,
		ColorHex: p.ColorHex,
		IsMain:   p.IsMain,
	}
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.storage.ListProfiles(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}

	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := core.Profile{
		Name:     sanitizeInput(req.Name),
		ColorHex: sanitizeInput(req.ColorHex),
	}
	if err := profile.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.storage.CreateProfile(r.Context(), profile)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProfileResponse(created))
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	profile, err := s.storage.GetProfile(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	if profile.IsMain {
		writeError(w, http.StatusForbidden, "the main profile cannot be deleted")
		return
	}

	if err := s.storage.DeleteProfile(r.Context(), id); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
