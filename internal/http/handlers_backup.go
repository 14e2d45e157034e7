package http

import (
	"fmt"
	"net/http"

	"vencehoje/internal/backup"
)

// handleExportBackup streams the profile's bills as a semicolon-delimited
// CSV download.
func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	bills, err := s.storage.ListBills(r.Context(), profileID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	categories, err := s.storage.ListCategories(r.Context(), profileID)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"bills-profile-%d.csv\"", profileID))

	if err := backup.Export(w, bills, categories); err != nil {
		// Headers are gone at this point; log happens in the middleware
		writeError(w, http.StatusInternalServerError, "export failed")
	}
}

// handleImportBackup parses an uploaded CSV and replaces the profile's
// bills. The file is parsed completely before anything is cleared, so a
// broken upload leaves existing data intact.
func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	profileID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return
	}

	if _, err := s.storage.GetProfile(r.Context(), profileID); err != nil {
		writeStorageError(w, err)
		return
	}

	categories, err := s.storage.ListCategories(r.Context(), profileID)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	bills, err := backup.Import(r.Body, profileID, categories)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid backup file: "+err.Error())
		return
	}

	if err := s.bills.RestoreBills(r.Context(), profileID, bills); err != nil {
		writeError(w, http.StatusInternalServerError, "restore failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"imported": len(bills)})
}
