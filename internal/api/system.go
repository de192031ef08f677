package api

import (
	"encoding/json"
	"net/http"

	"github.com/dcmnet/dicom-conf-core/internal/notify"
)

// resetConfirmPhrase must be sent verbatim in the request body before a
// factory reset runs. A typo'd or scripted call without it is rejected.
const resetConfirmPhrase = "FACTORY RESET"

type factoryResetRequest struct {
	Confirm string `json:"confirm"`
}

type factoryResetResponse struct {
	Status  string         `json:"status"`
	Deleted map[string]int `json:"deleted"`
}

// handleFactoryReset wipes the whole configuration tree in one
// transaction and tells subscribers to reload from scratch.
func (s *Server) handleFactoryReset(w http.ResponseWriter, r *http.Request) {
	var req factoryResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Confirm != resetConfirmPhrase {
		writeBadRequest(w, `confirm field must be exactly "FACTORY RESET"`)
		return
	}
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "database not available")
		return
	}

	ctx := r.Context()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("factory reset: failed to begin transaction", "error", err)
		writeInternalError(w, "failed to begin transaction")
		return
	}
	defer tx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	res, err := tx.ExecContext(ctx, "DELETE FROM config_nodes")
	if err != nil {
		s.logger.Error("factory reset: failed to clear config_nodes", "error", err)
		writeInternalError(w, "failed to clear configuration")
		return
	}
	rows, _ := res.RowsAffected() //nolint:errcheck // sqlite driver always reports affected rows
	if err := tx.Commit(); err != nil {
		s.logger.Error("factory reset: failed to commit transaction", "error", err)
		writeInternalError(w, "failed to commit factory reset")
		return
	}

	deleted := map[string]int{"config_nodes": int(rows)}
	s.logger.Info("factory reset committed", "deleted", deleted)

	// Announced as an import: subscribers must drop everything they hold
	// and reload, exactly as after a wholesale tree replacement.
	s.announceChange(notify.OpImport, "", "/")

	writeJSON(w, http.StatusOK, factoryResetResponse{Status: "ok", Deleted: deleted})
}
