package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/empresadev/gestao-api/internal/httpx"
	"github.com/empresadev/gestao-api/internal/services"
)

// pathID parses the {id} wildcard. On failure it writes the 400 itself and
// returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	n, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || n <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return uint(n), true
}

// writeServiceError maps the domain error kinds onto HTTP statuses. Storage
// failures and anything unrecognized end up as 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Fields)
		return
	}
	var re *services.ReferenceError
	if errors.As(err, &re) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_reference", map[string]any{"entity": re.Entity, "id": re.ID})
		return
	}
	var nf *services.NotFoundError
	if errors.As(err, &nf) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", map[string]any{"entity": nf.Entity, "id": nf.ID})
		return
	}
	httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
}
