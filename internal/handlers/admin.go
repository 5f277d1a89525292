package handlers

import "net/http"

// DeleteDialogData destructively clears every stored conversation turn.
// There is no soft delete and no audit trail.
func (h *Handler) DeleteDialogData(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to clear dialog data")
		h.JSON(w, http.StatusInternalServerError, map[string]string{
			"detail": "failed to delete dialog data",
		})
		return
	}

	h.logger.Info().Msg("dialog data deleted")
	h.JSON(w, http.StatusOK, map[string]string{
		"message": "dialog data deleted",
	})
}
