package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/credgraph/credgraph/internal/service"
)

type TransferHandler struct {
	transfer *service.TransferService
}

func NewTransferHandler(transfer *service.TransferService) *TransferHandler {
	return &TransferHandler{transfer: transfer}
}

// Export streams the whole graph as one bulk JSON document.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.transfer.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// Import loads a bulk document. Bad records are skipped and reported; the
// response always carries the per-record outcome counts.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	var data service.BulkData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid bulk document")
		return
	}

	res := h.transfer.Import(r.Context(), &data)
	writeJSON(w, http.StatusOK, res)
}
