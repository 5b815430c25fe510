package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/nertsleague-go/internal/api/request"
	"github.com/mcoot/nertsleague-go/internal/api/response"
	"github.com/mcoot/nertsleague-go/internal/services/transfer"
)

// TransferHandler handles bulk export and import endpoints
type TransferHandler struct {
	transferService *transfer.Service
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferService *transfer.Service) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Export handles GET /api/v1/export
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.transferService.Export(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="nerts-league-export.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(data))
}

// Import handles POST /api/v1/import
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req request.ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Data == "" {
		WriteError(w, NewInvalidRequestError("data is required"))
		return
	}

	mode := transfer.ImportMode(req.Mode)
	switch mode {
	case transfer.ModeAppend, transfer.ModeOverwrite:
	case "":
		mode = transfer.ModeAppend
	default:
		WriteError(w, NewInvalidRequestError("mode must be append or overwrite"))
		return
	}

	result, err := h.transferService.Import(r.Context(), req.Data, mode)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
