package urlproc

import (
	"errors"
	"net/http"

	"bookshelf/internal/httpx"
	"bookshelf/internal/validation"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service   *Service
	validator *validation.Validator
	logger    *zap.Logger
}

func NewHTTPHandler(service *Service, v *validation.Validator, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{service: service, validator: v, logger: logger}
}

func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("POST "+prefix+"/process-url", h.Process)
	mux.HandleFunc("GET "+prefix+"/url-stats", h.Stats)
}

type statsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    Stats  `json:"data"`
}

// Process handles POST /process-url
func (h *HTTPHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
		return
	}
	if err := h.validator.Validate(req); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			httpx.JSONValidationError(w, r, verrs.Fields())
			return
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", "")
		return
	}

	res, err := h.service.Process(r.Context(), req, httpx.ClientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, ErrInvalidURL) || errors.Is(err, ErrInvalidOperation) {
			httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
			return
		}
		h.logger.Error("Failed to process URL", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "PROCESSING_ERROR", "Failed to process URL", "")
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Stats handles GET /url-stats
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to get statistics", zap.String("request_id", httpx.RequestIDFrom(r)), zap.Error(err))
		httpx.JSONError(w, r, http.StatusInternalServerError, "STATS_ERROR", "Failed to get statistics", "")
		return
	}
	httpx.JSON(w, http.StatusOK, statsResponse{Success: true, Message: "Statistics retrieved successfully", Data: st})
}
