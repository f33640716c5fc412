package book

import (
	"errors"
	"net/http"
	"strconv"

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

// Register mounts the book routes under prefix, e.g. "/api/v1".
func (h *HTTPHandler) Register(mux *http.ServeMux, prefix string) {
	mux.HandleFunc("GET "+prefix+"/books", h.List)
	mux.HandleFunc("GET "+prefix+"/books/search", h.Search)
	mux.HandleFunc("GET "+prefix+"/books/{id}", h.Get)
	mux.HandleFunc("POST "+prefix+"/books", h.Create)
	mux.HandleFunc("PUT "+prefix+"/books/{id}", h.Update)
	mux.HandleFunc("DELETE "+prefix+"/books/{id}", h.Delete)
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_QUERY", "Invalid query parameters", err.Error())
		return
	}

	res, err := h.service.List(r.Context(), f)
	if err != nil {
		h.internalError(w, r, "Failed to fetch books", err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Search handles GET /books/search?q=
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		if errors.Is(err, ErrEmptyQuery) {
			httpx.JSONError(w, r, http.StatusBadRequest, "MISSING_QUERY", "Search query is required", "")
			return
		}
		h.internalError(w, r, "Search failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	b, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, "Failed to fetch book", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ItemResponse{Success: true, Data: b})
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
		return
	}
	if !h.valid(w, r, req) {
		return
	}

	b, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeErr(w, r, "Failed to create book", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, ItemResponse{Success: true, Data: b, Message: "Book created successfully"})
}

// Update handles PUT /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
		return
	}
	if req.Empty() {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "No fields to update", "")
		return
	}
	if !h.valid(w, r, req) {
		return
	}

	b, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.writeErr(w, r, "Failed to update book", err)
		return
	}
	httpx.JSON(w, http.StatusOK, ItemResponse{Success: true, Data: b, Message: "Book updated successfully"})
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.bookID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeErr(w, r, "Failed to delete book", err)
		return
	}
	httpx.NoContent(w)
}

func (h *HTTPHandler) bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_BOOK_ID", "Invalid book ID", "")
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) valid(w http.ResponseWriter, r *http.Request, req any) bool {
	err := h.validator.Validate(req)
	if err == nil {
		return true
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		httpx.JSONValidationError(w, r, verrs.Fields())
		return false
	}
	h.internalError(w, r, "Validation failed", err)
	return false
}

// writeErr maps domain errors to responses; anything unknown is a 500 with
// the given message.
func (h *HTTPHandler) writeErr(w http.ResponseWriter, r *http.Request, message string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found", "")
	case errors.Is(err, ErrDuplicateISBN):
		httpx.JSONError(w, r, http.StatusConflict, "DUPLICATE_ISBN", "A book with this ISBN already exists", "")
	default:
		h.internalError(w, r, message, err)
	}
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.Error(message,
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.Error(err),
	)
	httpx.JSONError(w, r, http.StatusInternalServerError, "DATABASE_ERROR", message, "")
}
