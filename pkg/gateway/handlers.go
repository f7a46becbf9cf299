package gateway

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/aretw0/clipmemo/pkg/core"
	"github.com/aretw0/clipmemo/pkg/search"
)

// API exposes the memo vault over HTTP. It is the upstream the cache
// controller fronts in local mode.
type API struct {
	manager  *core.Manager
	prompts  *PromptCoordinator
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAPI builds the handler set over a manager.
func NewAPI(manager *core.Manager, prompts *PromptCoordinator, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		manager:  manager,
		prompts:  prompts,
		validate: validator.New(),
		logger:   logger,
	}
}

// Routes mounts every API endpoint on a fresh router.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", a.handleHealth)

	r.Route("/memos", func(r chi.Router) {
		r.Get("/", a.handleListMemos)
		r.Post("/", a.handleCreateMemo)
		r.Get("/{id}", a.handleGetMemo)
		r.Put("/{id}", a.handleUpdateMemo)
		r.Delete("/{id}", a.handleDeleteMemo)
		r.Post("/{id}/duplicate", a.handleDuplicateMemo)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", a.handleListCategories)
		r.Post("/", a.handleCreateCategory)
		r.Put("/{name}", a.handleRenameCategory)
		r.Delete("/{name}", a.handleDeleteCategory)
	})

	r.Get("/search", a.handleSearch)
	r.Get("/suggest", a.handleSuggest)

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", a.handleGetSettings)
		r.Put("/language", a.handleSetLanguage)
		r.Post("/banner/close", a.handleCloseBanner)
	})

	r.Route("/install", func(r chi.Router) {
		r.Get("/", a.handleInstallStatus)
		r.Post("/offer", a.handleInstallOffer)
		r.Post("/prompt", a.handleInstallPrompt)
		r.Post("/dismiss", a.handleInstallDismiss)
	})

	return r
}

type memoRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type languageRequest struct {
	Language string `json:"language" validate:"required,oneof=ko en"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleListMemos(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = core.CategoryAll
	}
	items := search.Filter(a.manager.Memos(), category, r.URL.Query().Get("query"))
	writeJSON(w, http.StatusOK, items)
}

func (a *API) handleCreateMemo(w http.ResponseWriter, r *http.Request) {
	var req memoRequest
	if !a.decode(w, r, &req) {
		return
	}
	memo, err := a.manager.AddMemo(r.Context(), core.Memo{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memo)
}

func (a *API) handleGetMemo(w http.ResponseWriter, r *http.Request) {
	memo, err := a.manager.GetMemo(chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memo)
}

func (a *API) handleUpdateMemo(w http.ResponseWriter, r *http.Request) {
	var req memoRequest
	if !a.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	existing, err := a.manager.GetMemo(id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	existing.Title = req.Title
	existing.Content = req.Content
	if req.Category != "" {
		existing.Category = req.Category
	}
	if err := a.manager.EditMemo(r.Context(), existing); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (a *API) handleDeleteMemo(w http.ResponseWriter, r *http.Request) {
	if err := a.manager.DeleteMemo(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleDuplicateMemo(w http.ResponseWriter, r *http.Request) {
	memo, err := a.manager.DuplicateMemo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memo)
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.manager.Categories())
}

func (a *API) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.manager.AddCategory(r.Context(), req.Name); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (a *API) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.manager.RenameCategory(r.Context(), chi.URLParam(r, "name"), req.Name); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": req.Name})
}

func (a *API) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := a.manager.DeleteCategory(r.Context(), chi.URLParam(r, "name")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = core.CategoryAll
	}
	items := search.Filter(a.manager.Memos(), category, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, items)
}

func (a *API) handleSuggest(w http.ResponseWriter, r *http.Request) {
	suggestions := search.Suggest(a.manager.Memos(), r.URL.Query().Get("q"))
	if suggestions == nil {
		suggestions = []search.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (a *API) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.manager.Settings())
}

func (a *API) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.manager.SetLanguage(r.Context(), req.Language); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.manager.Settings())
}

func (a *API) handleCloseBanner(w http.ResponseWriter, r *http.Request) {
	if err := a.manager.CloseBanner(r.Context()); err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.manager.Settings())
}

func (a *API) handleInstallStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":   ClassifyClient(r),
		"available": a.prompts.Available(),
	})
}

func (a *API) handleInstallOffer(w http.ResponseWriter, r *http.Request) {
	offered := a.prompts.Offer(ClassifyClient(r))
	writeJSON(w, http.StatusOK, map[string]bool{"offered": offered})
}

func (a *API) handleInstallPrompt(w http.ResponseWriter, r *http.Request) {
	if !a.prompts.Consume() {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":   "prompt_unavailable",
			"message": "install prompt already used or never offered",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"prompted": true})
}

func (a *API) handleInstallDismiss(w http.ResponseWriter, r *http.Request) {
	a.prompts.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

// decode parses and validates a JSON body, writing the error response
// itself on failure.
func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "invalid_body",
			"message": "request body must be valid JSON",
		})
		return false
	}
	if err := a.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   "validation_failed",
			"message": err.Error(),
		})
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP status codes.
func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"

	var storageErr *core.StorageError
	switch {
	case errors.Is(err, core.ErrMemoNotFound), errors.Is(err, core.ErrCategoryNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, core.ErrDuplicateCategory):
		status, code = http.StatusConflict, "duplicate"
	case errors.Is(err, core.ErrReservedCategory):
		status, code = http.StatusForbidden, "reserved"
	case errors.Is(err, core.ErrContentTooLong), errors.Is(err, core.ErrInvalidLanguage):
		status, code = http.StatusBadRequest, "invalid"
	case errors.As(err, &storageErr):
		if storageErr.Kind == core.StorageQuotaExceeded {
			status, code = http.StatusInsufficientStorage, "quota_exceeded"
		} else {
			status, code = http.StatusInternalServerError, "storage"
		}
	}

	if status >= 500 {
		a.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": code, "message": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
