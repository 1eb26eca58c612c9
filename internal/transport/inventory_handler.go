package transport

import (
	"errors"
	"net/http"

	"inventory/internal/domain"
	"inventory/internal/editor"
	"inventory/internal/middleware"
	"inventory/internal/service"
	"inventory/internal/view"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Title    string `json:"title" validate:"required,notblank"`
	Quantity int    `json:"quantity" validate:"gt=0"`
	Category string `json:"category" validate:"required,notblank"`
}

// UpdateProductRequest carries the editor's staged fields
type UpdateProductRequest struct {
	Title       string `json:"title" validate:"required,notblank"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
}

// ProductResponse is a product as displayed, with its fa-IR creation date
type ProductResponse struct {
	domain.Product
	DisplayDate string   `json:"displayDate"`
	Warnings    []string `json:"warnings,omitempty"`
}

// ProductListResponse is the derived product view
type ProductListResponse struct {
	Items   []ProductResponse `json:"items"`
	Count   int               `json:"count"`
	Total   int               `json:"total"`
	Message string            `json:"message,omitempty"`
}

// CategoryResponse represents a category
type CategoryResponse struct {
	domain.Category
	Warnings []string `json:"warnings,omitempty"`
}

// CategoryListResponse lists categories in insertion order
type CategoryListResponse struct {
	Items []domain.Category `json:"items"`
	Count int               `json:"count"`
}

// DeleteResponse reports whether a product was removed
type DeleteResponse struct {
	Removed  bool     `json:"removed"`
	Warnings []string `json:"warnings,omitempty"`
}

// InventoryHandler handles HTTP requests for categories and products
type InventoryHandler struct {
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventory service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
}

// ListCategories returns every category
func (h *InventoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.inventory.Categories()

	items := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		items = append(items, *c)
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoryListResponse{
		Items: items,
		Count: len(items),
	})
}

// CreateCategory handles category creation
func (h *InventoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if !h.decode(w, r, &req) {
		return
	}

	category, err := h.inventory.AddCategory(r.Context(), req.Title, req.Description)
	warnings, err := h.splitPersistError(err)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidCategory):
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error("Failed to add category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add category")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, CategoryResponse{
		Category: *category,
		Warnings: warnings,
	})
}

// ListProducts returns the derived view for the search, category and sort query parameters
func (h *InventoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	criteria := view.Criteria{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Order:    view.ParseSortOrder(query.Get("sort")),
	}

	products := h.inventory.Products()
	derived := view.Derive(products, criteria)

	resp := ProductListResponse{
		Items: make([]ProductResponse, 0, len(derived)),
		Count: len(derived),
		Total: len(products),
	}
	for _, p := range derived {
		resp.Items = append(resp.Items, toProductResponse(p))
	}
	if resp.Count == 0 {
		resp.Message = view.EmptyMessage
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// CreateProduct handles product creation
func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if !h.decode(w, r, &req) {
		return
	}

	product, err := h.inventory.AddProduct(r.Context(), req.Title, req.Quantity, req.Category)
	warnings, err := h.splitPersistError(err)
	if err != nil {
		if errors.Is(err, service.ErrInvalidProduct) {
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.logger.Error("Failed to add product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add product")
		return
	}

	resp := toProductResponse(product)
	resp.Warnings = warnings
	middleware.RespondWithJSON(w, http.StatusCreated, resp)
}

// GetProduct opens an edit session and returns the loaded product
func (h *InventoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	session := editor.Open(h.inventory, chi.URLParam(r, "id"))
	if session.State() != editor.StateFound {
		middleware.RespondWithError(w, http.StatusNotFound, editor.ErrNotFound.Error())
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProductResponse(session.Product()))
}

// UpdateProduct stages the payload in an edit session and commits it
func (h *InventoryHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	session := editor.Open(h.inventory, chi.URLParam(r, "id"))
	if session.State() != editor.StateFound {
		middleware.RespondWithError(w, http.StatusNotFound, editor.ErrNotFound.Error())
		return
	}

	var req UpdateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := session.Stage(editor.Fields{
		Title:       req.Title,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Description: req.Description,
	}); err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	committed, err := session.Commit(r.Context())
	warnings, err := h.splitPersistError(err)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProduct):
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrProductNotFound), errors.Is(err, editor.ErrNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, editor.ErrNotFound.Error())
		default:
			h.logger.Error("Failed to edit product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to edit product")
		}
		return
	}

	// The replacement is in memory even when it was not saved
	if committed == nil {
		stored, ok := h.inventory.FindProduct(session.Product().ID)
		if !ok {
			middleware.RespondWithError(w, http.StatusNotFound, editor.ErrNotFound.Error())
			return
		}
		committed = stored
	}

	resp := toProductResponse(committed)
	resp.Warnings = warnings
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// DeleteProduct removes a product. Deleting an unknown id is not an error.
func (h *InventoryHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := editor.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	removed, err := h.inventory.DeleteProduct(r.Context(), id)
	warnings, err := h.splitPersistError(err)
	if err != nil {
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, DeleteResponse{
		Removed:  removed,
		Warnings: warnings,
	})
}

// decode reads and validates a JSON body, writing the error response on failure
func (h *InventoryHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		h.logger.Debug("Request validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// splitPersistError turns a write-through failure into a warning, since the
// change itself was applied. Any other error is passed through.
func (h *InventoryHandler) splitPersistError(err error) ([]string, error) {
	if errors.Is(err, service.ErrNotPersisted) {
		h.logger.Warn("Change not persisted", zap.Error(err))
		return []string{service.ErrNotPersisted.Error()}, nil
	}
	return nil, err
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		Product:     *p,
		DisplayDate: view.DisplayDate(p.CreatedAt),
	}
}
