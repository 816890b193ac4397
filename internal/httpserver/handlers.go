package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"vibestation/internal/domain"
	"vibestation/internal/navigation"
	"vibestation/internal/service/catalog"
	"vibestation/internal/service/session"
)

const unauthorizedMessage = "UNAUTHORIZED SIGNAL"

type handlers struct {
	catalog CatalogService
	session SessionService
	logger  *zap.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

// bindJSON decodes and validates the body, writing a 400 on failure.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := validate.Struct(out); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *handlers) sessionStatus(c *gin.Context) {
	active, err := h.session.Status(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": active})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid json body")
		return
	}

	err := h.session.Login(c.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		abortWithError(c, http.StatusUnauthorized, unauthorizedMessage)
		return
	case errors.Is(err, session.ErrLoginDisabled):
		abortWithError(c, http.StatusForbidden, "login disabled")
		return
	case err != nil:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "session unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

func (h *handlers) listCategories(c *gin.Context) {
	cats := h.catalog.Categories()
	c.JSON(http.StatusOK, categoryListResponse{
		Categories: toCategoryCards(cats, h.catalog.CountByCategory()),
		Total:      len(cats),
	})
}

func (h *handlers) createCategory(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}

	cat, err := h.catalog.AddCategory(c.Request.Context(), req.Name)
	warning, ok := h.mutationOutcome(c, err)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, categoryResponse{Category: cat, Warning: warning})
}

func (h *handlers) createSubCategory(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.catalog.AddSubCategory(c.Request.Context(), c.Param("categoryId"), req.Name)
	if errors.Is(err, domain.ErrCategoryNotFound) {
		abortWithError(c, http.StatusNotFound, "category not found")
		return
	}
	warning, ok := h.mutationOutcome(c, err)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, subCategoryResponse{SubCategory: sub, Warning: warning})
}

func (h *handlers) listApps(c *gin.Context) {
	view, err := navigation.Parse(c.Query("view"), c.Query("categoryId"), c.Query("subCategoryId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if view.CategoryID != "" {
		if _, ok := h.catalog.CategoryName(view.CategoryID); !ok {
			abortWithError(c, http.StatusNotFound, "category not found")
			return
		}
	}
	if view.SubCategoryID != "" {
		if _, ok := h.catalog.SubCategoryName(view.CategoryID, view.SubCategoryID); !ok {
			abortWithError(c, http.StatusNotFound, "subcategory not found")
			return
		}
	}

	nav := navigation.Resume(view, c.Query("q"))
	apps := h.catalog.FilteredApps(nav.View(), nav.SearchTerm())
	c.JSON(http.StatusOK, buildAppListResponse(nav, h.catalog, apps, h.catalog.AppCount()))
}

func (h *handlers) createApp(c *gin.Context) {
	var draft domain.AppDraft
	if !bindJSON(c, &draft) {
		return
	}

	app, err := h.catalog.AddApp(c.Request.Context(), draft)
	if errors.Is(err, domain.ErrCategoryNotFound) || errors.Is(err, domain.ErrSubCategoryNotFound) {
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	warning, ok := h.mutationOutcome(c, err)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, appResponse{App: toAppCard(app), Warning: warning})
}

// mutationOutcome turns a catalog error into a response. A persist failure
// still counts as success and becomes a warning.
func (h *handlers) mutationOutcome(c *gin.Context, err error) (warning string, ok bool) {
	if err == nil {
		return "", true
	}

	var perr *catalog.PersistError
	switch {
	case errors.As(err, &perr):
		return "saved for this session only: the store rejected the write", true
	case errors.Is(err, domain.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrStoreUnavailable):
		_ = c.Error(err)
		abortWithError(c, http.StatusServiceUnavailable, "store unavailable, try again")
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "internal error")
	}
	return "", false
}
