package api

import (
	"strconv"

	"cartera/config"
	"cartera/database"
	"cartera/middleware"
	"cartera/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves owner-scoped category CRUD. The reserved transfer
// category is excluded everywhere: it is provisioned at registration and
// cannot be created, edited or deleted through this surface.
type CategoryHandler struct {
	cfg *config.Config
}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler(cfg *config.Config) *CategoryHandler {
	return &CategoryHandler{cfg: cfg}
}

// CreateCategoryRequest is the category creation payload. CategoryID is the
// optional parent; the hierarchy is one level deep.
type CreateCategoryRequest struct {
	Name       string `json:"name" binding:"required,max=100" example:"Groceries"`
	GroupID    uint   `json:"group_id" binding:"required" example:"3"`
	CategoryID *uint  `json:"category_id" example:"5"`
}

// UpdateCategoryRequest is the category update payload.
type UpdateCategoryRequest struct {
	Name       string `json:"name" binding:"omitempty,max=100"`
	GroupID    uint   `json:"group_id"`
	CategoryID *uint  `json:"category_id"`
}

// List returns the caller's categories, transfer category excluded, with
// group and parent embedded.
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category}
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var categories []models.Category
	if err := database.DB.Preload("Group").Preload("Parent").
		Where("user_id = ? AND group_id <> ?", userID, h.cfg.Report.TransferGroupID).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "categories could not be retrieved"))
		return
	}

	Success(c, categories)
}

// Create stores a new category owned by the caller. The reserved transfer
// group is rejected; a parent must be one of the caller's own top-level
// categories.
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "category data"
// @Success 200 {object} Response{data=models.Category} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if req.GroupID == h.cfg.Report.TransferGroupID {
		BadRequest(c, "the transfer group is reserved")
		return
	}
	var group models.Group
	if err := database.DB.First(&group, req.GroupID).Error; err != nil {
		BadRequest(c, "unknown group")
		return
	}
	if req.CategoryID != nil {
		if err := h.checkParent(userID, *req.CategoryID); err != nil {
			BadRequest(c, err.Error())
			return
		}
	}

	category := models.Category{
		Name:     req.Name,
		UserID:   userID,
		GroupID:  req.GroupID,
		ParentID: req.CategoryID,
	}

	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "category was not saved"))
		return
	}

	SuccessWithMessage(c, "category created", category)
}

// Get returns one of the caller's categories.
// @Summary Get a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response{data=models.Category}
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var category models.Category
	if err := database.DB.Preload("Group").Preload("Parent").
		Where("id = ? AND user_id = ? AND group_id <> ?", id, userID, h.cfg.Report.TransferGroupID).
		First(&category).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	Success(c, category)
}

// Update edits one of the caller's categories. The transfer category is not
// reachable here, and a category cannot be moved into the transfer group.
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body UpdateCategoryRequest true "category data"
// @Success 200 {object} Response{data=models.Category} "updated"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var category models.Category
	if err := database.DB.
		Where("id = ? AND user_id = ? AND group_id <> ?", id, userID, h.cfg.Report.TransferGroupID).
		First(&category).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.GroupID != 0 {
		if req.GroupID == h.cfg.Report.TransferGroupID {
			BadRequest(c, "the transfer group is reserved")
			return
		}
		var group models.Group
		if err := database.DB.First(&group, req.GroupID).Error; err != nil {
			BadRequest(c, "unknown group")
			return
		}
		updates["group_id"] = req.GroupID
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			updates["category_id"] = nil
		} else {
			if *req.CategoryID == category.ID {
				BadRequest(c, "a category cannot be its own parent")
				return
			}
			if err := h.checkParent(userID, *req.CategoryID); err != nil {
				BadRequest(c, err.Error())
				return
			}
			updates["category_id"] = *req.CategoryID
		}
	}

	if len(updates) == 0 {
		SuccessWithMessage(c, "nothing to update", category)
		return
	}

	if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "category was not saved"))
		return
	}

	database.DB.Preload("Group").Preload("Parent").First(&category, category.ID)
	SuccessWithMessage(c, "category updated", category)
}

// Delete soft-deletes one of the caller's categories. Movements already
// recorded against it stay intact.
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var category models.Category
	if err := database.DB.
		Where("id = ? AND user_id = ? AND group_id <> ?", id, userID, h.cfg.Report.TransferGroupID).
		First(&category).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "category was not deleted"))
		return
	}

	SuccessWithMessage(c, "category deleted", nil)
}

// Groups returns the selectable category groups, the reserved transfer group
// excluded.
// @Summary List category groups
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Group}
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories/groups [get]
func (h *CategoryHandler) Groups(c *gin.Context) {
	var groups []models.Group
	if err := database.DB.
		Where("id <> ?", h.cfg.Report.TransferGroupID).
		Order("id ASC").
		Find(&groups).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "groups could not be retrieved"))
		return
	}

	Success(c, groups)
}

// checkParent verifies the parent exists, belongs to the owner, sits outside
// the transfer group and is itself top-level.
func (h *CategoryHandler) checkParent(userID, parentID uint) error {
	var parent models.Category
	if err := database.DB.
		Where("id = ? AND user_id = ? AND group_id <> ?", parentID, userID, h.cfg.Report.TransferGroupID).
		First(&parent).Error; err != nil {
		return errUnknownParent
	}
	if parent.ParentID != nil {
		return errNestedParent
	}
	return nil
}

type categoryError string

func (e categoryError) Error() string { return string(e) }

const (
	errUnknownParent = categoryError("unknown parent category")
	errNestedParent  = categoryError("parent category must be top-level")
)
