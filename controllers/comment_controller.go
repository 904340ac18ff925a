package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/services"
	"github.com/hk-arcade-map/api-go/utils"
	"gorm.io/gorm"
)

type CommentController struct {
	DB      *gorm.DB
	Service *services.Service
}

func NewCommentController(db *gorm.DB, svc *services.Service) *CommentController {
	return &CommentController{DB: db, Service: svc}
}

type CreateCommentRequest struct {
	TargetType string `json:"targetType" binding:"required,oneof=venue machine"`
	TargetID   uint   `json:"targetId" binding:"required"`
	Content    string `json:"content" binding:"required,max=2000"`
	Rating     *int   `json:"rating" binding:"omitempty,min=1,max=5"`
}

// CreateComment stores the comment as pending; it is not visible until a
// moderator approves it.
func (cc *CommentController) CreateComment(c *gin.Context) {
	user := utils.GetUser(c)
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		errorJSON(c, http.StatusBadRequest, "content is required")
		return
	}

	comment := models.Comment{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		UserID:     user.UserID,
		Content:    content,
		Rating:     req.Rating,
	}
	if err := cc.Service.CreateComment(c.Request.Context(), &comment); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: comment, Message: "Comment submitted for review"})
}

func (cc *CommentController) ListModerationQueue(c *gin.Context) {
	var query struct {
		PageQuery
		Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if query.Status == "" {
		query.Status = models.CommentPending
	}

	base := cc.DB.Model(&models.Comment{}).Where("status = ?", query.Status).Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var comments []models.Comment
	if err := base.Preload("User").Order("created_at ASC, id ASC").
		Limit(query.PageSize).Offset(query.Offset()).Find(&comments).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       comments,
		Pagination: newPagination(query.Page, query.PageSize, total),
	})
}

func (cc *CommentController) ApproveComment(c *gin.Context) {
	cc.moderate(c, true, "")
}

func (cc *CommentController) RejectComment(c *gin.Context) {
	var input struct {
		Reason string `json:"reason" binding:"max=500"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	cc.moderate(c, false, input.Reason)
}

func (cc *CommentController) moderate(c *gin.Context, approve bool, reason string) {
	moderator := utils.GetUser(c)
	id := utils.ParseUintParam(c.Param("id"))

	comment, err := cc.Service.ModerateComment(c.Request.Context(), id, moderator.UserID, approve, reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: comment, Message: "Comment " + comment.Status})
}

func listApprovedComments(c *gin.Context, db *gorm.DB, targetType string, targetID uint) {
	var page PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	base := db.Model(&models.Comment{}).
		Where("target_type = ? AND target_id = ? AND status = ?", targetType, targetID, models.CommentApproved).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	var comments []models.Comment
	if err := base.Preload("User").Order("created_at DESC, id DESC").
		Limit(page.PageSize).Offset(page.Offset()).Find(&comments).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: comments, Pagination: newPagination(page.Page, page.PageSize, total)})
}
