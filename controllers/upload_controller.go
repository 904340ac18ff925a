package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hk-arcade-map/api-go/logger"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/services"
	"github.com/hk-arcade-map/api-go/storage"
	"github.com/hk-arcade-map/api-go/types"
	"github.com/hk-arcade-map/api-go/utils"
	"gorm.io/gorm"
)

// PhotoStore is the object storage the upload flow needs.
type PhotoStore interface {
	PresignPut(ctx context.Context, key, contentType string, size int64) (string, error)
	Stat(ctx context.Context, key string) (*storage.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	PresignTTL() time.Duration
}

type UploadController struct {
	DB      *gorm.DB
	Service *services.Service
	Store   PhotoStore
}

type PresignedURLRequest struct {
	TargetType  string `json:"targetType" binding:"required,oneof=venue machine"`
	TargetID    uint   `json:"targetId" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type AvatarUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

type UploadCompleteRequest struct {
	Key     string `json:"key" binding:"required"`
	Caption string `json:"caption" binding:"max=255"`
	Width   int    `json:"width" binding:"min=0"`
	Height  int    `json:"height" binding:"min=0"`
}

// NewUploadController takes a nil store when uploads are not configured.
func NewUploadController(db *gorm.DB, svc *services.Service, store PhotoStore) *UploadController {
	return &UploadController{DB: db, Service: svc, Store: store}
}

func (uc *UploadController) storageReady(c *gin.Context) bool {
	if uc.Store == nil {
		errorJSON(c, http.StatusServiceUnavailable, "Uploads are not configured")
		return false
	}
	return true
}

func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	if !uc.storageReady(c) {
		return
	}
	user := utils.GetUser(c)
	var req PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if !types.IsValidPhotoType(req.ContentType) {
		errorJSON(c, http.StatusBadRequest, "Invalid file type")
		return
	}
	if !types.IsValidPhotoSize(req.FileSize) {
		errorJSON(c, http.StatusBadRequest, "File size exceeds limit")
		return
	}

	key := generatePhotoKey(req.TargetType, req.TargetID, user.UserID, req.FileName, req.ContentType)
	uc.presign(c, key, req.ContentType, req.FileSize)
}

func (uc *UploadController) presign(c *gin.Context, key, contentType string, size int64) {
	presignedURL, err := uc.Store.PresignPut(c.Request.Context(), key, contentType, size)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("presign failed")
		errorJSON(c, http.StatusInternalServerError, "Failed to create upload URL")
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data: PresignedURLResponse{
			UploadURL: presignedURL,
			FileURL:   uc.Store.PublicURL(key),
			Key:       key,
			ExpiresIn: int(uc.Store.PresignTTL().Seconds()),
		},
		Message: "Presigned URL generated successfully",
	})
}

// ConfirmUpload records a photo once the client has PUT it to storage.
func (uc *UploadController) ConfirmUpload(c *gin.Context) {
	if !uc.storageReady(c) {
		return
	}
	user := utils.GetUser(c)
	var req UploadCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	targetType, targetID, ownerID, ok := parsePhotoKey(req.Key)
	if !ok {
		errorJSON(c, http.StatusBadRequest, "Invalid file key")
		return
	}
	if ownerID != user.UserID {
		errorJSON(c, http.StatusForbidden, "Access denied")
		return
	}

	info, err := uc.Store.Stat(c.Request.Context(), req.Key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		errorJSON(c, http.StatusNotFound, "File not found in storage")
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("key", req.Key).Msg("stat upload failed")
		errorJSON(c, http.StatusInternalServerError, "Failed to verify file upload")
		return
	}
	if !types.IsValidPhotoSize(info.Size) {
		_ = uc.Store.Delete(c.Request.Context(), req.Key)
		errorJSON(c, http.StatusBadRequest, "File size exceeds limit")
		return
	}

	photo := models.Photo{
		TargetType:  targetType,
		TargetID:    targetID,
		UserID:      user.UserID,
		StorageKey:  req.Key,
		URL:         uc.Store.PublicURL(req.Key),
		ContentType: info.ContentType,
		FileSize:    info.Size,
		Width:       req.Width,
		Height:      req.Height,
		Caption:     req.Caption,
	}
	if err := uc.Service.AddPhoto(c.Request.Context(), &photo); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    photo,
		Meta:    gin.H{"pointsAwarded": types.PHOTO_UPLOAD_POINTS},
		Message: "Upload confirmed successfully",
	})
}

// DeletePhoto removes the photo row, then the stored object. Moderators may
// delete any photo.
func (uc *UploadController) DeletePhoto(c *gin.Context) {
	user := utils.GetUser(c)
	id := utils.ParseUintParam(c.Param("id"))

	photo, err := uc.Service.RemovePhoto(c.Request.Context(), id, user.UserID, user.IsModerator())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if uc.Store != nil {
		if err := uc.Store.Delete(c.Request.Context(), photo.StorageKey); err != nil {
			// the row is gone; an orphaned object is only wasted space
			logger.Warn().Err(err).Str("key", photo.StorageKey).Msg("delete stored photo failed")
		}
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Photo deleted successfully"})
}

func (uc *UploadController) GetAvatarURL(c *gin.Context) {
	if !uc.storageReady(c) {
		return
	}
	user := utils.GetUser(c)
	var req AvatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if !types.IsValidPhotoType(req.ContentType) || req.FileSize <= 0 || req.FileSize > types.MAX_AVATAR_SIZE {
		errorJSON(c, http.StatusBadRequest, "Invalid avatar file type or size")
		return
	}

	key := fmt.Sprintf("avatars/%d/%s%s", user.UserID, uuid.NewString(), fileExtension(req.FileName, req.ContentType))
	uc.presign(c, key, req.ContentType, req.FileSize)
}

func (uc *UploadController) ConfirmAvatar(c *gin.Context) {
	if !uc.storageReady(c) {
		return
	}
	user := utils.GetUser(c)
	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if !strings.HasPrefix(req.Key, fmt.Sprintf("avatars/%d/", user.UserID)) {
		errorJSON(c, http.StatusForbidden, "Access denied")
		return
	}
	if _, err := uc.Store.Stat(c.Request.Context(), req.Key); err != nil {
		errorJSON(c, http.StatusNotFound, "Avatar file not found")
		return
	}

	url := uc.Store.PublicURL(req.Key)
	if err := uc.DB.Model(&models.User{}).Where("id = ?", user.UserID).Update("avatar", url).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: gin.H{"avatar": url}, Message: "Avatar updated"})
}

// generatePhotoKey lays keys out as photos/<target>/<targetID>/<userID>/<uuid><ext>
// so confirm can recover the target and the uploader.
func generatePhotoKey(targetType string, targetID, userID uint, fileName, contentType string) string {
	return fmt.Sprintf("photos/%s/%d/%d/%s%s", targetType, targetID, userID, uuid.NewString(), fileExtension(fileName, contentType))
}

func parsePhotoKey(key string) (targetType string, targetID, userID uint, ok bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 5 || parts[0] != "photos" {
		return "", 0, 0, false
	}
	if parts[1] != types.TargetVenue && parts[1] != types.TargetMachine {
		return "", 0, 0, false
	}
	tid, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil || tid == 0 {
		return "", 0, 0, false
	}
	uid, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil || uid == 0 {
		return "", 0, 0, false
	}
	return parts[1], uint(tid), uint(uid), parts[4] != ""
}

func fileExtension(fileName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) > 6 {
		ext = types.ExtensionForContentType(contentType)
	}
	return ext
}
