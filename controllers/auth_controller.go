package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hk-arcade-map/api-go/config"
	"github.com/hk-arcade-map/api-go/logger"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/services"
	"github.com/hk-arcade-map/api-go/types"
	"github.com/hk-arcade-map/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB           *gorm.DB
	Service      *services.Service
	GoogleConfig *config.GoogleConfig
	JWT          config.JWTConfig
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

var reservedUsernames = map[string]bool{
	"admin": true, "root": true, "api": true, "www": true, "mail": true, "test": true,
	"demo": true, "user": true, "guest": true, "null": true, "undefined": true, "moderator": true,
}

// validateUsernamePattern validates username format and constraints
func validateUsernamePattern(username string) error {
	trimmed := strings.TrimSpace(username)
	if len(trimmed) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(trimmed) > 20 {
		return fmt.Errorf("username must be no more than 20 characters long")
	}
	if !usernamePattern.MatchString(trimmed) {
		return fmt.Errorf("username must start with a letter and contain only letters, numbers, and underscores")
	}
	if reservedUsernames[strings.ToLower(trimmed)] {
		return fmt.Errorf("this username is reserved and cannot be used")
	}
	return nil
}

func NewAuthController(db *gorm.DB, svc *services.Service, google *config.GoogleConfig, jwtCfg config.JWTConfig) *AuthController {
	return &AuthController{
		DB:           db,
		Service:      svc,
		GoogleConfig: google,
		JWT:          jwtCfg,
	}
}

func userSummary(u *models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"username":    u.Username,
		"displayName": u.DisplayName,
		"avatar":      u.Avatar,
		"role":        u.Role,
		"points":      u.Points,
		"level":       u.Level,
	}
}

// issueTokens signs an access token and stores a fresh opaque refresh token.
func (ac *AuthController) issueTokens(c *gin.Context, user *models.User) {
	accessToken, err := utils.GenerateAccessToken(ac.JWT.Secret, user.ID, user.Role, ac.JWT.AccessTTL)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Could not generate token")
		return
	}

	refresh := models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(ac.JWT.RefreshTTL),
	}
	if err := ac.DB.Create(&refresh).Error; err != nil {
		errorJSON(c, http.StatusInternalServerError, "Could not generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refresh.Token,
		"expires_in":    int(ac.JWT.AccessTTL.Seconds()),
		"user":          userSummary(user),
		"success":       true,
	})
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username    string `json:"username" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=8,max=72"`
		DisplayName string `json:"displayName" binding:"max=50"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateUsernamePattern(input.Username); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Could not hash password")
		return
	}
	hashedStr := string(hashed)

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = strings.TrimSpace(input.Username)
	}
	user := models.User{
		Username:      strings.TrimSpace(input.Username),
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Password:      &hashedStr,
		DisplayName:   displayName,
		Provider:      "email",
		Role:          models.RoleUser,
		AccountStatus: "active",
	}

	var existing int64
	if err := ac.DB.Model(&models.User{}).Where("username = ? OR email = ?", user.Username, user.Email).Count(&existing).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	if existing > 0 {
		errorJSON(c, http.StatusConflict, "Username or email already exists")
		return
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		errorJSON(c, http.StatusConflict, "Username or email already exists")
		return
	}

	logger.Info().Uint("user_id", user.ID).Msg("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    userSummary(&user),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error; err != nil {
		errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if user.Password == nil {
		errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if user.AccountStatus != "active" {
		errorJSON(c, http.StatusForbidden, "Account is "+user.AccountStatus)
		return
	}

	ac.issueTokens(c, &user)
}

// RefreshToken rotates the refresh token: the presented one is consumed.
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		errorJSON(c, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if err := claimRefreshToken(ac.DB, &refreshToken); err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			errorJSON(c, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		handleServiceError(c, err)
		return
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		errorJSON(c, http.StatusUnauthorized, "Refresh token expired")
		return
	}

	var user models.User
	if err := ac.DB.First(&user, refreshToken.UserID).Error; err != nil {
		errorJSON(c, http.StatusUnauthorized, "User not found")
		return
	}
	if user.AccountStatus != "active" {
		errorJSON(c, http.StatusForbidden, "Account is "+user.AccountStatus)
		return
	}
	ac.issueTokens(c, &user)
}

// claimRefreshToken deletes a loaded refresh token. When two requests race on
// the same token only the one whose delete hits the row gets a nil error.
func claimRefreshToken(db *gorm.DB, token *models.RefreshToken) error {
	result := db.Where("id = ? AND token = ?", token.ID, token.Token).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return utils.ErrInvalidToken
	}
	return nil
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	user := utils.GetUser(c)
	result := ac.DB.Where("token = ? AND user_id = ?", input.RefreshToken, user.UserID).Delete(&models.RefreshToken{})
	if result.Error != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "success": true})
}

// GoogleLogin accepts either an ID token or an authorization code.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	var input struct {
		IDToken string `json:"id_token"`
		Code    string `json:"code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	var (
		info *config.GoogleUserInfo
		err  error
	)
	ctx := c.Request.Context()
	switch {
	case input.IDToken != "":
		info, err = ac.GoogleConfig.VerifyIDToken(ctx, input.IDToken)
	case input.Code != "":
		info, err = ac.GoogleConfig.ExchangeCode(ctx, input.Code)
	default:
		errorJSON(c, http.StatusBadRequest, "Either id_token or code is required")
		return
	}
	if errors.Is(err, config.ErrGoogleDisabled) {
		errorJSON(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil || info.Subject() == "" || info.Email == "" {
		logger.Warn().Err(err).Msg("google sign-in rejected")
		errorJSON(c, http.StatusUnauthorized, "Invalid Google token")
		return
	}

	googleID := info.Subject()
	email := strings.ToLower(info.Email)

	var user models.User
	findErr := ac.DB.Where("google_id = ? OR email = ?", googleID, email).First(&user).Error
	switch {
	case findErr == nil:
		if user.GoogleID == nil {
			user.GoogleID = &googleID
			if user.Avatar == "" {
				user.Avatar = info.Picture
			}
			if err := ac.DB.Save(&user).Error; err != nil {
				handleServiceError(c, err)
				return
			}
		}
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		username, err := ac.uniqueUsername(email)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		user = models.User{
			Username:      username,
			Email:         email,
			DisplayName:   info.Name,
			Avatar:        info.Picture,
			GoogleID:      &googleID,
			Provider:      "google",
			Role:          models.RoleUser,
			AccountStatus: "active",
		}
		if err := ac.DB.Create(&user).Error; err != nil {
			errorJSON(c, http.StatusInternalServerError, "Failed to create user")
			return
		}
		logger.Info().Uint("user_id", user.ID).Msg("user registered with google")
	default:
		handleServiceError(c, findErr)
		return
	}

	if user.AccountStatus != "active" {
		errorJSON(c, http.StatusForbidden, "Account is "+user.AccountStatus)
		return
	}
	ac.issueTokens(c, &user)
}

// uniqueUsername derives a free username from the local part of an email.
func (ac *AuthController) uniqueUsername(email string) (string, error) {
	base := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' {
			return r
		}
		return -1
	}, strings.ToLower(strings.SplitN(email, "@", 2)[0]))
	if base == "" || base[0] < 'a' || base[0] > 'z' {
		base = "player" + base
	}
	if len(base) > 16 {
		base = base[:16]
	}

	username := base
	for counter := 1; ; counter++ {
		var count int64
		if err := ac.DB.Unscoped().Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return username, nil
		}
		username = base + strconv.Itoa(counter)
	}
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "User not found")
		return
	}

	profile := userSummary(&user)
	profile["bio"] = user.Bio
	profile["provider"] = user.Provider
	profile["createdAt"] = user.CreatedAt
	profile["levelProgress"] = types.GetLevelProgress(user.Points)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}

// UpdateProfile only touches profile text, never points or role.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	var input struct {
		DisplayName *string `json:"displayName" binding:"omitempty,min=1,max=50"`
		Bio         *string `json:"bio" binding:"omitempty,max=500"`
		Avatar      *string `json:"avatar" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := map[string]interface{}{}
	if input.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*input.DisplayName)
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Avatar != nil {
		updates["avatar"] = *input.Avatar
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		errorJSON(c, http.StatusNotFound, "User not found")
		return
	}
	if len(updates) > 0 {
		if err := ac.DB.Model(&user).Updates(updates).Error; err != nil {
			errorJSON(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully", "user": userSummary(&user)})
}

func (ac *AuthController) GetPointHistory(c *gin.Context) {
	claims := utils.GetUser(c)
	var page PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	logs, total, err := ac.Service.PointHistory(c.Request.Context(), claims.UserID, page.PageSize, page.Offset())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       logs,
		Meta:       types.GetLevelProgress(user.Points),
		Pagination: newPagination(page.Page, page.PageSize, total),
	})
}
