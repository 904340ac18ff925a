package controllers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/metrics"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/services"
	"github.com/hk-arcade-map/api-go/types"
	"github.com/hk-arcade-map/api-go/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultNearbyRadiusKm = 5.0
	defaultNearbyMax      = 50
)

type VenueController struct {
	DB      *gorm.DB
	Service *services.Service
}

func NewVenueController(db *gorm.DB, svc *services.Service) *VenueController {
	return &VenueController{DB: db, Service: svc}
}

type VenueInput struct {
	Name         *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string   `json:"description"`
	Address      *string   `json:"address"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	Latitude     *float64  `json:"latitude" binding:"omitempty,latitude"`
	Longitude    *float64  `json:"longitude" binding:"omitempty,longitude"`
	Region       *string   `json:"region" binding:"omitempty,hkregion"`
	Category     *string   `json:"category" binding:"omitempty,oneof=arcade trampoline-park mixed"`
	Phone        *string   `json:"phone"`
	Website      *string   `json:"website" binding:"omitempty,url"`
	OpeningHours *string   `json:"openingHours"`
	Tags         *[]string `json:"tags"`
	CoverImage   *string   `json:"coverImage"`
}

// apply copies the supplied fields onto v and reports whether any location
// field changed.
func (in *VenueInput) apply(v *models.Venue) bool {
	locationChanged := false
	setLocation := func(dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			locationChanged = true
		}
	}
	setLocation(&v.Name, in.Name)
	setLocation(&v.Address, in.Address)
	setLocation(&v.City, in.City)
	setLocation(&v.State, in.State)

	if in.Description != nil {
		v.Description = *in.Description
	}
	if in.Latitude != nil {
		v.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		v.Longitude = *in.Longitude
	}
	if in.Category != nil {
		v.Category = *in.Category
	}
	if in.Phone != nil {
		v.Phone = *in.Phone
	}
	if in.Website != nil {
		v.Website = *in.Website
	}
	if in.OpeningHours != nil {
		v.OpeningHours = *in.OpeningHours
	}
	if in.Tags != nil {
		v.Tags = datatypes.JSONSlice[string](*in.Tags)
	}
	if in.CoverImage != nil {
		v.CoverImage = *in.CoverImage
	}
	return locationChanged
}

func (in *VenueInput) explicitRegion() (types.Region, bool) {
	if in.Region == nil || *in.Region == "" {
		return "", false
	}
	return types.ParseRegion(*in.Region)
}

// viewerKey identifies a viewer for view de-duplication.
func viewerKey(c *gin.Context) string {
	if user := utils.GetUser(c); user != nil {
		return fmt.Sprintf("user:%d", user.UserID)
	}
	return "ip:" + c.ClientIP()
}

func (vc *VenueController) ListVenues(c *gin.Context) {
	var req types.ListVenuesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	query := vc.DB.Model(&models.Venue{})
	if req.Region != "" {
		region, _ := types.ParseRegion(req.Region)
		query = query.Where("region = ?", region)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	switch req.SortBy {
	case "newest":
		query = query.Order("created_at DESC")
	case "name":
		query = query.Order("name ASC")
	default:
		query = query.Order("popularity DESC")
	}

	var venues []models.Venue
	if err := query.Order("id ASC").Limit(req.PageSize).Offset((req.Page - 1) * req.PageSize).Find(&venues).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       venues,
		Pagination: newPagination(req.Page, req.PageSize, total),
	})
}

// GetNearbyVenues prefilters with a bounding box in SQL and then keeps the
// venues inside the exact haversine radius, nearest first.
func (vc *VenueController) GetNearbyVenues(c *gin.Context) {
	var req types.NearbyVenuesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Radius == 0 {
		req.Radius = defaultNearbyRadiusKm
	}
	if req.MaxPlaces == 0 {
		req.MaxPlaces = defaultNearbyMax
	}

	box := types.BoundingBoxAround(req.Latitude, req.Longitude, req.Radius)
	query := vc.DB.Model(&models.Venue{}).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	if req.Region != "" {
		region, _ := types.ParseRegion(req.Region)
		query = query.Where("region = ?", region)
	}

	var venues []models.Venue
	if err := query.Find(&venues).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	markers := make([]types.Marker, 0, len(venues))
	for _, v := range venues {
		if !types.HasCoordinates(v.Latitude, v.Longitude) {
			continue
		}
		distance := types.CalculateDistance(req.Latitude, req.Longitude, v.Latitude, v.Longitude)
		if distance > req.Radius {
			continue
		}
		markers = append(markers, types.Marker{
			ID:         v.ID,
			Name:       v.Name,
			Latitude:   v.Latitude,
			Longitude:  v.Longitude,
			Region:     v.Region,
			Category:   v.Category,
			Popularity: v.Popularity,
			Distance:   distance,
		})
	}
	sort.SliceStable(markers, func(i, j int) bool { return markers[i].Distance < markers[j].Distance })
	if len(markers) > req.MaxPlaces {
		markers = markers[:req.MaxPlaces]
	}

	var resp types.NearbyVenuesResponse
	resp.Markers = markers
	resp.Filters.Radius = req.Radius
	resp.Filters.Region = req.Region

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: resp})
}

func (vc *VenueController) GetVenue(c *gin.Context) {
	id := utils.ParseUintParam(c.Param("id"))
	var venue models.Venue
	if err := vc.DB.First(&venue, id).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: venue})
}

func (vc *VenueController) GetVenueMachines(c *gin.Context) {
	id := utils.ParseUintParam(c.Param("id"))
	var machines []models.Machine
	if err := vc.DB.Where("venue_id = ?", id).Order("popularity DESC, id ASC").Find(&machines).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: machines})
}

func (vc *VenueController) GetVenuePhotos(c *gin.Context) {
	listPhotos(c, vc.DB, types.TargetVenue, utils.ParseUintParam(c.Param("id")))
}

func (vc *VenueController) GetVenueComments(c *gin.Context) {
	listApprovedComments(c, vc.DB, types.TargetVenue, utils.ParseUintParam(c.Param("id")))
}

func (vc *VenueController) RecordView(c *gin.Context) {
	id := utils.ParseUintParam(c.Param("id"))
	counted, err := vc.Service.RecordVenueView(c.Request.Context(), id, viewerKey(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: gin.H{"counted": counted}})
}

func (vc *VenueController) CheckIn(c *gin.Context) {
	user := utils.GetUser(c)
	var input struct {
		Latitude  float64 `json:"latitude" binding:"omitempty,latitude"`
		Longitude float64 `json:"longitude" binding:"omitempty,longitude"`
	}
	// body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			errorJSON(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	id := utils.ParseUintParam(c.Param("id"))
	checkIn, err := vc.Service.RecordCheckIn(c.Request.Context(), user.UserID, id, input.Latitude, input.Longitude)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{
		Success: true,
		Data:    checkIn,
		Meta:    gin.H{"pointsAwarded": types.CHECK_IN_POINTS},
		Message: "Checked in",
	})
}

func (vc *VenueController) CreateVenue(c *gin.Context) {
	var input VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		errorJSON(c, http.StatusBadRequest, "name is required")
		return
	}

	venue := models.Venue{Category: string(types.CategoryArcade)}
	input.apply(&venue)
	if region, ok := input.explicitRegion(); ok {
		venue.Region = region
	} else {
		// no match leaves the region unset
		venue.ClassifyRegion()
		metrics.ObserveClassification("venue_create", string(venue.Region))
	}

	if err := vc.DB.Create(&venue).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: venue, Message: "Venue created"})
}

// UpdateVenue reclassifies the region when a location field changes, unless
// the request names a region explicitly.
func (vc *VenueController) UpdateVenue(c *gin.Context) {
	var input VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	id := utils.ParseUintParam(c.Param("id"))
	venue, err := vc.Service.UpdateVenue(c.Request.Context(), id, func(v *models.Venue) error {
		locationChanged := input.apply(v)
		if region, ok := input.explicitRegion(); ok {
			v.Region = region
		} else if locationChanged {
			v.ClassifyRegion()
			metrics.ObserveClassification("venue_update", string(v.Region))
		}
		return nil
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: venue, Message: "Venue updated"})
}

func (vc *VenueController) DeleteVenue(c *gin.Context) {
	id := utils.ParseUintParam(c.Param("id"))
	if err := vc.Service.DeleteVenue(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Venue deleted"})
}

func (vc *VenueController) CreateMachine(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=200"`
		Brand    string `json:"brand"`
		Genre    string `json:"genre" binding:"omitempty,oneof=rhythm fighting racing crane shooter other"`
		Quantity int    `json:"quantity" binding:"omitempty,min=1"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	if input.Genre == "" {
		input.Genre = "other"
	}

	machine := models.Machine{
		VenueID:  utils.ParseUintParam(c.Param("id")),
		Name:     input.Name,
		Brand:    input.Brand,
		Genre:    input.Genre,
		Quantity: input.Quantity,
		Notes:    input.Notes,
	}
	if err := vc.Service.CreateMachine(c.Request.Context(), &machine); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, StandardResponse{Success: true, Data: machine, Message: "Machine added"})
}

func listPhotos(c *gin.Context, db *gorm.DB, targetType string, targetID uint) {
	var page PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	base := db.Model(&models.Photo{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		handleServiceError(c, err)
		return
	}

	var photos []models.Photo
	if err := base.
		Order("created_at DESC, id DESC").
		Limit(page.PageSize).Offset(page.Offset()).
		Find(&photos).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: photos, Pagination: newPagination(page.Page, page.PageSize, total)})
}
