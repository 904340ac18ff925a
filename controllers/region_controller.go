package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/metrics"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/types"
	"gorm.io/gorm"
)

type RegionController struct {
	DB *gorm.DB
}

func NewRegionController(db *gorm.DB) *RegionController {
	return &RegionController{DB: db}
}

// ListRegions returns every region with its labels and venue count, plus the
// number of venues that have no region.
func (rc *RegionController) ListRegions(c *gin.Context) {
	var rows []struct {
		Region string
		Count  int64
	}
	if err := rc.DB.Model(&models.Venue{}).Select("region, COUNT(*) AS count").Group("region").Scan(&rows).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Region] = r.Count
	}

	regions := make([]types.RegionSummary, 0, len(types.AllRegions()))
	for _, r := range types.AllRegions() {
		zh, en := r.Label()
		regions = append(regions, types.RegionSummary{Region: r, Chinese: zh, English: en, VenueCount: counts[string(r)]})
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    regions,
		Meta:    gin.H{"unclassified": counts[""]},
	})
}

// ClassifyRegion runs the keyword classifier on ad-hoc text without saving anything.
func (rc *RegionController) ClassifyRegion(c *gin.Context) {
	var input types.RegionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	match := types.MatchRegion(input)
	metrics.ObserveClassification("api", string(match.Region))

	data := gin.H{"matched": match.Matched}
	if match.Matched {
		zh, en := match.Region.Label()
		data["region"] = match.Region
		data["keyword"] = match.Keyword
		data["nameZh"] = zh
		data["nameEn"] = en
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: data})
}
