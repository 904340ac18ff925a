package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/models"
	"github.com/hk-arcade-map/api-go/services"
	"github.com/hk-arcade-map/api-go/types"
	"github.com/hk-arcade-map/api-go/utils"
	"gorm.io/gorm"
)

type MachineController struct {
	DB      *gorm.DB
	Service *services.Service
}

func NewMachineController(db *gorm.DB, svc *services.Service) *MachineController {
	return &MachineController{DB: db, Service: svc}
}

func (mc *MachineController) GetMachine(c *gin.Context) {
	id := utils.ParseUintParam(c.Param("id"))
	var machine models.Machine
	if err := mc.DB.First(&machine, id).Error; err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: machine})
}

func (mc *MachineController) RecordView(c *gin.Context) {
	id := utils.ParseUintParam(c.Param("id"))
	counted, err := mc.Service.RecordMachineView(c.Request.Context(), id, viewerKey(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: gin.H{"counted": counted}})
}

func (mc *MachineController) GetMachineComments(c *gin.Context) {
	listApprovedComments(c, mc.DB, types.TargetMachine, utils.ParseUintParam(c.Param("id")))
}

func (mc *MachineController) GetMachinePhotos(c *gin.Context) {
	listPhotos(c, mc.DB, types.TargetMachine, utils.ParseUintParam(c.Param("id")))
}

func (mc *MachineController) DeleteMachine(c *gin.Context) {
	id := utils.ParseUintParam(c.Param("id"))
	if err := mc.Service.DeleteMachine(c.Request.Context(), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Machine deleted"})
}
