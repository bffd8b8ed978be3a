package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/service"
	apperrors "github.com/jmpark/gocheol-backend/internal/errors"
)

// SiteController 현장 관리 컨트롤러
type SiteController struct {
	siteService service.SiteService
}

// NewSiteController 현장 관리 컨트롤러 생성
func NewSiteController(siteService service.SiteService) *SiteController {
	return &SiteController{
		siteService: siteService,
	}
}

// SiteRequest 현장 생성/수정 요청
type SiteRequest struct {
	Name    string `json:"name" binding:"required"`
	Region  string `json:"region"`
	Address string `json:"address"`
}

// GetSites 현장 목록 조회
// @Summary 현장 목록 조회
// @Tags sites
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/sites [get]
func (ctrl *SiteController) GetSites(c *gin.Context) {
	sites, err := ctrl.siteService.ListSites()
	if err != nil {
		apperrors.InternalError(c, "현장 목록을 가져오는데 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sites,
	})
}

// GetSite 현장 상세 조회
// @Summary 현장 상세 조회
// @Tags sites
// @Produce json
// @Param id path int true "현장 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/sites/{id} [get]
func (ctrl *SiteController) GetSite(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 현장 ID입니다")
		return
	}

	site, err := ctrl.siteService.GetSiteByID(uint(id))
	if err != nil {
		if err == service.ErrSiteNotFound {
			apperrors.NotFound(c, apperrors.SiteNotFound, "현장을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "현장을 가져오는데 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    site,
	})
}

// CreateSite 현장 생성 (관리자 전용)
// @Summary 현장 생성
// @Tags sites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SiteRequest true "현장 생성 요청"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/sites [post]
func (ctrl *SiteController) CreateSite(c *gin.Context) {
	var req SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	site := &model.Site{
		Name:    req.Name,
		Region:  req.Region,
		Address: req.Address,
	}
	if err := ctrl.siteService.CreateSite(site); err != nil {
		errorInfo := apperrors.ParseError(err, "site")
		apperrors.RespondWithError(c, http.StatusInternalServerError, errorInfo.Code, errorInfo.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    site,
	})
}

// UpdateSite 현장 수정 (관리자 전용)
// @Summary 현장 수정
// @Tags sites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "현장 ID"
// @Param request body SiteRequest true "현장 수정 요청"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/sites/{id} [put]
func (ctrl *SiteController) UpdateSite(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 현장 ID입니다")
		return
	}

	var req SiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	site, err := ctrl.siteService.GetSiteByID(uint(id))
	if err != nil {
		if err == service.ErrSiteNotFound {
			apperrors.NotFound(c, apperrors.SiteNotFound, "현장을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "현장을 가져오는데 실패했습니다")
		return
	}

	site.Name = req.Name
	site.Region = req.Region
	site.Address = req.Address

	if err := ctrl.siteService.UpdateSite(site); err != nil {
		apperrors.InternalError(c, "현장 수정에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    site,
	})
}

// DeleteSite 현장 삭제 (관리자 전용)
// @Summary 현장 삭제
// @Tags sites
// @Produce json
// @Security BearerAuth
// @Param id path int true "현장 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/sites/{id} [delete]
func (ctrl *SiteController) DeleteSite(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 현장 ID입니다")
		return
	}

	if err := ctrl.siteService.DeleteSite(uint(id)); err != nil {
		if err == service.ErrSiteNotFound {
			apperrors.NotFound(c, apperrors.SiteNotFound, "현장을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "현장 삭제에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "현장이 삭제되었습니다",
	})
}
