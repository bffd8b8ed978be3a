package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/service"
	apperrors "github.com/jmpark/gocheol-backend/internal/errors"
)

// MaterialController 품목 관리 컨트롤러
type MaterialController struct {
	materialService service.MaterialService
}

// NewMaterialController 품목 관리 컨트롤러 생성
func NewMaterialController(materialService service.MaterialService) *MaterialController {
	return &MaterialController{
		materialService: materialService,
	}
}

// MaterialRequest 품목 생성/수정 요청
type MaterialRequest struct {
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required,oneof=ferrous non_ferrous waste"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// SymbolMapRequest 심볼 매핑 요청
type SymbolMapRequest struct {
	Symbol string `json:"symbol" binding:"required"`
	Source string `json:"source" binding:"required"`
}

// GetMaterials 품목 목록 조회
// @Summary 품목 목록 조회
// @Tags materials
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/materials [get]
func (ctrl *MaterialController) GetMaterials(c *gin.Context) {
	materials, err := ctrl.materialService.ListMaterials()
	if err != nil {
		apperrors.InternalError(c, "품목 목록을 가져오는데 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    materials,
	})
}

// GetMaterial 품목 상세 조회
// @Summary 품목 상세 조회
// @Tags materials
// @Produce json
// @Param id path int true "품목 ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/materials/{id} [get]
func (ctrl *MaterialController) GetMaterial(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 품목 ID입니다")
		return
	}

	material, err := ctrl.materialService.GetMaterialByID(uint(id))
	if err != nil {
		if err == service.ErrMaterialNotFound {
			apperrors.NotFound(c, apperrors.MaterialNotFound, "품목을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "품목을 가져오는데 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    material,
	})
}

// CreateMaterial 품목 생성 (관리자 전용)
// @Summary 품목 생성
// @Tags materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MaterialRequest true "품목 생성 요청"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/v1/materials [post]
func (ctrl *MaterialController) CreateMaterial(c *gin.Context) {
	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	material := &model.MaterialType{
		Name:        req.Name,
		Category:    model.MaterialCategory(req.Category),
		Unit:        req.Unit,
		Description: req.Description,
	}
	if err := ctrl.materialService.CreateMaterial(material); err != nil {
		errorInfo := apperrors.ParseError(err, "material")
		apperrors.RespondWithError(c, http.StatusInternalServerError, errorInfo.Code, errorInfo.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    material,
	})
}

// UpdateMaterial 품목 수정 (관리자 전용)
// @Summary 품목 수정
// @Tags materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "품목 ID"
// @Param request body MaterialRequest true "품목 수정 요청"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/materials/{id} [put]
func (ctrl *MaterialController) UpdateMaterial(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 품목 ID입니다")
		return
	}

	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	material, err := ctrl.materialService.GetMaterialByID(uint(id))
	if err != nil {
		if err == service.ErrMaterialNotFound {
			apperrors.NotFound(c, apperrors.MaterialNotFound, "품목을 찾을 수 없습니다")
			return
		}
		apperrors.InternalError(c, "품목을 가져오는데 실패했습니다")
		return
	}

	material.Name = req.Name
	material.Category = model.MaterialCategory(req.Category)
	if req.Unit != "" {
		material.Unit = req.Unit
	}
	material.Description = req.Description

	if err := ctrl.materialService.UpdateMaterial(material); err != nil {
		apperrors.InternalError(c, "품목 수정에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    material,
	})
}

// UpsertSymbolMap 품목 심볼 매핑 저장 (관리자 전용)
// @Summary 품목 심볼 매핑 저장
// @Description 품목에 시장 심볼/출처를 연결합니다. 기존 매핑이 있으면 교체합니다
// @Tags materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "품목 ID"
// @Param request body SymbolMapRequest true "심볼 매핑 요청"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/materials/{id}/symbol-map [put]
func (ctrl *MaterialController) UpsertSymbolMap(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 품목 ID입니다")
		return
	}

	var req SymbolMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	symbolMap, err := ctrl.materialService.UpsertSymbolMap(uint(id), req.Symbol, req.Source)
	if err != nil {
		if err == service.ErrMaterialNotFound {
			apperrors.NotFound(c, apperrors.MaterialNotFound, "품목을 찾을 수 없습니다")
			return
		}
		errorInfo := apperrors.ParseError(err, "symbol_map")
		apperrors.RespondWithError(c, http.StatusInternalServerError, errorInfo.Code, errorInfo.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    symbolMap,
	})
}
