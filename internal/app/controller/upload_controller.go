package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/jmpark/gocheol-backend/internal/errors"
	"github.com/jmpark/gocheol-backend/internal/storage"
	"github.com/jmpark/gocheol-backend/pkg/logger"
)

// 승인 증빙으로 허용하는 파일 형식 (계약서 PDF, 검수 사진)
var allowedEvidenceTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/webp",
}

// UploadController 증빙 업로드 컨트롤러
type UploadController struct {
	storage *storage.S3Storage
}

// NewUploadController 증빙 업로드 컨트롤러 생성
func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

// GeneratePresignedURLRequest presigned URL 발급 요청
type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// GeneratePresignedURL 승인 증빙 업로드용 presigned URL 발급
// @Summary 증빙 업로드 URL 발급
// @Description 단가 승인 증빙 파일(PDF/이미지)의 S3 직접 업로드 URL을 발급합니다
// @Tags upload
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GeneratePresignedURLRequest true "발급 요청"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/upload/presigned-url [post]
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "잘못된 요청입니다")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedEvidenceTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "PDF 또는 이미지 파일만 업로드할 수 있습니다")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, "pricing-evidence")
	if err != nil {
		logger.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "업로드 URL 발급에 실패했습니다")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}
