package controller

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// 쿼리 파라미터 파싱 헬퍼
// siteId / materialTypeId / date는 단가 관련 엔드포인트 전반에서 같은 규칙으로 쓰인다

// parseSiteID siteId 쿼리 파싱. 비어 있으면 (nil, true) — 전사 범위
func parseSiteID(c *gin.Context) (*uint, bool) {
	raw := c.Query("siteId")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, false
	}
	siteID := uint(id)
	return &siteID, true
}

// parseMaterialTypeID materialTypeId 쿼리 파싱. 누락/비정상이면 ok=false
func parseMaterialTypeID(c *gin.Context) (uint, bool) {
	raw := c.Query("materialTypeId")
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parseDate date 쿼리 파싱 (YYYY-MM-DD). 비어 있으면 오늘
func parseDate(c *gin.Context, key string) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
