package repository

import (
	"time"

	"gorm.io/gorm"
)

// scopeSite 현장 스코프 조건. siteID가 nil이면 전사(NULL) 행을 조회한다
// SQL의 NULL 비교 의미론에 기대지 않고 두 갈래로 명시한다
func scopeSite(q *gorm.DB, siteID *uint) *gorm.DB {
	if siteID == nil {
		return q.Where("site_id IS NULL")
	}
	return q.Where("site_id = ?", *siteID)
}

// dayWindow 해당 날짜의 [자정, 다음날 자정) 구간
func dayWindow(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return start, start.Add(24 * time.Hour)
}
