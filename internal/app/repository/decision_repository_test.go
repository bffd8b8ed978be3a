package repository

import (
	"testing"
	"time"

	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDecisionRepoTest(t *testing.T) (DecisionRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewDecisionRepository(testDB), testDB
}

func insertDecision(t *testing.T, testDB *gorm.DB, siteID *uint, materialTypeID uint, effectiveDate time.Time, approved float64) *model.PricingDecision {
	decision := &model.PricingDecision{
		SiteID:            siteID,
		MaterialTypeID:    materialTypeID,
		EffectiveDate:     effectiveDate,
		ApprovedKRWPerTon: approved,
		ApprovedBy:        "manager@gocheol.kr",
	}
	require.NoError(t, testDB.Create(decision).Error)
	return decision
}

func TestDecisionRepository_FindByKey(t *testing.T) {
	repo, testDB := setupDecisionRepoTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	siteID := uint(1)

	insertDecision(t, testDB, nil, 1, date, 2800000)
	insertDecision(t, testDB, &siteID, 1, date, 2750000)

	// siteID nil은 전사 NULL 행만 매칭 — 현장 행과 섞이지 않는다
	found, err := repo.FindByKey(nil, 1, date)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Nil(t, found.SiteID)
	assert.Equal(t, float64(2800000), found.ApprovedKRWPerTon)

	found, err = repo.FindByKey(&siteID, 1, date)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.NotNil(t, found.SiteID)
	assert.Equal(t, float64(2750000), found.ApprovedKRWPerTon)

	// 다른 날짜는 (nil, nil)
	found, err = repo.FindByKey(nil, 1, date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDecisionRepository_RejectsDuplicateKey(t *testing.T) {
	_, testDB := setupDecisionRepoTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	siteID := uint(1)

	insertDecision(t, testDB, nil, 1, date, 2800000)
	insertDecision(t, testDB, &siteID, 1, date, 2750000)

	// 같은 (현장, 품목, 적용일) 키의 두 번째 삽입은 전사/현장 모두 DB 제약에 걸린다
	err := testDB.Create(&model.PricingDecision{
		MaterialTypeID:    1,
		EffectiveDate:     date,
		ApprovedKRWPerTon: 2900000,
	}).Error
	require.Error(t, err)

	err = testDB.Create(&model.PricingDecision{
		SiteID:            &siteID,
		MaterialTypeID:    1,
		EffectiveDate:     date,
		ApprovedKRWPerTon: 2900000,
	}).Error
	require.Error(t, err)

	var count int64
	require.NoError(t, testDB.Model(&model.PricingDecision{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestDecisionRepository_FindLatestOnOrBefore(t *testing.T) {
	repo, testDB := setupDecisionRepoTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	insertDecision(t, testDB, nil, 1, date.AddDate(0, 0, -10), 2700000)
	insertDecision(t, testDB, nil, 1, date.AddDate(0, 0, -3), 2800000)
	insertDecision(t, testDB, nil, 1, date.AddDate(0, 0, 5), 2900000) // 미래 결정은 제외

	found, err := repo.FindLatestOnOrBefore(nil, 1, date)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, float64(2800000), found.ApprovedKRWPerTon)
}

func TestDecisionRepository_List(t *testing.T) {
	repo, testDB := setupDecisionRepoTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	siteID := uint(1)

	insertDecision(t, testDB, nil, 1, date, 2800000)
	insertDecision(t, testDB, &siteID, 1, date, 2750000)
	insertDecision(t, testDB, &siteID, 2, date.AddDate(0, 0, -1), 900000)
	insertDecision(t, testDB, &siteID, 1, date.AddDate(0, 0, -40), 2600000) // 기간 밖

	// siteID nil이면 현장 필터 없이 기간 내 전체
	decisions, err := repo.List(nil, date.AddDate(0, 0, -30), date)
	require.NoError(t, err)
	assert.Len(t, decisions, 3)

	// 현장을 지정하면 그 현장의 결정만
	decisions, err = repo.List(&siteID, date.AddDate(0, 0, -30), date)
	require.NoError(t, err)
	assert.Len(t, decisions, 2)
}

func TestDecisionRepository_FindByDateRange(t *testing.T) {
	repo, testDB := setupDecisionRepoTest(t)

	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	insertDecision(t, testDB, nil, 1, date.AddDate(0, 0, -5), 2700000)
	insertDecision(t, testDB, nil, 1, date, 2800000)
	insertDecision(t, testDB, nil, 2, date, 900000) // 다른 품목

	decisions, err := repo.FindByDateRange(nil, 1, date.AddDate(0, 0, -7), date)
	require.NoError(t, err)
	require.Len(t, decisions, 2)
	// 오름차순
	assert.Equal(t, float64(2700000), decisions[0].ApprovedKRWPerTon)
	assert.Equal(t, float64(2800000), decisions[1].ApprovedKRWPerTon)
}
