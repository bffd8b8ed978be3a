package db

import (
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/pkg/logger"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.Site{},
		&model.MaterialType{},
		&model.SymbolMap{},
		&model.MarketPriceDaily{},
		&model.PricingCoefficient{},
		&model.PricingDecision{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := ensureUniqueIndexes(DB); err != nil {
		logger.Error("Failed to create unique indexes", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// ensureUniqueIndexes 키당 한 행 제약을 DB 레벨에 건다.
// site_id NULL(전사 행)은 unique 인덱스에서 서로 다른 값으로 취급되므로
// 단일 인덱스로는 막을 수 없다 — NULL / NOT NULL 두 갈래의 부분 인덱스로 나눈다
func ensureUniqueIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_pricing_coefficients_global
			ON pricing_coefficients (material_type_id) WHERE site_id IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_pricing_coefficients_site
			ON pricing_coefficients (site_id, material_type_id) WHERE site_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_pricing_decisions_global
			ON pricing_decisions (material_type_id, effective_date) WHERE site_id IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_pricing_decisions_site
			ON pricing_decisions (site_id, material_type_id, effective_date) WHERE site_id IS NOT NULL`,
	}
	for _, statement := range statements {
		if err := db.Exec(statement).Error; err != nil {
			return err
		}
	}
	return nil
}

// Seed adds initial reference data to the database (optional)
func Seed() error {
	return seedMaterialTypes()
}

// seedMaterialTypes 기본 품목/심볼 매핑 데이터 생성
func seedMaterialTypes() error {
	var count int64
	if err := DB.Model(&model.MaterialType{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Material types already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding material type data...")

	type seedEntry struct {
		material model.MaterialType
		symbol   string
		source   string
	}

	entries := []seedEntry{
		{model.MaterialType{Name: "중량고철", Category: model.CategoryFerrous, Unit: "ton"}, "KS-SCRAP-HV", "KOMIS"},
		{model.MaterialType{Name: "경량고철", Category: model.CategoryFerrous, Unit: "ton"}, "KS-SCRAP-LT", "KOMIS"},
		{model.MaterialType{Name: "동스크랩", Category: model.CategoryNonFerrous, Unit: "ton"}, "LME-CU", "LME"},
		{model.MaterialType{Name: "알루미늄스크랩", Category: model.CategoryNonFerrous, Unit: "ton"}, "LME-AL", "LME"},
		{model.MaterialType{Name: "스테인리스스크랩", Category: model.CategoryNonFerrous, Unit: "ton"}, "LME-NI", "LME"},
		// 일반 폐기물은 시장 심볼이 없다 — 계수/고정비만으로 단가를 산정
		{model.MaterialType{Name: "혼합폐기물", Category: model.CategoryWaste, Unit: "ton"}, "", ""},
	}

	totalInserted := 0
	for _, entry := range entries {
		material := entry.material
		if err := DB.Create(&material).Error; err != nil {
			logger.Error("Failed to create material type", err, map[string]interface{}{
				"name": material.Name,
			})
			return err
		}
		totalInserted++

		if entry.symbol == "" {
			continue
		}

		symbolMap := model.SymbolMap{
			MaterialTypeID: material.ID,
			Symbol:         entry.symbol,
			Source:         entry.source,
		}
		if err := DB.Create(&symbolMap).Error; err != nil {
			logger.Error("Failed to create symbol map", err, map[string]interface{}{
				"material": material.Name,
				"symbol":   entry.symbol,
			})
			return err
		}
	}

	logger.Info("Material types seeded successfully", map[string]interface{}{
		"total_materials": totalInserted,
	})

	return nil
}
