package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jmpark/gocheol-backend/config"
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/repository"
	"github.com/jmpark/gocheol-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// 품목 마스터 XLSX 임포트
// 컬럼: 품목명 | 분류(ferrous/non_ferrous/waste) | 단위 | 설명 | 심볼 | 출처
// 심볼/출처가 비어 있으면 매핑 없이 품목만 등록한다 (추천 단가는 degraded 응답)

type materialRow struct {
	material model.MaterialType
	symbol   string
	source   string
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	materialRepo := repository.NewMaterialRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readMaterialsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total materials to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// 이미 등록된 품목은 이름 기준으로 건너뛴다
	existing, err := materialRepo.FindAll()
	if err != nil {
		log.Fatal("Failed to load existing materials:", err)
	}
	existingByName := make(map[string]uint, len(existing))
	for _, m := range existing {
		existingByName[m.Name] = m.ID
	}

	created := 0
	mapped := 0
	skipped := 0
	for _, row := range rows {
		materialID, exists := existingByName[row.material.Name]
		if exists {
			skipped++
		} else {
			material := row.material
			if err := materialRepo.Create(&material); err != nil {
				log.Fatal("Failed to create material:", err)
			}
			materialID = material.ID
			created++
		}

		if row.symbol != "" && row.source != "" {
			symbolMap := &model.SymbolMap{
				MaterialTypeID: materialID,
				Symbol:         row.symbol,
				Source:         row.source,
			}
			if err := materialRepo.UpsertSymbolMap(symbolMap); err != nil {
				log.Fatal("Failed to upsert symbol map:", err)
			}
			mapped++
		}
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Created: %d, symbol maps: %d, skipped (existing): %d\n", created, mapped, skipped)
}

func readMaterialsFromXLSX(filePath string) ([]materialRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var result []materialRow
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 2 {
			skippedCount++
			continue
		}

		name := strings.TrimSpace(row[0])
		category := strings.TrimSpace(row[1])
		if name == "" || !isValidCategory(category) {
			skippedCount++
			continue
		}
		if seen[name] {
			skippedCount++
			continue
		}
		seen[name] = true

		item := materialRow{
			material: model.MaterialType{
				Name:     name,
				Category: model.MaterialCategory(category),
				Unit:     "ton",
			},
		}
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			item.material.Unit = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			item.material.Description = strings.TrimSpace(row[3])
		}
		if len(row) > 5 {
			item.symbol = strings.TrimSpace(row[4])
			item.source = strings.TrimSpace(row[5])
		}

		result = append(result, item)
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d invalid or duplicate rows\n", skippedCount)
	}

	return result, nil
}

func isValidCategory(category string) bool {
	switch model.MaterialCategory(category) {
	case model.CategoryFerrous, model.CategoryNonFerrous, model.CategoryWaste:
		return true
	}
	return false
}
