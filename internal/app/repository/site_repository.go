package repository

import (
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/pkg/logger"
	"gorm.io/gorm"
)

// SiteRepository 현장 저장소 인터페이스
type SiteRepository interface {
	Create(site *model.Site) error
	FindAll() ([]model.Site, error)
	FindByID(id uint) (*model.Site, error)
	Update(site *model.Site) error
	Delete(id uint) error
}

type siteRepository struct {
	db *gorm.DB
}

// NewSiteRepository 현장 저장소 생성
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) Create(site *model.Site) error {
	if err := r.db.Create(site).Error; err != nil {
		logger.Error("Failed to create site", err)
		return err
	}
	return nil
}

func (r *siteRepository) FindAll() ([]model.Site, error) {
	var sites []model.Site
	if err := r.db.Order("name").Find(&sites).Error; err != nil {
		logger.Error("Failed to find all sites", err)
		return nil, err
	}
	return sites, nil
}

func (r *siteRepository) FindByID(id uint) (*model.Site, error) {
	var site model.Site
	if err := r.db.First(&site, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		logger.Error("Failed to find site by ID", err)
		return nil, err
	}
	return &site, nil
}

func (r *siteRepository) Update(site *model.Site) error {
	if err := r.db.Save(site).Error; err != nil {
		logger.Error("Failed to update site", err)
		return err
	}
	return nil
}

func (r *siteRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Site{}, id).Error; err != nil {
		logger.Error("Failed to delete site", err)
		return err
	}
	return nil
}
