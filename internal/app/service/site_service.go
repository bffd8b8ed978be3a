package service

import (
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"github.com/jmpark/gocheol-backend/internal/app/repository"
	"github.com/jmpark/gocheol-backend/pkg/logger"
)

// SiteService 현장 서비스 인터페이스
type SiteService interface {
	ListSites() ([]model.Site, error)
	GetSiteByID(id uint) (*model.Site, error)
	CreateSite(site *model.Site) error
	UpdateSite(site *model.Site) error
	DeleteSite(id uint) error
}

type siteService struct {
	siteRepo repository.SiteRepository
}

// NewSiteService 현장 서비스 생성
func NewSiteService(siteRepo repository.SiteRepository) SiteService {
	return &siteService{siteRepo: siteRepo}
}

func (s *siteService) ListSites() ([]model.Site, error) {
	return s.siteRepo.FindAll()
}

func (s *siteService) GetSiteByID(id uint) (*model.Site, error) {
	site, err := s.siteRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, ErrSiteNotFound
	}
	return site, nil
}

func (s *siteService) CreateSite(site *model.Site) error {
	if err := s.siteRepo.Create(site); err != nil {
		logger.Error("Failed to create site", err)
		return err
	}
	return nil
}

func (s *siteService) UpdateSite(site *model.Site) error {
	if err := s.siteRepo.Update(site); err != nil {
		logger.Error("Failed to update site", err)
		return err
	}
	return nil
}

func (s *siteService) DeleteSite(id uint) error {
	site, err := s.siteRepo.FindByID(id)
	if err != nil {
		return err
	}
	if site == nil {
		return ErrSiteNotFound
	}
	return s.siteRepo.Delete(id)
}
