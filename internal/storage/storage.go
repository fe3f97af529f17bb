package storage

import (
	"dct/internal/config"
	"dct/internal/domain"
)

// Storage persists and loads campaign reports (e.g. for the failures viewer)
type Storage interface {
	Save(report domain.CampaignReport) error
	Load() (*domain.CampaignReport, error)
}

// JSONStorage stores the report in a JSON file inside the output root
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's report path
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
