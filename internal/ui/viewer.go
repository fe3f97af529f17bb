package ui

import "dct/internal/domain"

// Viewer displays a campaign report interactively
type Viewer interface {
	View(report *domain.CampaignReport) error
}
