package server

import (
	"net/http"

	"donaciones/pkg/types"
)

// handleHome shows staff the dashboard counts and everyone else the page to
// request a donation.
func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	identity := identityFromContext(ctx)
	if !identity.IsStaff() {
		data := &types.HomePageData{
			BasePageData: types.BasePageData{Title: "Inicio"},
		}
		s.renderPage(w, r, "page.home.user", data)
		return
	}

	var counts types.DashboardCounts
	var err error

	if counts.Donations, err = s.donationRepo.Count(ctx); err != nil {
		s.logger.WithError(err).Error("failed to count donations")
		s.internalServerError(w)
		return
	}
	if counts.Donors, err = s.donorRepo.Count(ctx); err != nil {
		s.logger.WithError(err).Error("failed to count donors")
		s.internalServerError(w)
		return
	}
	if counts.LowIncome, err = s.lowIncomeRepo.Count(ctx); err != nil {
		s.logger.WithError(err).Error("failed to count low income areas")
		s.internalServerError(w)
		return
	}
	if counts.Zoos, err = s.zooRepo.Count(ctx); err != nil {
		s.logger.WithError(err).Error("failed to count zoos")
		s.internalServerError(w)
		return
	}

	data := &types.HomePageData{
		BasePageData: types.BasePageData{Title: "Panel de Control"},
		Counts:       counts,
	}

	s.renderPage(w, r, "page.home", data)
}
