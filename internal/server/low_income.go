package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"donaciones/pkg/types"
)

func (s *Service) handleLowIncomeList(w http.ResponseWriter, r *http.Request) {
	allocations, err := s.lowIncomeRepo.LowIncomes(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch low income areas")
		s.internalServerError(w)
		return
	}

	data := &types.LowIncomeListPageData{
		BasePageData: types.BasePageData{Title: "Zonas de Bajos Recursos"},
		Allocations:  allocations,
	}

	s.renderPage(w, r, "page.lowincome", data)
}

// newLowIncomeFormPage offers the cities of registered donors and every
// donation as choices.
func (s *Service) newLowIncomeFormPage(ctx context.Context, title, action string) (*types.LowIncomeFormPageData, error) {
	cities, err := s.donorRepo.Cities(ctx)
	if err != nil {
		return nil, err
	}

	donations, err := s.donationChoices(ctx)
	if err != nil {
		return nil, err
	}

	return &types.LowIncomeFormPageData{
		BasePageData:    types.BasePageData{Title: title},
		FormState:       types.FormState{Action: action},
		Cities:          cities,
		DonationChoices: donations,
	}, nil
}

func (s *Service) handleGetLowIncomeCreate(w http.ResponseWriter, r *http.Request) {
	data, err := s.newLowIncomeFormPage(r.Context(), "Registrar Zona de Bajos Recursos", "/bajorecursos/crear")
	if err != nil {
		s.logger.WithError(err).Error("failed to load low income form")
		s.internalServerError(w)
		return
	}

	s.renderPage(w, r, "page.lowincome.form", data)
}

func (s *Service) handlePostLowIncomeCreate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	data, err := s.newLowIncomeFormPage(ctx, "Registrar Zona de Bajos Recursos", "/bajorecursos/crear")
	if err != nil {
		s.logger.WithError(err).Error("failed to load low income form")
		s.internalServerError(w)
		return
	}

	if !s.decodeForm(w, r, &data.Form) {
		return
	}

	alloc, err := s.validator.LowIncome(ctx, &data.Form)
	if err != nil {
		if s.handleValidationError(w, r, err, &data.FormState, &data.BasePageData) {
			s.renderPage(w, r, "page.lowincome.form", data)
		}
		return
	}

	if err := s.lowIncomeRepo.CreateLowIncome(ctx, alloc); err != nil {
		s.logger.WithError(err).Error("failed to create low income area")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/bajorecursos", "Zona de bajo recursos creada exitosamente.")
}

func (s *Service) handleGetLowIncomeUpdate(w http.ResponseWriter, r *http.Request) {
	alloc, ok := s.loadLowIncome(w, r)
	if !ok {
		return
	}

	data, err := s.newLowIncomeFormPage(r.Context(), "Editar Zona de Bajos Recursos", r.URL.Path)
	if err != nil {
		s.logger.WithError(err).Error("failed to load low income form")
		s.internalServerError(w)
		return
	}

	data.Form = types.LowIncomeForm{
		City:     alloc.City,
		Donation: strconv.FormatInt(alloc.DonationID, 10),
	}

	s.renderPage(w, r, "page.lowincome.form", data)
}

func (s *Service) handlePostLowIncomeUpdate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	existing, ok := s.loadLowIncome(w, r)
	if !ok {
		return
	}

	data, err := s.newLowIncomeFormPage(ctx, "Editar Zona de Bajos Recursos", r.URL.Path)
	if err != nil {
		s.logger.WithError(err).Error("failed to load low income form")
		s.internalServerError(w)
		return
	}

	if !s.decodeForm(w, r, &data.Form) {
		return
	}

	alloc, err := s.validator.LowIncome(ctx, &data.Form)
	if err != nil {
		if s.handleValidationError(w, r, err, &data.FormState, &data.BasePageData) {
			s.renderPage(w, r, "page.lowincome.form", data)
		}
		return
	}

	if err := s.lowIncomeRepo.UpdateLowIncome(ctx, existing.ID, alloc); err != nil {
		if errors.Is(err, types.ErrLowIncomeNotFound) {
			s.notFound(w)
			return
		}
		s.logger.WithError(err).Error("failed to update low income area")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/bajorecursos", "Zona de bajo recursos actualizada exitosamente.")
}

func (s *Service) handleGetLowIncomeDelete(w http.ResponseWriter, r *http.Request) {
	alloc, ok := s.loadLowIncome(w, r)
	if !ok {
		return
	}

	data := &types.LowIncomeDeletePageData{
		BasePageData: types.BasePageData{Title: "Eliminar Zona de Bajos Recursos"},
		Allocation:   alloc,
	}

	s.renderPage(w, r, "page.lowincome.delete", data)
}

func (s *Service) handlePostLowIncomeDelete(w http.ResponseWriter, r *http.Request) {
	alloc, ok := s.loadLowIncome(w, r)
	if !ok {
		return
	}

	if err := s.lowIncomeRepo.DeleteLowIncome(r.Context(), alloc.ID); err != nil && !errors.Is(err, types.ErrLowIncomeNotFound) {
		s.logger.WithError(err).Error("failed to delete low income area")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/bajorecursos", "Zona de bajo recursos eliminada exitosamente.")
}

func (s *Service) loadLowIncome(w http.ResponseWriter, r *http.Request) (*types.LowIncomeAllocation, bool) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w)
		return nil, false
	}

	alloc, err := s.lowIncomeRepo.LowIncome(r.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrLowIncomeNotFound) {
			s.notFound(w)
			return nil, false
		}
		s.logger.WithError(err).Error("failed to fetch low income area")
		s.internalServerError(w)
		return nil, false
	}

	return alloc, true
}
