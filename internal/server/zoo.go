package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"donaciones/pkg/types"
)

func (s *Service) handleZooList(w http.ResponseWriter, r *http.Request) {
	allocations, err := s.zooRepo.Zoos(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch zoos")
		s.internalServerError(w)
		return
	}

	data := &types.ZooListPageData{
		BasePageData: types.BasePageData{Title: "Zoológicos"},
		Allocations:  allocations,
	}

	s.renderPage(w, r, "page.zoo", data)
}

func (s *Service) newZooFormPage(ctx context.Context, title, action string) (*types.ZooFormPageData, error) {
	donations, err := s.donationChoices(ctx)
	if err != nil {
		return nil, err
	}

	return &types.ZooFormPageData{
		BasePageData:    types.BasePageData{Title: title},
		FormState:       types.FormState{Action: action},
		Categories:      types.AnimalCategoryChoices,
		DonationChoices: donations,
	}, nil
}

func (s *Service) handleGetZooCreate(w http.ResponseWriter, r *http.Request) {
	data, err := s.newZooFormPage(r.Context(), "Registrar Zoológico", "/zoos/crear")
	if err != nil {
		s.logger.WithError(err).Error("failed to load zoo form")
		s.internalServerError(w)
		return
	}

	s.renderPage(w, r, "page.zoo.form", data)
}

func (s *Service) handlePostZooCreate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	data, err := s.newZooFormPage(ctx, "Registrar Zoológico", "/zoos/crear")
	if err != nil {
		s.logger.WithError(err).Error("failed to load zoo form")
		s.internalServerError(w)
		return
	}

	if !s.decodeForm(w, r, &data.Form) {
		return
	}

	alloc, err := s.validator.Zoo(ctx, &data.Form)
	if err != nil {
		if s.handleValidationError(w, r, err, &data.FormState, &data.BasePageData) {
			s.renderPage(w, r, "page.zoo.form", data)
		}
		return
	}

	if err := s.zooRepo.CreateZoo(ctx, alloc); err != nil {
		s.logger.WithError(err).Error("failed to create zoo")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/zoos", "Zoológico creado exitosamente.")
}

func (s *Service) handleGetZooUpdate(w http.ResponseWriter, r *http.Request) {
	alloc, ok := s.loadZoo(w, r)
	if !ok {
		return
	}

	data, err := s.newZooFormPage(r.Context(), "Editar Zoológico", r.URL.Path)
	if err != nil {
		s.logger.WithError(err).Error("failed to load zoo form")
		s.internalServerError(w)
		return
	}

	data.Form = types.ZooForm{
		Species:        alloc.Species,
		Workers:        alloc.Workers,
		AnimalCategory: strconv.Itoa(int(alloc.AnimalCategory)),
		Donation:       strconv.FormatInt(alloc.DonationID, 10),
	}

	s.renderPage(w, r, "page.zoo.form", data)
}

func (s *Service) handlePostZooUpdate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	existing, ok := s.loadZoo(w, r)
	if !ok {
		return
	}

	data, err := s.newZooFormPage(ctx, "Editar Zoológico", r.URL.Path)
	if err != nil {
		s.logger.WithError(err).Error("failed to load zoo form")
		s.internalServerError(w)
		return
	}

	if !s.decodeForm(w, r, &data.Form) {
		return
	}

	alloc, err := s.validator.Zoo(ctx, &data.Form)
	if err != nil {
		if s.handleValidationError(w, r, err, &data.FormState, &data.BasePageData) {
			s.renderPage(w, r, "page.zoo.form", data)
		}
		return
	}

	if err := s.zooRepo.UpdateZoo(ctx, existing.ID, alloc); err != nil {
		if errors.Is(err, types.ErrZooNotFound) {
			s.notFound(w)
			return
		}
		s.logger.WithError(err).Error("failed to update zoo")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/zoos", "Zoológico actualizado exitosamente.")
}

func (s *Service) handleGetZooDelete(w http.ResponseWriter, r *http.Request) {
	alloc, ok := s.loadZoo(w, r)
	if !ok {
		return
	}

	data := &types.ZooDeletePageData{
		BasePageData: types.BasePageData{Title: "Eliminar Zoológico"},
		Allocation:   alloc,
	}

	s.renderPage(w, r, "page.zoo.delete", data)
}

func (s *Service) handlePostZooDelete(w http.ResponseWriter, r *http.Request) {
	alloc, ok := s.loadZoo(w, r)
	if !ok {
		return
	}

	if err := s.zooRepo.DeleteZoo(r.Context(), alloc.ID); err != nil && !errors.Is(err, types.ErrZooNotFound) {
		s.logger.WithError(err).Error("failed to delete zoo")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/zoos", "Zoológico eliminado exitosamente.")
}

func (s *Service) loadZoo(w http.ResponseWriter, r *http.Request) (*types.ZooAllocation, bool) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w)
		return nil, false
	}

	alloc, err := s.zooRepo.Zoo(r.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrZooNotFound) {
			s.notFound(w)
			return nil, false
		}
		s.logger.WithError(err).Error("failed to fetch zoo")
		s.internalServerError(w)
		return nil, false
	}

	return alloc, true
}
