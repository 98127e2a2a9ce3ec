package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"donaciones/pkg/types"
)

func (s *Service) handleDonorList(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	q := r.URL.Query()
	filter := types.DonorFilter{
		Classification: q.Get("tipo"),
		Status:         q.Get("estado"),
		Search:         q.Get("search"),
	}

	data := &types.DonorListPageData{
		BasePageData:    types.BasePageData{Title: "Donantes"},
		Classifications: types.DonorClassificationChoices,
		Statuses:        types.DonorStatusChoices,
		Filter:          filter,
	}

	donors, err := s.donorRepo.Donors(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch donors")
		data.Flash.Error = "Error al cargar la lista de donantes."
		s.renderPage(w, r, "page.donors", data)
		return
	}

	cities := make([]string, 0, len(donors))
	for _, d := range donors {
		cities = append(cities, d.City)
	}

	totals, err := s.donationRepo.TotalsByCities(ctx, cities)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch donor totals")
		data.Flash.Error = "Error al cargar la lista de donantes."
		s.renderPage(w, r, "page.donors", data)
		return
	}

	data.Donors = make([]types.DonorWithTotals, 0, len(donors))
	for _, d := range donors {
		data.Donors = append(data.Donors, types.DonorWithTotals{Donor: d, Totals: totals[d.City]})
	}

	s.renderPage(w, r, "page.donors", data)
}

func (s *Service) handleDonorDetail(w http.ResponseWriter, r *http.Request) {
	donor, ok := s.loadDonor(w, r)
	if !ok {
		return
	}

	donations, err := s.donationRepo.DonationsByCity(r.Context(), donor.City)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch donor donations")
		s.internalServerError(w)
		return
	}

	data := &types.DonorDetailPageData{
		BasePageData: types.BasePageData{Title: donor.DisplayName()},
		Donor:        donor,
		Donations:    donations,
		Totals:       types.SummarizeDonations(donations, donor.City),
	}

	s.renderPage(w, r, "page.donor.detail", data)
}

func newDonorFormPage(title, action string) *types.DonorFormPageData {
	return &types.DonorFormPageData{
		BasePageData:    types.BasePageData{Title: title},
		FormState:       types.FormState{Action: action},
		Classifications: types.DonorClassificationChoices,
		Statuses:        types.DonorStatusChoices,
	}
}

func (s *Service) handleGetDonorCreate(w http.ResponseWriter, r *http.Request) {
	data := newDonorFormPage("Registrar Nuevo Donante", "/donantes/create")
	data.Form.Status = string(types.DonorActive)

	s.renderPage(w, r, "page.donor.form", data)
}

func (s *Service) handlePostDonorCreate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	data := newDonorFormPage("Registrar Nuevo Donante", "/donantes/create")
	if !s.decodeForm(w, r, &data.Form) {
		return
	}

	donor, err := s.validator.Donor(ctx, &data.Form, 0)
	if err != nil {
		if s.handleValidationError(w, r, err, &data.FormState, &data.BasePageData) {
			s.renderPage(w, r, "page.donor.form", data)
		}
		return
	}

	now := s.validator.Now()
	registered := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	donor.RegistrationDate = &registered

	if err := s.donorRepo.CreateDonor(ctx, donor); err != nil {
		if errors.Is(err, types.ErrDuplicateEmail) {
			s.renderDuplicateEmail(w, r, data)
			return
		}
		s.logger.WithError(err).Error("failed to create donor")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/donantes", `Donante "`+donor.DisplayName()+`" creado exitosamente.`)
}

func (s *Service) handleGetDonorUpdate(w http.ResponseWriter, r *http.Request) {
	donor, ok := s.loadDonor(w, r)
	if !ok {
		return
	}

	data := newDonorFormPage("Editar Donante: "+donor.DisplayName(), r.URL.Path)
	data.Donor = donor
	data.Form = donorForm(donor)

	s.renderPage(w, r, "page.donor.form", data)
}

func (s *Service) handlePostDonorUpdate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	existing, ok := s.loadDonor(w, r)
	if !ok {
		return
	}

	data := newDonorFormPage("Editar Donante: "+existing.DisplayName(), r.URL.Path)
	data.Donor = existing
	if !s.decodeForm(w, r, &data.Form) {
		return
	}

	donor, err := s.validator.Donor(ctx, &data.Form, existing.ID)
	if err != nil {
		if s.handleValidationError(w, r, err, &data.FormState, &data.BasePageData) {
			s.renderPage(w, r, "page.donor.form", data)
		}
		return
	}
	donor.RegistrationDate = existing.RegistrationDate

	if err := s.donorRepo.UpdateDonor(ctx, existing.ID, donor); err != nil {
		switch {
		case errors.Is(err, types.ErrDuplicateEmail):
			s.renderDuplicateEmail(w, r, data)
		case errors.Is(err, types.ErrDonorNotFound):
			s.notFound(w)
		default:
			s.logger.WithError(err).Error("failed to update donor")
			s.internalServerError(w)
		}
		return
	}

	s.redirectWithNotice(w, r, "/donantes", `Donante "`+donor.DisplayName()+`" actualizado exitosamente.`)
}

// renderDuplicateEmail covers the race where another donor took the address
// between validation and the write.
func (s *Service) renderDuplicateEmail(w http.ResponseWriter, r *http.Request, data *types.DonorFormPageData) {
	var verrs types.ValidationErrors
	verrs.Add("email", types.KindDuplicateKey, "Este correo electrónico ya está registrado para otro donante.")
	data.ApplyErrors(verrs)
	data.Flash.Error = formErrorMessage
	s.renderPage(w, r, "page.donor.form", data)
}

func (s *Service) handleGetDonorDelete(w http.ResponseWriter, r *http.Request) {
	donor, ok := s.loadDonor(w, r)
	if !ok {
		return
	}

	totals, err := s.donationRepo.TotalsByCity(r.Context(), donor.City)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch donor totals")
		s.internalServerError(w)
		return
	}

	data := &types.DonorDeletePageData{
		BasePageData: types.BasePageData{Title: "Eliminar Donante"},
		Donor:        donor,
		Totals:       totals,
	}

	s.renderPage(w, r, "page.donor.delete", data)
}

// handlePostDonorDelete removes the donor. Donations under its city are kept.
func (s *Service) handlePostDonorDelete(w http.ResponseWriter, r *http.Request) {
	donor, ok := s.loadDonor(w, r)
	if !ok {
		return
	}

	if err := s.donorRepo.DeleteDonor(r.Context(), donor.ID); err != nil && !errors.Is(err, types.ErrDonorNotFound) {
		s.logger.WithError(err).Error("failed to delete donor")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/donantes", `Donante "`+donor.DisplayName()+`" eliminado exitosamente.`)
}

func (s *Service) loadDonor(w http.ResponseWriter, r *http.Request) (*types.Donor, bool) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w)
		return nil, false
	}

	donor, err := s.donorRepo.Donor(r.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrDonorNotFound) {
			s.notFound(w)
			return nil, false
		}
		s.logger.WithError(err).Error("failed to fetch donor")
		s.internalServerError(w)
		return nil, false
	}

	return donor, true
}

func donorForm(d *types.Donor) types.DonorForm {
	f := types.DonorForm{
		Name:    deref(d.Name),
		City:    d.City,
		Address: deref(d.Address),
		Phone:   deref(d.Phone),
		Email:   deref(d.Email),
		Notes:   deref(d.Notes),
	}
	if d.Classification != nil {
		f.Classification = string(*d.Classification)
	}
	if d.Status != nil {
		f.Status = string(*d.Status)
	}
	if d.Latitude != nil {
		f.Latitude = strconv.FormatFloat(*d.Latitude, 'f', -1, 64)
	}
	if d.Longitude != nil {
		f.Longitude = strconv.FormatFloat(*d.Longitude, 'f', -1, 64)
	}
	return f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
