package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"donaciones/internal/export"
	"donaciones/internal/mail"
	"donaciones/pkg/types"
)

func (s *Service) handleDonationList(w http.ResponseWriter, r *http.Request) {
	donations, err := s.donationRepo.Donations(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch donations")
		s.internalServerError(w)
		return
	}

	data := &types.DonationListPageData{
		BasePageData: types.BasePageData{Title: "Donaciones"},
		Donations:    donations,
	}

	s.renderPage(w, r, "page.donations", data)
}

func (s *Service) handleDonationExport(w http.ResponseWriter, r *http.Request) {
	donations, err := s.donationRepo.Donations(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch donations for export")
		s.internalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="donaciones-%s.csv"`, time.Now().Format("20060102")))

	if err := export.WriteDonationsCSV(w, donations); err != nil {
		s.logger.WithError(err).Error("failed to write donations csv")
	}
}

func (s *Service) newDonationFormPage(ctx context.Context, title, action string) (*types.DonationFormPageData, []*types.Donor, error) {
	choices, donors, err := s.donorChoices(ctx)
	if err != nil {
		return nil, nil, err
	}

	data := &types.DonationFormPageData{
		BasePageData:     types.BasePageData{Title: title},
		FormState:        types.FormState{Action: action},
		DonorChoices:     choices,
		FoodTypes:        types.FoodTypeSuggestions,
		Destinations:     types.DestinationChoices,
		TriStates:        types.TriStateChoices,
		Conditions:       types.FoodConditionChoices,
		RecaptchaSiteKey: s.config.RecaptchaSiteKey,
	}

	return data, donors, nil
}

func (s *Service) handleGetDonationCreate(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.newDonationFormPage(r.Context(), "Registrar (Solicitar) Donación", "/donaciones/crear")
	if err != nil {
		s.logger.WithError(err).Error("failed to load donation form")
		s.internalServerError(w)
		return
	}

	s.renderPage(w, r, "page.donation.form", data)
}

// handlePostDonationCreate records a donation and mails a confirmation to the
// submitting user. Mail trouble never undoes the donation.
func (s *Service) handlePostDonationCreate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	data, _, err := s.newDonationFormPage(ctx, "Registrar (Solicitar) Donación", "/donaciones/crear")
	if err != nil {
		s.logger.WithError(err).Error("failed to load donation form")
		s.internalServerError(w)
		return
	}

	if !s.decodeForm(w, r, &data.Form) {
		return
	}

	if err := s.captcha.Verify(ctx, data.Form.Captcha, remoteIP(r)); err != nil {
		s.logger.WithError(err).Info("captcha verification failed")
		data.FieldErrors = map[string]string{"captcha": "Por favor verifica que no eres un robot."}
		data.Flash.Error = formErrorMessage
		s.renderPage(w, r, "page.donation.form", data)
		return
	}

	donation, classification, err := s.validator.Donation(ctx, &data.Form)
	if err != nil {
		if s.handleValidationError(w, r, err, &data.FormState, &data.BasePageData) {
			s.renderPage(w, r, "page.donation.form", data)
		}
		return
	}

	if err := s.donationRepo.CreateDonation(ctx, donation); err != nil {
		s.logger.WithError(err).Error("failed to create donation")
		s.internalServerError(w)
		return
	}

	s.logger.WithField("donation_id", donation.ID).Info("donation created")

	if err := s.sendDonationConfirmation(ctx, identityFromContext(ctx), donation, classification); err != nil {
		s.logger.WithError(err).WithField("donation_id", donation.ID).Warn("failed to send donation confirmation")
		s.redirectWithWarning(w, r, "/", "Donación guardada, pero hubo un error al enviar el correo de confirmación.")
		return
	}

	s.redirectWithNotice(w, r, "/", "Donación registrada")
}

// sendDonationConfirmation does nothing for users without an email address.
func (s *Service) sendDonationConfirmation(ctx context.Context, identity *types.Identity, donation *types.Donation, classification *types.FoodClassification) error {
	if identity == nil || identity.Email == "" {
		return nil
	}

	username := identity.Username
	if username == "" {
		username = identity.Email
	}

	msg := mail.DonationConfirmation(username, donation, classification)
	msg.To = identity.Email

	return s.mailer.Send(ctx, msg)
}

func (s *Service) handleGetDonationUpdate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	donation, ok := s.loadDonation(w, r)
	if !ok {
		return
	}

	data, donors, err := s.newDonationFormPage(ctx, "Editar Donación", r.URL.Path)
	if err != nil {
		s.logger.WithError(err).Error("failed to load donation form")
		s.internalServerError(w)
		return
	}

	data.Form = types.DonationForm{
		Donor:       donorIDForCity(donors, donation.DonorCity),
		Quantity:    strconv.Itoa(donation.Quantity),
		ArrivalDate: donation.ArrivalDate.Format("2006-01-02"),
		FoodType:    donation.FoodType,
		Destination: donation.Destination,
	}
	data.RecaptchaSiteKey = ""

	s.renderPage(w, r, "page.donation.form", data)
}

func (s *Service) handlePostDonationUpdate(w http.ResponseWriter, r *http.Request) {
	var ctx = r.Context()

	existing, ok := s.loadDonation(w, r)
	if !ok {
		return
	}

	data, _, err := s.newDonationFormPage(ctx, "Editar Donación", r.URL.Path)
	if err != nil {
		s.logger.WithError(err).Error("failed to load donation form")
		s.internalServerError(w)
		return
	}
	data.RecaptchaSiteKey = ""

	if !s.decodeForm(w, r, &data.Form) {
		return
	}

	donation, _, err := s.validator.Donation(ctx, &data.Form)
	if err != nil {
		if s.handleValidationError(w, r, err, &data.FormState, &data.BasePageData) {
			s.renderPage(w, r, "page.donation.form", data)
		}
		return
	}

	if err := s.donationRepo.UpdateDonation(ctx, existing.ID, donation); err != nil {
		if errors.Is(err, types.ErrDonationNotFound) {
			s.notFound(w)
			return
		}
		s.logger.WithError(err).Error("failed to update donation")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/donaciones", "Donación actualizada exitosamente.")
}

func (s *Service) handleGetDonationDelete(w http.ResponseWriter, r *http.Request) {
	donation, ok := s.loadDonation(w, r)
	if !ok {
		return
	}

	data := &types.DonationDeletePageData{
		BasePageData: types.BasePageData{Title: "Eliminar Donación"},
		Donation:     donation,
	}

	s.renderPage(w, r, "page.donation.delete", data)
}

func (s *Service) handlePostDonationDelete(w http.ResponseWriter, r *http.Request) {
	donation, ok := s.loadDonation(w, r)
	if !ok {
		return
	}

	if err := s.donationRepo.DeleteDonation(r.Context(), donation.ID); err != nil && !errors.Is(err, types.ErrDonationNotFound) {
		s.logger.WithError(err).Error("failed to delete donation")
		s.internalServerError(w)
		return
	}

	s.redirectWithNotice(w, r, "/donaciones", "Donación eliminada exitosamente.")
}

func (s *Service) loadDonation(w http.ResponseWriter, r *http.Request) (*types.Donation, bool) {
	id, ok := pathID(r)
	if !ok {
		s.notFound(w)
		return nil, false
	}

	donation, err := s.donationRepo.Donation(r.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrDonationNotFound) {
			s.notFound(w)
			return nil, false
		}
		s.logger.WithError(err).Error("failed to fetch donation")
		s.internalServerError(w)
		return nil, false
	}

	return donation, true
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
