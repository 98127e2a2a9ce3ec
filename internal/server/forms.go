package server

import (
	"net/http"

	"donaciones/pkg/types"
)

// decodeForm parses the posted form into dst. It answers the request itself
// and returns false when the body cannot be read.
func (s *Service) decodeForm(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Info("failed to parse form")
		http.Error(w, "formulario no válido", http.StatusBadRequest)
		return false
	}

	if err := decoder.Decode(dst, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode form")
		s.internalServerError(w)
		return false
	}

	return true
}

// handleValidationError copies validation failures onto the page. Anything
// else is a server error, answered here, and false is returned.
func (s *Service) handleValidationError(w http.ResponseWriter, r *http.Request, err error, form *types.FormState, page *types.BasePageData) bool {
	verrs, ok := types.AsValidationErrors(err)
	if !ok {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("failed to validate submission")
		s.internalServerError(w)
		return false
	}

	form.ApplyErrors(verrs)
	page.Flash.Error = formErrorMessage
	return true
}
