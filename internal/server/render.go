package server

import (
	"bytes"
	"net/http"

	"donaciones/pkg/types"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) error {
	identity := identityFromContext(r.Context())

	if setter, ok := data.(types.NavbarDataSetter); ok {
		navbar := types.NavbarData{}
		if identity != nil {
			navbar = types.NavbarData{
				IsAuthenticated: true,
				IsStaff:         identity.IsStaff(),
				UserID:          identity.UserID,
				Username:        identity.Username,
				UserEmail:       identity.Email,
			}
		}
		setter.SetNavbarData(navbar)
	}

	if setter, ok := data.(types.FlashSetter); ok {
		q := r.URL.Query()
		setter.SetFlash(types.Flash{
			Notice:  q.Get("notice"),
			Warning: q.Get("warning"),
			Error:   q.Get("error"),
		})
	}

	// render into a buffer so a failing template does not leave half a page
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// renderPage renders data and answers with a 500 when the template fails.
func (s *Service) renderPage(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	if err := s.renderTemplate(w, r, templateName, data); err != nil {
		s.logger.WithError(err).WithField("template", templateName).Error("failed to render page")
		s.internalServerError(w)
	}
}
