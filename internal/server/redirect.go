package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/alexedwards/flow"
)

const formErrorMessage = "Por favor corrige los errores en el formulario."

func (s *Service) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	s.redirectWithMessage(w, r, path, "notice", notice)
}

func (s *Service) redirectWithWarning(w http.ResponseWriter, r *http.Request, path, warning string) {
	s.redirectWithMessage(w, r, path, "warning", warning)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	s.redirectWithMessage(w, r, path, "error", msg)
}

func (s *Service) redirectWithMessage(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	v := url.Values{}
	v.Set(key, msg)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Service) notFound(w http.ResponseWriter) {
	http.Error(w, "no encontrado", http.StatusNotFound)
}

// pathID parses the :id route parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(flow.Param(r.Context(), "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
