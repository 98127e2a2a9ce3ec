package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"donaciones/internal"
	"donaciones/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

const invalidCredentialsMessage = "Usuario o contraseña incorrectos."

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {

	_, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err == nil {
		s.logger.Debug("user is already logged in, redirecting to home")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Iniciar Sesión"},
	}

	s.renderPage(w, r, "page.login", data)
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {

	var in types.LoginForm
	if err := r.ParseForm(); err == nil {
		_ = decoder.Decode(&in, r.PostForm)
	}
	in.Username = strings.TrimSpace(in.Username)

	data := &types.LoginPageData{
		BasePageData: types.BasePageData{Title: "Iniciar Sesión"},
		Username:     in.Username,
	}

	if in.Username == "" || in.Password == "" {
		data.Flash.Error = invalidCredentialsMessage
		s.renderPage(w, r, "page.login", data)
		return
	}

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": in.Username,
			"PASSWORD": in.Password,
		},
	}

	resp, err := s.cognitoClient.InitiateAuth(r.Context(), input)
	if err != nil {
		var notAuthorized *ctypes.NotAuthorizedException
		var notFound *ctypes.UserNotFoundException
		if !errors.As(err, &notAuthorized) && !errors.As(err, &notFound) {
			s.logger.WithError(err).Error("failed to authenticate user")
		}

		data.Flash.Error = invalidCredentialsMessage
		s.renderPage(w, r, "page.login", data)
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		// a challenge such as NEW_PASSWORD_REQUIRED is not supported by this form
		s.logger.WithField("challenge", resp.ChallengeName).Warn("login requires an unsupported challenge")
		data.Flash.Error = "No es posible iniciar sesión con esta cuenta. Contacta al administrador."
		s.renderPage(w, r, "page.login", data)
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.internalServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})

	notice := "¡Bienvenido de nuevo, " + in.Username + "!"

	// Check to see if this login attempt was the result of an unauthed redirect
	redirectCookie, err := r.Cookie(internal.COOKIE_REDIRECT_NAME)
	if err == nil && strings.HasPrefix(redirectCookie.Value, "/") && !strings.HasPrefix(redirectCookie.Value, "//") {
		s.clearRedirectCookie(w)
		http.Redirect(w, r, redirectCookie.Value, http.StatusSeeOther)
		return
	}

	s.redirectWithNotice(w, r, "/", notice)
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAccessTokenCookie(w)
	s.redirectWithNotice(w, r, "/login", "Has cerrado sesión exitosamente.")
}

func (s *Service) secureCookies() bool {
	return s.config.Environment != "development"
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    path,
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(age.Seconds()),
	})
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	s.expireCookie(w, internal.COOKIE_REDIRECT_NAME)
}

func (s *Service) clearAccessTokenCookie(w http.ResponseWriter) {
	s.expireCookie(w, internal.COOKIE_ACCESS_TOKEN_NAME)
}

func (s *Service) expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		HttpOnly: true,
		Secure:   s.secureCookies(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
