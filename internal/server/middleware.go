package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"donaciones/internal"
	"donaciones/internal/utils"
	"donaciones/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyIdentity  contextKey = "identity"
	contextKeyRequestID contextKey = "request_id"
)

const requestIDHeader = "X-Request-ID"

const permissionDeniedMessage = "No tienes permisos para acceder a esta página."

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestID tags every request with an id, reusing one sent by a proxy.
func (s *Service) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = utils.RequestID()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"request_id":  requestIDFromContext(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth resolves the access token cookie into an identity and adds it
// to the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
		if err != nil {
			s.logger.WithError(err).Debug("no access token cookie found")

			if r.Method == http.MethodGet {
				s.setRedirectCookie(w, r.URL.RequestURI(), time.Minute*5)
			}

			s.redirectToLogin(w, r)
			return
		}

		var accessToken string
		err = s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken)
		if err != nil {
			s.logger.WithError(err).Error("failed to decrypt access token")
			s.clearAccessTokenCookie(w)
			s.redirectToLogin(w, r)
			return
		}

		identity, err := s.verifier.Verify(r.Context(), accessToken)
		if err != nil {
			s.logger.WithError(err).Warn("failed to verify access token")
			s.clearAccessTokenCookie(w)
			s.redirectToLogin(w, r)
			return
		}

		s.logger.WithFields(logrus.Fields{
			"user_id": identity.UserID,
			"role":    identity.Role,
		}).Debug("authenticated user")

		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission lets the request through only when the caller's role may
// perform action on resource. Denied requests are sent home with a notice and
// never reach the handler.
func (s *Service) RequirePermission(resource types.Resource, action types.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := identityFromContext(r.Context())

			var role types.Role
			if identity != nil {
				role = identity.Role
			}

			allowed, err := s.authz.Allowed(role, resource, action)
			if err != nil {
				s.logger.WithError(err).Error("failed to check permission")
				s.internalServerError(w)
				return
			}

			if !allowed {
				s.logger.WithFields(logrus.Fields{
					"role":     role,
					"resource": resource,
					"action":   action,
				}).Info("permission denied")

				if r.URL.Path == "/" {
					http.Error(w, permissionDeniedMessage, http.StatusForbidden)
					return
				}

				s.redirectWithError(w, r, "/", permissionDeniedMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func identityFromContext(ctx context.Context) *types.Identity {
	identity, _ := ctx.Value(contextKeyIdentity).(*types.Identity)
	return identity
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}
