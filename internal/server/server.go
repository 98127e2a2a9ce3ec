package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"donaciones/internal/mail"
	"donaciones/internal/validate"
	"donaciones/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

type DonorStore interface {
	Donor(ctx context.Context, donorID int64) (*types.Donor, error)
	Donors(ctx context.Context, filter types.DonorFilter) ([]*types.Donor, error)
	Cities(ctx context.Context) ([]string, error)
	EmailInUse(ctx context.Context, email string, excludeID int64) (bool, error)
	Count(ctx context.Context) (int, error)
	CreateDonor(ctx context.Context, donor *types.Donor) error
	UpdateDonor(ctx context.Context, donorID int64, donor *types.Donor) error
	DeleteDonor(ctx context.Context, donorID int64) error
}

type DonationStore interface {
	Donation(ctx context.Context, donationID int64) (*types.Donation, error)
	Donations(ctx context.Context) ([]*types.Donation, error)
	DonationsByCity(ctx context.Context, city string) ([]*types.Donation, error)
	Count(ctx context.Context) (int, error)
	TotalsByCity(ctx context.Context, city string) (types.DonorTotals, error)
	TotalsByCities(ctx context.Context, cities []string) (map[string]types.DonorTotals, error)
	CreateDonation(ctx context.Context, donation *types.Donation) error
	UpdateDonation(ctx context.Context, donationID int64, donation *types.Donation) error
	DeleteDonation(ctx context.Context, donationID int64) error
}

type LowIncomeStore interface {
	LowIncome(ctx context.Context, id int64) (*types.LowIncomeAllocation, error)
	LowIncomes(ctx context.Context) ([]*types.LowIncomeAllocation, error)
	Count(ctx context.Context) (int, error)
	CreateLowIncome(ctx context.Context, alloc *types.LowIncomeAllocation) error
	UpdateLowIncome(ctx context.Context, id int64, alloc *types.LowIncomeAllocation) error
	DeleteLowIncome(ctx context.Context, id int64) error
}

type ZooStore interface {
	Zoo(ctx context.Context, id int64) (*types.ZooAllocation, error)
	Zoos(ctx context.Context) ([]*types.ZooAllocation, error)
	Count(ctx context.Context) (int, error)
	CreateZoo(ctx context.Context, alloc *types.ZooAllocation) error
	UpdateZoo(ctx context.Context, id int64, alloc *types.ZooAllocation) error
	DeleteZoo(ctx context.Context, id int64) error
}

type MailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, response, remoteIP string) error
}

type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*types.Identity, error)
}

type Authorizer interface {
	Allowed(role types.Role, resource types.Resource, action types.Action) (bool, error)
}

type CognitoClient interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	AdminCreateUser(ctx context.Context, params *cognitoidentityprovider.AdminCreateUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminCreateUserOutput, error)
	AdminAddUserToGroup(ctx context.Context, params *cognitoidentityprovider.AdminAddUserToGroupInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminAddUserToGroupOutput, error)
	AdminDeleteUser(ctx context.Context, params *cognitoidentityprovider.AdminDeleteUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error)
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	templates *template.Template

	donorRepo     DonorStore
	donationRepo  DonationStore
	lowIncomeRepo LowIncomeStore
	zooRepo       ZooStore
	validator     *validate.Validator

	mailer   MailSender
	captcha  CaptchaVerifier
	verifier TokenVerifier
	authz    Authorizer

	cognitoClient CognitoClient
	cookie        *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	cognitoClient CognitoClient,
	verifier TokenVerifier,
	authz Authorizer,
	donorRepo DonorStore,
	donationRepo DonationStore,
	lowIncomeRepo LowIncomeStore,
	zooRepo ZooStore,
	mailer MailSender,
	captcha CaptchaVerifier,
) (*Service, error) {
	mux := flow.New()

	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie block key: %w", err)
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}

	s := &Service{
		logger:        logger,
		config:        config,
		cognitoClient: cognitoClient,
		verifier:      verifier,
		authz:         authz,
		cookie:        securecookie.New(hashKey, blockKey),

		donorRepo:     donorRepo,
		donationRepo:  donationRepo,
		lowIncomeRepo: lowIncomeRepo,
		zooRepo:       zooRepo,
		validator:     validate.New(donorRepo, donationRepo),

		mailer:  mailer,
		captcha: captcha,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.RequestID)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		s.permit(r, types.ResourceDashboard, types.ActionRead, func(r *flow.Mux) {
			r.HandleFunc("/", s.handleHome, http.MethodGet)
		})

		s.permit(r, types.ResourceUsers, types.ActionCreate, func(r *flow.Mux) {
			r.HandleFunc("/signup", s.handleGetSignup, http.MethodGet)
			r.HandleFunc("/signup", s.handlePostSignup, http.MethodPost)
		})

		// Donations
		s.permit(r, types.ResourceDonations, types.ActionRead, func(r *flow.Mux) {
			r.HandleFunc("/donaciones", s.handleDonationList, http.MethodGet)
			r.HandleFunc("/donaciones/export.csv", s.handleDonationExport, http.MethodGet)
		})
		s.permit(r, types.ResourceDonations, types.ActionCreate, func(r *flow.Mux) {
			r.HandleFunc("/donaciones/crear", s.handleGetDonationCreate, http.MethodGet)
			r.HandleFunc("/donaciones/crear", s.handlePostDonationCreate, http.MethodPost)
		})
		s.permit(r, types.ResourceDonations, types.ActionUpdate, func(r *flow.Mux) {
			r.HandleFunc("/donaciones/editar/:id", s.handleGetDonationUpdate, http.MethodGet)
			r.HandleFunc("/donaciones/editar/:id", s.handlePostDonationUpdate, http.MethodPost)
		})
		s.permit(r, types.ResourceDonations, types.ActionDelete, func(r *flow.Mux) {
			r.HandleFunc("/donaciones/eliminar/:id", s.handleGetDonationDelete, http.MethodGet)
			r.HandleFunc("/donaciones/eliminar/:id", s.handlePostDonationDelete, http.MethodPost)
		})

		// Donors
		s.permit(r, types.ResourceDonors, types.ActionCreate, func(r *flow.Mux) {
			r.HandleFunc("/donantes/create", s.handleGetDonorCreate, http.MethodGet)
			r.HandleFunc("/donantes/create", s.handlePostDonorCreate, http.MethodPost)
		})
		s.permit(r, types.ResourceDonors, types.ActionUpdate, func(r *flow.Mux) {
			r.HandleFunc("/donantes/update/:id", s.handleGetDonorUpdate, http.MethodGet)
			r.HandleFunc("/donantes/update/:id", s.handlePostDonorUpdate, http.MethodPost)
		})
		s.permit(r, types.ResourceDonors, types.ActionDelete, func(r *flow.Mux) {
			r.HandleFunc("/donantes/delete/:id", s.handleGetDonorDelete, http.MethodGet)
			r.HandleFunc("/donantes/delete/:id", s.handlePostDonorDelete, http.MethodPost)
		})
		s.permit(r, types.ResourceDonors, types.ActionRead, func(r *flow.Mux) {
			r.HandleFunc("/donantes", s.handleDonorList, http.MethodGet)
			r.HandleFunc("/donantes/:id|^[0-9]+$", s.handleDonorDetail, http.MethodGet)
		})

		// Low income areas and zoos
		s.permit(r, types.ResourceAllocations, types.ActionRead, func(r *flow.Mux) {
			r.HandleFunc("/bajorecursos", s.handleLowIncomeList, http.MethodGet)
			r.HandleFunc("/zoos", s.handleZooList, http.MethodGet)
		})
		s.permit(r, types.ResourceAllocations, types.ActionCreate, func(r *flow.Mux) {
			r.HandleFunc("/bajorecursos/crear", s.handleGetLowIncomeCreate, http.MethodGet)
			r.HandleFunc("/bajorecursos/crear", s.handlePostLowIncomeCreate, http.MethodPost)
			r.HandleFunc("/zoos/crear", s.handleGetZooCreate, http.MethodGet)
			r.HandleFunc("/zoos/crear", s.handlePostZooCreate, http.MethodPost)
		})
		s.permit(r, types.ResourceAllocations, types.ActionUpdate, func(r *flow.Mux) {
			r.HandleFunc("/bajorecursos/editar/:id", s.handleGetLowIncomeUpdate, http.MethodGet)
			r.HandleFunc("/bajorecursos/editar/:id", s.handlePostLowIncomeUpdate, http.MethodPost)
			r.HandleFunc("/zoos/editar/:id", s.handleGetZooUpdate, http.MethodGet)
			r.HandleFunc("/zoos/editar/:id", s.handlePostZooUpdate, http.MethodPost)
		})
		s.permit(r, types.ResourceAllocations, types.ActionDelete, func(r *flow.Mux) {
			r.HandleFunc("/bajorecursos/eliminar/:id", s.handleGetLowIncomeDelete, http.MethodGet)
			r.HandleFunc("/bajorecursos/eliminar/:id", s.handlePostLowIncomeDelete, http.MethodPost)
			r.HandleFunc("/zoos/eliminar/:id", s.handleGetZooDelete, http.MethodGet)
			r.HandleFunc("/zoos/eliminar/:id", s.handlePostZooDelete, http.MethodPost)
		})
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

// permit registers the routes added by fn behind a permission check.
func (s *Service) permit(r *flow.Mux, resource types.Resource, action types.Action, fn func(r *flow.Mux)) {
	r.Group(func(r *flow.Mux) {
		r.Use(s.RequirePermission(resource, action))
		fn(r)
	})
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"derefOr": func(s *string, defaultVal string) string {
			if s == nil || *s == "" {
				return defaultVal
			}
			return *s
		},
		"date": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return v.Format("2006-01-02")
			case *time.Time:
				if v == nil {
					return ""
				}
				return v.Format("2006-01-02")
			}
			return ""
		},
		"classificationLabel": func(c *types.DonorClassification) string {
			if c == nil {
				return ""
			}
			return types.ChoiceLabel(types.DonorClassificationChoices, string(*c))
		},
		"statusLabel": func(st *types.DonorStatus) string {
			if st == nil {
				return ""
			}
			return types.ChoiceLabel(types.DonorStatusChoices, string(*st))
		},
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
