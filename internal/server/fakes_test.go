package server

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"donaciones/internal"
	"donaciones/internal/authz"
	"donaciones/internal/mail"
	"donaciones/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type memDonors struct {
	mu     sync.Mutex
	donors map[int64]*types.Donor
	nextID int64
	calls  int
}

func (m *memDonors) Donor(_ context.Context, id int64) (*types.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	d, ok := m.donors[id]
	if !ok {
		return nil, types.ErrDonorNotFound
	}
	return d, nil
}

func (m *memDonors) Donors(_ context.Context, filter types.DonorFilter) ([]*types.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := make([]*types.Donor, 0, len(m.donors))
	for _, d := range m.donors {
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.City), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memDonors) Cities(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var cities []string
	for _, d := range m.donors {
		cities = append(cities, d.City)
	}
	sort.Strings(cities)
	return cities, nil
}

func (m *memDonors) EmailInUse(_ context.Context, email string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range m.donors {
		if id != excludeID && d.Email != nil && *d.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memDonors) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.donors), nil
}

func (m *memDonors) CreateDonor(_ context.Context, donor *types.Donor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	donor.ID = m.nextID
	m.donors[donor.ID] = donor
	return nil
}

func (m *memDonors) UpdateDonor(_ context.Context, id int64, donor *types.Donor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.donors[id]; !ok {
		return types.ErrDonorNotFound
	}
	donor.ID = id
	m.donors[id] = donor
	return nil
}

func (m *memDonors) DeleteDonor(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.donors[id]; !ok {
		return types.ErrDonorNotFound
	}
	delete(m.donors, id)
	return nil
}

type memDonations struct {
	mu        sync.Mutex
	donations map[int64]*types.Donation
	nextID    int64
}

func (m *memDonations) Donation(_ context.Context, id int64) (*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.donations[id]
	if !ok {
		return nil, types.ErrDonationNotFound
	}
	return d, nil
}

func (m *memDonations) Donations(_ context.Context) ([]*types.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.Donation, 0, len(m.donations))
	for _, d := range m.donations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memDonations) DonationsByCity(ctx context.Context, city string) ([]*types.Donation, error) {
	all, _ := m.Donations(ctx)
	var out []*types.Donation
	for _, d := range all {
		if d.DonorCity == city {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDonations) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.donations), nil
}

func (m *memDonations) TotalsByCity(ctx context.Context, city string) (types.DonorTotals, error) {
	all, _ := m.Donations(ctx)
	return types.SummarizeDonations(all, city), nil
}

func (m *memDonations) TotalsByCities(ctx context.Context, cities []string) (map[string]types.DonorTotals, error) {
	all, _ := m.Donations(ctx)
	out := make(map[string]types.DonorTotals, len(cities))
	for _, c := range cities {
		out[c] = types.SummarizeDonations(all, c)
	}
	return out, nil
}

func (m *memDonations) CreateDonation(_ context.Context, d *types.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	d.ID = m.nextID
	m.donations[d.ID] = d
	return nil
}

func (m *memDonations) UpdateDonation(_ context.Context, id int64, d *types.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.donations[id]; !ok {
		return types.ErrDonationNotFound
	}
	d.ID = id
	m.donations[id] = d
	return nil
}

func (m *memDonations) DeleteDonation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.donations, id)
	return nil
}

type memLowIncome struct {
	allocs []*types.LowIncomeAllocation
}

func (m *memLowIncome) LowIncome(_ context.Context, id int64) (*types.LowIncomeAllocation, error) {
	for _, a := range m.allocs {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, types.ErrLowIncomeNotFound
}

func (m *memLowIncome) LowIncomes(_ context.Context) ([]*types.LowIncomeAllocation, error) {
	return m.allocs, nil
}

func (m *memLowIncome) Count(_ context.Context) (int, error) { return len(m.allocs), nil }

func (m *memLowIncome) CreateLowIncome(_ context.Context, a *types.LowIncomeAllocation) error {
	a.ID = int64(len(m.allocs) + 1)
	m.allocs = append(m.allocs, a)
	return nil
}

func (m *memLowIncome) UpdateLowIncome(_ context.Context, id int64, a *types.LowIncomeAllocation) error {
	for i, existing := range m.allocs {
		if existing.ID == id {
			a.ID = id
			m.allocs[i] = a
			return nil
		}
	}
	return types.ErrLowIncomeNotFound
}

func (m *memLowIncome) DeleteLowIncome(_ context.Context, id int64) error {
	for i, a := range m.allocs {
		if a.ID == id {
			m.allocs = append(m.allocs[:i], m.allocs[i+1:]...)
			return nil
		}
	}
	return types.ErrLowIncomeNotFound
}

type memZoos struct {
	allocs []*types.ZooAllocation
}

func (m *memZoos) Zoo(_ context.Context, id int64) (*types.ZooAllocation, error) {
	for _, a := range m.allocs {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, types.ErrZooNotFound
}

func (m *memZoos) Zoos(_ context.Context) ([]*types.ZooAllocation, error) { return m.allocs, nil }

func (m *memZoos) Count(_ context.Context) (int, error) { return len(m.allocs), nil }

func (m *memZoos) CreateZoo(_ context.Context, a *types.ZooAllocation) error {
	a.ID = int64(len(m.allocs) + 1)
	m.allocs = append(m.allocs, a)
	return nil
}

func (m *memZoos) UpdateZoo(_ context.Context, id int64, a *types.ZooAllocation) error {
	for i, existing := range m.allocs {
		if existing.ID == id {
			a.ID = id
			m.allocs[i] = a
			return nil
		}
	}
	return types.ErrZooNotFound
}

func (m *memZoos) DeleteZoo(_ context.Context, id int64) error {
	for i, a := range m.allocs {
		if a.ID == id {
			m.allocs = append(m.allocs[:i], m.allocs[i+1:]...)
			return nil
		}
	}
	return types.ErrZooNotFound
}

type fakeMailer struct {
	err  error
	sent []mail.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeCaptcha struct {
	err error
}

func (f *fakeCaptcha) Verify(context.Context, string, string) error { return f.err }

// fakeVerifier treats the access token as a key into a fixed set of identities.
type fakeVerifier map[string]*types.Identity

func (f fakeVerifier) Verify(_ context.Context, token string) (*types.Identity, error) {
	identity, ok := f[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return identity, nil
}

type fakeCognito struct {
	initiateAuth func(*cognitoidentityprovider.InitiateAuthInput) (*cognitoidentityprovider.InitiateAuthOutput, error)
	addToGroupErr error
	created       []string
	deleted       []string
}

func (f *fakeCognito) InitiateAuth(_ context.Context, in *cognitoidentityprovider.InitiateAuthInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	if f.initiateAuth == nil {
		return nil, errors.New("not configured")
	}
	return f.initiateAuth(in)
}

func (f *fakeCognito) AdminCreateUser(_ context.Context, in *cognitoidentityprovider.AdminCreateUserInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminCreateUserOutput, error) {
	f.created = append(f.created, *in.Username)
	return &cognitoidentityprovider.AdminCreateUserOutput{}, nil
}

func (f *fakeCognito) AdminAddUserToGroup(_ context.Context, _ *cognitoidentityprovider.AdminAddUserToGroupInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminAddUserToGroupOutput, error) {
	if f.addToGroupErr != nil {
		return nil, f.addToGroupErr
	}
	return &cognitoidentityprovider.AdminAddUserToGroupOutput{}, nil
}

func (f *fakeCognito) AdminDeleteUser(_ context.Context, in *cognitoidentityprovider.AdminDeleteUserInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminDeleteUserOutput, error) {
	f.deleted = append(f.deleted, *in.Username)
	return &cognitoidentityprovider.AdminDeleteUserOutput{}, nil
}

const (
	staffToken = "staff-token"
	userToken  = "user-token"
)

type testEnv struct {
	service   *Service
	donors    *memDonors
	donations *memDonations
	lowIncome *memLowIncome
	zoos      *memZoos
	mailer    *fakeMailer
	captcha   *fakeCaptcha
	cognito   *fakeCognito
}

func strPtr(s string) *string { return &s }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		Environment:      "development",
		ServerPort:       0,
		CognitoUserGroup: "usuario",
		CookieHashKey:    base64.StdEncoding.EncodeToString([]byte(strings.Repeat("h", 32))),
		CookieBlockKey:   base64.StdEncoding.EncodeToString([]byte(strings.Repeat("b", 32))),
	}

	env := &testEnv{
		donors: &memDonors{nextID: 2, donors: map[int64]*types.Donor{
			1: {ID: 1, Name: strPtr("Lácteos del Sur"), City: "Springfield", Email: strPtr("contacto@lacteos.example")},
			2: {ID: 2, City: "Shelbyville"},
		}},
		donations: &memDonations{nextID: 1, donations: map[int64]*types.Donation{
			1: {ID: 1, DonorCity: "Springfield", Quantity: 40, FoodType: "Lácteos", Destination: types.DestinationZoo},
		}},
		lowIncome: &memLowIncome{},
		zoos:      &memZoos{},
		mailer:    &fakeMailer{},
		captcha:   &fakeCaptcha{},
		cognito:   &fakeCognito{},
	}

	verifier := fakeVerifier{
		staffToken: {UserID: "u-staff", Username: "admin", Email: "admin@example.com", Role: types.RoleStaff},
		userToken:  {UserID: "u-user", Username: "maria", Email: "maria@example.com", Role: types.RoleUser},
	}

	enforcer, err := authz.New(authz.DefaultPolicies)
	require.NoError(t, err)

	s, err := New(config, logger, env.cognito, verifier, enforcer,
		env.donors, env.donations, env.lowIncome, env.zoos, env.mailer, env.captcha)
	require.NoError(t, err)

	env.service = s
	return env
}

// do sends a request through the full router. A non-empty token is sent as
// the encrypted access token cookie.
func (e *testEnv) do(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if token != "" {
		encoded, err := e.service.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, token)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: internal.COOKIE_ACCESS_TOKEN_NAME, Value: encoded})
	}

	rec := httptest.NewRecorder()
	e.service.Handler().ServeHTTP(rec, req)
	return rec
}

// redirectQuery returns the flash parameter of a redirect response.
func redirectQuery(t *testing.T, rec *httptest.ResponseRecorder, key string) string {
	t.Helper()
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	return loc.Query().Get(key)
}
