package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks TenantService

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"fieldpos/internal/authz"
	"fieldpos/internal/tenant/handler/mocks"
	"fieldpos/internal/tenant/service"
	branchstore "fieldpos/internal/tenant/store/branch"
	tenantstore "fieldpos/internal/tenant/store/tenant"
	id "fieldpos/pkg/domain"
	dErrors "fieldpos/pkg/domain-errors"
	"fieldpos/pkg/requestcontext"
)

type stubProvisioner struct {
	ownerID id.StaffID
}

func (p stubProvisioner) ProvisionOwner(context.Context, id.TenantID, string, string, string) (id.StaffID, error) {
	return p.ownerID, nil
}

// HandlerSuite runs the handlers against real services on memory stores, with
// the same actor and permission middleware the server wires up.
type HandlerSuite struct {
	suite.Suite
	router    http.Handler
	tenantSvc *service.TenantService
	ownerID   id.StaffID
	actor     requestcontext.Actor
}

func (s *HandlerSuite) SetupTest() {
	tenants := tenantstore.NewInMemory()
	branches := branchstore.NewInMemory()
	s.ownerID = id.StaffID(uuid.New())

	s.tenantSvc = service.NewTenantService(tenants, branches,
		service.WithOwnerProvisioner(stubProvisioner{ownerID: s.ownerID}),
	)
	branchSvc := service.NewBranchService(branches, tenants)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(s.tenantSvc, branchSvc, logger)

	r := chi.NewRouter()
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(s.injectActor())
		r.Use(authz.Require(authz.PermTenantsManage, logger))
		h.RegisterAdmin(r)
	})
	r.Route("/api/business", func(r chi.Router) {
		r.Use(s.injectActor())
		r.Use(authz.Require(authz.PermBranchesManage, logger))
		h.RegisterBusiness(r)
	})
	s.router = r

	s.actor = requestcontext.Actor{StaffID: id.StaffID(uuid.New()), Role: id.RoleAdmin}
}

// injectActor plays the part of auth middleware: it reads the actor the test
// configured on the suite. A zero actor simulates an unauthenticated request.
func (s *HandlerSuite) injectActor() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.actor.Role != "" {
				r = r.WithContext(requestcontext.WithActor(r.Context(), s.actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *HandlerSuite) actAsOwner(tenantID id.TenantID) {
	s.actor = requestcontext.Actor{
		StaffID:  s.ownerID,
		TenantID: tenantID,
		Role:     id.RoleOwner,
	}
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) seedTenant(name string) *service.CreateTenantResult {
	result, err := s.tenantSvc.CreateTenant(context.Background(), &service.CreateTenantCommand{
		Name:          name,
		OwnerName:     "Owner",
		OwnerEmail:    "owner@" + uuid.NewString()[:8] + ".example.com",
		OwnerPassword: "long enough password",
	})
	s.Require().NoError(err)
	return result
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) TestCreateTenant() {
	rec := s.do(http.MethodPost, "/api/admin/tenants", map[string]any{
		"name":           "Horizon Trading",
		"phone":          "0501234567",
		"owner_name":     "Amal Owner",
		"owner_email":    "owner@horizon.example.com",
		"owner_password": "correct horse battery",
	})

	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	resp := s.decode(rec)
	s.Equal(s.ownerID.String(), resp["owner_id"])

	tenant := resp["tenant"].(map[string]any)
	s.Equal("Horizon Trading", tenant["name"])
	s.Equal("active", tenant["status"])

	branch := resp["branch"].(map[string]any)
	s.Equal("Main Branch", branch["name"])
	s.Equal(resp["tenant_id"], branch["tenant_id"])
}

func (s *HandlerSuite) TestCreateTenant_ValidationFields() {
	rec := s.do(http.MethodPost, "/api/admin/tenants", map[string]any{
		"name":           "",
		"owner_name":     "Amal",
		"owner_email":    "not-an-email",
		"owner_password": "short",
	})

	s.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	resp := s.decode(rec)
	s.Equal("validation_error", resp["error"])

	fields := resp["fields"].(map[string]any)
	s.Contains(fields, "name")
	s.Contains(fields, "owner_email")
	s.Contains(fields, "owner_password")
}

func (s *HandlerSuite) TestCreateTenant_RequiresAdminRole() {
	s.actAsOwner(id.TenantID(uuid.New()))

	rec := s.do(http.MethodPost, "/api/admin/tenants", map[string]any{"name": "X"})

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestUnauthenticated() {
	s.actor = requestcontext.Actor{}

	rec := s.do(http.MethodGet, "/api/admin/tenants", nil)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestGetTenant() {
	seeded := s.seedTenant("Horizon Trading")

	rec := s.do(http.MethodGet, "/api/admin/tenants/"+seeded.Tenant.ID.String(), nil)

	s.Require().Equal(http.StatusOK, rec.Code)
	resp := s.decode(rec)
	s.Equal("Horizon Trading", resp["name"])
	s.Equal(float64(1), resp["branch_count"])
}

func (s *HandlerSuite) TestGetTenant_InvalidID() {
	rec := s.do(http.MethodGet, "/api/admin/tenants/not-a-uuid", nil)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestGetTenant_NotFound() {
	rec := s.do(http.MethodGet, "/api/admin/tenants/"+uuid.NewString(), nil)

	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestUpdateTenant() {
	seeded := s.seedTenant("Horizon Trading")

	rec := s.do(http.MethodPut, "/api/admin/tenants/"+seeded.Tenant.ID.String(), map[string]any{
		"name": "Horizon Trading LLC",
	})

	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Horizon Trading LLC", s.decode(rec)["name"])
}

func (s *HandlerSuite) TestDeactivateTenantTwice() {
	seeded := s.seedTenant("Horizon Trading")
	path := "/api/admin/tenants/" + seeded.Tenant.ID.String() + "/deactivate"

	rec := s.do(http.MethodPost, path, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("inactive", s.decode(rec)["status"])

	rec = s.do(http.MethodPost, path, nil)
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestListTenants() {
	s.seedTenant("Horizon Trading")
	s.seedTenant("Atlas Services")

	rec := s.do(http.MethodGet, "/api/admin/tenants?limit=10", nil)

	s.Require().Equal(http.StatusOK, rec.Code)
	resp := s.decode(rec)
	s.Equal(float64(2), resp["total"])
	s.Len(resp["tenants"].([]any), 2)
}

func (s *HandlerSuite) TestListTenants_UnknownStatus() {
	rec := s.do(http.MethodGet, "/api/admin/tenants?status=pending", nil)

	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerSuite) TestBranchLifecycle() {
	seeded := s.seedTenant("Horizon Trading")
	s.actAsOwner(seeded.Tenant.ID)

	rec := s.do(http.MethodPost, "/api/business/branches", map[string]any{
		"name":  "North Branch",
		"phone": "0559876543",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	created := s.decode(rec)
	branchID := created["id"].(string)
	s.Equal(seeded.Tenant.ID.String(), created["tenant_id"])

	rec = s.do(http.MethodGet, "/api/business/branches", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(float64(2), s.decode(rec)["total"], "default branch plus the new one")

	rec = s.do(http.MethodPut, "/api/business/branches/"+branchID, map[string]any{
		"name": "Northeast Branch",
	})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("Northeast Branch", s.decode(rec)["name"])

	rec = s.do(http.MethodPost, "/api/business/branches/"+branchID+"/deactivate", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("inactive", s.decode(rec)["status"])
}

func (s *HandlerSuite) TestBranchDuplicateName() {
	seeded := s.seedTenant("Horizon Trading")
	s.actAsOwner(seeded.Tenant.ID)

	// The default branch already claimed this name.
	rec := s.do(http.MethodPost, "/api/business/branches", map[string]any{
		"name": "main branch",
	})

	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestBranchIsolation() {
	victim := s.seedTenant("Horizon Trading")
	other := s.seedTenant("Atlas Services")

	s.actAsOwner(other.Tenant.ID)

	rec := s.do(http.MethodGet, "/api/business/branches/"+victim.Branch.ID.String(), nil)

	s.Equal(http.StatusNotFound, rec.Code, "foreign branch must look missing, not forbidden")
}

// Mock-backed tests cover paths that are awkward to reach through the real
// service, such as infrastructure failures.

func newMockHandler(t *testing.T) (http.Handler, *mocks.MockTenantService, *mocks.MockBranchService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	tenants := mocks.NewMockTenantService(ctrl)
	branches := mocks.NewMockBranchService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(tenants, branches, logger)
	r := chi.NewRouter()
	h.RegisterAdmin(r)
	return r, tenants, branches
}

func TestListTenants_ServiceFailure(t *testing.T) {
	router, tenants, _ := newMockHandler(t)
	tenants.EXPECT().
		ListTenants(gomock.Any(), gomock.Any()).
		Return(nil, 0, dErrors.New(dErrors.CodeInternal, "store unavailable"))

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateTenant_InvalidJSON(t *testing.T) {
	router, _, _ := newMockHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/tenants", bytes.NewReader([]byte("not valid json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTenant_OwnerEmailConflict(t *testing.T) {
	router, tenants, _ := newMockHandler(t)
	tenants.EXPECT().
		CreateTenant(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "email already registered"))

	body, err := json.Marshal(map[string]any{
		"name":           "Horizon Trading",
		"owner_name":     "Amal Owner",
		"owner_email":    "owner@horizon.example.com",
		"owner_password": "correct horse battery",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/tenants", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
