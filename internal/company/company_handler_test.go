package company_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrms/internal/company"
	companyerrors "go-hrms/internal/company/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeCompanyService struct {
	GetByIDFn func(ctx context.Context, id uint) (company.CompanyResponse, error)
	UpdateFn  func(ctx context.Context, id uint, req company.UpdateCompanyRequest) (company.CompanyResponse, error)
}

func (f *fakeCompanyService) GetByID(ctx context.Context, id uint) (company.CompanyResponse, error) {
	return f.GetByIDFn(ctx, id)
}

func (f *fakeCompanyService) Update(ctx context.Context, id uint, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	return f.UpdateFn(ctx, id, req)
}

func withCompany(companyID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("company_id", companyID)
		c.Next()
	}
}

func setupRouter(h *company.Handler, companyID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	noop := func(c *gin.Context) { c.Next() }
	company.RegisterRoutes(r.Group("/api/v1"), h, withCompany(companyID), noop)
	return r
}

func TestCompanyHandler_GetMe(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeCompanyService{
			GetByIDFn: func(ctx context.Context, id uint) (company.CompanyResponse, error) {
				assert.Equal(t, uint(7), id)
				return company.CompanyResponse{ID: 7, Code: "CMP00000007", Name: "Acme"}, nil
			},
		}
		r := setupRouter(company.NewHandler(svc), 7)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companies/me", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "CMP00000007")
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeCompanyService{
			GetByIDFn: func(ctx context.Context, id uint) (company.CompanyResponse, error) {
				return company.CompanyResponse{}, companyerrors.ErrCompanyNotFound
			},
		}
		r := setupRouter(company.NewHandler(svc), 7)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companies/me", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_FOUND")
	})

	t.Run("missing tenant", func(t *testing.T) {
		r := setupRouter(company.NewHandler(&fakeCompanyService{}), 0)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companies/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCompanyHandler_UpdateMe(t *testing.T) {
	t.Run("explicit null clears phone", func(t *testing.T) {
		svc := &fakeCompanyService{
			UpdateFn: func(ctx context.Context, id uint, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
				assert.True(t, req.Phone.Set)
				assert.True(t, req.Phone.Null)
				assert.False(t, req.Name.Set)
				return company.CompanyResponse{ID: id, Name: "Acme"}, nil
			},
		}
		r := setupRouter(company.NewHandler(svc), 3)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/companies/me", strings.NewReader(`{"phone":null}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := setupRouter(company.NewHandler(&fakeCompanyService{}), 3)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/companies/me", strings.NewReader(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
