package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/service"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type packageServiceMock struct {
	listResp   []models.Package
	getResp    *models.Package
	getErr     error
	createResp *models.Package
	createErr  error
}

func (m *packageServiceMock) List(ctx context.Context) ([]models.Package, error) {
	return m.listResp, nil
}

func (m *packageServiceMock) Get(ctx context.Context, id string) (*models.Package, error) {
	return m.getResp, m.getErr
}

func (m *packageServiceMock) Create(ctx context.Context, req service.CreatePackageRequest) (*models.Package, error) {
	return m.createResp, m.createErr
}

func TestPackageHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPackageHandler(&packageServiceMock{listResp: []models.Package{{ID: "p1", Name: "Starter"}}})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/packages", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Starter")
}

func TestPackageHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPackageHandler(&packageServiceMock{getErr: appErrors.ErrNotFound})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/packages/ghost", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestPackageHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPackageHandler(&packageServiceMock{createResp: &models.Package{ID: "p1", Name: "Starter"}})

	payload := []byte(`{"name":"Starter","description":"Ten hours","total_hours":10,"price_per_hour":25,"max_students":5,"validity_period":30}`)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/packages", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestPackageHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewPackageHandler(&packageServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/packages", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
