package routes

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shipment_backoffice/internal/config"
	"shipment_backoffice/internal/services"
	"shipment_backoffice/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	svc    *services.Services
}

func newTestEnv(t *testing.T, adjust ...func(*config.Config)) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := gorm.Open(sqlite.Open(config.SQLiteDSN(filepath.Join(dir, "api.db"))), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		AllowedOrigins:     []string{"*"},
		UploadDir:          filepath.Join(dir, "uploads"),
		UploadURLPrefix:    "/uploads/trucks",
		UploadMaxDimension: 64,
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		AdminEmail:         "admin@example.com",
	}
	for _, fn := range adjust {
		fn(cfg)
	}

	images, err := storage.NewImageStore(cfg.UploadDir, cfg.UploadURLPrefix, cfg.UploadMaxDimension)
	require.NoError(t, err)

	svc := services.New(db)
	return &testEnv{
		router: SetupRouter(Deps{Config: cfg, DB: db, Services: svc, Images: images, LogOutput: io.Discard}),
		svc:    svc,
	}
}

func (e *testEnv) send(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) json(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return e.send(req)
}

func (e *testEnv) form(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.send(req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorResponse struct {
	Errors    []string `json:"errors"`
	RequestID string   `json:"request_id"`
}

func TestTruckAPILifecycle(t *testing.T) {
	env := newTestEnv(t)

	w := env.json(t, http.MethodPost, "/api/Trucks/Create", map[string]interface{}{
		"model":                 "Volvo FH16",
		"mileage":               1200,
		"last_maintenance_date": "2024-05-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[services.TruckDTO](t, w)
	location := w.Header().Get("Location")
	assert.Equal(t, "/api/Trucks/1", location)

	w = env.json(t, http.MethodGet, location, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[services.TruckDTO](t, w))

	edit := created
	edit.ID = 2
	w = env.json(t, http.MethodPut, "/api/Trucks/1", edit)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Truck ID mismatch."}, decode[errorResponse](t, w).Errors)

	edit = created
	edit.Mileage = 1500
	w = env.json(t, http.MethodPut, "/api/Trucks/1", edit)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// Same version again is now stale.
	w = env.json(t, http.MethodPut, "/api/Trucks/1", edit)
	assert.Equal(t, http.StatusConflict, w.Code)

	for _, path := range []string{"/api/Trucks/list", "/api/Trucks/List"} {
		w = env.json(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		trucks := decode[[]services.TruckDTO](t, w)
		require.Len(t, trucks, 1)
		assert.Equal(t, 1500.0, trucks[0].Mileage)
	}

	w = env.json(t, http.MethodDelete, "/api/Trucks/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.json(t, http.MethodGet, "/api/Trucks/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"Truck with ID 1 not found."}, decode[errorResponse](t, w).Errors)
}

func TestAPIBadInput(t *testing.T) {
	env := newTestEnv(t)

	w := env.json(t, http.MethodPost, "/api/Drivers/Create", map[string]interface{}{"license_number": "DL-1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"name is a required field"}, decode[errorResponse](t, w).Errors)

	req := httptest.NewRequest(http.MethodPost, "/api/Customer/Create", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w = env.send(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.json(t, http.MethodGet, "/api/Drivers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.json(t, http.MethodGet, "/api/Customer/42", nil, "X-Request-ID", "trace-1")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "trace-1", decode[errorResponse](t, w).RequestID)
}

func TestAssignmentAPI(t *testing.T) {
	env := newTestEnv(t)

	w := env.json(t, http.MethodPost, "/api/Drivers/Create", map[string]interface{}{"name": "Amina", "license_number": "DL-9"})
	require.Equal(t, http.StatusCreated, w.Code)
	driver := decode[services.DriverDTO](t, w)

	w = env.json(t, http.MethodPost, "/api/Trucks/Create", map[string]interface{}{
		"model": "MAN TGX", "last_maintenance_date": "2024-02-02", "assigned_driver_id": driver.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	truck := decode[services.TruckDTO](t, w)

	w = env.json(t, http.MethodPost, "/api/Shipments/Create", map[string]interface{}{
		"origin": "Kisumu", "destination": "Eldoret", "distance": 110, "status": "Pending", "truck_id": truck.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	shipment := decode[services.ShipmentDTO](t, w)

	assignment := map[string]interface{}{"driver_id": driver.ID, "shipment_id": shipment.ID, "role": "Lead"}
	w = env.json(t, http.MethodPost, "/api/DriverShipments/Assign", assignment)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "/api/DriverShipments/1", w.Header().Get("Location"))

	w = env.json(t, http.MethodPost, "/api/DriverShipments/Assign", assignment)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"This driver is already assigned to this shipment."}, decode[errorResponse](t, w).Errors)

	w = env.json(t, http.MethodGet, "/api/Shipments/1/drivers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]services.DriverDTO](t, w), 1)

	w = env.json(t, http.MethodGet, "/api/Drivers/1/shipments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]services.ShipmentDTO](t, w), 1)

	w = env.json(t, http.MethodGet, "/api/Drivers/1/truck", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, truck.ID, decode[services.TruckDTO](t, w).ID)

	w = env.json(t, http.MethodGet, "/api/Trucks/1/shipments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]services.ShipmentDTO](t, w), 1)

	w = env.json(t, http.MethodGet, "/api/DriverShipments/Find?driver_id=1&shipment_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Amina", decode[services.AssignmentDTO](t, w).DriverName)

	w = env.json(t, http.MethodDelete, "/api/Drivers/1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[errorResponse](t, w).Errors[0], "Please unassign shipments first.")

	w = env.json(t, http.MethodDelete, "/api/DriverShipments/Unassign?driver_id=1&shipment_id=1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.json(t, http.MethodDelete, "/api/DriverShipments/Unassign?driver_id=1&shipment_id=1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []string{"Assignment not found."}, decode[errorResponse](t, w).Errors)

	w = env.json(t, http.MethodDelete, "/api/Drivers/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.json(t, http.MethodGet, "/api/Trucks/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[services.TruckDTO](t, w).AssignedDriverID)
}

func pngUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestUploadTruckImage(t *testing.T) {
	env := newTestEnv(t)
	w := env.json(t, http.MethodPost, "/api/Trucks/Create", map[string]interface{}{
		"model": "Isuzu FVZ", "last_maintenance_date": "2024-06-30",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body, contentType := pngUpload(t, "truck.png", encodePNG(t, 200, 100))
	req := httptest.NewRequest(http.MethodPost, "/api/Trucks/UploadImage/1", body)
	req.Header.Set("Content-Type", contentType)
	w = env.send(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	truck := decode[services.TruckDTO](t, w)
	require.NotNil(t, truck.TruckImagePath)
	assert.True(t, strings.HasPrefix(*truck.TruckImagePath, "/uploads/trucks/truck_1_"))

	w = env.send(httptest.NewRequest(http.MethodGet, *truck.TruckImagePath, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// PUT cannot move or clear the stored photo.
	edit := truck
	edit.Mileage = 42
	edit.TruckImagePath = nil
	w = env.json(t, http.MethodPut, "/api/Trucks/1", edit)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	w = env.json(t, http.MethodGet, "/api/Trucks/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, truck.TruckImagePath, decode[services.TruckDTO](t, w).TruckImagePath)
	w = env.send(httptest.NewRequest(http.MethodGet, *truck.TruckImagePath, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	body, contentType = pngUpload(t, "notes.txt", []byte("plain text"))
	req = httptest.NewRequest(http.MethodPost, "/api/Trucks/UploadImage/1", body)
	req.Header.Set("Content-Type", contentType)
	w = env.send(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, contentType = pngUpload(t, "truck.png", encodePNG(t, 10, 10))
	req = httptest.NewRequest(http.MethodPost, "/api/Trucks/UploadImage/99", body)
	req.Header.Set("Content-Type", contentType)
	w = env.send(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateMissingRowAnswers404(t *testing.T) {
	env := newTestEnv(t)

	w := env.json(t, http.MethodPut, "/api/Shipments/999", map[string]interface{}{
		"id": 999, "origin": "Kisumu", "destination": "Nakuru", "status": "Pending", "truck_id": 42,
	})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	w = env.json(t, http.MethodPut, "/api/Trucks/999", map[string]interface{}{
		"id": 999, "model": "MAN", "last_maintenance_date": "2024-01-01", "assigned_driver_id": 77,
	})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	w = env.json(t, http.MethodPut, "/api/DriverShipments/999", map[string]interface{}{
		"id": 999, "driver_id": 1, "shipment_id": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.json(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode[map[string]interface{}](t, w)["status"])
}

func TestAuthProtectsWrites(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.AuthEnabled = true
		cfg.AdminPasswordHash = string(hash)
	})

	driver := map[string]interface{}{"name": "Otieno", "license_number": "DL-5"}
	w := env.json(t, http.MethodPost, "/api/Drivers/Create", driver)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.json(t, http.MethodGet, "/api/Drivers/list", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.json(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.json(t, http.MethodPost, "/auth/login", map[string]string{"email": "admin@example.com", "password": "s3cret"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[map[string]string](t, w)["token"]
	require.NotEmpty(t, token)

	w = env.json(t, http.MethodPost, "/api/Drivers/Create", driver, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.form("/DriverPage/Add", url.Values{"name": {"Wanjiru"}, "license_number": {"DL-6"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPages(t *testing.T) {
	env := newTestEnv(t)

	w := env.form("/DriverPage/Add", url.Values{"name": {"Amina"}, "license_number": {"DL-1"}, "contact_number": {"0711"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/DriverPage/Details/1", w.Header().Get("Location"))

	w = env.form("/DriverPage/Add", url.Values{"name": {"Copy"}, "license_number": {"DL-1"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	w = env.form("/TruckPage/Add", url.Values{"model": {"Scania"}, "mileage": {"10"}, "last_maintenance_date": {"2024-04-04"}, "assigned_driver_id": {"1"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	w = env.form("/TruckPage/Add", url.Values{"model": {""}, "last_maintenance_date": {"2024-04-04"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "model is a required field")

	w = env.form("/ShipmentPage/Add", url.Values{"origin": {"Nakuru"}, "destination": {"Thika"}, "distance": {"150"}, "status": {"Pending"}, "truck_id": {"1"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	w = env.form("/ShipmentPage/Assign/1", url.Values{"driver_id": {"1"}, "role": {"Lead"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	w = env.form("/ShipmentPage/Assign/1", url.Values{"driver_id": {"1"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "This driver is already assigned to this shipment.")

	w = env.send(httptest.NewRequest(http.MethodGet, "/ShipmentPage/Details/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Amina")

	w = env.form("/DriverPage/Delete/1", url.Values{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please unassign shipments first.")

	w = env.form("/ShipmentPage/Unassign/1", url.Values{"driver_id": {"1"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	for _, path := range []string{"/", "/TruckPage/List", "/TruckPage/Details/1", "/TruckPage/Edit/1",
		"/DriverPage/List", "/DriverPage/Details/1", "/ShipmentPage/List", "/ShipmentPage/ForTruck/1",
		"/ShipmentPage/ForDriver/1", "/ShipmentPage/New", "/TruckPage/ConfirmDelete/1", "/Login"} {
		w = env.send(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w = env.send(httptest.NewRequest(http.MethodGet, "/DriverPage/Details/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.form("/TruckPage/Delete/1", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/TruckPage/List", w.Header().Get("Location"))

	w = env.send(httptest.NewRequest(http.MethodGet, "/ShipmentPage/Details/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTruckPageUpdateWithPhoto(t *testing.T) {
	env := newTestEnv(t)
	w := env.form("/TruckPage/Add", url.Values{"model": {"DAF XF"}, "last_maintenance_date": {"2024-01-10"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{"model": "DAF XG", "mileage": "50", "last_maintenance_date": "2024-02-10", "version": "1"} {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("TruckPhoto", "daf.png")
	require.NoError(t, err)
	_, err = part.Write(encodePNG(t, 20, 20))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/TruckPage/Update/1", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = env.send(req)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	w = env.json(t, http.MethodGet, "/api/Trucks/1", nil)
	truck := decode[services.TruckDTO](t, w)
	assert.Equal(t, "DAF XG", truck.Model)
	assert.Equal(t, "2024-02-10", truck.LastMaintenanceDate)
	require.NotNil(t, truck.TruckImagePath)
	// One bump for the field update, one for the new photo.
	assert.Equal(t, uint(3), truck.Version)

	w = env.send(httptest.NewRequest(http.MethodGet, *truck.TruckImagePath, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.form("/TruckPage/Update/1", url.Values{
		"model": {"DAF XG"}, "last_maintenance_date": {"2024-02-10"}, "version": {"three"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not a valid number")
}
