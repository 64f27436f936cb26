package router

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"salon_crm_backend/internal/models"
	"salon_crm_backend/internal/repositories"
	"salon_crm_backend/internal/services"
	"salon_crm_backend/pkg/utils"
)

const (
	adminEmail     = "admin@salon.test"
	receptionEmail = "front@salon.test"
	password       = "secret-pass"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accounts, err := repositories.NewStaticAccountRepository([]repositories.AccountSeed{
		{Email: adminEmail, Password: password, Name: "Super Admin", Role: models.RoleSuperAdmin},
		{Email: receptionEmail, Password: password, Name: "Receptionist", Role: models.RoleReceptionist},
	}, bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := utils.NewTokenManager("router-test-secret", time.Hour)
	require.NoError(t, err)
	uploadDir := t.TempDir()
	uploads, err := services.NewUploadService(uploadDir, 1<<20)
	require.NoError(t, err)
	staff, err := repositories.NewMemoryStaffRepository(repositories.SampleStaff()...)
	require.NoError(t, err)

	engine := gin.New()
	Setup(engine, Dependencies{
		Customers:   repositories.NewMemoryCustomerRepository(),
		Staff:       staff,
		Accounts:    accounts,
		Pinger:      repositories.NewMemoryPinger(),
		Tokens:      tokens,
		Uploads:     uploads,
		UploadDir:   uploadDir,
		Location:    time.UTC,
		Attribution: models.AttributionFull,
		Backend:     "memory",
	})
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, engine *gin.Engine, email string) string {
	t.Helper()
	w := do(t, engine, http.MethodPost, "/api/v1/auth/login", "", models.Credentials{Email: email, Password: password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestPublicRoutes(t *testing.T) {
	engine := newTestEngine(t)

	w := do(t, engine, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())

	w = do(t, engine, http.MethodGet, "/api/v1/health/db", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"backend":"memory","status":"ok"}`, w.Body.String())

	w = do(t, engine, http.MethodPost, "/api/v1/auth/login", "", models.Credentials{Email: adminEmail, Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	engine := newTestEngine(t)

	w := do(t, engine, http.MethodGet, "/api/v1/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/customers", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, engine, receptionEmail)
	w = do(t, engine, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.RoleReceptionist)
}

func TestStaffWritesNeedSuperAdmin(t *testing.T) {
	engine := newTestEngine(t)
	newMember := services.CreateStaffMemberRequest{Name: "Meera Nair", Position: "Stylist"}

	reception := login(t, engine, receptionEmail)
	w := do(t, engine, http.MethodGet, "/api/v1/staff?active=true", reception, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var active []models.StaffMember
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &active))
	assert.Len(t, active, 4)

	w = do(t, engine, http.MethodPost, "/api/v1/staff", reception, newMember)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := login(t, engine, adminEmail)
	w = do(t, engine, http.MethodPost, "/api/v1/staff", admin, newMember)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/staff", admin, newMember)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCustomerReportAndExportFlow(t *testing.T) {
	engine := newTestEngine(t)
	token := login(t, engine, receptionEmail)

	visits := []services.CustomerRequest{
		{Name: "Asha", Contact: "9876543210", Services: []string{"Hair Cut"}, Amount: 100, PaymentType: "CASH",
			VisitDate: ptrTime(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))},
		{Name: "Bina", Contact: "9876543211", Services: []string{"Hair Cut", "Facial"}, Amount: 200, PaymentType: "UPI",
			ServiceTakenBy: models.NewStaffNames("Priya Sharma"), VisitDate: ptrTime(time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))},
	}
	var created []models.Customer
	for _, v := range visits {
		w := do(t, engine, http.MethodPost, "/api/v1/customers", token, v)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var c models.Customer
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c))
		created = append(created, c)
	}

	w := do(t, engine, http.MethodPost, "/api/v1/customers", token, services.CustomerRequest{Name: "Bad", Contact: "123", Services: []string{"X"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/customers?staff=Priya%20Sharma", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data     []models.Customer `json:"data"`
		Total    int               `json:"total"`
		Page     int               `json:"page"`
		PageSize int               `json:"page_size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 50, page.PageSize)

	w = do(t, engine, http.MethodGet, "/api/v1/reports?start_date=2024-01-01&end_date=2024-01-02", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 300.0, report.TotalAmount)
	assert.Equal(t, 2, report.TotalCustomers)
	require.Len(t, report.DailyData, 2)

	w = do(t, engine, http.MethodGet, "/api/v1/reports?start_date=2024-01-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/reports?start_date=0002-01-01&end_date=9999-12-31", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodGet, "/api/v1/export?format=csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Name,Contact,Email"))

	w = do(t, engine, http.MethodGet, "/api/v1/export?format=pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodPost, "/api/v1/customers/bulk-delete", token, map[string][]string{"ids": {created[0].ID, "missing"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":1,"failed":["missing"]}`, w.Body.String())

	w = do(t, engine, http.MethodGet, "/api/v1/customers/"+created[0].ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportAndTemplate(t *testing.T) {
	engine := newTestEngine(t)
	token := login(t, engine, adminEmail)

	w := do(t, engine, http.MethodGet, "/api/v1/import/template", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	template := w.Body.Bytes()

	body, contentType := multipartBody(t, "template.csv", template)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Success)

	body, contentType = multipartBody(t, "notes.txt", []byte("hello"))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadAndServe(t *testing.T) {
	engine := newTestEngine(t)
	token := login(t, engine, receptionEmail)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	body, contentType := multipartBody(t, "face.png", img.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.UploadResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)

	w := do(t, engine, http.MethodGet, result.URL, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	body, contentType = multipartBody(t, "doc.png", []byte("plain text pretending to be png"))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func ptrTime(t time.Time) *time.Time { return &t }
