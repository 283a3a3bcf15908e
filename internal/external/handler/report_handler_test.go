package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/handler"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository/mock"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
)

var testSystem = repository.ExternalSystem{
	ID:     42,
	Name:   "ess-one",
	APIKey: "key-one",
	Active: true,
}

func newServer(t *testing.T) (*echo.Echo, *mock.MockStore) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	e := echo.New()
	h := handler.NewReportHandler(store, zap.NewNop())
	h.Register(e, handler.APIKeyAuth(store, zap.NewNop()))
	return e, store
}

func expectAuth(store *mock.MockStore) {
	store.EXPECT().GetExternalSystemByCredentials(gomock.Any(), "ess-one", "key-one").
		Return(testSystem, nil)
}

func passThroughTx(store *mock.MockStore) {
	store.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(q repository.Querier) error) error {
			return fn(store)
		})
}

func doPost(e *echo.Echo, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authed {
		req.Header.Set("x-system-name", "ess-one")
		req.Header.Set("x-api-key", "key-one")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyAuth_MissingCredentials(t *testing.T) {
	e, _ := newServer(t)

	rec := doPost(e, "/api/reports/device-info", `{}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing credentials"}`, rec.Body.String())
}

func TestAPIKeyAuth_InvalidCredentials(t *testing.T) {
	e, store := newServer(t)
	store.EXPECT().GetExternalSystemByCredentials(gomock.Any(), "ess-one", "key-one").
		Return(repository.ExternalSystem{}, repository.ErrNotFound)

	rec := doPost(e, "/api/reports/device-info", `{}`, true)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())
}

func TestDeviceInfo_Accepted(t *testing.T) {
	e, store := newServer(t)
	body := `{"deviceId":"DEV-1","deviceInfo":{"model":"BH-100"}}`

	expectAuth(store)
	store.EXPECT().InsertAPIReceiveLog(gomock.Any(), int64(42), "/api/reports/device-info", body).
		Return(int64(9), nil)
	passThroughTx(store)
	store.EXPECT().UpsertDevice(gomock.Any(), int64(42), "DEV-1", `{"model":"BH-100"}`).Return(nil)
	store.EXPECT().InsertReportPublishLog(gomock.Any(), int64(9), model.ReportDeviceInfo,
		"", "ess-one", body).Return(int64(1), nil)
	store.EXPECT().UpdateAPIReceiveLogStatus(gomock.Any(), int64(9), model.StatusSuccess, "").Return(nil)

	rec := doPost(e, "/api/reports/device-info", body, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"device info accepted"}`, rec.Body.String())
}

func TestDeviceInfo_ValidationFailure(t *testing.T) {
	e, store := newServer(t)
	expectAuth(store)

	rec := doPost(e, "/api/reports/device-info", `{"deviceInfo":{"model":"BH-100"}}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	assert.Contains(t, resp.Details, "deviceId")
}

func TestDeviceInfo_MalformedBodyNeverReachesStore(t *testing.T) {
	e, store := newServer(t)
	expectAuth(store)

	// Only the auth expectation above: the store must not see the request.
	rec := doPost(e, "/api/reports/device-info", "not json", true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid request body"}`, rec.Body.String())
}

func TestDisasterResult_ValidationFailureNeverReachesStore(t *testing.T) {
	e, store := newServer(t)
	expectAuth(store)

	rec := doPost(e, "/api/reports/disaster-result", `{"identifier":"KR.CAS.ALERT.1"}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation failed", resp.Error)
	assert.Contains(t, resp.Details, "result")
}

func TestDeviceInfo_StagingFailureMarksInbox(t *testing.T) {
	e, store := newServer(t)
	body := `{"deviceId":"DEV-1","deviceInfo":{"model":"BH-100"}}`

	expectAuth(store)
	store.EXPECT().InsertAPIReceiveLog(gomock.Any(), int64(42), "/api/reports/device-info", body).
		Return(int64(10), nil)
	passThroughTx(store)
	store.EXPECT().UpsertDevice(gomock.Any(), int64(42), "DEV-1", gomock.Any()).
		Return(errors.New("connection reset"))
	store.EXPECT().UpdateAPIReceiveLogStatus(gomock.Any(), int64(10), model.StatusFailed, "connection reset").Return(nil)

	rec := doPost(e, "/api/reports/device-info", body, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeviceStatus_Accepted(t *testing.T) {
	e, store := newServer(t)
	body := `{"devices":[{"deviceId":"DEV-1","status":{"power":"on"}},{"deviceId":"DEV-2","status":{"power":"off"}}]}`

	expectAuth(store)
	store.EXPECT().InsertAPIReceiveLog(gomock.Any(), int64(42), "/api/reports/device-status", body).
		Return(int64(11), nil)
	passThroughTx(store)
	store.EXPECT().InsertDeviceStatusLog(gomock.Any(), int64(42), "DEV-1", `{"power":"on"}`).Return(nil)
	store.EXPECT().InsertDeviceStatusLog(gomock.Any(), int64(42), "DEV-2", `{"power":"off"}`).Return(nil)
	store.EXPECT().InsertReportPublishLog(gomock.Any(), int64(11), model.ReportDeviceStatus,
		"", "ess-one", body).Return(int64(2), nil)
	store.EXPECT().UpdateAPIReceiveLogStatus(gomock.Any(), int64(11), model.StatusSuccess, "").Return(nil)

	rec := doPost(e, "/api/reports/device-status", body, true)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeviceStatus_EmptyDevicesRejected(t *testing.T) {
	e, store := newServer(t)
	expectAuth(store)

	rec := doPost(e, "/api/reports/device-status", `{"devices":[]}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDisasterResult_Accepted(t *testing.T) {
	e, store := newServer(t)
	body := `{"identifier":"KR.CAS.ALERT.1","result":{"handled":true}}`

	expectAuth(store)
	store.EXPECT().TransmitIdentifierExists(gomock.Any(), int64(42), "KR.CAS.ALERT.1").
		Return(true, nil)
	store.EXPECT().InsertAPIReceiveLog(gomock.Any(), int64(42), "/api/reports/disaster-result", body).
		Return(int64(12), nil)
	passThroughTx(store)
	store.EXPECT().InsertReportPublishLog(gomock.Any(), int64(12), model.ReportDisasterResult,
		"KR.CAS.ALERT.1", "ess-one", body).Return(int64(3), nil)
	store.EXPECT().UpdateAPIReceiveLogStatus(gomock.Any(), int64(12), model.StatusSuccess, "").Return(nil)

	rec := doPost(e, "/api/reports/disaster-result", body, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"disaster result accepted"}`, rec.Body.String())
}

func TestDisasterResult_UnknownIdentifier(t *testing.T) {
	e, store := newServer(t)
	body := `{"identifier":"KR.CAS.ALERT.404","result":{"handled":true}}`

	expectAuth(store)
	store.EXPECT().TransmitIdentifierExists(gomock.Any(), int64(42), "KR.CAS.ALERT.404").
		Return(false, nil)

	rec := doPost(e, "/api/reports/disaster-result", body, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"unknown identifier"}`, rec.Body.String())
}
