package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
	"github.com/bonghwa-lab/bonghwa-gateway/internal/model"
	"github.com/bonghwa-lab/bonghwa-gateway/pkg/validation"
)

// ReportHandler accepts subscriber reports over HTTP and stages them for
// broker publish. Acceptance is transactional: the inbox row, the domain
// rows, and the outbox row land together or not at all.
type ReportHandler struct {
	store  repository.Store
	logger *zap.Logger
	tracer trace.Tracer
}

// NewReportHandler creates the handler.
func NewReportHandler(store repository.Store, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("external/handler"),
	}
}

// Register mounts the report endpoints behind the auth middleware.
func (h *ReportHandler) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	g := e.Group("/api/reports", auth)
	g.POST("/device-info", h.DeviceInfo)
	g.POST("/device-status", h.DeviceStatus)
	g.POST("/disaster-result", h.DisasterResult)
}

// DeviceInfoRequest registers or refreshes one terminal device.
type DeviceInfoRequest struct {
	DeviceID   string          `json:"deviceId" validate:"required"`
	DeviceInfo json.RawMessage `json:"deviceInfo" validate:"required"`
}

// DeviceInfo handles POST /api/reports/device-info.
func (h *ReportHandler) DeviceInfo(c echo.Context) error {
	ctx, span := h.tracer.Start(c.Request().Context(), "report.device_info")
	defer span.End()

	system, ok := systemFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
	}

	var req DeviceInfoRequest
	raw, ok := h.bind(c, &req)
	if !ok {
		return nil
	}

	logID, err := h.store.InsertAPIReceiveLog(ctx, system.ID, c.Path(), raw)
	if err != nil {
		h.logger.Error("api inbox insert failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	txErr := h.store.WithinTx(ctx, func(q repository.Querier) error {
		if err := q.UpsertDevice(ctx, system.ID, req.DeviceID, string(req.DeviceInfo)); err != nil {
			return err
		}
		if _, err := q.InsertReportPublishLog(ctx, logID, model.ReportDeviceInfo, "", system.Name, raw); err != nil {
			return err
		}
		return q.UpdateAPIReceiveLogStatus(ctx, logID, model.StatusSuccess, "")
	})
	return h.respond(c, ctx, logID, txErr, "device info accepted")
}

// DeviceStatusEntry is one device's snapshot in a bulk status report.
type DeviceStatusEntry struct {
	DeviceID string          `json:"deviceId" validate:"required"`
	Status   json.RawMessage `json:"status" validate:"required"`
}

// DeviceStatusRequest is a bulk device-status report.
type DeviceStatusRequest struct {
	Devices []DeviceStatusEntry `json:"devices" validate:"required,min=1,dive"`
}

// DeviceStatus handles POST /api/reports/device-status.
func (h *ReportHandler) DeviceStatus(c echo.Context) error {
	ctx, span := h.tracer.Start(c.Request().Context(), "report.device_status")
	defer span.End()

	system, ok := systemFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
	}

	var req DeviceStatusRequest
	raw, ok := h.bind(c, &req)
	if !ok {
		return nil
	}

	logID, err := h.store.InsertAPIReceiveLog(ctx, system.ID, c.Path(), raw)
	if err != nil {
		h.logger.Error("api inbox insert failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	txErr := h.store.WithinTx(ctx, func(q repository.Querier) error {
		for _, d := range req.Devices {
			if err := q.InsertDeviceStatusLog(ctx, system.ID, d.DeviceID, string(d.Status)); err != nil {
				return err
			}
		}
		if _, err := q.InsertReportPublishLog(ctx, logID, model.ReportDeviceStatus, "", system.Name, raw); err != nil {
			return err
		}
		return q.UpdateAPIReceiveLogStatus(ctx, logID, model.StatusSuccess, "")
	})
	return h.respond(c, ctx, logID, txErr, "device status accepted")
}

// DisasterResultRequest reports the handling outcome of a delivered alert.
type DisasterResultRequest struct {
	Identifier string          `json:"identifier" validate:"required"`
	Result     json.RawMessage `json:"result" validate:"required"`
}

// DisasterResult handles POST /api/reports/disaster-result. The identifier
// must belong to an alert this subscriber was delivered.
func (h *ReportHandler) DisasterResult(c echo.Context) error {
	ctx, span := h.tracer.Start(c.Request().Context(), "report.disaster_result")
	defer span.End()

	system, ok := systemFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
	}

	var req DisasterResultRequest
	raw, ok := h.bind(c, &req)
	if !ok {
		return nil
	}

	known, err := h.store.TransmitIdentifierExists(ctx, system.ID, req.Identifier)
	if err != nil {
		h.logger.Error("identifier lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if !known {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown identifier"})
	}

	logID, err := h.store.InsertAPIReceiveLog(ctx, system.ID, c.Path(), raw)
	if err != nil {
		h.logger.Error("api inbox insert failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	txErr := h.store.WithinTx(ctx, func(q repository.Querier) error {
		if _, err := q.InsertReportPublishLog(ctx, logID, model.ReportDisasterResult,
			req.Identifier, system.Name, raw); err != nil {
			return err
		}
		return q.UpdateAPIReceiveLogStatus(ctx, logID, model.StatusSuccess, "")
	})
	return h.respond(c, ctx, logID, txErr, "disaster result accepted")
}

// bind decodes and validates the request body, returning the raw body for
// inbox/outbox storage. On failure the 400 response has already been written
// and ok is false; callers must return without touching the store.
func (h *ReportHandler) bind(c echo.Context, req any) (raw string, ok bool) {
	var body json.RawMessage
	if err := c.Bind(&body); err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", false
	}
	if err := json.Unmarshal(body, req); err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return "", false
	}
	if err := validation.Validate(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, map[string]any{
			"error":   "validation failed",
			"details": validation.Fields(err),
		})
		return "", false
	}
	return string(body), true
}

// respond settles the inbox row and writes the HTTP reply. A failed staging
// transaction leaves its FAILED mark outside the rolled-back transaction.
func (h *ReportHandler) respond(c echo.Context, ctx context.Context, logID int64, txErr error, message string) error {
	if txErr != nil {
		h.logger.Error("report staging failed", zap.Int64("log_id", logID), zap.Error(txErr))
		if err := h.store.UpdateAPIReceiveLogStatus(ctx, logID, model.StatusFailed, txErr.Error()); err != nil {
			h.logger.Error("api inbox status update failed", zap.Int64("log_id", logID), zap.Error(err))
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": message})
}
