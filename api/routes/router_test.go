package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/karaoke-backend/internal/bills"
	"github.com/angelmondragon/karaoke-backend/internal/booking"
	"github.com/angelmondragon/karaoke-backend/internal/catalog"
	"github.com/angelmondragon/karaoke-backend/internal/customers"
	"github.com/angelmondragon/karaoke-backend/internal/dashboard"
	"github.com/angelmondragon/karaoke-backend/internal/discounts"
	"github.com/angelmondragon/karaoke-backend/internal/rooms"
	pkgAuth "github.com/angelmondragon/karaoke-backend/pkg/auth"
	"github.com/angelmondragon/karaoke-backend/pkg/config"
	"github.com/angelmondragon/karaoke-backend/pkg/db"
	"github.com/angelmondragon/karaoke-backend/pkg/db/dbtest"
	"github.com/angelmondragon/karaoke-backend/pkg/db/models"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
	"github.com/angelmondragon/karaoke-backend/pkg/metrics"
)

type apiFixture struct {
	handler http.Handler
	cfg     *config.Config
	room    models.Room
	svc     models.Service
}

func newFixture(t *testing.T) *apiFixture {
	t.Helper()
	conn := dbtest.Open(t)
	client := db.NewFromConn(conn)
	logg := logger.New(logger.Options{ServiceName: "api-test", Output: io.Discard})
	cfg := &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "karaoke-test", ExpirationMinutes: 60},
	}

	room := models.Room{Name: "P01", Capacity: 10, PricePerHour: decimal.NewFromInt(150000), Status: enums.RoomStatusAvailable}
	require.NoError(t, conn.Create(&room).Error)
	svc := models.Service{Name: "Bia Tiger", Unit: "Lon", Price: decimal.NewFromInt(25000)}
	require.NoError(t, conn.Create(&svc).Error)

	reg := prometheus.NewRegistry()
	roomRepo := rooms.NewRepository(conn)
	billRepo := bills.NewRepository(conn)
	engine, err := booking.NewEngine(booking.Deps{
		Tx:        client,
		Rooms:     roomRepo,
		Customers: customers.NewRepository(conn),
		Bills:     billRepo,
		Policies:  discounts.NewRepository(conn),
		Catalog:   catalog.NewRepository(conn),
		Metrics:   metrics.NewBookingMetrics(reg),
		Logger:    logg,
	})
	require.NoError(t, err)
	roomSvc, err := rooms.NewService(roomRepo)
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(catalog.NewRepository(conn))
	require.NoError(t, err)
	dashSvc, err := dashboard.NewService(roomSvc, billRepo, time.UTC)
	require.NoError(t, err)

	handler := NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		DB:        client,
		Gatherer:  reg,
		Engine:    engine,
		Rooms:     roomSvc,
		Catalog:   catalogSvc,
		Dashboard: dashSvc,
	})
	return &apiFixture{handler: handler, cfg: cfg, room: room, svc: svc}
}

func (f *apiFixture) token(t *testing.T, role enums.StaffRole) string {
	t.Helper()
	token, err := pkgAuth.MintStaffToken(f.cfg.JWT, time.Now(), pkgAuth.StaffTokenPayload{StaffID: 4, Role: role})
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	f.handler.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health/live", "", nil).Code)

	ready := f.do(t, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, ready.Code)
	var status struct {
		Checks map[string]string `json:"checks"`
	}
	decodeData(t, ready, &status)
	require.Equal(t, "ok", status.Checks["database"])
	require.Equal(t, "disabled", status.Checks["redis"])

	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/metrics", "", nil).Code)
}

func TestAPIRequiresStaffToken(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/api/v1/rooms", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	require.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestBookingToSettlementOverHTTP(t *testing.T) {
	f := newFixture(t)
	receptionist := f.token(t, enums.StaffRoleReceptionist)
	waiter := f.token(t, enums.StaffRoleService)

	resp := f.do(t, http.MethodPost, "/api/v1/bookings", receptionist, map[string]any{
		"customer_name": "Nguyễn Văn Huy",
		"phone":         "0909123456",
		"room_id":       f.room.ID,
		"num_people":    4,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var bill struct {
		ID      uint   `json:"id"`
		Status  string `json:"status"`
		StaffID uint   `json:"staff_id"`
	}
	decodeData(t, resp, &bill)
	require.Equal(t, "unpaid", bill.Status)
	require.Equal(t, uint(4), bill.StaffID)

	var roomList []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	resp = f.do(t, http.MethodGet, "/api/v1/rooms?keyword=p0", receptionist, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeData(t, resp, &roomList)
	require.Len(t, roomList, 1)
	require.Equal(t, "occupied", roomList[0].Status)

	resp = f.do(t, http.MethodGet, "/api/v1/rooms/"+itoa(f.room.ID)+"/current-bill", receptionist, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/v1/bookings", receptionist, map[string]any{
		"customer_name": "Trần Văn Khôi",
		"phone":         "0918123456",
		"room_id":       f.room.ID,
		"num_people":    2,
	})
	require.Equal(t, http.StatusConflict, resp.Code)
	require.Equal(t, "CONFLICT", errorCode(t, resp))

	itemsPath := "/api/v1/bills/" + itoa(bill.ID) + "/items"
	resp = f.do(t, http.MethodPost, itemsPath, waiter, map[string]any{"service_id": f.svc.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var item struct {
		ID        uint            `json:"id"`
		LineTotal decimal.Decimal `json:"line_total"`
	}
	decodeData(t, resp, &item)
	require.True(t, item.LineTotal.Equal(decimal.NewFromInt(50000)))

	resp = f.do(t, http.MethodGet, itemsPath, waiter, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var items booking.BillItems
	decodeData(t, resp, &items)
	require.Len(t, items.Items, 1)

	var active []bills.BillView
	resp = f.do(t, http.MethodGet, "/api/v1/bills/active", waiter, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeData(t, resp, &active)
	require.Len(t, active, 1)
	require.Equal(t, int64(1), active[0].ItemCount)

	resp = f.do(t, http.MethodGet, "/api/v1/bills/recent?limit=3", waiter, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var recent []bills.BillView
	decodeData(t, resp, &recent)
	require.Len(t, recent, 1)
	require.Equal(t, bill.ID, recent[0].BillID)

	resp = f.do(t, http.MethodGet, "/api/v1/bills/recent?limit=0", waiter, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/v1/bills/"+itoa(bill.ID)+"/preview", waiter, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/v1/bills/"+itoa(bill.ID)+"/settle", waiter, nil)
	require.Equal(t, http.StatusForbidden, resp.Code)

	resp = f.do(t, http.MethodPost, "/api/v1/bills/"+itoa(bill.ID)+"/settle", receptionist, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var snap struct {
		ServiceCharge decimal.Decimal `json:"service_charge"`
		Total         decimal.Decimal `json:"total"`
	}
	decodeData(t, resp, &snap)
	require.True(t, snap.ServiceCharge.Equal(decimal.NewFromInt(50000)))
	require.True(t, snap.Total.GreaterThanOrEqual(snap.ServiceCharge))

	resp = f.do(t, http.MethodPost, "/api/v1/bills/"+itoa(bill.ID)+"/settle", receptionist, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Equal(t, "STATE_CONFLICT", errorCode(t, resp))

	resp = f.do(t, http.MethodDelete, "/api/v1/bills/items/"+itoa(item.ID), waiter, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Equal(t, "STATE_CONFLICT", errorCode(t, resp))

	resp = f.do(t, http.MethodGet, "/api/v1/rooms/available", receptionist, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	decodeData(t, resp, &roomList)
	require.Len(t, roomList, 1)

	resp = f.do(t, http.MethodGet, "/api/v1/dashboard", receptionist, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var summary dashboard.Summary
	decodeData(t, resp, &summary)
	require.Equal(t, int64(1), summary.Rooms.Available)
	require.True(t, summary.TodayRevenue.Equal(snap.Total))
}

func TestBookingValidationErrors(t *testing.T) {
	f := newFixture(t)
	token := f.token(t, enums.StaffRoleManager)

	resp := f.do(t, http.MethodPost, "/api/v1/bookings", token, map[string]any{
		"customer_name": "A",
		"phone":         "0909123456",
		"room_id":       f.room.ID,
		"num_people":    11,
	})
	require.Equal(t, http.StatusConflict, resp.Code)
	require.Equal(t, "CAPACITY_EXCEEDED", errorCode(t, resp))

	resp = f.do(t, http.MethodPost, "/api/v1/bookings", token, map[string]any{"phone": "0909123456"})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/v1/bills/abc/preview", token, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = f.do(t, http.MethodGet, "/api/v1/bills/99/preview", token, nil)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestServicesSearch(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, http.MethodGet, "/api/v1/services?q=tiger", f.token(t, enums.StaffRoleService), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list []struct {
		Name string `json:"name"`
	}
	decodeData(t, resp, &list)
	require.Len(t, list, 1)
	require.Equal(t, "Bia Tiger", list[0].Name)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
