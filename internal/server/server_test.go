package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/nvillagra/prodtrack/internal/assistant"
	"github.com/nvillagra/prodtrack/internal/clock"
	intentdomain "github.com/nvillagra/prodtrack/internal/intent/domain"
	"github.com/nvillagra/prodtrack/internal/metrics"
	"github.com/nvillagra/prodtrack/internal/overview"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	settingsdomain "github.com/nvillagra/prodtrack/internal/settings/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChecker struct {
	online bool
}

func (f *fakeChecker) Online(ctx context.Context) bool { return f.online }

type recordsStub struct {
	node      *snowflake.Node
	records   []recorddomain.Record
	importErr error
}

func (r *recordsStub) List(ctx context.Context) []recorddomain.Record { return r.records }

func (r *recordsStub) Add(ctx context.Context, req recorddomain.AddRequest) ([]recorddomain.Record, error) {
	if !req.Type.Valid() {
		return nil, recorddomain.ErrInvalidType
	}
	if req.Quantity < 1 {
		return nil, recorddomain.ErrInvalidQuantity
	}
	for i := 0; i < req.Quantity; i++ {
		r.records = append(r.records, recorddomain.Record{
			ID:     r.node.Generate(),
			Type:   req.Type,
			Amount: decimal.NewFromInt(7),
			Date:   "2026-03-15",
		})
	}
	return r.records, nil
}

func (r *recordsStub) Delete(ctx context.Context, id snowflake.ID) []recorddomain.Record {
	filtered := r.records[:0]
	for _, record := range r.records {
		if record.ID != id {
			filtered = append(filtered, record)
		}
	}
	r.records = filtered
	return r.records
}

func (r *recordsStub) ExportBackup() ([]byte, error) { return json.Marshal(r.records) }

func (r *recordsStub) ImportBackup(payload []byte) error { return r.importErr }

type settingsStub struct {
	saved   *settingsdomain.Settings
	saveErr error
}

func (s *settingsStub) Load() settingsdomain.Settings {
	if s.saved != nil {
		return *s.saved
	}
	return settingsdomain.Settings{Nickname: "Técnico", Theme: settingsdomain.ThemeDark}
}

func (s *settingsStub) Save(settings settingsdomain.Settings) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = &settings
	return nil
}

func (s *settingsStub) EffectivePrice(recorddomain.InstallationType) decimal.Decimal {
	return decimal.NewFromInt(7)
}

type extractorStub struct {
	extraction intentdomain.Extraction
	pingErr    error
}

func (e *extractorStub) Extract(ctx context.Context, text string, recent []recorddomain.Record, history []intentdomain.Turn) (intentdomain.Extraction, error) {
	return e.extraction, nil
}

func (e *extractorStub) Ping(ctx context.Context) error { return e.pingErr }

func setupServer(t *testing.T) (*Server, *recordsStub, *settingsStub, *extractorStub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	log := zap.NewNop()
	records := &recordsStub{node: node}
	settings := &settingsStub{}
	extractor := &extractorStub{extraction: intentdomain.Extraction{Intent: intentdomain.IntentGeneralChat, Reply: "hola"}}
	checker := &fakeChecker{online: true}
	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	controller := assistant.NewController(assistant.ControllerParam{
		Log:       log,
		Extractor: extractor,
		Records:   records,
		Checker:   checker,
		Clock:     fakeClock,
	})
	overviewSvc := overview.NewService(overview.ServiceParam{
		Records:  records,
		Settings: settings,
		Clock:    fakeClock,
	})

	engine := NewEngine(log, metrics.New())
	srv := NewServer(ServerParams{
		Gin:         engine,
		RecordSvc:   records,
		Settings:    settings,
		OverviewSvc: overviewSvc,
		Controller:  controller,
		Checker:     checker,
	})
	return srv, records, settings, extractor
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestAddAndListRecords(t *testing.T) {
	srv, _, _, _ := setupServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/records", `{"type":"residential","quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, srv, http.MethodGet, "/api/records", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []recorddomain.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	require.Equal(t, recorddomain.TypeResidential, resp.Data[0].Type)
}

func TestAddRecordsValidationMapsTo400(t *testing.T) {
	srv, _, _, _ := setupServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/records", `{"type":"SOLAR","quantity":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "validation_error")

	w = doRequest(t, srv, http.MethodPost, "/api/records", `{"type":"POLE","quantity":0}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodPost, "/api/records", `not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteRecord(t *testing.T) {
	srv, records, _, _ := setupServer(t)

	_, err := records.Add(context.Background(), recorddomain.AddRequest{Type: recorddomain.TypePole, Quantity: 1})
	require.NoError(t, err)
	id := records.records[0].ID

	w := doRequest(t, srv, http.MethodDelete, "/api/records/"+id.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, records.records)

	w = doRequest(t, srv, http.MethodDelete, "/api/records/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	srv, _, settings, _ := setupServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Técnico")

	w = doRequest(t, srv, http.MethodPut, "/api/settings", `{"nickname":"Nico","theme":"light"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, settings.saved)
	require.Equal(t, "Nico", settings.saved.Nickname)

	settings.saveErr = settingsdomain.ErrInvalidTheme
	w = doRequest(t, srv, http.MethodPut, "/api/settings", `{"theme":"sepia"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEndpoint(t *testing.T) {
	srv, _, _, _ := setupServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/chat", `{"text":"hola"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "hola")

	w = doRequest(t, srv, http.MethodPost, "/api/chat", `{"text":"  "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/api/chat/transcript", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "IDLE")

	w = doRequest(t, srv, http.MethodPost, "/api/chat/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestValidateAPIKeyEndpoint(t *testing.T) {
	srv, _, _, extractor := setupServer(t)

	w := doRequest(t, srv, http.MethodPost, "/api/settings/validate-key", "")
	require.Equal(t, http.StatusOK, w.Code)

	extractor.pingErr = intentdomain.ErrInvalidCredential
	w = doRequest(t, srv, http.MethodPost, "/api/settings/validate-key", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportCSVEndpoint(t *testing.T) {
	srv, records, _, _ := setupServer(t)
	_, err := records.Add(context.Background(), recorddomain.AddRequest{Type: recorddomain.TypeResidential, Quantity: 1})
	require.NoError(t, err)

	w := doRequest(t, srv, http.MethodGet, "/api/export/csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, w.Body.String(), "Fecha,Hora,Tipo,Monto,ID")
	require.Contains(t, w.Body.String(), "Residencial")
}

func TestBackupEndpoints(t *testing.T) {
	srv, records, _, _ := setupServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/backup", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, http.MethodPost, "/api/backup", `[]`)
	require.Equal(t, http.StatusOK, w.Code)

	records.importErr = recorddomain.ErrInvalidBackup
	w = doRequest(t, srv, http.MethodPost, "/api/backup", `garbage`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOverviewAndStatusEndpoints(t *testing.T) {
	srv, _, _, _ := setupServer(t)

	w := doRequest(t, srv, http.MethodGet, "/api/overview", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "2026-03")

	w = doRequest(t, srv, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "true")

	w = doRequest(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
}
