package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/bell"
	"github.com/trezcool/shkola/core/calendar"
	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/order"
	"github.com/trezcool/shkola/core/schedule"
	"github.com/trezcool/shkola/core/ticket"
	"github.com/trezcool/shkola/core/user"
	emailsvc "github.com/trezcool/shkola/services/email"
	inmemdb "github.com/trezcool/shkola/storage/database/inmem"
	"github.com/trezcool/shkola/testutil"
)

const testPassword = "Lesson-Plan-42"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

// testApp is a Server over fresh in-memory repositories.
type testApp struct {
	*Server
	conf    *core.Config
	db      *inmemdb.DB
	usrRepo user.Repository
	clsRepo class.Repository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := core.NewTestConfig()
	logger := testutil.NewLogger(conf)
	validate, translator := testutil.NewValidator()

	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	clsRepo := inmemdb.NewClassRepository(db)

	usrSvc := user.NewService(usrRepo, emailsvc.NewConsoleServiceMock(conf, logger), conf)
	clsSvc := class.NewService(clsRepo, usrSvc)
	schedSvc := schedule.NewService(inmemdb.NewScheduleRepository(db), inmemdb.NewTransactor(), usrSvc, clsSvc, time.UTC)

	srv := NewServer(ServerDeps{
		Conf:        conf,
		Logger:      logger,
		Validate:    validate,
		Translator:  translator,
		UserSvc:     usrSvc,
		ClassSvc:    clsSvc,
		ScheduleSvc: schedSvc,
		CalendarSvc: calendar.NewService(inmemdb.NewEventRepository(db)),
		OrderSvc:    order.NewService(inmemdb.NewOrderRepository(db), clsSvc),
		TicketSvc:   ticket.NewService(inmemdb.NewTicketRepository(db)),
		Board:       bell.NewBoard(time.UTC, 0),
	})

	emailsvc.ClearSentMessages()
	return &testApp{Server: srv, conf: conf, db: db, usrRepo: usrRepo, clsRepo: clsRepo}
}

func (app *testApp) createUser(t *testing.T, name, email string, role user.Role, isActive ...bool) user.User {
	t.Helper()
	active := true
	if len(isActive) > 0 {
		active = isActive[0]
	}
	return testutil.CreateUser(t, app.usrRepo, name, email, testPassword, role, active)
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(app.conf, GetUserClaims(app.conf, usr))
	require.NoError(t, err)
	return token
}

func (app *testApp) do(tt httpTest) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
	app.ServeHTTP(rec, req)
	return rec
}

func newAuthRequest(method, path, token string, data []byte) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func marshal(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt))
		})
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestServer_home(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(httpTest{method: http.MethodGet, path: "/"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Shkola API!", rec.Body.String())
}

func TestServer_SignalShutdown(t *testing.T) {
	app := newTestApp(t)
	app.SignalShutdown()
	app.SignalShutdown() // must not block

	select {
	case <-app.ShutdownSignal():
	default:
		t.Fatal("no shutdown signal")
	}
}

func TestServer_internalError(t *testing.T) {
	app := newTestApp(t)
	app.app.GET("/v1/broken", func(echo.Context) error {
		return errors.Wrap(errors.New("connection reset by peer"), "querying classes")
	})

	rec := app.do(httpTest{method: http.MethodGet, path: "/v1/broken"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "Internal Server Error"}`, rec.Body.String())

	// server errors are reported, never turned into a shutdown
	select {
	case sig := <-app.ShutdownSignal():
		t.Fatalf("unexpected shutdown signal %v", sig)
	default:
	}
}
