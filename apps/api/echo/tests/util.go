package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	. "github.com/VenusCh001/studytracker/apps/api/echo"
	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/course"
	"github.com/VenusCh001/studytracker/core/dashboard"
	"github.com/VenusCh001/studytracker/core/planner"
	"github.com/VenusCh001/studytracker/core/progress"
	"github.com/VenusCh001/studytracker/core/project"
	"github.com/VenusCh001/studytracker/core/resource"
	"github.com/VenusCh001/studytracker/core/task"
	"github.com/VenusCh001/studytracker/core/user"
	emailsvc "github.com/VenusCh001/studytracker/services/email"
	logsvc "github.com/VenusCh001/studytracker/services/logger"
	"github.com/VenusCh001/studytracker/storage"
	inmemdb "github.com/VenusCh001/studytracker/storage/database/inmem"
	"github.com/VenusCh001/studytracker/tests"
)

const strongPwd = "Gr3en-Tea&Biscuits"

var (
	conf = &core.Config{
		AppName:         "StudyTracker",
		TestMode:        true,
		SecretKey:       "test-secret",
		FrontendBaseURL: "http://localhost:3000",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			DisableRequestLogs:        true,
			PasswordResetTimeoutDelta: time.Hour,
		},
	}

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type testApp struct {
	Server
	db   *inmemdb.DB
	cols *storage.Collections
}

func setup(t *testing.T) testApp {
	t.Helper()

	// set up DB & repos
	db := inmemdb.New()
	cols := storage.NewMemory(db)

	// set up validators
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	emailsvc.ResetSentMessages()
	taskSvc := task.NewService(cols.Tasks, mailSvc)
	courseSvc := course.NewService(cols.Courses)

	// set up server
	app := NewServer(Options{
		Conf:         conf,
		Logger:       logsvc.NewRollbarLogger(zap.NewNop().Sugar(), conf),
		Validate:     validate,
		Translator:   translator,
		Store:        cols.Store,
		UserSvc:      user.NewService(cols.Users, mailSvc, conf),
		CourseSvc:    courseSvc,
		TaskSvc:      taskSvc,
		ResourceSvc:  resource.NewService(cols.Resources),
		ProjectSvc:   project.NewService(cols.Projects),
		ProgressSvc:  progress.NewService(cols.Progress),
		DashboardSvc: dashboard.NewService(dashboard.Connected(dashboard.NewSource(cols.Dashboard()))),
		PlannerSvc:   planner.NewService(taskSvc, courseSvc),
	})
	return testApp{Server: app, db: db, cols: cols}
}

// createUser inserts an active user and returns it with a valid token.
func (app testApp) createUser(t *testing.T, uname string) (user.User, string) {
	t.Helper()
	usr := testutil.CreateUser(t, app.cols.Users, uname, uname, uname+"@test.io", strongPwd, true)
	return usr, getToken(t, usr)
}

// do performs the request and returns the recorder.
func (app testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

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

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(conf, usr)
	token, err := GenerateToken(conf, claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
