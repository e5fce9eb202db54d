package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/jifunze/apps/api/echo"
	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/board"
	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/grading"
	"github.com/trezcool/jifunze/core/profile"
	"github.com/trezcool/jifunze/core/progress"
	"github.com/trezcool/jifunze/core/reward"
	"github.com/trezcool/jifunze/core/user"
	emailsvc "github.com/trezcool/jifunze/services/email"
	logsvc "github.com/trezcool/jifunze/services/logger"
	inmemdb "github.com/trezcool/jifunze/storage/database/inmem"
)

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

// testApp wires the full server over the in-memory store; each test gets a
// fresh one so state never leaks between tests.
type testApp struct {
	server      *echoapi.Server
	db          *inmemdb.DB
	usrRepo     user.Repository
	contentRepo content.Repository
	usrSvc      *user.Service
	contentSvc  *content.Service
	profileSvc  *profile.Service
	progressSvc *progress.Service
	gradingSvc  *grading.Service
	rewardSvc   *reward.Service
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "TEST : ", log.LstdFlags),
		conf,
	)
	logger.Enable(false)

	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	contentRepo := inmemdb.NewContentRepository(db)
	contentSvc := content.NewService(contentRepo)
	profileSvc := profile.NewService(inmemdb.NewProfileRepository(db))
	progressSvc := progress.NewService(inmemdb.NewProgressRepository(db), contentRepo)
	rewardSvc := reward.NewService(inmemdb.NewRewardRepository(db), contentRepo)
	gradingSvc := grading.NewService(db, inmemdb.NewGradingRepository(db), contentRepo, profileSvc, progressSvc, rewardSvc)
	boardSvc := board.NewService(inmemdb.NewBoardRepository(db))
	usrSvc := user.NewService(usrRepo, profileSvc, emailsvc.NewConsoleServiceMock(conf), conf)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	content.InitValidators(validate, translator)

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			UserSvc:     usrSvc,
			ContentSvc:  contentSvc,
			ProfileSvc:  profileSvc,
			ProgressSvc: progressSvc,
			GradingSvc:  gradingSvc,
			RewardSvc:   rewardSvc,
			BoardSvc:    boardSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)
	return &testApp{
		server:      server,
		db:          db,
		usrRepo:     usrRepo,
		contentRepo: contentRepo,
		usrSvc:      usrSvc,
		contentSvc:  contentSvc,
		profileSvc:  profileSvc,
		progressSvc: progressSvc,
		gradingSvc:  gradingSvc,
		rewardSvc:   rewardSvc,
	}
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
	t.Helper()

	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
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
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody(): %v; body %s", err, rec.Body.String())
	}
}
