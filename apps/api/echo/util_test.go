package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/surveyops/respops/core"
	"github.com/surveyops/respops/core/banner"
	"github.com/surveyops/respops/core/caze"
	"github.com/surveyops/respops/core/collex"
	"github.com/surveyops/respops/core/message"
	"github.com/surveyops/respops/core/party"
	"github.com/surveyops/respops/core/survey"
	"github.com/surveyops/respops/core/user"
	dummydb "github.com/surveyops/respops/storage/database/dummy"
)

// testNow anchors every clock-dependent assertion.
var testNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func testConfig() *core.Config {
	return &core.Config{
		TestMode:  true,
		AppName:   "ResponseOps",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 24 * time.Hour,
		},
	}
}

type testEnv struct {
	server Server
	users  *user.Service
	mail   *capturingMailService
	collex *fakeCollexRepo
	caze   *fakeCaseRepo
	conf   *core.Config
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := testConfig()
	logger := core.NewConsoleLogger(log.New(ioutil.Discard, "", 0))
	clock := core.NewFixedClock(testNow)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("opening dummy db: %v", err)
	}

	collexRepo := &fakeCollexRepo{}
	caseRepo := &fakeCaseRepo{}
	surveyRepo := &fakeSurveyRepo{}
	mail := &capturingMailService{}
	usrSvc := user.NewService(dummydb.NewUserRepository(db), mail, clock, conf)

	srv := NewServer(&Options{
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		SurveySvc:      survey.NewService(surveyRepo, clock, time.Hour, logger),
		CollexSvc:      collex.NewService(collexRepo, collexRepo, collexRepo, clock),
		CaseSvc:        caze.NewService(caseRepo),
		PartySvc:       party.NewService(&fakePartyRepo{}),
		BannerSvc:      banner.NewService(dummydb.NewBannerRepository(db), clock),
		MessageSvc:     message.NewService(&fakeMessageRepo{}, &fakePartyRepo{}, noopMailService{}, clock, conf),
		Logger:         logger,
		Conf:           conf,
	})

	return &testEnv{server: srv, users: usrSvc, mail: mail, collex: collexRepo, caze: caseRepo, conf: conf}
}

func (env *testEnv) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := generateToken(getUserClaims(usr, env.conf))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
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

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

// Fakes

type noopMailService struct{}

func (noopMailService) SendMessages(...*core.EmailMessage) {}

// capturingMailService records outgoing emails synchronously so tests can
// inspect them.
type capturingMailService struct {
	mu   sync.Mutex
	sent []*core.EmailMessage
}

func (s *capturingMailService) SendMessages(msgs ...*core.EmailMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msgs...)
}

func (s *capturingMailService) messages() []*core.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*core.EmailMessage(nil), s.sent...)
}

type fakeCollexRepo struct {
	exercise collex.CollectionExercise
	events   []collex.Event
	sample   *collex.SampleSummary

	created []collex.Event
	updated []collex.Event
	deleted []collex.Tag
}

func (f *fakeCollexRepo) GetExercise(_ context.Context, id uuid.UUID) (collex.CollectionExercise, error) {
	if f.exercise.ID != id {
		return collex.CollectionExercise{}, collex.ErrNotFound
	}
	return f.exercise, nil
}

func (f *fakeCollexRepo) GetExercisesBySurvey(context.Context, string) ([]collex.CollectionExercise, error) {
	return []collex.CollectionExercise{f.exercise}, nil
}

func (f *fakeCollexRepo) GetEvents(context.Context, uuid.UUID) ([]collex.Event, error) {
	return f.events, nil
}

func (f *fakeCollexRepo) CreateEvent(_ context.Context, _ uuid.UUID, ev collex.Event) error {
	f.created = append(f.created, ev)
	return nil
}

func (f *fakeCollexRepo) UpdateEvent(_ context.Context, _ uuid.UUID, ev collex.Event) error {
	f.updated = append(f.updated, ev)
	return nil
}

func (f *fakeCollexRepo) DeleteEvent(_ context.Context, _ uuid.UUID, tag collex.Tag) error {
	f.deleted = append(f.deleted, tag)
	return nil
}

func (f *fakeCollexRepo) GetLinkedSampleSummary(context.Context, uuid.UUID) (string, bool, error) {
	if f.sample == nil {
		return "", false, nil
	}
	return f.sample.ID, true, nil
}

func (f *fakeCollexRepo) GetSampleSummary(_ context.Context, id string) (collex.SampleSummary, error) {
	if f.sample == nil || f.sample.ID != id {
		return collex.SampleSummary{}, collex.ErrSampleNotFound
	}
	return *f.sample, nil
}

type fakeCaseRepo struct {
	group       caze.CaseGroup
	transitions map[string]caze.Status

	applied []string
}

func (f *fakeCaseRepo) GetCaseGroup(_ context.Context, id uuid.UUID) (caze.CaseGroup, error) {
	if f.group.ID != id {
		return caze.CaseGroup{}, caze.ErrNotFound
	}
	return f.group, nil
}

func (f *fakeCaseRepo) GetCaseGroupsByParty(context.Context, string) ([]caze.CaseGroup, error) {
	return []caze.CaseGroup{f.group}, nil
}

func (f *fakeCaseRepo) GetAvailableTransitions(context.Context, uuid.UUID) (map[string]caze.Status, error) {
	return f.transitions, nil
}

func (f *fakeCaseRepo) ApplyTransition(_ context.Context, _ uuid.UUID, event string) error {
	f.applied = append(f.applied, event)
	return nil
}

type fakeSurveyRepo struct{}

func (fakeSurveyRepo) GetSurveys(context.Context) ([]survey.Survey, error) {
	return []survey.Survey{{ID: "s1", ShortName: "MBS", SurveyRef: "009"}}, nil
}

func (fakeSurveyRepo) GetSurveyByID(_ context.Context, id string) (survey.Survey, error) {
	return survey.Survey{ID: id, ShortName: "MBS", SurveyRef: "009"}, nil
}

type fakePartyRepo struct{}

func (fakePartyRepo) SearchBusinesses(context.Context, string) ([]party.Business, error) {
	return nil, nil
}
func (fakePartyRepo) GetBusiness(context.Context, string) (party.Business, error) {
	return party.Business{}, party.ErrBusinessNotFound
}
func (fakePartyRepo) GetRespondent(context.Context, string) (party.Respondent, error) {
	return party.Respondent{}, party.ErrRespondentNotFound
}
func (fakePartyRepo) GetRespondentByEmail(context.Context, string) (party.Respondent, error) {
	return party.Respondent{}, party.ErrRespondentNotFound
}
func (fakePartyRepo) UpdateRespondentStatus(context.Context, string, party.RespondentStatus) error {
	return nil
}
func (fakePartyRepo) UpdateEnrolmentStatus(context.Context, string, string, string, party.EnrolmentStatus) error {
	return nil
}

type fakeMessageRepo struct{}

func (fakeMessageRepo) SendMessage(_ context.Context, msg message.SecureMessage) (message.SecureMessage, error) {
	return msg, nil
}
func (fakeMessageRepo) GetThread(context.Context, uuid.UUID) ([]message.SecureMessage, error) {
	return nil, nil
}
func (fakeMessageRepo) QueryThreads(context.Context, message.ThreadFilter) ([]message.SecureMessage, error) {
	return nil, nil
}
func (fakeMessageRepo) CountUnread(context.Context) (int, error)  { return 0, nil }
func (fakeMessageRepo) MarkRead(context.Context, uuid.UUID) error { return nil }
