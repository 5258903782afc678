package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"sosy-match/internal/domain"
	"sosy-match/internal/repository"
	"sosy-match/internal/service"
)

// fakeTestRepo guarda tests en memoria; alcanza para el camino de submit y
// lectura del handler.
type fakeTestRepo struct {
	tests map[string]domain.PersonalityTest
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{tests: make(map[string]domain.PersonalityTest)}
}

func (f *fakeTestRepo) Upsert(_ context.Context, test domain.PersonalityTest) error {
	f.tests[test.UserID] = test
	return nil
}

func (f *fakeTestRepo) GetLatestByUserID(_ context.Context, userID string) (domain.PersonalityTest, error) {
	test, ok := f.tests[userID]
	if !ok {
		return domain.PersonalityTest{}, repository.ErrNotFound
	}
	return test, nil
}

func (f *fakeTestRepo) List(_ context.Context, _, _ int) ([]domain.PersonalityTest, error) {
	return nil, nil
}

func (f *fakeTestRepo) FindNearest(_ context.Context, _ pgvector.Vector, _ int) ([]domain.PersonalityTest, error) {
	return nil, nil
}

// Los repos de usuarios y sesiones quedan en nil: estos endpoints no los
// tocan.
func newDaylightRouterForTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	h := NewDaylightHandler(logger, service.NewDaylightService(logger, nil, newFakeTestRepo(), nil, nil))

	r := gin.New()
	r.POST("/daylight/tests", h.SubmitTest)
	r.GET("/daylight/tests/:userID/similar", h.SimilarTests)
	return r
}

func TestSubmitTest_RejectsMissingFields(t *testing.T) {
	r := newDaylightRouterForTest()

	req := httptest.NewRequest(http.MethodPost, "/daylight/tests", strings.NewReader(`{"answers": {"q1": "A"}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing user_id, got %d", rec.Code)
	}
}

func TestSubmitAndGetTest_IncludeArchetypeDescription(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	h := NewDaylightHandler(logger, service.NewDaylightService(logger, nil, newFakeTestRepo(), nil, nil))

	r := gin.New()
	r.POST("/daylight/tests", h.SubmitTest)
	r.GET("/daylight/tests/:userID", h.GetTest)

	body := `{"user_id": "u1", "answers": {"q1": "A", "q2": "A", "q3": "A"}}`
	req := httptest.NewRequest(http.MethodPost, "/daylight/tests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var submitResp struct {
		Test                 domain.PersonalityTest `json:"test"`
		ArchetypeDescription string                 `json:"archetype_description"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &submitResp); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if submitResp.ArchetypeDescription == "" {
		t.Fatalf("expected archetype description in submit response")
	}
	if submitResp.ArchetypeDescription != service.ArchetypeDescriptions[submitResp.Test.Archetype] {
		t.Fatalf("description does not match archetype %q", submitResp.Test.Archetype)
	}

	req = httptest.NewRequest(http.MethodGet, "/daylight/tests/u1", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var getResp struct {
		ArchetypeDescription string `json:"archetype_description"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &getResp); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if getResp.ArchetypeDescription != submitResp.ArchetypeDescription {
		t.Fatalf("expected same description on read, got %q", getResp.ArchetypeDescription)
	}
}

func TestSimilarTests_RejectsOutOfRangeK(t *testing.T) {
	r := newDaylightRouterForTest()

	for _, k := range []string{"0", "51", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/daylight/tests/u1/similar?k="+k, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("k=%s: expected 400, got %d", k, rec.Code)
		}
	}
}

func TestCreateEventMatching_RejectsBadEventID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	h := NewEventHandler(logger, service.NewEventMatchingService(logger, nil, nil, nil))

	r := gin.New()
	r.POST("/events/:eventID/matching", h.CreateMatching)

	req := httptest.NewRequest(http.MethodPost, "/events/not-a-number/matching", strings.NewReader(`{"target_group_size": 4, "conversation_style": "deep"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric event id, got %d", rec.Code)
	}
}
