package survey

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/surveyops/respops/core"
)

type fakeSurveyRepo struct {
	surveys []Survey
	err     error
	calls   int
}

var _ Repository = (*fakeSurveyRepo)(nil)

func (r *fakeSurveyRepo) GetSurveys(context.Context) ([]Survey, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.surveys, nil
}

func (r *fakeSurveyRepo) GetSurveyByID(_ context.Context, id string) (Survey, error) {
	for _, s := range r.surveys {
		if s.ID == id {
			return s, nil
		}
	}
	return Survey{}, ErrNotFound
}

func testLogger() core.Logger {
	return core.NewConsoleLogger(log.New(os.Stdout, "test ", log.LstdFlags))
}

func TestCacheGetRefreshesOnceWithinTTL(t *testing.T) {
	repo := &fakeSurveyRepo{surveys: []Survey{
		{ID: "1", ShortName: "MBS", SurveyRef: "009"},
		{ID: "2", ShortName: "QBS", SurveyRef: "139"},
	}}
	clock := core.NewFixedClock(time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC))
	cache := NewCache(repo, clock, 10*time.Minute, testLogger())
	ctx := context.Background()

	s, ok := cache.Get(ctx, "MBS")
	if !ok || s.SurveyRef != "009" {
		t.Fatalf("Get(MBS) = %+v, %v", s, ok)
	}
	if _, ok := cache.Get(ctx, "NOPE"); ok {
		t.Error("Get(NOPE) should miss")
	}
	if repo.calls != 1 {
		t.Errorf("repo calls = %d, want 1 (fresh cache must not refetch)", repo.calls)
	}
}

func TestCacheRefreshesPastTTL(t *testing.T) {
	repo := &fakeSurveyRepo{surveys: []Survey{{ID: "1", ShortName: "MBS"}}}
	clock := &core.FixedClock{Instant: time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(repo, clock, 10*time.Minute, testLogger())
	ctx := context.Background()

	cache.Get(ctx, "MBS")
	clock.Instant = clock.Instant.Add(11 * time.Minute)
	cache.Get(ctx, "MBS")
	if repo.calls != 2 {
		t.Errorf("repo calls = %d, want 2 (stale cache must refetch)", repo.calls)
	}
}

func TestCacheKeepsLastGoodOnRefreshFailure(t *testing.T) {
	repo := &fakeSurveyRepo{surveys: []Survey{{ID: "1", ShortName: "MBS", SurveyRef: "009"}}}
	clock := &core.FixedClock{Instant: time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)}
	cache := NewCache(repo, clock, 10*time.Minute, testLogger())
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "MBS"); !ok {
		t.Fatal("initial Get(MBS) should hit")
	}

	// downstream goes away; the stale value keeps being served
	repo.err = errors.New("survey service unavailable")
	clock.Instant = clock.Instant.Add(time.Hour)

	s, ok := cache.Get(ctx, "MBS")
	if !ok || s.SurveyRef != "009" {
		t.Errorf("Get(MBS) after failed refresh = %+v, %v; want last good value", s, ok)
	}

	// an explicit Refresh still reports the failure
	if err := cache.Refresh(ctx); err == nil {
		t.Error("Refresh() should surface the downstream error")
	}
}
