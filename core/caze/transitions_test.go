package caze

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
)

func TestExposedTransitions(t *testing.T) {
	available := map[string]Status{
		// exposed
		"COMPLETED_BY_PHONE":                    StatusCompletedByPhone,
		"NO_LONGER_REQUIRED":                    StatusNoLongerRequired,
		"PRIVACY_DATA_CONFIDENTIALITY_CONCERNS": StatusRefusal,
		"HARD_REFUSAL":                          StatusRefusal,
		"LACK_OF_COMPUTER_INTERNET_ACCESS":      StatusOtherNonResponse,
		"NO_TRACE_OF_ADDRESS":                   StatusUnknownEligibility,
		"OUT_OF_SCOPE":                          StatusNotEligible,

		// internal-only, never offered to operators
		"COLLECTION_INSTRUMENT_DOWNLOADED": StatusInProgress,
		"SUCCESSFUL_RESPONSE_UPLOAD":       StatusComplete,
	}

	groups := ExposedTransitions(available)

	wantCodes := []int{200, 300, 400, 500, 600, 700}
	gotCodes := make([]int, 0, len(groups))
	for _, g := range groups {
		gotCodes = append(gotCodes, g.Category.Code)
	}
	if !reflect.DeepEqual(gotCodes, wantCodes) {
		t.Fatalf("category codes = %v, want %v", gotCodes, wantCodes)
	}

	// refusals sorted alphabetically by event name within the category
	refusals := groups[2]
	if refusals.Category.Label != "Refusal" {
		t.Errorf("category label = %q, want Refusal", refusals.Category.Label)
	}
	wantRefusals := []Transition{
		{Event: "HARD_REFUSAL", Result: StatusRefusal},
		{Event: "PRIVACY_DATA_CONFIDENTIALITY_CONCERNS", Result: StatusRefusal},
	}
	if !reflect.DeepEqual(refusals.Transitions, wantRefusals) {
		t.Errorf("refusal transitions = %+v, want %+v", refusals.Transitions, wantRefusals)
	}

	// internal-only events are gone entirely
	for _, g := range groups {
		for _, tr := range g.Transitions {
			if tr.Event == "COLLECTION_INSTRUMENT_DOWNLOADED" || tr.Event == "SUCCESSFUL_RESPONSE_UPLOAD" {
				t.Errorf("internal event %q leaked into exposed transitions", tr.Event)
			}
		}
	}
}

func TestExposedTransitionsEmpty(t *testing.T) {
	if groups := ExposedTransitions(nil); len(groups) != 0 {
		t.Errorf("ExposedTransitions(nil) = %+v, want empty", groups)
	}
	internalOnly := map[string]Status{"COLLECTION_INSTRUMENT_DOWNLOADED": StatusInProgress}
	if groups := ExposedTransitions(internalOnly); len(groups) != 0 {
		t.Errorf("ExposedTransitions(internal only) = %+v, want empty", groups)
	}
}

type fakeCaseRepo struct {
	caseGroup CaseGroup
	available map[string]Status
	applied   []string
}

var _ Repository = (*fakeCaseRepo)(nil)

func (r *fakeCaseRepo) GetCaseGroup(context.Context, uuid.UUID) (CaseGroup, error) {
	return r.caseGroup, nil
}

func (r *fakeCaseRepo) GetCaseGroupsByParty(context.Context, string) ([]CaseGroup, error) {
	return []CaseGroup{r.caseGroup}, nil
}

func (r *fakeCaseRepo) GetAvailableTransitions(context.Context, uuid.UUID) (map[string]Status, error) {
	return r.available, nil
}

func (r *fakeCaseRepo) ApplyTransition(_ context.Context, _ uuid.UUID, event string) error {
	r.applied = append(r.applied, event)
	return nil
}

func TestServiceChangeStatus(t *testing.T) {
	repo := &fakeCaseRepo{
		caseGroup: CaseGroup{ID: uuid.New(), Status: StatusInProgress},
		available: map[string]Status{
			"COMPLETED_BY_PHONE":               StatusCompletedByPhone,
			"COLLECTION_INSTRUMENT_DOWNLOADED": StatusInProgress,
		},
	}
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.ChangeStatus(ctx, repo.caseGroup.ID, "COMPLETED_BY_PHONE"); err != nil {
		t.Fatalf("ChangeStatus() error = %v", err)
	}
	if len(repo.applied) != 1 || repo.applied[0] != "COMPLETED_BY_PHONE" {
		t.Errorf("applied = %v, want [COMPLETED_BY_PHONE]", repo.applied)
	}

	// internal-only and unknown events are rejected before the repo
	for _, event := range []string{"COLLECTION_INSTRUMENT_DOWNLOADED", "NO_SUCH_EVENT"} {
		err := svc.ChangeStatus(ctx, repo.caseGroup.ID, event)
		if err == nil {
			t.Fatalf("ChangeStatus(%q) should fail", event)
		}
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			t.Errorf("ChangeStatus(%q) error type = %T, want *core.ValidationError", event, err)
		}
	}
	if len(repo.applied) != 1 {
		t.Errorf("rejected events must not reach the repository; applied = %v", repo.applied)
	}
}
