package collex

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/surveyops/respops/core"
)

func TestValidateProposed(t *testing.T) {
	past := testNow.Add(-48 * time.Hour)
	future := testNow.Add(48 * time.Hour)

	tests := []struct {
		name     string
		tag      Tag
		proposed time.Time
		wantErr  bool
	}{
		{name: "future date accepted", tag: TagMPS, proposed: future},
		{name: "past date rejected", tag: TagMPS, proposed: past, wantErr: true},
		{name: "exactly now rejected", tag: TagGoLive, proposed: testNow, wantErr: true},
		{name: "ref period start exempt", tag: TagRefPeriodStart, proposed: past},
		{name: "ref period end exempt", tag: TagRefPeriodEnd, proposed: past},
		{name: "employment exempt", tag: TagEmployment, proposed: past},
		{name: "past reminder rejected", tag: Tag("reminder2"), proposed: past, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProposed(tt.tag, tt.proposed, testNow)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateProposed() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			if !ok {
				t.Fatalf("ValidateProposed() error type = %T, want *core.ValidationError", err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0].Field != string(tt.tag) {
				t.Errorf("ValidationError fields = %+v, want single field %q", vErr.Fields, tt.tag)
			}
		})
	}
}

func TestValidateOrdering(t *testing.T) {
	day := 24 * time.Hour
	events := NewEventSet([]Event{
		{Tag: TagMPS, Timestamp: testNow.Add(1 * day)},
		{Tag: TagGoLive, Timestamp: testNow.Add(3 * day)},
		{Tag: TagReturnBy, Timestamp: testNow.Add(10 * day)},
		{Tag: "reminder", Timestamp: testNow.Add(12 * day)},
		{Tag: "reminder3", Timestamp: testNow.Add(16 * day)},
	})

	tests := []struct {
		name     string
		tag      Tag
		proposed time.Time
		wantErr  string
	}{
		{name: "between neighbours accepted", tag: TagGoLive, proposed: testNow.Add(5 * day)},
		{name: "before after-neighbour rejected", tag: TagGoLive, proposed: testNow.Add(12 * time.Hour), wantErr: "must be after Main print selection"},
		{name: "after before-neighbour rejected", tag: TagGoLive, proposed: testNow.Add(11 * day), wantErr: "must be before Return by"},
		{name: "equal to neighbour rejected", tag: TagGoLive, proposed: testNow.Add(10 * day), wantErr: "must be before Return by"},
		{name: "populated after-anchor respected", tag: TagExerciseEnd, proposed: testNow.Add(100 * day)},
		{name: "unpopulated neighbour constrains nothing", tag: TagRefPeriodStart, proposed: testNow.Add(50 * day)},
		{name: "series slot bounded by populated siblings", tag: Tag("reminder2"), proposed: testNow.Add(17 * day), wantErr: "must be before Second reminder"},
		{name: "series slot between siblings accepted", tag: Tag("reminder2"), proposed: testNow.Add(14 * day)},
		{name: "first series slot bounded by anchor", tag: Tag("reminder"), proposed: testNow.Add(9 * day), wantErr: "must be after Return by"},
		{name: "unconstrained tag accepted", tag: TagEmployment, proposed: testNow.Add(-day)},
		{name: "unknown tag ignored", tag: Tag("lol"), proposed: testNow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrdering(tt.tag, tt.proposed, events)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateOrdering() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateOrdering() expected an error")
			}
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			if !ok {
				t.Fatalf("ValidateOrdering() error type = %T, want *core.ValidationError", err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0].Field != string(tt.tag) {
				t.Errorf("ValidationError fields = %+v, want single field %q", vErr.Fields, tt.tag)
			}
			if got := vErr.Fields[0].Error; !strings.Contains(got, tt.wantErr) {
				t.Errorf("field error = %q, want it to contain %q", got, tt.wantErr)
			}
		})
	}
}
