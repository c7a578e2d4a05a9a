package collex

import (
	"reflect"
	"testing"
	"time"
)

func TestRestrictionText(t *testing.T) {
	day := 24 * time.Hour
	// winter instants, so London == UTC in the formatted output
	goLive := Event{Tag: TagGoLive, Timestamp: time.Date(2026, time.January, 16, 9, 0, 0, 0, time.UTC)}
	returnBy := Event{Tag: TagReturnBy, Timestamp: goLive.Timestamp.Add(14 * day)}
	reminder := Event{Tag: "reminder", Timestamp: goLive.Timestamp.Add(20 * day)}
	reminder3 := Event{Tag: "reminder3", Timestamp: goLive.Timestamp.Add(25 * day)}

	events := NewEventSet([]Event{goLive, returnBy, reminder, reminder3})

	tests := []struct {
		name string
		tag  Tag
		want []string
	}{
		{
			name: "unset neighbour renders empty date portion",
			tag:  TagGoLive,
			want: []string{
				"Must be after Main print selection",
				"Must be before Return by Friday 30 January 2026 09:00",
			},
		},
		{
			name: "series neighbour labelled by populated ordinal",
			tag:  "reminder3",
			want: []string{
				"Must be after First reminder Thursday 05 February 2026 09:00",
				"Must be before Exercise end",
			},
		},
		{
			name: "first series slot bounded by anchors across the gap",
			tag:  "reminder",
			want: []string{
				"Must be after Return by Friday 30 January 2026 09:00",
				"Must be before Second reminder Tuesday 10 February 2026 09:00",
			},
		},
		{name: "unknown tag yields nothing", tag: Tag("retrun_by"), want: nil},
		{name: "employment has no restrictions", tag: TagEmployment, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RestrictionText(tt.tag, events, testNow)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RestrictionText() = %q, want %q", got, tt.want)
			}
		})
	}
}

// restriction text is a pure function of its inputs: same input, same output.
func TestRestrictionTextIdempotent(t *testing.T) {
	events := eventsAt(TagGoLive, TagReturnBy, "reminder", "reminder3")
	first := RestrictionText("reminder3", events, testNow)
	second := RestrictionText("reminder3", events, testNow)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("RestrictionText() not idempotent: %q != %q", first, second)
	}
}

func TestFormatLondonDST(t *testing.T) {
	winter := Format(Event{Tag: TagGoLive, Timestamp: time.Date(2026, time.January, 16, 9, 0, 0, 0, time.UTC)}, testNow)
	if winter.Time != "09:00" {
		t.Errorf("winter Time = %q, want 09:00 (GMT)", winter.Time)
	}
	summer := Format(Event{Tag: TagGoLive, Timestamp: time.Date(2026, time.July, 16, 9, 0, 0, 0, time.UTC)}, testNow)
	if summer.Time != "10:00" {
		t.Errorf("summer Time = %q, want 10:00 (BST)", summer.Time)
	}
	if !summer.InFuture {
		t.Error("summer event should be in the future relative to testNow")
	}
}

func TestEventRow(t *testing.T) {
	day := 24 * time.Hour
	futureReminder := Event{Tag: "reminder", Timestamp: testNow.Add(5 * day)}
	pastReminder2 := Event{Tag: "reminder2", Timestamp: testNow.Add(-5 * day)}
	goLive := Event{Tag: TagGoLive, Timestamp: testNow.Add(-20 * day)}
	events := NewEventSet([]Event{goLive, futureReminder, pastReminder2})

	canEdit := EditPolicy{CanEdit: true}
	lockedEdit := EditPolicy{CanEdit: true, Locked: true}
	readOnly := EditPolicy{}

	tests := []struct {
		name          string
		tag           Tag
		policy        EditPolicy
		wantText      bool
		wantStatus    string
		wantHyperlink bool
		wantLinkText  string
	}{
		{
			name: "set value gets edit link", tag: TagGoLive, policy: canEdit,
			wantText: true, wantStatus: "passed", wantHyperlink: true, wantLinkText: "Edit Go Live",
		},
		{
			name: "unset value gets add link", tag: TagReturnBy, policy: canEdit,
			wantHyperlink: true, wantLinkText: "Add Return by",
		},
		{
			name: "no permission, no link", tag: TagGoLive, policy: readOnly,
			wantText: true, wantStatus: "passed",
		},
		{
			name: "locked exercise blocks ordinary tags", tag: TagGoLive, policy: lockedEdit,
			wantText: true, wantStatus: "passed",
		},
		{
			name: "locked exercise allows future reminder", tag: "reminder", policy: lockedEdit,
			wantText: true, wantStatus: "upcoming", wantHyperlink: true, wantLinkText: "Edit First reminder",
		},
		{
			name: "locked exercise blocks past reminder", tag: "reminder2", policy: lockedEdit,
			wantText: true, wantStatus: "passed",
		},
		{
			name: "reference period editable while locked even in the past", tag: TagRefPeriodStart, policy: lockedEdit,
			wantHyperlink: true, wantLinkText: "Add Reference period start",
		},
		{
			name: "period id never editable while locked", tag: TagPeriodID, policy: lockedEdit,
		},
		{
			name: "unpopulated next slot offers unlabelled add", tag: "reminder3", policy: canEdit,
			wantHyperlink: true, wantLinkText: "Add reminder",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := EventRow(tt.tag, events, tt.policy, testNow)
			if (row.Text != "") != tt.wantText {
				t.Errorf("Text = %q, want set = %v", row.Text, tt.wantText)
			}
			if row.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", row.Status, tt.wantStatus)
			}
			if (row.Hyperlink != "") != tt.wantHyperlink {
				t.Fatalf("Hyperlink = %q, want present = %v", row.Hyperlink, tt.wantHyperlink)
			}
			if tt.wantHyperlink && row.HyperlinkText != tt.wantLinkText {
				t.Errorf("HyperlinkText = %q, want %q", row.HyperlinkText, tt.wantLinkText)
			}
		})
	}
}

func TestEventRowTextOrdering(t *testing.T) {
	ev := Event{Tag: TagGoLive, Timestamp: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)}
	row := EventRow(TagGoLive, NewEventSet([]Event{ev}), EditPolicy{}, testNow)
	want := "Monday 02 March 2026 09:00"
	if row.Text != want {
		t.Errorf("Text = %q, want %q", row.Text, want)
	}
}
