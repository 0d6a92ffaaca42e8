package model

import "testing"

func TestNextOrderIndex(t *testing.T) {
	tests := []struct {
		name     string
		existing []int
		want     int
	}{
		{"empty group", nil, 0},
		{"empty sentinel", []int{-1}, 0},
		{"three questions max 2", []int{0, 1, 2}, 3},
		{"gap kept", []int{0, 5}, 6},
		{"unordered", []int{4, 1, 2}, 5},
		{"duplicates", []int{2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextOrderIndex(tt.existing...); got != tt.want {
				t.Fatalf("NextOrderIndex(%v) = %d, want %d", tt.existing, got, tt.want)
			}
		})
	}
}

func TestNoticeFeedUnread(t *testing.T) {
	feed := NewNoticeFeed([]*Notice{
		{ID: "c"},
		{ID: "a", IsRead: true},
		{ID: "b"},
	})
	if feed.Unread != 2 {
		t.Fatalf("Unread = %d, want 2", feed.Unread)
	}

	if !feed.MarkRead("c") {
		t.Fatalf("MarkRead(c) = false, want true")
	}
	if feed.Unread != 1 {
		t.Fatalf("Unread after MarkRead = %d, want 1", feed.Unread)
	}

	if feed.MarkRead("c") {
		t.Fatalf("second MarkRead(c) flipped again")
	}
	if feed.MarkRead("missing") {
		t.Fatalf("MarkRead(missing) = true")
	}
	feed.MarkRead("b")
	if feed.Unread != 0 {
		t.Fatalf("Unread = %d, want 0", feed.Unread)
	}

	feed.Unread = 0
	feed.Notices = append(feed.Notices, &Notice{ID: "d"})
	feed.MarkRead("d")
	if feed.Unread != 0 {
		t.Fatalf("Unread dropped below zero: %d", feed.Unread)
	}
}

func TestAnswerSet(t *testing.T) {
	set := AnswerSet("p1", map[string]string{
		"q2": "  Grow revenue ",
		"q1": "   ",
		"q3": "",
		"q4": "Hire",
	})

	if len(set) != 2 {
		t.Fatalf("AnswerSet kept %d answers, want 2", len(set))
	}
	if set[0].QuestionID != "q2" || set[0].AnswerText != "Grow revenue" {
		t.Fatalf("first answer = %+v", set[0])
	}
	if set[1].QuestionID != "q4" || set[1].UserID != "p1" {
		t.Fatalf("second answer = %+v", set[1])
	}

	if got := AnswerSet("p1", map[string]string{"q1": " \t"}); len(got) != 0 {
		t.Fatalf("whitespace-only answers kept: %+v", got)
	}
}

func TestRoleAndProfile(t *testing.T) {
	if RoleAdmin.Toggled() != RoleUser || RoleUser.Toggled() != RoleAdmin {
		t.Fatalf("Toggled does not flip between user and admin")
	}

	var nilProfile *Profile
	if nilProfile.IsAdmin() {
		t.Fatalf("nil profile is admin")
	}
	if !(&Profile{Role: RoleAdmin}).IsAdmin() {
		t.Fatalf("admin profile not admin")
	}

	name := "Ana"
	if got := (&User{Email: "ana@example.com", DisplayName: &name}).ProfileName(); got != "Ana" {
		t.Fatalf("ProfileName = %q, want Ana", got)
	}
	if got := (&User{Email: "ana@example.com"}).ProfileName(); got != "ana@example.com" {
		t.Fatalf("ProfileName fallback = %q, want email", got)
	}
}
