package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// TestUserJSONTags tests that users decode from the API field names
func TestUserJSONTags(t *testing.T) {
	payload := `{
		"id": 1,
		"name": "Leanne Graham",
		"username": "Bret",
		"email": "Sincere@april.biz",
		"address": {
			"street": "Kulas Light",
			"suite": "Apt. 556",
			"city": "Gwenborough",
			"zipcode": "92998-3874",
			"geo": {"lat": "-37.3159", "lng": "81.1496"}
		},
		"phone": "1-770-736-8031 x56442",
		"website": "hildegard.org",
		"company": {
			"name": "Romaguera-Crona",
			"catchPhrase": "Multi-layered client-server neural-net",
			"bs": "harness real-time e-markets"
		}
	}`

	var u User
	if err := json.Unmarshal([]byte(payload), &u); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if u.ID != 1 || u.Username != "Bret" || u.Email != "Sincere@april.biz" {
		t.Errorf("Unexpected user fields: %+v", u)
	}
	if u.Address.Geo.Lat != "-37.3159" {
		t.Errorf("Expected geo lat '-37.3159', got '%s'", u.Address.Geo.Lat)
	}
	if u.Company.CatchPhrase != "Multi-layered client-server neural-net" {
		t.Errorf("Unexpected catch phrase '%s'", u.Company.CatchPhrase)
	}
}

// TestTaskJSONTags tests that tasks decode from the API field names
func TestTaskJSONTags(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"userId": 3, "id": 41, "title": "buy milk", "completed": true}`), &task)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	want := Task{UserID: 3, ID: 41, Title: "buy milk", Completed: true}
	if task != want {
		t.Errorf("Expected %+v, got %+v", want, task)
	}
}

// TestStringers tests the human-readable representations
func TestStringers(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		contains []string
	}{
		{
			name:     "user",
			got:      User{ID: 7, Name: "Bob", Username: "bob", Email: "b@x.com"}.String(),
			contains: []string{"7", "Bob", "<b@x.com>", "bob"},
		},
		{
			name:     "completed task",
			got:      Task{UserID: 1, ID: 2, Title: "A", Completed: true}.String(),
			contains: []string{"[x]", "#2", "A"},
		},
		{
			name:     "pending task",
			got:      Task{UserID: 1, ID: 3, Title: "B"}.String(),
			contains: []string{"[ ]", "#3", "B"},
		},
		{
			name: "report entry",
			got: ReportEntry{
				Username:    "bob",
				Kind:        ReportArchived,
				GeneratedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local),
				Completed:   2,
				Remaining:   3,
			}.String(),
			contains: []string{"2024-01-01 10:00", "bob", "archived", "2/5"},
		},
		{
			name:     "report entry without date",
			got:      ReportEntry{Username: "bob", Kind: ReportCurrent}.String(),
			contains: []string{"unknown", "current"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				if !strings.Contains(tt.got, want) {
					t.Errorf("Expected %q to contain %q", tt.got, want)
				}
			}
		})
	}
}
