package handler

import (
	"reflect"
	"testing"
)

func TestParseSkillsValue(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"json array", `["Go","SQL"]`, []string{"Go", "SQL"}},
		{"comma separated", "Go, SQL,  Docker", []string{"Go", "SQL", "Docker"}},
		{"single value", "Go", []string{"Go"}},
		{"broken json falls back", `["Go",`, []string{`["Go"`}},
		{"empty segments dropped", "Go,,SQL,", []string{"Go", "SQL"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseSkillsValue(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseSkillsValue(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
