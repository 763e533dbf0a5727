package openai

import (
	"strings"
	"testing"

	"lingua_tutor_server/internal/provider"
)

var alice = provider.Persona{
	UserName:  "Alice",
	TutorName: "Sam",
	Language:  "English",
	Subject:   "Travel",
}

func TestCannedReplyKeywordRouting(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Hello there", "Hello Alice!"},
		{"can we do grammar drills", "grammar"},
		{"teach me a new word", "vocabulary"},
		{"I want to grow my vocabulary", "vocabulary"},
		{"thank you so much", "welcome"},
		{"ok bye now", "Goodbye"},
		{"yesterday I went hiking", "keep practicing"},
	}
	for _, tc := range cases {
		got := CannedReply(tc.input, alice)
		if !strings.Contains(got, tc.want) {
			t.Errorf("CannedReply(%q) = %q, want it to contain %q", tc.input, got, tc.want)
		}
	}
}

func TestCannedReplyIsDeterministic(t *testing.T) {
	first := CannedReply("tell me about paris", alice)
	for i := 0; i < 5; i++ {
		if CannedReply("tell me about paris", alice) != first {
			t.Fatal("same input must always produce the same reply")
		}
	}
}

func TestCannedReplyUsesPersona(t *testing.T) {
	got := CannedReply("hello", alice)
	for _, want := range []string{"Alice", "Sam", "English"} {
		if !strings.Contains(got, want) {
			t.Errorf("greeting %q missing %q", got, want)
		}
	}
}

func TestOpeningLine(t *testing.T) {
	got := OpeningLine(alice)
	for _, want := range []string{"Alice", "Sam", "Travel"} {
		if !strings.Contains(got, want) {
			t.Errorf("opening %q missing %q", got, want)
		}
	}

	noSubject := alice
	noSubject.Subject = ""
	if got := OpeningLine(noSubject); !strings.Contains(got, "your English") {
		t.Errorf("opening without subject = %q", got)
	}
}
