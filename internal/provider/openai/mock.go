package openai

import (
	"fmt"
	"strings"

	"lingua_tutor_server/internal/provider"
)

// CannedReply is the deterministic keyword-matched reply generator, the
// guaranteed last tier of the text cascade. It never fails, so a tutoring
// session keeps moving through any upstream outage or an unconfigured key.
func CannedReply(lastUserMessage string, p provider.Persona) string {
	text := strings.ToLower(lastUserMessage)

	switch {
	case strings.Contains(text, "hello") || strings.Contains(text, "hi "):
		return fmt.Sprintf("Hello %s! I'm %s, your %s tutor. What would you like to practice today?",
			p.UserName, p.TutorName, p.Language)
	case strings.Contains(text, "grammar"):
		return fmt.Sprintf("Great, let's work on %s grammar. Can you write a sentence for me to check?",
			p.Language)
	case strings.Contains(text, "word") || strings.Contains(text, "vocabulary"):
		return fmt.Sprintf("Building vocabulary is a great goal. Tell me a topic you like and we'll learn some %s words for it.",
			p.Language)
	case strings.Contains(text, "thank"):
		return fmt.Sprintf("You're very welcome, %s! Practice makes perfect.", p.UserName)
	case strings.Contains(text, "bye") || strings.Contains(text, "goodbye"):
		return fmt.Sprintf("Goodbye %s! Great work today, see you next session.", p.UserName)
	default:
		return fmt.Sprintf("That's interesting, %s! Let's keep practicing your %s. Could you tell me more about that?",
			p.UserName, p.Language)
	}
}

// OpeningLine is the canned session greeting, used when the session starts
// and the generation tier is unavailable.
func OpeningLine(p provider.Persona) string {
	subject := p.Subject
	if subject == "" {
		subject = "your " + p.Language
	}
	return fmt.Sprintf("Hi %s, I'm %s! Ready to practice %s? Tell me how your day is going.",
		p.UserName, p.TutorName, subject)
}
