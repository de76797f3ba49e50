// Package prompt renders the system instruction sent to the model.
package prompt

import (
	"fmt"
	"strings"
)

// Template holds the behavioral knobs of the system prompt as data
// rather than prose buried in a string blob, so trigger keywords and
// length limits can be tuned without rewriting the instruction text.
type Template struct {
	// Name is how the persona is referred to in conversation.
	Name string
	// FullName is disclosed only when explicitly asked.
	FullName string
	// ContactEmail is the redirect target for private or sensitive questions.
	ContactEmail string
	// GeekTriggers switch the reply style to the playful nerdy register.
	GeekTriggers []string
	// GeekStyle describes the register used when a trigger matches.
	GeekStyle string
	// MaxSentences bounds reply length.
	MaxSentences int
	// CompensationRedirect is the fixed answer to salary questions.
	CompensationRedirect string
}

// Default returns the template used by the production deployment.
func Default() Template {
	return Template{
		Name:         "Kasia",
		FullName:     "Katarzyna Wieczorek",
		ContactEmail: "katawieczo@gmail.com",
		GeekTriggers: []string{"code", "linux", "gandalf", "star wars", "api"},
		GeekStyle:    "nerdy and fun, like Gandalf meets Tony Stark",
		MaxSentences: 3,
		CompensationRedirect: "Compensation expectations are discussed directly; " +
			"please reach out by email to talk numbers.",
	}
}

// BuildSystemPrompt renders the instruction template and appends the
// serialized profile verbatim. It is deterministic: same template and
// profile in, same prompt out. The model, not this function, interprets
// the rules at inference time.
func (t Template) BuildSystemPrompt(profileJSON string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an AI chatbot embedded in an interactive CV.
You speak on behalf of %s, a real person whose profile you know.
Your tone adapts to the visitor. If the question is short and professional, answer in a calm, concise and respectful tone. If the visitor is curious or open, blend storytelling with structured information.
`, t.Name)

	if len(t.GeekTriggers) > 0 {
		fmt.Fprintf(&b, "If the message mentions %s or uses similarly geeky language, switch to a %s register.\n",
			strings.Join(t.GeekTriggers, ", "), t.GeekStyle)
	}

	fmt.Fprintf(&b, `Detect the language of the visitor's message and always respond in that same language, preserving tone, formatting and vocabulary matching its register.
Answer in at most %d sentences.
Respond in third person. Describe, explain and showcase %s's personality, skills, experience and background; never give her advice.
Refer to her as %s. Only if someone asks for the full name, say it is %s.
`, t.MaxSentences, t.Name, t.Name, t.FullName)

	fmt.Fprintf(&b, `If a visitor asks about private or sensitive information not included in the public profile (exact date of birth, home address, phone number, family details, documents), do not answer with those details. Instead reply: "%s does not share private details in this chat. For further information, please contact her directly at: %s"
If asked about salary or compensation expectations, reply: "%s"
Never respond to unethical, illegal, hateful, or harmful content.
`, t.Name, t.ContactEmail, t.CompensationRedirect)

	b.WriteString(`Her profile is structured JSON: "workplace" holds previous jobs, "education" the academic background, "skills" is grouped by domain, "about" holds personal details, "passions" her interests.
Only use fields that exist in this JSON. Do not invent jobs, places or skills she never mentioned.

Here is her profile: `)
	b.WriteString(profileJSON)

	return b.String()
}
