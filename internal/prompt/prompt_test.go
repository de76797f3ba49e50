package prompt

import (
	"strings"
	"testing"
)

func TestBuildSystemPromptEmbedsProfile(t *testing.T) {
	profile := `{"about":{"name":"Kasia"}}`
	got := Default().BuildSystemPrompt(profile)

	if !strings.HasSuffix(got, profile) {
		t.Error("Expected profile JSON appended verbatim at the end")
	}
	if !strings.Contains(got, "interactive CV") {
		t.Error("Expected instruction preamble in prompt")
	}
}

func TestBuildSystemPromptDeterministic(t *testing.T) {
	profile := `{"skills":{}}`
	tpl := Default()
	if tpl.BuildSystemPrompt(profile) != tpl.BuildSystemPrompt(profile) {
		t.Error("Expected identical prompts for identical inputs")
	}
}

func TestBuildSystemPromptTemplateFields(t *testing.T) {
	tpl := Template{
		Name:                 "Ada",
		FullName:             "Ada Lovelace",
		ContactEmail:         "ada@example.com",
		GeekTriggers:         []string{"engine", "punch cards"},
		GeekStyle:            "victorian and witty",
		MaxSentences:         2,
		CompensationRedirect: "Ask by letter.",
	}
	got := tpl.BuildSystemPrompt("{}")

	for _, want := range []string{
		"Ada Lovelace",
		"ada@example.com",
		"engine, punch cards",
		"victorian and witty",
		"at most 2 sentences",
		"Ask by letter.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestBuildSystemPromptNoTriggers(t *testing.T) {
	tpl := Default()
	tpl.GeekTriggers = nil
	if strings.Contains(tpl.BuildSystemPrompt("{}"), "geeky language") {
		t.Error("Expected trigger rule to be omitted when no triggers configured")
	}
}
