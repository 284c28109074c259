package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSetup() SetupData {
	return SetupData{
		SessionID:  "sess-1",
		Role:       "Backend Engineer",
		Company:    "Acme",
		Language:   "Go",
		ResumeText: "Seven years of distributed systems work.",
		JDText:     "We need someone who knows queues.",
	}
}

func TestBuildPromptCoding(t *testing.T) {
	prompt := BuildPrompt(testSetup(), QuestionCoding, "Reverse a linked list")

	assert.Contains(t, prompt, "Backend Engineer at Acme")
	assert.Contains(t, prompt, "complete Go code example")
	assert.Contains(t, prompt, "Question: Reverse a linked list")
	// Coding answers never need the resume or the job description.
	assert.NotContains(t, prompt, "Candidate Resume")
}

func TestBuildPromptCodingDefaultLanguage(t *testing.T) {
	setup := testSetup()
	setup.Language = ""
	prompt := BuildPrompt(setup, QuestionCoding, "Reverse a linked list")
	assert.Contains(t, prompt, "complete Java code example")
}

func TestBuildPromptConceptual(t *testing.T) {
	prompt := BuildPrompt(testSetup(), QuestionConceptual, "What is a deadlock?")

	assert.Contains(t, prompt, "concept-based question")
	assert.Contains(t, prompt, "Question: What is a deadlock?")
	assert.NotContains(t, prompt, "Candidate Resume")
}

func TestBuildPromptPersonal(t *testing.T) {
	for _, questionType := range []string{QuestionIntroduction, QuestionHR} {
		prompt := BuildPrompt(testSetup(), questionType, "Tell me about yourself")

		assert.Contains(t, prompt, "Candidate Resume:\nSeven years of distributed systems work.")
		assert.Contains(t, prompt, "Job Description:\nWe need someone who knows queues.")
		assert.Contains(t, prompt, "in the first person")
	}
}

func TestBuildPromptScenarioIsDefault(t *testing.T) {
	for _, questionType := range []string{QuestionScenario, "", "SomethingNew"} {
		prompt := BuildPrompt(testSetup(), questionType, "How would you scale this?")

		assert.Contains(t, prompt, "Candidate Resume")
		assert.Contains(t, prompt, "bullet-point answer")
		assert.Contains(t, prompt, "Question: How would you scale this?")
	}
}

func TestBuildPromptWithoutSetupContext(t *testing.T) {
	prompt := BuildPrompt(SetupData{SessionID: "sess-1"}, QuestionScenario, "How would you scale this?")

	assert.NotContains(t, prompt, "applying for the role")
	assert.NotContains(t, prompt, "Candidate Resume")
	assert.Contains(t, prompt, "Question: How would you scale this?")
}
