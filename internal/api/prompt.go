package api

import (
	"fmt"
	"strings"
)

// SetupData is the interview context the user configured before starting:
// target role, company, preferred coding language, and the resume and job
// description text the prompts lean on.
type SetupData struct {
	SessionID  string
	Role       string
	Company    string
	Language   string
	ResumeText string
	JDText     string
}

// Question classifications returned by the backend.
const (
	QuestionCoding       = "Coding"
	QuestionConceptual   = "Conceptual"
	QuestionIntroduction = "Introduction"
	QuestionHR           = "HR"
	QuestionScenario     = "Scenario"
)

// BuildPrompt renders the prompt for one interview question. Each
// classification gets its own template; anything unrecognised falls back to
// the scenario-based one.
func BuildPrompt(setup SetupData, questionType, question string) string {
	switch questionType {
	case QuestionCoding:
		return codingPrompt(setup, question)
	case QuestionConceptual:
		return conceptualPrompt(setup, question)
	case QuestionIntroduction, QuestionHR:
		return personalPrompt(setup, question)
	default:
		return scenarioPrompt(setup, question)
	}
}

func rolePreamble(setup SetupData) string {
	if setup.Role == "" && setup.Company == "" {
		return ""
	}
	return fmt.Sprintf("You are applying for the role of %s at %s.\n\n", setup.Role, setup.Company)
}

func codingPrompt(setup SetupData, question string) string {
	language := setup.Language
	if language == "" {
		language = "Java"
	}

	var b strings.Builder
	b.WriteString(rolePreamble(setup))
	b.WriteString("Please do the following:\n")
	b.WriteString("1. Summarize the interview question in one clear sentence.\n")
	fmt.Fprintf(&b, "2. Write a complete %s code example inside a proper code block.\n", language)
	b.WriteString("3. Explain the code step-by-step after the code block.\n\n")
	b.WriteString("Return the response in the following format:\n")
	b.WriteString("Summarized Question: <summary here>\n\n")
	b.WriteString("Answer:\n<code block and explanation>\n\n")
	fmt.Fprintf(&b, "Question: %s\nAnswer:\n", question)
	return b.String()
}

func conceptualPrompt(setup SetupData, question string) string {
	var b strings.Builder
	b.WriteString(rolePreamble(setup))
	b.WriteString("Please answer the following concept-based question in a clear, structured, step-by-step format:\n")
	b.WriteString("- Use short easy-to-understand bullet points step wise\n")
	b.WriteString("- Each bullet should have only one idea per line, like you would say in an interview\n")
	b.WriteString("- Avoid code unless it's explicitly asked in the question\n")
	b.WriteString("- Explain terms and differences precisely and avoid long explanations like you would in a live job interview\n\n")
	b.WriteString("Return the response in the following format:\n")
	b.WriteString("Summarized Question: <summary here>\n\n")
	b.WriteString("Answer:\n<bullet-point answer>\n\n")
	fmt.Fprintf(&b, "Question: %s\nAnswer:\n-", question)
	return b.String()
}

func personalPrompt(setup SetupData, question string) string {
	var b strings.Builder
	if setup.Role != "" || setup.Company != "" {
		fmt.Fprintf(&b, "You are applying for the role of %s at %s.\n\n", setup.Role, setup.Company)
		fmt.Fprintf(&b, "Candidate Resume:\n%s\n\nJob Description:\n%s\n\n", setup.ResumeText, setup.JDText)
	}
	b.WriteString("Please do the following:\n")
	b.WriteString("1. Summarize the interview question in one clear sentence.\n")
	b.WriteString("2. You are in a live job interview. Please answer the following question in the first person, conversationally and confidently, like you are talking to the interviewer. Avoid bullet points.\n\n")
	b.WriteString("Return the response in the following format:\n")
	b.WriteString("Summarized Question: <summary here>\n\n")
	b.WriteString("Answer:\n<direct conversational answer>\n\n")
	fmt.Fprintf(&b, "Question: %s\nAnswer:\n", question)
	return b.String()
}

func scenarioPrompt(setup SetupData, question string) string {
	var b strings.Builder
	if setup.Role != "" || setup.Company != "" {
		fmt.Fprintf(&b, "You are applying for the role of %s at %s. ", setup.Role, setup.Company)
		b.WriteString("You are in a live job interview. Answer questions like a confident, professional candidate. Your answers should be:\n")
		b.WriteString("- In the first person (like \"I would...\")\n")
		b.WriteString("- Clear and step-wise\n")
		b.WriteString("- Use simple bullet points\n")
		b.WriteString("- Each bullet should have only one idea per line, like you would say in an interview\n")
		b.WriteString("Avoid very long explanations. Speak directly like you are answering verbally.\n\n")
		fmt.Fprintf(&b, "Candidate Resume:\n%s\n\nJob Description:\n%s\n\n", setup.ResumeText, setup.JDText)
	}
	b.WriteString("Please do the following:\n")
	b.WriteString("1. Summarize the interview question in one clear sentence.\n")
	b.WriteString("2. Provide a step-wise, bullet-point answer like a confident interviewee.\n\n")
	b.WriteString("Return the response in the following format:\n")
	b.WriteString("Summarized Question: <summary here>\n\n")
	b.WriteString("Answer:\n<bullet-point answer>\n\n")
	fmt.Fprintf(&b, "Question: %s\nAnswer:\n-", question)
	return b.String()
}
