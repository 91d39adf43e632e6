package openai

import (
	"fmt"
	"strings"
)

// Message represents an OpenAI chat message.
type Message struct {
	Role    string
	Content string
}

const systemPrompt = "You are a recruiting screening engine. Respond with JSON only. No markdown. " +
	"Output must match the schema exactly: {\"score\": <integer 0-100>, \"notes\": <string>}."

// BuildPrompt creates the chat messages for an application scoring request.
func BuildPrompt(resumeText, jobID, notes string) []Message {
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildUserPrompt(resumeText, jobID, notes)},
	}
}

func buildUserPrompt(resumeText, jobID, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate this candidate for the %q role.\n", jobName(jobID))
	b.WriteString("Score 0-100 on relevant experience, skills and clarity. ")
	b.WriteString("Keep notes to two or three sentences a recruiter can skim.\n\n")
	if strings.TrimSpace(resumeText) == "" {
		b.WriteString("No resume text could be extracted; score on the remaining context and say so in the notes.\n")
	} else {
		b.WriteString("Resume:\n")
		b.WriteString(resumeText)
		b.WriteString("\n")
	}
	if strings.TrimSpace(notes) != "" {
		b.WriteString("\nCandidate notes:\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	return b.String()
}

func jobName(jobID string) string {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" || jobID == "general" {
		return "general talent pool"
	}
	return strings.ReplaceAll(jobID, "-", " ")
}
