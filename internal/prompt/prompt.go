// Package prompt builds the schema-constrained prompts sent to the LLM gateway.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"focusos/internal/model"
)

// MaxDocumentChars bounds how much document text is embedded in a prompt.
const MaxDocumentChars = 8000

// Truncate cuts text to at most limit characters. Content past the limit is dropped.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}

type eventLine struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Title string `json:"title"`
}

type taskLine struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Due      string `json:"due,omitempty"`
}

// PlanInput is everything the weekly plan prompt narrates.
type PlanInput struct {
	Now         time.Time
	WindowEnd   time.Time
	BusySlots   []*model.CalendarEvent
	WeekEvents  []*model.CalendarEvent
	Tasks       []*model.Task
	WeekStartAt string
}

func WeeklyPlan(in PlanInput) string {
	busy := make([]string, 0, len(in.BusySlots))
	for _, e := range in.BusySlots {
		busy = append(busy, fmt.Sprintf("%s - %s (%s)", e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Title))
	}
	events := make([]eventLine, 0, len(in.WeekEvents))
	for _, e := range in.WeekEvents {
		events = append(events, eventLine{Start: e.Start.Format(time.RFC3339), End: e.End.Format(time.RFC3339), Title: e.Title})
	}
	tasks := make([]taskLine, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		line := taskLine{Title: t.Title, Priority: t.Priority}
		if t.DueAt != nil {
			line.Due = t.DueAt.Format(time.RFC3339)
		}
		tasks = append(tasks, line)
	}

	now := in.Now.Format(time.RFC3339)
	end := in.WindowEnd.Format(time.RFC3339)

	return fmt.Sprintf(`You are an expert study and scheduling planner. Your job is to:
(1) infer what I need to do to prepare for the coming week based on my calendar,
(2) turn that into a concrete task list with time estimates, and
(3) schedule focused work blocks over the next few days without conflicts.

TIME CONTEXT
- Current time (ISO): %s
- Planning window: from %s through %s (next 3 days)
- Busy slots (already unavailable) in the next 24 hours: %s
- Calendar events (next 7 days): %s
- Existing user to-do list (may be empty): %s

WHAT TO DO
A) Build a realistic TASK LIST for the coming week.
- Always include the user's existing tasks (sourceType "manual").
- If the list is empty or incomplete, infer additional preparation tasks from upcoming calendar events (sourceType "inferred").
- Prefer concrete, actionable tasks.

B) Prioritize tasks.
- Highest priority goes to tasks tied to the soonest events or explicit deadlines.
- Use these priority labels only: "high" | "medium" | "low".

C) Schedule STUDY/WORK BLOCKS for the next 3 days.
- Create 2-4 deep work blocks per day if there is time; fewer if the schedule is tight.
- Each block must be 50-120 minutes.
- STRICTLY avoid overlaps with calendar events and with other blocks.
- Place high-priority tasks earlier.

OUTPUT FORMAT (STRICT)
Return ONLY a valid JSON object matching this exact schema (no markdown, no commentary):
{
  "weekStartDate": "%s",
  "tasks": [
    {"title": "string", "sourceType": "manual" | "inferred", "priority": "high" | "medium" | "low", "status": "todo", "estMins": 15 | 30 | 45 | 60 | 90 | 120}
  ],
  "studyBlocks": [
    {"title": "string", "start": "ISO_8601_DATETIME_WITH_OFFSET", "end": "ISO_8601_DATETIME_WITH_OFFSET"}
  ]
}

RULES
1) Output must be valid JSON only, using ONLY the keys in the schema.
2) Every study block must lie between %s and %s.
3) Study blocks must not overlap calendar events or each other.
4) start < end for every block, and durations are 50-120 minutes.
`, now, now, end, mustJSON(busy), mustJSON(events), mustJSON(tasks), in.WeekStartAt, now, end)
}

// Triage builds the inbox classification prompt. userName signs the drafted replies.
func Triage(userEmail, userName string, emails []*model.EmailItem) string {
	var list strings.Builder
	for _, e := range emails {
		fmt.Fprintf(&list, "- ID:%s From:%s Sub:%s Body:%s\n", e.GmailID, e.From, e.Subject, e.Snippet)
	}

	return fmt.Sprintf(`Analyze these emails and output a JSON array of objects.

User's email address: %s

Emails:
%s
Goals:
1. Classify each email into exactly one of these categories:
   - "SPAM": newsletters, automated alerts, marketing, promotions, social media notifications.
     EXCEPTION: NEVER classify emails from "%s" (self-emails) as SPAM.
   - "FYI": receipts, confirmations, informational updates that need no reply. Also self-emails.
   - "ACTION": personal emails, work requests, questions requiring a specific human reply.

2. Draft a reply:
   - Structure every reply as a greeting ("Hi [Name]," or "Hello,"), a 1-3 paragraph body, and the signature "Sincerely,\n%s".
   - ACTION: a specific, polite reply addressing the email content.
   - FYI: a brief polite acknowledgement.
   - SPAM: the empty string "".

Output a valid JSON array strictly matching this schema and nothing else:
[
  {"gmailId": "string (from input)", "subject": "string (from input)", "from": "string (from input)", "classification": "SPAM" | "FYI" | "ACTION", "reason": "short explanation", "draftReply": "string"}
]
`, userEmail, list.String(), userEmail, userName)
}

func Summary(text string) string {
	return fmt.Sprintf(`Analyze the following document and create a comprehensive, structured summary.

Document text:
%s

Generate a JSON response with this exact structure and no other keys:
{
  "title": "Brief title for the document",
  "overview": "2-3 sentence high-level summary",
  "keyConcepts": [
    {"concept": "Concept name", "explanation": "1-2 sentence explanation"}
  ],
  "keyTakeaways": ["Takeaway 1", "Takeaway 2", "Takeaway 3"],
  "topics": ["Topic 1", "Topic 2"]
}

Make it educational and clear. Include 4-6 key concepts and 3-5 takeaways.
`, Truncate(text, MaxDocumentChars))
}

func Graph(text string) string {
	return fmt.Sprintf(`Analyze the following document and create a knowledge graph showing the relationships between key concepts.

Document text:
%s

Generate a JSON object with this exact structure and no other keys:
{
  "nodes": [
    {"id": "1", "label": "Concept Name", "type": "main" | "sub"}
  ],
  "edges": [
    {"from": "1", "to": "2", "label": "relationship type"}
  ]
}

Rules:
- Create 8-15 nodes representing key concepts, each with a unique id.
- Use "main" for primary concepts and "sub" for supporting concepts.
- Every edge must connect two declared node ids (e.g. "leads to", "requires", "part of", "enables").
- Keep labels short and clear.
`, Truncate(text, MaxDocumentChars))
}

func MCQ(text string) string {
	return fmt.Sprintf(`Based on the following document, generate 7-10 multiple choice questions to test understanding.

Document text:
%s

Generate a JSON array with this exact structure and no other keys:
[
  {
    "question": "Question text here?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": 0,
    "explanation": "Why this answer is correct"
  }
]

Rules:
- Test understanding, not memorization.
- Exactly 4 options per question.
- correctAnswer is the zero-based index (0-3) of the correct option.
- Cover different topics from the document.
`, Truncate(text, MaxDocumentChars))
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
