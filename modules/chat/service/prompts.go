package service

import (
	"fmt"
	"time"
)

// PromptMessage is one chat message sent to the completion API.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// systemPrompt instructs the model to answer with exactly one JSON object in
// the intent schema the decoder understands.
func systemPrompt(now time.Time) string {
	return fmt.Sprintf(`You are a smart calendar assistant named Schedulai. Always return only valid, compact JSON.

Never return placeholder values like "Meeting title (unknown)". If unsure, just omit the title field.

When scheduling an event, return:
{"action": "create", "title": "Meeting title", "date": "YYYY-MM-DD", "start_range": "HH:MM", "end_range": "HH:MM", "duration": optional number of minutes, "participants": ["email1", "email2"]}

When checking availability, return:
{"action": "check" or "check_free_time", "date": "YYYY-MM-DD", "start_range": "HH:MM", "end_range": "HH:MM", "duration": optional number of minutes}

When deleting an event, users may provide only a date + time, or a title + date. Return:
{"action": "delete", "title": "Meeting title (optional)", "start_time": "YYYY-MM-DDTHH:MM:SS"}

When deleting all events for a specific day, return:
{"action": "delete_all", "date": "YYYY-MM-DD"}

When updating an event, extract what you can and return:
{"action": "update", "original_event": {"title": "original title if known", "start_time": "YYYY-MM-DDTHH:MM:SS"}, "updated_fields": {"title": "New title (optional)", "start_time": "YYYY-MM-DDTHH:MM:SS (optional)", "end_time": "YYYY-MM-DDTHH:MM:SS (optional)", "participants": ["email1", "email2"]}}

Only return JSON - no markdown, no explanation, no apologies. Just raw valid JSON in the expected schema.

TODAY'S DATE IS %s

Never return past dates. Only use today's date or a future date (>= today's date).`, now.Format("2006-01-02"))
}

// fewShotExamples anchor the model on the exact JSON shapes, covering every
// action variant.
var fewShotExamples = []PromptMessage{
	{Role: "user", Content: "rename my 3pm meeting on July 20 to 'Client Review'"},
	{Role: "assistant", Content: `{"action": "update", "original_event": {"start_time": "2025-07-20T15:00:00"}, "updated_fields": {"title": "Client Review"}}`},
	{Role: "user", Content: "cancel the event titled 'Strategy Call' on July 15 at 7pm"},
	{Role: "assistant", Content: `{"action": "delete", "title": "Strategy Call", "start_time": "2025-07-15T19:00:00"}`},
	{Role: "user", Content: "move the 3pm call on July 16 to 6pm"},
	{Role: "assistant", Content: `{"action": "update", "original_event": {"start_time": "2025-07-16T15:00:00"}, "updated_fields": {"start_time": "2025-07-16T18:00:00", "end_time": "2025-07-16T19:00:00"}}`},
	{Role: "user", Content: "delete all meetings on July 19"},
	{Role: "assistant", Content: `{"action": "delete_all", "date": "2025-07-19"}`},
	{Role: "user", Content: "am I free tomorrow afternoon for an hour?"},
	{Role: "assistant", Content: `{"action": "check", "date": "2025-07-18", "start_range": "12:00", "end_range": "18:00", "duration": 60}`},
	{Role: "user", Content: "book a 30 minute sync with bob@example.com on July 21 morning"},
	{Role: "assistant", Content: `{"action": "create", "title": "Sync", "date": "2025-07-21", "start_range": "08:00", "end_range": "12:00", "duration": 30, "participants": ["bob@example.com"]}`},
}
