package store

import (
	"encoding/json"
	"testing"
)

func TestChatbotProcessorName(t *testing.T) {
	bot := Chatbot{Preferences: ChatbotPrefs{Bot: BotPrefs{Name: "helper"}}}
	if got := bot.ProcessorName(); got != "helper" {
		t.Fatalf("expected display-name fallback, got %q", got)
	}

	bot.Preferences.Bot.Processor = "helper-v2"
	if got := bot.ProcessorName(); got != "helper-v2" {
		t.Fatalf("expected configured processor, got %q", got)
	}
}

func TestChatbotDecodesNestedPreferences(t *testing.T) {
	doc := []byte(`{
		"id": "bot-1",
		"name": "support helper",
		"topics": ["billing"],
		"preferences": {"bot": {"name": "helper", "avatar": "", "processor": "helper-v2"}}
	}`)

	var bot Chatbot
	if err := json.Unmarshal(doc, &bot); err != nil {
		t.Fatalf("decode chatbot: %v", err)
	}
	if bot.ProcessorName() != "helper-v2" {
		t.Fatalf("processor lost in decoding: %+v", bot)
	}
}

func TestOccupancyAddFloorsAtZero(t *testing.T) {
	var o Occupancy
	o.Add("agent", -1)
	if o.Agents != 0 {
		t.Fatalf("counter must floor at zero, got %d", o.Agents)
	}
	o.Add("agent", 2)
	o.Add("agent", -1)
	if o.Agents != 1 {
		t.Fatalf("expected 1, got %d", o.Agents)
	}
}
