package domain

import (
	"fmt"
	"strings"
)

// Greeting opens every new transcript.
const Greeting = "Hello! I can help you find the best festival. Ask me anything!"

// Topic is the keyword class a chat prompt was matched to.
type Topic string

const (
	TopicFood    Topic = "food"
	TopicMusic   Topic = "music"
	TopicSeoul   Topic = "seoul"
	TopicGeneral Topic = "general"
)

// Answer is the scripted reply to a prompt.
type Answer struct {
	Topic Topic  `json:"topic"`
	Text  string `json:"reply"`
}

// chatRules are checked in order; the first rule with a matching keyword wins.
var chatRules = []struct {
	topic    Topic
	keywords []string
	reply    string
}{
	{
		topic:    TopicFood,
		keywords: []string{"food", "음식"},
		reply:    "For food lovers, I highly recommend the 'Jeonju Bibimbap Festival' in October. It offers authentic Korean taste!",
	},
	{
		topic:    TopicMusic,
		keywords: []string{"music", "음악"},
		reply:    "If you like music, check out the 'Incheon Pentaport Rock Festival' in August. It's huge!",
	},
	{
		topic:    TopicSeoul,
		keywords: []string{"seoul", "서울"},
		reply:    "In Seoul, the 'Yeouido Cherry Blossom Festival' in April is a must-visit.",
	},
}

// Reply classifies a prompt by keyword and returns the scripted answer.
// Matching is case-insensitive and does not depend on any festival data.
func Reply(prompt string) Answer {
	lower := strings.ToLower(prompt)
	for _, rule := range chatRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return Answer{Topic: rule.topic, Text: rule.reply}
			}
		}
	}
	return Answer{
		Topic: TopicGeneral,
		Text:  fmt.Sprintf("That's a great question about '%s'. Please check the festival map for detailed schedules!", prompt),
	}
}

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is an append-only chat history. It is owned by whoever drives
// the conversation; Reply itself keeps no state.
type Transcript struct {
	messages []Message
}

// NewTranscript returns a transcript opened with the Greeting.
func NewTranscript() *Transcript {
	return &Transcript{messages: []Message{{Role: RoleAssistant, Content: Greeting}}}
}

// Ask records the prompt and its reply and returns the reply.
func (t *Transcript) Ask(prompt string) Answer {
	answer := Reply(prompt)
	t.messages = append(t.messages,
		Message{Role: RoleUser, Content: prompt},
		Message{Role: RoleAssistant, Content: answer.Text},
	)
	return answer
}

// Messages returns a copy of the history in order.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}
