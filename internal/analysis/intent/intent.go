package intent

import "strings"

// Topic 表示用户消息命中的关键词分组。
type Topic string

const (
	Pricing Topic = "pricing"
	Support Topic = "support"
	Contact Topic = "contact"
	General Topic = "general"
)

// Reply 给出一条用户消息对应的话题与回复文本。
type Reply struct {
	Topic Topic
	Text  string
}

type rule struct {
	topic    Topic
	keywords []string
	text     string
}

// 按顺序匹配，第一个命中任一关键词的分组生效。
var rules = []rule{
	{
		topic:    Pricing,
		keywords: []string{"pricing", "cost"},
		text:     "Our pricing starts at $49/month. Would you like more details?",
	},
	{
		topic:    Support,
		keywords: []string{"help", "support"},
		text:     "I'll be happy to help. Could you describe your issue?",
	},
	{
		topic:    Contact,
		keywords: []string{"contact", "speak"},
		text:     "I can help connect you with our team. Could you share your email?",
	},
}

var fallback = Reply{
	Topic: General,
	Text:  "Thank you for your message. How can I assist you further?",
}

var emailTriggers = []string{"contact", "email", "talk", "call", "more info"}

// Respond 根据用户输入（忽略大小写的子串匹配）选择预设回复。
func Respond(input string) Reply {
	normalized := strings.ToLower(input)
	for _, r := range rules {
		if containsAny(normalized, r.keywords) {
			return Reply{Topic: r.topic, Text: r.text}
		}
	}
	return fallback
}

// ShouldCollectEmail 判断用户输入是否需要弹出邮箱收集表单。
func ShouldCollectEmail(input string) bool {
	return containsAny(strings.ToLower(input), emailTriggers)
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
