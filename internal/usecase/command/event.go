package command

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Deymos01/git-slackin/internal/domains"
)

// Event is the part of a Slack Events API "event" object the bot reads.
type Event struct {
	Type        string `json:"type"`
	Subtype     string `json:"subtype,omitempty"`
	ChannelType string `json:"channel_type,omitempty"`
	Channel     string `json:"channel"`
	User        string `json:"user"`
	Text        string `json:"text"`
	BotID       string `json:"bot_id,omitempty"`
}

const (
	EventMessage    = "message"
	EventAppMention = "app_mention"

	channelTypeIM = "im"
	subtypeBot    = "bot_message"
)

var leadingMentionRe = regexp.MustCompile(`^<@\w+(?:\|[^>]*)?>\s+(.+)$`)

// FromEvent turns a Slack event into a command. Bot messages, non-DM messages,
// edited or otherwise subtyped messages and mentions without text are rejected.
func FromEvent(ev Event) (domains.Command, bool) {
	if ev.BotID != "" || ev.Subtype == subtypeBot {
		return domains.Command{}, false
	}

	var text string
	switch ev.Type {
	case EventMessage:
		if ev.Subtype != "" || ev.ChannelType != channelTypeIM {
			return domains.Command{}, false
		}
		text = ev.Text
	case EventAppMention:
		m := leadingMentionRe.FindStringSubmatch(strings.TrimSpace(ev.Text))
		if m == nil {
			return domains.Command{}, false
		}
		text = m[1]
	default:
		return domains.Command{}, false
	}

	return Parse(text, ev.User, ev.Channel), true
}

// Parse normalises text into a command. Text and Verb are lower-cased with
// whitespace collapsed; RawArgs keeps everything after the verb as typed.
func Parse(text, userID, channelID string) domains.Command {
	trimmed := strings.TrimSpace(text)

	var verb, rawArgs string
	if i := strings.IndexFunc(trimmed, unicode.IsSpace); i >= 0 {
		verb, rawArgs = trimmed[:i], strings.TrimSpace(trimmed[i:])
	} else {
		verb = trimmed
	}

	return domains.Command{
		Verb:         strings.ToLower(verb),
		RawArgs:      rawArgs,
		Text:         strings.ToLower(strings.Join(strings.Fields(trimmed), " ")),
		SourceUserID: userID,
		ChannelID:    channelID,
	}
}
