package command_test

import (
	"testing"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/usecase/command"
	"github.com/stretchr/testify/require"
)

func TestFromEvent(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		event  command.Event
		wantOK bool
		want   domains.Command
	}{
		{
			name:   "Direct message",
			event:  command.Event{Type: "message", ChannelType: "im", Channel: "D1", User: "U1", Text: "  Status "},
			wantOK: true,
			want:   domains.Command{Verb: "status", Text: "status", SourceUserID: "U1", ChannelID: "D1"},
		},
		{
			name:  "Bot message subtype",
			event: command.Event{Type: "message", Subtype: "bot_message", ChannelType: "im", Text: "ping"},
		},
		{
			name:  "Bot id",
			event: command.Event{Type: "message", BotID: "B1", ChannelType: "im", Text: "ping"},
		},
		{
			name:  "Edited message",
			event: command.Event{Type: "message", Subtype: "message_changed", ChannelType: "im", Text: "ping"},
		},
		{
			name:  "Channel message",
			event: command.Event{Type: "message", ChannelType: "channel", Text: "ping"},
		},
		{
			name:   "Mention is stripped",
			event:  command.Event{Type: "app_mention", Channel: "C1", User: "U1", Text: "<@UBOT> Config set {\"Reviewers\":{\"count\":3}}"},
			wantOK: true,
			want: domains.Command{
				Verb:         "config",
				RawArgs:      `set {"Reviewers":{"count":3}}`,
				Text:         `config set {"reviewers":{"count":3}}`,
				SourceUserID: "U1",
				ChannelID:    "C1",
			},
		},
		{
			name:  "Bare mention",
			event: command.Event{Type: "app_mention", Text: "<@UBOT>"},
		},
		{
			name:  "Other event type",
			event: command.Event{Type: "reaction_added", Text: "ping"},
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := command.FromEvent(tc.event)
			require.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestParse_KeepsArgumentCase(t *testing.T) {
	t.Parallel()

	cmd := command.Parse("Update   Feature/Fast-Path", "U1", "D1")
	require.Equal(t, "update", cmd.Verb)
	require.Equal(t, "Feature/Fast-Path", cmd.RawArgs)
	require.Equal(t, "update feature/fast-path", cmd.Text)
}

func TestParse_UnicodeWhitespace(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"non-breaking space": "config\u00a0set {\"A\":1}",
		"vertical tab":       "config\vset {\"A\":1}",
		"form feed":          "config\fset {\"A\":1}",
	}

	for name, text := range cases {
		cmd := command.Parse(text, "U1", "D1")
		require.Equal(t, "config", cmd.Verb, name)
		require.Equal(t, "config set {\"a\":1}", cmd.Text, name)
		require.Contains(t, cmd.RawArgs, "{\"A\":1}", name)
	}
}
