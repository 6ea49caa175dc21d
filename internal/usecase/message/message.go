// Package message renders everything the bot says in Slack.
package message

import (
	"fmt"
	"strings"

	"github.com/Deymos01/git-slackin/internal/domains"
)

const (
	EmojiApproved         = "✔"
	EmojiChangesRequested = "✘"
	EmojiCommented        = "💬"
)

const AdminDenied = "This command is Admin-only or does not exist."

const Help = "Here are my available commands:\n\n" +
	"`stop` or `silence` or `mute` -- No longer get requested for reviews. " +
	"No longer get notifications when your PR is reviewed\n" +
	"`start` or `notify` or `unmute` -- Become requestable again\n" +
	"`status` -- get your current status/info that git slackin has about you\n" +
	"`register <github username or profile url>` -- link your GitHub account to your Slack account\n" +
	"`help` -- this message"

// ReviewEmoji maps a GitHub review state to the emoji that leads the notification.
// GitHub sends states in lower case; anything else is treated as a comment.
func ReviewEmoji(state string) string {
	switch state {
	case domains.ReviewStateApproved:
		return EmojiApproved
	case domains.ReviewStateChangesRequested:
		return EmojiChangesRequested
	default:
		return EmojiCommented
	}
}

func Mention(slackID string) string {
	return "<@" + slackID + ">"
}

func prLink(url string, ev domains.PullRequestEvent) string {
	return fmt.Sprintf("<%s|%s PR #%d>", url, ev.RepoName, ev.Number)
}

func ReviewRequest(opener *domains.User, ev domains.PullRequestEvent) string {
	return fmt.Sprintf("Hi! Please look at %s \"%s\" that %s opened.", prLink(ev.URL, ev), ev.Title, opener.DisplayName)
}

func ReviewersChosen(reviewers []*domains.User) string {
	mentions := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		mentions = append(mentions, Mention(r.SlackID))
	}

	return fmt.Sprintf("I have requested %s to review your PR", strings.Join(mentions, ", "))
}

func Reviewed(reviewer *domains.User, ev domains.PullRequestEvent) string {
	url := ev.ReviewURL
	if url == "" {
		url = ev.URL
	}

	return fmt.Sprintf("%s %s has reviewed your PR %s: \"%s\"",
		ReviewEmoji(ev.ReviewState), reviewer.DisplayName, prLink(url, ev), ev.Title)
}

func Status(u *domains.User) string {
	requestable := "UnRequestable :no_entry_sign:"
	if u.Requestable {
		requestable = "Requestable :white_check_mark:"
	}

	notifications := "Off :no_bell:"
	if u.NotificationsEnabled {
		notifications = "On :bell:"
	}

	return fmt.Sprintf("You are %s here and <https://github.com/%s|@%s> on GitHub.\n"+
		"Your current Git Slackin' status is: %s.\n"+
		"Your current Git Slackin' notification mode is: %s",
		Mention(u.SlackID), u.GitHubHandle, u.GitHubHandle, requestable, notifications)
}

func Paused() string {
	return "You are now benched: no review requests and no review notifications :no_bell:"
}

func Resumed() string {
	return "You are now Requestable and notifications are on :bell:"
}

func NotRegistered() string {
	return "I don't know you yet. Send me `register <github username>` first."
}

func Registered(handle string) string {
	return fmt.Sprintf("You are now registered as <https://github.com/%s|@%s>, now git slackin'!", handle, handle)
}

func AlreadyRegistered(handle string) string {
	return fmt.Sprintf("You are already registered as <https://github.com/%s|@%s>.", handle, handle)
}

func RegistrationTaken() string {
	return "Registration failed. That github username is already registered to someone else. (Weird!)"
}

func RegistrationMissingHandle() string {
	return "Registration failed, github username not specified."
}

func Benched(admin string) string {
	return fmt.Sprintf("You have been benched by %s. "+
		"Send me, Git Slackin, `start` to start receiving Review Requests again.", Mention(admin))
}

func Unbenched(admin string) string {
	return fmt.Sprintf("You have been unbenched by %s. "+
		"You will receive Review Requests again.", Mention(admin))
}

func BenchDone(target string, benched bool) string {
	verb := "unbenched"
	if benched {
		verb = "benched"
	}
	return fmt.Sprintf("I have %s %s as requested.", verb, Mention(target))
}

func MentionMissing(verb string) string {
	return fmt.Sprintf("Please mention who to %s, e.g. `%s @someone`.", verb, verb)
}

func UnknownMention(target string) string {
	return fmt.Sprintf("I could not find %s. Have they registered?", Mention(target))
}

// Overview lists who can currently be requested and who is benched.
func Overview(sha string, available, benched []*domains.User) string {
	var b strings.Builder

	if sha != "" {
		fmt.Fprintf(&b, "Git Slackin: ONLINE. SHA `%s`\n", sha)
	} else {
		b.WriteString("Git Slackin: ONLINE.\n")
	}

	fmt.Fprintf(&b, "*Available Users* (%d): %s\n", len(available), names(available))
	fmt.Fprintf(&b, "*Benched Users* (%d): %s", len(benched), names(benched))

	return b.String()
}

func names(users []*domains.User) string {
	if len(users) == 0 {
		return "_nobody_"
	}

	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.DisplayName)
	}
	return strings.Join(out, ", ")
}

func Echo(text, payload string) string {
	return fmt.Sprintf("```%s\n%s```", text, payload)
}

func UpdateStarted(by, changes string) string {
	return fmt.Sprintf("Update triggered by %s. Be back shortly! :wave:\nChanges: %s", by, changes)
}

func UpdateFailed(err error) string {
	return fmt.Sprintf("Update failed. Error: %s", err)
}

const (
	ConfigUpdated   = "Updated config, restarting Git Slackin..."
	ConfigFailed    = "Error updating configuration"
	ShuttingDown    = "Shutting down!"
	Pong            = "pong :table_tennis_paddle_and_ball:"
	Polo            = "Polo! :water_polo:"
	Hey             = "Hey."
	NoMoreReviewers = "Sorry, I cannot currently add more reviewers"
)
