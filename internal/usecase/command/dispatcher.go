package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/usecase"
	"github.com/Deymos01/git-slackin/internal/usecase/message"
	"github.com/Deymos01/git-slackin/internal/usecase/user"
)

var (
	prplsRe     = regexp.MustCompile(`^prpls <https://github\.com/[\w.-]+/[\w.-]+/pull/\d+(?:\|[^>]*)?>`)
	configSetRe = regexp.MustCompile(`^config set (.+)$`)
	updateRe    = regexp.MustCompile(`^update(?: ([\w./-]+))?$`)
)

// Verbs reserved for admins. Text starting with one of them that no route takes gets
// the same denial for admins and everyone else.
var adminVerbs = []string{"echo", "config", "bench", "unbench", "overview", "update", "shutdown"}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserService
type UserService interface {
	Register(ctx context.Context, slackID, raw string) (*domains.User, bool, error)
	BySlackID(ctx context.Context, slackID string) (*domains.User, error)
	SetAvailability(ctx context.Context, slackID string, available bool) error
	SetRequestable(ctx context.Context, slackID string, requestable bool) error
	Availability(ctx context.Context) (available, benched []*domains.User, err error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Replier
type Replier interface {
	SendDirectMessage(ctx context.Context, userID, text string) error
	SendToChannel(ctx context.Context, channelID, text string) error
	SendEphemeral(ctx context.Context, channelID, userID, text string) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Maintainer
type Maintainer interface {
	Update(ctx context.Context, cmd domains.Command, branch string) error
	ConfigSet(ctx context.Context, cmd domains.Command, raw string) error
	ShowConfig(ctx context.Context, cmd domains.Command) error
	Shutdown(ctx context.Context, cmd domains.Command) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Revision
type Revision interface {
	Head(ctx context.Context) (string, error)
}

type handlerFunc func(ctx context.Context, cmd domains.Command) error

type route struct {
	name  string
	admin bool
	match func(cmd domains.Command) bool
	run   handlerFunc
}

type Dispatcher struct {
	log      *slog.Logger
	users    UserService
	replier  Replier
	maint    Maintainer
	revision Revision
	admins   map[string]struct{}
	routes   []route
}

func New(
	log *slog.Logger,
	users UserService,
	replier Replier,
	maint Maintainer,
	revision Revision,
	adminIDs []string,
) *Dispatcher {
	admins := make(map[string]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[strings.ToUpper(strings.TrimSpace(id))] = struct{}{}
	}

	d := &Dispatcher{
		log:      log,
		users:    users,
		replier:  replier,
		maint:    maint,
		revision: revision,
		admins:   admins,
	}
	d.routes = d.table()

	return d
}

func exact(words ...string) func(domains.Command) bool {
	return func(cmd domains.Command) bool {
		return slices.Contains(words, cmd.Text)
	}
}

func verb(v string) func(domains.Command) bool {
	return func(cmd domains.Command) bool {
		return cmd.Verb == v
	}
}

func pattern(re *regexp.Regexp) func(domains.Command) bool {
	return func(cmd domains.Command) bool {
		return re.MatchString(cmd.Text)
	}
}

// table lists every command in match order. The first matching route wins.
func (d *Dispatcher) table() []route {
	return []route{
		{name: "register", match: verb("register"), run: d.register},
		{name: "ping", match: exact("ping"), run: d.toChannel(message.Pong)},
		{name: "marco", match: exact("marco"), run: d.toChannel(message.Polo)},
		{name: "hello", match: exact("hi", "hello"), run: d.ephemeral(message.Hey)},
		{name: "stop", match: exact("stop", "silence", "mute"), run: d.availability(false)},
		{name: "start", match: exact("start", "notify", "unmute"), run: d.availability(true)},
		{name: "status", match: exact("status"), run: d.status},
		{name: "help", match: exact("help"), run: d.ephemeral(message.Help)},
		{name: "prpls", match: pattern(prplsRe), run: d.ephemeral(message.NoMoreReviewers)},

		{name: "echo", admin: true, match: verb("echo"), run: d.echo},
		{name: "config", admin: true, match: exact("config"), run: d.maint.ShowConfig},
		{name: "config set", admin: true, match: pattern(configSetRe), run: d.configSet},
		{name: "overview", admin: true, match: exact("overview"), run: d.overview},
		{name: "bench", admin: true, match: verb("bench"), run: d.bench(false)},
		{name: "unbench", admin: true, match: verb("unbench"), run: d.bench(true)},
		{name: "update", admin: true, match: pattern(updateRe), run: d.update},
		{name: "shutdown", admin: true, match: exact("shutdown"), run: d.maint.Shutdown},
	}
}

func (d *Dispatcher) IsAdmin(slackID string) bool {
	_, ok := d.admins[strings.ToUpper(slackID)]
	return ok
}

// Dispatch runs the first command matching cmd.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd domains.Command) error {
	const op = "usecase.command.Dispatch"

	log := d.log.With(slog.String("op", op), slog.String("user", cmd.SourceUserID), slog.String("verb", cmd.Verb))
	admin := d.IsAdmin(cmd.SourceUserID)

	for _, r := range d.routes {
		if !r.match(cmd) {
			continue
		}
		if r.admin && !admin {
			log.Warn("admin command denied", slog.String("command", r.name))
			return d.deny(ctx, cmd)
		}

		log.Info("running command", slog.String("command", r.name))
		if err := r.run(ctx, cmd); err != nil {
			log.Error("command failed", slog.String("command", r.name), slog.String("err", err.Error()))
			return fmt.Errorf("%s: %s: %w", op, r.name, err)
		}
		return nil
	}

	if slices.Contains(adminVerbs, cmd.Verb) {
		log.Info("unknown admin command", slog.Bool("admin", admin))
		return d.deny(ctx, cmd)
	}

	log.Debug("ignoring unrecognised text")
	return nil
}

func (d *Dispatcher) deny(ctx context.Context, cmd domains.Command) error {
	return d.reply(ctx, cmd, message.AdminDenied)
}

func (d *Dispatcher) reply(ctx context.Context, cmd domains.Command, text string) error {
	if err := d.replier.SendEphemeral(ctx, cmd.ChannelID, cmd.SourceUserID, text); err != nil {
		return fmt.Errorf("%w: %w", usecase.ErrDelivery, err)
	}
	return nil
}

func (d *Dispatcher) toChannel(text string) handlerFunc {
	return func(ctx context.Context, cmd domains.Command) error {
		if err := d.replier.SendToChannel(ctx, cmd.ChannelID, text); err != nil {
			return fmt.Errorf("%w: %w", usecase.ErrDelivery, err)
		}
		return nil
	}
}

func (d *Dispatcher) ephemeral(text string) handlerFunc {
	return func(ctx context.Context, cmd domains.Command) error {
		return d.reply(ctx, cmd, text)
	}
}

func (d *Dispatcher) register(ctx context.Context, cmd domains.Command) error {
	u, created, err := d.users.Register(ctx, cmd.SourceUserID, cmd.RawArgs)
	switch {
	case errors.Is(err, usecase.ErrMissingHandle):
		return d.toChannel(message.RegistrationMissingHandle())(ctx, cmd)
	case errors.Is(err, usecase.ErrAlreadyRegistered):
		return d.toChannel(message.RegistrationTaken())(ctx, cmd)
	case err != nil:
		return err
	case !created:
		return d.reply(ctx, cmd, message.AlreadyRegistered(u.GitHubHandle))
	default:
		return d.toChannel(message.Registered(u.GitHubHandle))(ctx, cmd)
	}
}

func (d *Dispatcher) availability(on bool) handlerFunc {
	return func(ctx context.Context, cmd domains.Command) error {
		err := d.users.SetAvailability(ctx, cmd.SourceUserID, on)
		switch {
		case errors.Is(err, usecase.ErrUnknownUser):
			return d.reply(ctx, cmd, message.NotRegistered())
		case err != nil:
			return err
		case on:
			return d.reply(ctx, cmd, message.Resumed())
		default:
			return d.reply(ctx, cmd, message.Paused())
		}
	}
}

func (d *Dispatcher) status(ctx context.Context, cmd domains.Command) error {
	u, err := d.users.BySlackID(ctx, cmd.SourceUserID)
	if errors.Is(err, usecase.ErrUnknownUser) {
		return d.reply(ctx, cmd, message.NotRegistered())
	}
	if err != nil {
		return err
	}

	return d.reply(ctx, cmd, message.Status(u))
}

func (d *Dispatcher) echo(ctx context.Context, cmd domains.Command) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	return d.toChannel(message.Echo(cmd.Text, string(payload)))(ctx, cmd)
}

func (d *Dispatcher) configSet(ctx context.Context, cmd domains.Command) error {
	// RawArgs is "set <json>" with the JSON in its original case.
	var raw string
	if i := strings.IndexFunc(cmd.RawArgs, unicode.IsSpace); i >= 0 {
		raw = strings.TrimSpace(cmd.RawArgs[i:])
	}
	return d.maint.ConfigSet(ctx, cmd, raw)
}

func (d *Dispatcher) update(ctx context.Context, cmd domains.Command) error {
	return d.maint.Update(ctx, cmd, cmd.RawArgs)
}

func (d *Dispatcher) overview(ctx context.Context, cmd domains.Command) error {
	return d.Overview(ctx, cmd.ChannelID)
}

// Overview posts the running revision and who is available or benched to channelID.
func (d *Dispatcher) Overview(ctx context.Context, channelID string) error {
	const op = "usecase.command.Overview"

	available, benched, err := d.users.Availability(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	sha, err := d.revision.Head(ctx)
	if err != nil {
		d.log.Warn("failed to read revision", slog.String("op", op), slog.String("err", err.Error()))
		sha = ""
	}

	if err := d.replier.SendToChannel(ctx, channelID, message.Overview(sha, available, benched)); err != nil {
		return fmt.Errorf("%s: %w: %w", op, usecase.ErrDelivery, err)
	}
	return nil
}

func (d *Dispatcher) bench(requestable bool) handlerFunc {
	verb := "bench"
	if requestable {
		verb = "unbench"
	}

	return func(ctx context.Context, cmd domains.Command) error {
		target, ok := user.FindMention(cmd.RawArgs)
		if !ok {
			return d.reply(ctx, cmd, message.MentionMissing(verb))
		}

		err := d.users.SetRequestable(ctx, target, requestable)
		if errors.Is(err, usecase.ErrUnknownUser) {
			return d.reply(ctx, cmd, message.UnknownMention(target))
		}
		if err != nil {
			return err
		}

		notice := message.Benched(cmd.SourceUserID)
		if requestable {
			notice = message.Unbenched(cmd.SourceUserID)
		}
		if err := d.replier.SendDirectMessage(ctx, target, notice); err != nil {
			d.log.Warn("failed to tell user about bench change",
				slog.String("target", target), slog.String("err", err.Error()))
		}

		return d.reply(ctx, cmd, message.BenchDone(target, !requestable))
	}
}
