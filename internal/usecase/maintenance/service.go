// Package maintenance lets admins update, reconfigure and stop the running bot.
//
// None of the operations exit the process. They hand a RestartRequest to the
// Signaler and the owner of the process decides how to stop; requests still in
// flight at that point are abandoned.
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/usecase"
	"github.com/Deymos01/git-slackin/internal/usecase/message"
)

const DefaultNotifyTimeout = 5 * time.Second

type Reason int

const (
	ReasonUpdate Reason = iota + 1
	ReasonConfig
	ReasonShutdown
)

func (r Reason) String() string {
	switch r {
	case ReasonUpdate:
		return "update"
	case ReasonConfig:
		return "config"
	case ReasonShutdown:
		return "shutdown"
	default:
		return "unknown"
	}
}

type RestartRequest struct {
	Reason      Reason
	RequestedBy string
}

// Signaler receives restart requests. It must not block.
type Signaler func(RestartRequest)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Updater
type Updater interface {
	Pull(ctx context.Context, branch string) (string, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=ConfigStore
type ConfigStore interface {
	Merge(overrides map[string]any) error
	Redacted() (map[string]any, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=Notifier
type Notifier interface {
	SendToChannel(ctx context.Context, channelID, text string) error
	SendEphemeral(ctx context.Context, channelID, userID, text string) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserLookup
type UserLookup interface {
	BySlackID(ctx context.Context, slackID string) (*domains.User, error)
}

type Service struct {
	log           *slog.Logger
	git           Updater
	config        ConfigStore
	notifier      Notifier
	users         UserLookup
	signal        Signaler
	defaultBranch string
	notifyTimeout time.Duration
}

func New(
	log *slog.Logger,
	git Updater,
	config ConfigStore,
	notifier Notifier,
	users UserLookup,
	signal Signaler,
	defaultBranch string,
	notifyTimeout time.Duration,
) *Service {
	if notifyTimeout <= 0 {
		notifyTimeout = DefaultNotifyTimeout
	}
	if defaultBranch == "" {
		defaultBranch = "master"
	}

	return &Service{
		log:           log,
		git:           git,
		config:        config,
		notifier:      notifier,
		users:         users,
		signal:        signal,
		defaultBranch: defaultBranch,
		notifyTimeout: notifyTimeout,
	}
}

// Update pulls branch (or the default branch) into the working copy and asks for a
// restart. A failed pull is reported to the requester only and nothing restarts.
func (s *Service) Update(ctx context.Context, cmd domains.Command, branch string) error {
	const op = "usecase.maintenance.Update"

	log := s.log.With(slog.String("op", op), slog.String("user", cmd.SourceUserID))

	if branch == "" {
		branch = s.defaultBranch
	}

	changes, err := s.git.Pull(ctx, branch)
	if err != nil {
		log.Error("update failed", slog.String("branch", branch), slog.String("err", err.Error()))
		if sendErr := s.notifier.SendEphemeral(ctx, cmd.ChannelID, cmd.SourceUserID, message.UpdateFailed(err)); sendErr != nil {
			log.Error("failed to report update failure", slog.String("err", sendErr.Error()))
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	by := message.Mention(cmd.SourceUserID)
	if u, err := s.users.BySlackID(ctx, cmd.SourceUserID); err == nil {
		by = u.DisplayName
	}

	if err := s.notifier.SendToChannel(ctx, cmd.ChannelID, message.UpdateStarted(by, changes)); err != nil {
		log.Warn("failed to announce update", slog.String("err", err.Error()))
	}

	log.Info("updated, requesting restart", slog.String("branch", branch))
	s.signal(RestartRequest{Reason: ReasonUpdate, RequestedBy: cmd.SourceUserID})
	return nil
}

// ConfigSet shallow-merges the JSON object in raw into the persisted configuration
// and asks for a restart so it takes effect. Invalid input changes nothing.
func (s *Service) ConfigSet(ctx context.Context, cmd domains.Command, raw string) error {
	const op = "usecase.maintenance.ConfigSet"

	log := s.log.With(slog.String("op", op), slog.String("user", cmd.SourceUserID))

	var overrides map[string]any
	err := json.Unmarshal([]byte(raw), &overrides)
	if err == nil && len(overrides) == 0 {
		err = errors.New("empty object")
	}
	if err == nil {
		err = s.config.Merge(overrides)
	}
	if err != nil {
		log.Warn("config update rejected", slog.String("err", err.Error()))
		if sendErr := s.notifier.SendEphemeral(ctx, cmd.ChannelID, cmd.SourceUserID, message.ConfigFailed); sendErr != nil {
			log.Error("failed to report config failure", slog.String("err", sendErr.Error()))
		}
		return fmt.Errorf("%s: %w: %w", op, usecase.ErrConfiguration, err)
	}

	if err := s.notifier.SendToChannel(ctx, cmd.ChannelID, message.ConfigUpdated); err != nil {
		log.Warn("failed to confirm config update", slog.String("err", err.Error()))
	}

	log.Info("config updated, requesting restart")
	s.signal(RestartRequest{Reason: ReasonConfig, RequestedBy: cmd.SourceUserID})
	return nil
}

// ShowConfig sends the current configuration, with secrets masked, to the requester.
func (s *Service) ShowConfig(ctx context.Context, cmd domains.Command) error {
	const op = "usecase.maintenance.ShowConfig"

	doc, err := s.config.Redacted()
	if err != nil {
		s.log.Error("failed to read config", slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", op, err)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.SendEphemeral(ctx, cmd.ChannelID, cmd.SourceUserID, string(out)); err != nil {
		return fmt.Errorf("%s: %w: %w", op, usecase.ErrDelivery, err)
	}
	return nil
}

// Shutdown announces the shutdown, waiting at most the notify timeout, and then
// always signals.
func (s *Service) Shutdown(ctx context.Context, cmd domains.Command) error {
	const op = "usecase.maintenance.Shutdown"

	log := s.log.With(slog.String("op", op), slog.String("user", cmd.SourceUserID))

	notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.SendToChannel(notifyCtx, cmd.ChannelID, message.ShuttingDown); err != nil {
		log.Warn("failed to announce shutdown", slog.String("err", err.Error()))
	}

	log.Info("shutdown requested")
	s.signal(RestartRequest{Reason: ReasonShutdown, RequestedBy: cmd.SourceUserID})
	return nil
}
