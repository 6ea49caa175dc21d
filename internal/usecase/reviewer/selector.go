package reviewer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/Deymos01/git-slackin/internal/domains"
	"github.com/Deymos01/git-slackin/internal/usecase"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserLister
type UserLister interface {
	ListUsers(ctx context.Context, filter domains.UserFilter) ([]*domains.User, error)
}

type Selector struct {
	log   *slog.Logger
	users UserLister

	mu  sync.Mutex
	rnd *rand.Rand
}

func New(log *slog.Logger, users UserLister) *Selector {
	return NewWithRand(log, users, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewWithRand lets callers pin the random source, mostly for tests.
func NewWithRand(log *slog.Logger, users UserLister, rnd *rand.Rand) *Selector {
	return &Selector{log: log, users: users, rnd: rnd}
}

// Select draws count distinct requestable users whose GitHub handle is not in exclude.
// Every remaining candidate is equally likely on each draw. If the pool runs dry
// before count users are drawn, nothing is returned and the error wraps
// usecase.ErrInsufficientUsers.
func (s *Selector) Select(ctx context.Context, exclude []string, count int) ([]*domains.User, error) {
	const op = "usecase.reviewer.Select"

	if count <= 0 {
		return []*domains.User{}, nil
	}

	requestable := true
	candidates, err := s.users.ListUsers(ctx, domains.UserFilter{Requestable: &requestable})
	if err != nil {
		s.log.Error("failed to list requestable users", slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	excluded := make(map[string]struct{}, len(exclude)+count)
	for _, handle := range exclude {
		excluded[strings.ToLower(handle)] = struct{}{}
	}

	selected := make([]*domains.User, 0, count)
	for len(selected) < count {
		pool := make([]*domains.User, 0, len(candidates))
		for _, u := range candidates {
			if !u.Requestable {
				continue
			}
			if _, skip := excluded[strings.ToLower(u.GitHubHandle)]; skip {
				continue
			}
			pool = append(pool, u)
		}

		if len(pool) == 0 {
			s.log.Warn("not enough eligible reviewers",
				slog.Int("requested", count),
				slog.Int("excluded", len(exclude)),
				slog.Int("requestable", len(candidates)))
			return nil, fmt.Errorf("%s: need %d, found %d: %w", op, count, len(selected), usecase.ErrInsufficientUsers)
		}

		pick := pool[s.intN(len(pool))]
		selected = append(selected, pick)
		excluded[strings.ToLower(pick.GitHubHandle)] = struct{}{}
	}

	return selected, nil
}

func (s *Selector) intN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.rnd.IntN(n)
}
