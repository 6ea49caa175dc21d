// Package git drives the git checkout the bot is deployed from.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

var ErrInvalidBranch = errors.New("invalid branch name")

var branchRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

// Runner executes git with args inside dir and returns its trimmed output.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

type Repo struct {
	dir string
	run Runner
}

func New(dir string) *Repo {
	return NewWithRunner(dir, execGit)
}

func NewWithRunner(dir string, run Runner) *Repo {
	return &Repo{dir: dir, run: run}
}

// Pull throws away local modifications and rebases the checkout onto origin/branch.
// The returned string is git's summary of what changed.
func (r *Repo) Pull(ctx context.Context, branch string) (string, error) {
	if !branchRe.MatchString(branch) || strings.Contains(branch, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidBranch, branch)
	}

	out, err := r.run(ctx, r.dir, "stash")
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(out, "No local changes") {
		if _, err := r.run(ctx, r.dir, "stash", "drop"); err != nil {
			return "", err
		}
	}

	return r.run(ctx, r.dir, "pull", "--rebase", "origin", branch)
}

// Head returns the SHA of the checked out commit.
func (r *Repo) Head(ctx context.Context) (string, error) {
	return r.run(ctx, r.dir, "rev-parse", "HEAD")
}

func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}

	return strings.TrimSpace(string(out)), nil
}
