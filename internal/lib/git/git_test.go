package git_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Deymos01/git-slackin/internal/lib/git"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	calls   []string
	outputs map[string]string
	errs    map[string]error
}

func (f *fakeGit) run(_ context.Context, _ string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)

	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func TestRepo_Pull(t *testing.T) {
	cases := []struct {
		name      string
		branch    string
		outputs   map[string]string
		errs      map[string]error
		wantCalls []string
		wantErr   bool
	}{
		{
			name:   "clean checkout skips drop",
			branch: "master",
			outputs: map[string]string{
				"stash":                       "No local changes to save",
				"pull --rebase origin master": "Fast-forward\n 1 file changed",
			},
			wantCalls: []string{"stash", "pull --rebase origin master"},
		},
		{
			name:   "dirty checkout drops the stash",
			branch: "feature/x",
			outputs: map[string]string{
				"stash": "Saved working directory and index state WIP on master",
			},
			wantCalls: []string{"stash", "stash drop", "pull --rebase origin feature/x"},
		},
		{
			name:   "pull failure",
			branch: "master",
			outputs: map[string]string{
				"stash": "No local changes to save",
			},
			errs:      map[string]error{"pull --rebase origin master": errors.New("conflict")},
			wantCalls: []string{"stash", "pull --rebase origin master"},
			wantErr:   true,
		},
		{
			name:    "option-looking branch is rejected",
			branch:  "--upload-pack=evil",
			wantErr: true,
		},
		{
			name:    "empty branch is rejected",
			branch:  "",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := &fakeGit{outputs: tc.outputs, errs: tc.errs}
			repo := git.NewWithRunner("/srv/bot", f.run)

			_, err := repo.Pull(context.Background(), tc.branch)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.wantCalls, f.calls)
		})
	}
}

func TestRepo_Head(t *testing.T) {
	f := &fakeGit{outputs: map[string]string{"rev-parse HEAD": "abc123"}}

	sha, err := git.NewWithRunner(".", f.run).Head(context.Background())
	require.NoError(t, err)
	require.Equal(t, "abc123", sha)
}
