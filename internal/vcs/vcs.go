// Package vcs places package sources in a local directory.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/qiniu/x/log"
)

// Fetcher places the sources of one branch of a repository in dir and
// reports the commit checked out.
type Fetcher interface {
	// Fetch clones remote into dir if dir holds no checkout yet, otherwise
	// it brings the existing checkout up to date.
	Fetch(ctx context.Context, remote, branch, dir string) (commit string, err error)
}

// GitFetcher fetches with go-git, without needing a git executable.
type GitFetcher struct {
	// Depth limits the fetched history; 0 fetches all of it.
	Depth int

	// Progress receives the remote's progress messages, if set.
	Progress io.Writer
}

var _ Fetcher = (*GitFetcher)(nil)

// NewGitFetcher returns a GitFetcher doing shallow single-branch clones.
func NewGitFetcher() *GitFetcher {
	return &GitFetcher{Depth: 1}
}

func (g *GitFetcher) Fetch(ctx context.Context, remote, branch, dir string) (string, error) {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		log.Debugf("vcs: updating %s in %s", remote, dir)
		return g.update(ctx, remote, branch, dir)
	}

	log.Debugf("vcs: cloning %s (branch %s) into %s", remote, branch, dir)
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return "", err
	}
	opts := &git.CloneOptions{
		URL:      remote,
		Depth:    g.Depth,
		Progress: g.Progress,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}
	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		// Leave no half-cloned tree behind for the next run to trip over.
		os.RemoveAll(dir)
		return "", fmt.Errorf("clone %s: %w", remote, err)
	}
	return head(repo)
}

func (g *GitFetcher) update(ctx context.Context, remote, branch, dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	opts := &git.PullOptions{
		RemoteName: git.DefaultRemoteName,
		Depth:      g.Depth,
		Progress:   g.Progress,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}
	err = wt.PullContext(ctx, opts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("pull %s: %w", remote, err)
	}
	return head(repo)
}

func head(repo *git.Repository) (string, error) {
	ref, err := repo.Head()
	if err != nil {
		return "", err
	}
	return ref.Hash().String(), nil
}

// LocalCommit is the commit LocalFetcher reports.
const LocalCommit = "local"

// LocalFetcher copies an existing source tree, ignoring remote and branch.
type LocalFetcher struct {
	Dir string
}

var _ Fetcher = LocalFetcher{}

func (l LocalFetcher) Fetch(ctx context.Context, _, _, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fi, err := os.Stat(l.Dir)
	if err != nil {
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s: not a directory", l.Dir)
	}
	if err := os.RemoveAll(dir); err != nil {
		return "", err
	}
	log.Debugf("vcs: copying %s to %s", l.Dir, dir)
	if err := os.CopyFS(dir, os.DirFS(l.Dir)); err != nil {
		return "", fmt.Errorf("copy %s: %w", l.Dir, err)
	}
	return LocalCommit, nil
}
