package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// commitFile writes name into the worktree of repo and commits it.
func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

// newOrigin creates a repository with one commit on branch main.
func newOrigin(t *testing.T) (*git.Repository, string, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "origin")
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err)
	commit := commitFile(t, repo, dir, "Makefile", "all:\n")
	return repo, dir, commit
}

func TestGitFetcherClone(t *testing.T) {
	_, origin, commit := newOrigin(t)
	dir := filepath.Join(t.TempDir(), "src", "mattak@main")

	got, err := (&GitFetcher{}).Fetch(context.Background(), origin, "main", dir)
	require.NoError(t, err)
	require.Equal(t, commit, got)
	require.FileExists(t, filepath.Join(dir, "Makefile"))
}

func TestGitFetcherUpdate(t *testing.T) {
	repo, origin, _ := newOrigin(t)
	dir := filepath.Join(t.TempDir(), "checkout")
	f := &GitFetcher{}

	_, err := f.Fetch(context.Background(), origin, "main", dir)
	require.NoError(t, err)

	next := commitFile(t, repo, origin, "CMakeLists.txt", "project(x)\n")
	got, err := f.Fetch(context.Background(), origin, "main", dir)
	require.NoError(t, err)
	require.Equal(t, next, got)
	require.FileExists(t, filepath.Join(dir, "CMakeLists.txt"))

	// Up to date is not an error.
	got, err = f.Fetch(context.Background(), origin, "main", dir)
	require.NoError(t, err)
	require.Equal(t, next, got)
}

func TestGitFetcherUnknownBranch(t *testing.T) {
	_, origin, _ := newOrigin(t)
	dir := filepath.Join(t.TempDir(), "checkout")

	_, err := (&GitFetcher{}).Fetch(context.Background(), origin, "no-such-branch", dir)
	require.Error(t, err)
	require.NoDirExists(t, dir)
}

func TestLocalFetcher(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "include"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "include", "rno-g.h"), []byte("#pragma once\n"), 0o644))

	dir := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale"), nil, 0o644))

	commit, err := LocalFetcher{Dir: src}.Fetch(context.Background(), "ignored", "ignored", dir)
	require.NoError(t, err)
	require.Equal(t, LocalCommit, commit)
	require.FileExists(t, filepath.Join(dir, "include", "rno-g.h"))
	require.NoFileExists(t, filepath.Join(dir, "stale"))
}

func TestLocalFetcherErrors(t *testing.T) {
	_, err := LocalFetcher{Dir: filepath.Join(t.TempDir(), "missing")}.Fetch(context.Background(), "", "", t.TempDir())
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = LocalFetcher{Dir: file}.Fetch(context.Background(), "", "", t.TempDir())
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LocalFetcher{Dir: t.TempDir()}.Fetch(ctx, "", "", t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}
