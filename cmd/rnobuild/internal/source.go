package internal

import (
	"context"

	"github.com/rno-g/rnobuild/internal/vcs"
)

// sourceFetcher takes the sources of the repository git from a local tree
// and fetches all others.
type sourceFetcher struct {
	git   string
	local vcs.Fetcher
	next  vcs.Fetcher
}

func (f sourceFetcher) Fetch(ctx context.Context, remote, branch, dir string) (string, error) {
	if remote == f.git {
		return f.local.Fetch(ctx, remote, branch, dir)
	}
	return f.next.Fetch(ctx, remote, branch, dir)
}
