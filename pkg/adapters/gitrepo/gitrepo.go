//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=gitrepo.go -destination=mock.gen.go -package=gitrepo

// Package gitrepo performs local git operations on feedstock clones.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// ErrBranchNotFound is returned when a series branch does not exist on the
// upstream remote.
var ErrBranchNotFound = errors.New("branch not found on remote")

// CloneParams contains parameters for Clone.
type CloneParams struct {
	Dir         string
	OriginURL   string // the fork, pushed to
	UpstreamURL string // the conda-forge repository, fetched from
	Token       string
}

// CheckoutSeriesBranchParams contains parameters for CheckoutSeriesBranch.
type CheckoutSeriesBranchParams struct {
	Dir    string
	Branch string
}

// CreateBranchParams contains parameters for CreateBranch.
type CreateBranchParams struct {
	Dir  string
	Name string
}

// CommitParams contains parameters for Commit.
type CommitParams struct {
	Dir     string
	Paths   []string // empty means stage everything
	Message string
	Author  Author
}

// PushParams contains parameters for Push.
type PushParams struct {
	Dir    string
	Branch string
	Token  string
}

// Author identifies the commit author.
type Author struct {
	Name  string
	Email string
}

// Git defines the local git operations the updater needs.
type Git interface {
	Clone(ctx context.Context, params CloneParams) error
	CheckoutSeriesBranch(ctx context.Context, params CheckoutSeriesBranchParams) error
	CreateBranch(ctx context.Context, params CreateBranchParams) error
	HasChanges(ctx context.Context, dir string) (bool, error)
	Commit(ctx context.Context, params CommitParams) error
	Push(ctx context.Context, params PushParams) error
}

type gitRepo struct{}

// New creates a go-git backed Git.
func New() Git {
	return &gitRepo{}
}

// Clone clones the fork into dir with the conda-forge repository configured
// as the "upstream" remote. An existing clone is fetched instead.
func (g *gitRepo) Clone(ctx context.Context, params CloneParams) error {
	if _, err := os.Stat(filepath.Join(params.Dir, ".git")); err == nil {
		return g.fetchUpstream(ctx, params.Dir, params.Token)
	}

	repo, err := git.PlainCloneContext(ctx, params.Dir, false, &git.CloneOptions{
		URL:        params.OriginURL,
		RemoteName: "origin",
		Auth:       auth(params.Token),
	})
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", params.OriginURL, err)
	}

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "upstream",
		URLs: []string{params.UpstreamURL},
	})
	if err != nil && !errors.Is(err, git.ErrRemoteExists) {
		return fmt.Errorf("failed to add upstream remote: %w", err)
	}

	return g.fetchUpstream(ctx, params.Dir, params.Token)
}

func (g *gitRepo) fetchUpstream(ctx context.Context, dir, token string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open repository %s: %w", dir, err)
	}
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "upstream",
		Auth:       auth(token),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch upstream: %w", err)
	}
	return nil
}

// CheckoutSeriesBranch checks out the upstream series branch into a local
// branch of the same name, resetting it to the upstream tip. A missing
// branch is reported as ErrBranchNotFound so callers can skip the series.
func (g *gitRepo) CheckoutSeriesBranch(ctx context.Context, params CheckoutSeriesBranchParams) error {
	repo, err := git.PlainOpen(params.Dir)
	if err != nil {
		return fmt.Errorf("failed to open repository %s: %w", params.Dir, err)
	}

	remoteRef, err := repo.Reference(plumbing.NewRemoteReferenceName("upstream", params.Branch), true)
	if err != nil {
		return fmt.Errorf("%w: upstream/%s", ErrBranchNotFound, params.Branch)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return err
	}

	localRef := plumbing.NewBranchReferenceName(params.Branch)
	if _, err := repo.Reference(localRef, true); err == nil {
		if err := wt.Checkout(&git.CheckoutOptions{Branch: localRef, Force: true}); err != nil {
			return fmt.Errorf("failed to checkout %s: %w", params.Branch, err)
		}
		return wt.Reset(&git.ResetOptions{Mode: git.HardReset, Commit: remoteRef.Hash()})
	}

	return wt.Checkout(&git.CheckoutOptions{
		Branch: localRef,
		Hash:   remoteRef.Hash(),
		Create: true,
		Force:  true,
	})
}

// CreateBranch creates and checks out a branch at the current HEAD.
func (g *gitRepo) CreateBranch(_ context.Context, params CreateBranchParams) error {
	repo, err := git.PlainOpen(params.Dir)
	if err != nil {
		return fmt.Errorf("failed to open repository %s: %w", params.Dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}

	branchRef := plumbing.NewBranchReferenceName(params.Name)
	if _, err := repo.Reference(branchRef, true); err == nil {
		// Leftover branch from an earlier run: reuse it at the series tip.
		head, err := repo.Head()
		if err != nil {
			return err
		}
		if err := repo.Storer.SetReference(plumbing.NewHashReference(branchRef, head.Hash())); err != nil {
			return err
		}
		return wt.Checkout(&git.CheckoutOptions{Branch: branchRef, Force: true})
	}

	return wt.Checkout(&git.CheckoutOptions{Branch: branchRef, Create: true})
}

// HasChanges reports whether the worktree has uncommitted changes.
func (g *gitRepo) HasChanges(_ context.Context, dir string) (bool, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return false, fmt.Errorf("failed to open repository %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, err
	}
	status, err := wt.Status()
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

// Commit stages the given paths (or everything when none are given) and
// commits with the configured author.
func (g *gitRepo) Commit(_ context.Context, params CommitParams) error {
	repo, err := git.PlainOpen(params.Dir)
	if err != nil {
		return fmt.Errorf("failed to open repository %s: %w", params.Dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}

	if len(params.Paths) == 0 {
		if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
			return fmt.Errorf("failed to stage changes: %w", err)
		}
	} else {
		for _, path := range params.Paths {
			if _, err := wt.Add(path); err != nil {
				return fmt.Errorf("failed to stage %s: %w", path, err)
			}
		}
	}

	_, err = wt.Commit(params.Message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  params.Author.Name,
			Email: params.Author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Push pushes the branch to origin.
func (g *gitRepo) Push(ctx context.Context, params PushParams) error {
	repo, err := git.PlainOpen(params.Dir)
	if err != nil {
		return fmt.Errorf("failed to open repository %s: %w", params.Dir, err)
	}

	refSpec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", params.Branch, params.Branch))
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{refSpec},
		Auth:       auth(params.Token),
		Force:      true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push %s: %w", params.Branch, err)
	}
	return nil
}

func auth(token string) *githttp.BasicAuth {
	if token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "x-access-token", Password: token}
}
