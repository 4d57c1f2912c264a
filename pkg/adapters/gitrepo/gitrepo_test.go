//go:build unit
// +build unit

package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAuthor = Author{Name: "Feedsync Bot", Email: "feedsync@example.com"}

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitFile(t, repo, dir, "README.md", "# feedstock\n", "Initial commit")
	return dir, repo
}

func commitFile(t *testing.T, repo *git.Repository, dir, name, content, message string) plumbing.Hash {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: testAuthor.Name, Email: testAuthor.Email, When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

// setUpstreamRef simulates a fetched upstream remote branch.
func setUpstreamRef(t *testing.T, repo *git.Repository, branch string, hash plumbing.Hash) {
	t.Helper()
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName("upstream", branch), hash)
	require.NoError(t, repo.Storer.SetReference(ref))
}

func TestCheckoutSeriesBranch(t *testing.T) {
	dir, repo := initRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)
	setUpstreamRef(t, repo, "1.20.x", head.Hash())

	g := New()
	err = g.CheckoutSeriesBranch(context.Background(), CheckoutSeriesBranchParams{
		Dir:    dir,
		Branch: "1.20.x",
	})
	require.NoError(t, err)

	cur, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, plumbing.NewBranchReferenceName("1.20.x"), cur.Name())
	assert.Equal(t, head.Hash(), cur.Hash())
}

func TestCheckoutSeriesBranch_BranchNotFound(t *testing.T) {
	dir, _ := initRepo(t)

	err := New().CheckoutSeriesBranch(context.Background(), CheckoutSeriesBranchParams{
		Dir:    dir,
		Branch: "9.99.x",
	})
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestCheckoutSeriesBranch_ResetsToUpstreamTip(t *testing.T) {
	dir, repo := initRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)
	setUpstreamRef(t, repo, "1.20.x", head.Hash())

	g := New()
	params := CheckoutSeriesBranchParams{Dir: dir, Branch: "1.20.x"}
	require.NoError(t, g.CheckoutSeriesBranch(context.Background(), params))

	// Drift the local branch; a second checkout must reset it to the
	// upstream tip.
	commitFile(t, repo, dir, "drift.txt", "drift\n", "Local drift")
	require.NoError(t, g.CheckoutSeriesBranch(context.Background(), params))

	cur, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, head.Hash(), cur.Hash())
}

func TestCreateBranch_ReusesLeftoverBranch(t *testing.T) {
	dir, repo := initRepo(t)
	g := New()

	require.NoError(t, g.CreateBranch(context.Background(), CreateBranchParams{
		Dir:  dir,
		Name: "update-1.2.3",
	}))
	cur, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, plumbing.NewBranchReferenceName("update-1.2.3"), cur.Name())

	// Advance the default branch, then recreate: the leftover branch must be
	// moved to the new tip instead of failing.
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName("master"),
	}))
	newTip := commitFile(t, repo, dir, "bump.txt", "bump\n", "Advance series")

	require.NoError(t, g.CreateBranch(context.Background(), CreateBranchParams{
		Dir:  dir,
		Name: "update-1.2.3",
	}))
	cur, err = repo.Head()
	require.NoError(t, err)
	assert.Equal(t, plumbing.NewBranchReferenceName("update-1.2.3"), cur.Name())
	assert.Equal(t, newTip, cur.Hash())
}

func TestHasChangesAndCommit(t *testing.T) {
	dir, repo := initRepo(t)
	g := New()

	changed, err := g.HasChanges(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipe.txt"), []byte("version: 1.2.3\n"), 0644))
	changed, err = g.HasChanges(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, changed)

	err = g.Commit(context.Background(), CommitParams{
		Dir:     dir,
		Paths:   []string{"recipe.txt"},
		Message: "Update to 1.2.3",
		Author:  testAuthor,
	})
	require.NoError(t, err)

	changed, err = g.HasChanges(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, changed)

	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Update to 1.2.3", commit.Message)
	assert.Equal(t, testAuthor.Name, commit.Author.Name)
	assert.Equal(t, testAuthor.Email, commit.Author.Email)
}

func TestCommit_StagesEverythingWithoutPaths(t *testing.T) {
	dir, _ := initRepo(t)
	g := New()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b\n"), 0644))

	err := g.Commit(context.Background(), CommitParams{
		Dir:     dir,
		Message: "MNT: Re-rendered with conda-smithy",
		Author:  testAuthor,
	})
	require.NoError(t, err)

	changed, err := g.HasChanges(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, changed)
}
