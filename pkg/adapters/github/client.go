//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=client.go -destination=mock.gen.go -package=github
package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"
)

// GetFileContentParams contains parameters for GetFileContent.
type GetFileContentParams struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

// CreatePullRequestParams contains parameters for CreatePullRequest.
type CreatePullRequestParams struct {
	Owner  string
	Repo   string
	Title  string
	Body   string
	Head   string // "forkowner:branch"
	Base   string // series branch, e.g. "1.21.x"
	Labels []string
}

// Client defines the interface for interacting with GitHub.
type Client interface {
	ListTags(ctx context.Context, owner, repo string) ([]string, error)
	CreateFork(ctx context.Context, owner, repo string) (string, error)
	CreatePullRequest(ctx context.Context, params CreatePullRequestParams) (string, error)
	GetFileContent(ctx context.Context, params GetFileContentParams) ([]byte, error)
}

// client implements Client using go-github.
type client struct {
	gh *github.Client
}

// New creates a new GitHub client with the given token. An empty token
// yields an unauthenticated client, enough for listing tags of public repos.
func New(token string) Client {
	if token == "" {
		return &client{gh: github.NewClient(nil)}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	gh := github.NewClient(oauth2.NewClient(context.Background(), ts))
	return &client{gh: gh}
}

// ListTags retrieves all tags of a GitHub repository, following pagination
// until the API runs out of pages. Tag names are returned in API order.
func (c *client) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	var names []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		tags, resp, err := c.gh.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list tags for %s/%s: %w", owner, repo, err)
		}
		for _, tag := range tags {
			if tag.Name != nil {
				names = append(names, *tag.Name)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

// CreateFork forks a repository into the authenticated user's account and
// returns the fork's clone URL when the API provides it. Fork creation is
// asynchronous on GitHub's side; a 202 response means the fork exists or is
// being created, which is success for our purposes.
func (c *client) CreateFork(ctx context.Context, owner, repo string) (string, error) {
	fork, _, err := c.gh.Repositories.CreateFork(ctx, owner, repo, nil)
	var accepted *github.AcceptedError
	if errors.As(err, &accepted) {
		err = nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to fork %s/%s: %w", owner, repo, err)
	}
	if fork != nil {
		return fork.GetCloneURL(), nil
	}
	return "", nil
}

// CreatePullRequest opens a pull request and applies the requested labels.
func (c *client) CreatePullRequest(ctx context.Context, params CreatePullRequestParams) (string, error) {
	pr := &github.NewPullRequest{
		Title: &params.Title,
		Body:  &params.Body,
		Head:  &params.Head,
		Base:  &params.Base,
	}

	createdPR, _, err := c.gh.PullRequests.Create(ctx, params.Owner, params.Repo, pr)
	if err != nil {
		return "", fmt.Errorf("failed to create pull request on %s/%s: %w", params.Owner, params.Repo, err)
	}

	if len(params.Labels) > 0 {
		_, _, err = c.gh.Issues.AddLabelsToIssue(
			ctx, params.Owner, params.Repo, createdPR.GetNumber(), params.Labels,
		)
		if err != nil {
			return "", fmt.Errorf("failed to label pull request #%d: %w", createdPR.GetNumber(), err)
		}
	}

	return createdPR.GetHTMLURL(), nil
}

// GetFileContent retrieves the content of a file from a GitHub repository.
func (c *client) GetFileContent(ctx context.Context, params GetFileContentParams) ([]byte, error) {
	fileContent, _, _, err := c.gh.Repositories.GetContents(
		ctx, params.Owner, params.Repo, params.Path,
		&github.RepositoryContentGetOptions{Ref: params.Ref},
	)
	if err != nil {
		return nil, err
	}
	if fileContent == nil {
		return nil, nil
	}
	content, err := fileContent.GetContent()
	if err != nil {
		return nil, err
	}
	return []byte(content), nil
}
