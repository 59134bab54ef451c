// Package ghpages publishes the build output to a git branch using go-git.
package ghpages

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

// remoteName is the remote of the temporary publish repository.
const remoteName = "origin"

// tokenUser is sent with token auth. Hosts that accept tokens ignore the user name.
const tokenUser = "token"

var _ ports.Publisher = (*Publisher)(nil)

// Publisher implements ports.Publisher. Every publish works in a fresh
// temporary repository that only holds the target branch.
type Publisher struct{}

// NewPublisher creates a new Publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish replaces the tree of req.Branch with the contents of req.Dir and
// pushes the result. An unchanged tree is neither committed nor pushed.
func (p *Publisher) Publish(ctx context.Context, req ports.PublishRequest) (ports.PublishResult, error) {
	info, err := os.Stat(req.Dir)
	if err != nil || !info.IsDir() {
		return ports.PublishResult{}, zerr.With(zerr.Wrap(domain.ErrNothingToPublish, "cannot publish"), "path", req.Dir)
	}

	url, err := resolveURL(req)
	if err != nil {
		return ports.PublishResult{}, err
	}

	auth, err := authFor(url, req.Token)
	if err != nil {
		return ports.PublishResult{}, err
	}

	work, err := os.MkdirTemp("", "sitepress-publish-*")
	if err != nil {
		return ports.PublishResult{}, zerr.Wrap(err, domain.ErrPublishFailed.Error())
	}
	defer os.RemoveAll(work) //nolint:errcheck // best effort cleanup of the scratch repository

	repo, err := p.checkoutBranch(ctx, work, url, req.Branch, auth)
	if err != nil {
		return ports.PublishResult{}, zerr.With(zerr.Wrap(err, domain.ErrPublishFailed.Error()), "url", url)
	}

	files, err := copyTree(req.Dir, work)
	if err != nil {
		return ports.PublishResult{}, zerr.Wrap(err, domain.ErrPublishFailed.Error())
	}

	hash, err := commitAll(repo, req)
	if errors.Is(err, git.ErrEmptyCommit) {
		return ports.PublishResult{Files: files}, nil
	}
	if err != nil {
		return ports.PublishResult{}, zerr.Wrap(err, domain.ErrPublishFailed.Error())
	}

	ref := plumbing.NewBranchReferenceName(req.Branch)
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref + ":" + ref)},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		err = zerr.Wrap(err, domain.ErrPublishFailed.Error())
		err = zerr.With(err, "url", url)
		return ports.PublishResult{}, zerr.With(err, "branch", req.Branch)
	}

	return ports.PublishResult{Commit: hash.String(), Files: files}, nil
}

// resolveURL returns req.URL, or the URL of req.Remote in the repository
// containing req.RepoDir.
func resolveURL(req ports.PublishRequest) (string, error) {
	if req.URL != "" {
		return req.URL, nil
	}

	notFound := func(cause error) error {
		err := zerr.Wrap(domain.ErrRemoteNotFound, "cannot resolve deploy url")
		if cause != nil {
			err = zerr.With(err, "cause", cause.Error())
		}
		return zerr.With(err, "remote", req.Remote)
	}

	repo, err := git.PlainOpenWithOptions(req.RepoDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", notFound(err)
	}
	remote, err := repo.Remote(req.Remote)
	if err != nil {
		return "", notFound(err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return "", notFound(nil)
	}
	return urls[0], nil
}

// authFor returns basic auth carrying token for http(s) remotes. Other
// transports use their own credentials.
func authFor(url, token string) (transport.AuthMethod, error) {
	if token == "" {
		return nil, nil //nolint:nilnil // no auth is a valid result
	}
	ep, err := transport.NewEndpoint(url)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrPublishFailed.Error()), "url", url)
	}
	if ep.Protocol != "http" && ep.Protocol != "https" {
		return nil, nil //nolint:nilnil // token auth only applies to http remotes
	}
	return &http.BasicAuth{Username: tokenUser, Password: token}, nil
}

// checkoutBranch initializes a repository in dir whose HEAD points at branch.
// If the remote has the branch its history is fetched, otherwise the first
// commit starts an orphan branch. The worktree is left empty either way.
func (p *Publisher) checkoutBranch(
	ctx context.Context,
	dir, url, branch string,
	auth transport.AuthMethod,
) (*git.Repository, error) {
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return nil, err
	}
	if _, err := repo.CreateRemote(&config.RemoteConfig{Name: remoteName, URLs: []string{url}}); err != nil {
		return nil, err
	}

	local := plumbing.NewBranchReferenceName(branch)
	tracking := plumbing.NewRemoteReferenceName(remoteName, branch)

	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec("+" + local + ":" + tracking)},
		Auth:       auth,
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		remoteRef, err := repo.Reference(tracking, true)
		if err != nil {
			return nil, err
		}
		if err := repo.Storer.SetReference(plumbing.NewHashReference(local, remoteRef.Hash())); err != nil {
			return nil, err
		}
	case errors.Is(err, git.NoMatchingRefSpecError{}), errors.Is(err, transport.ErrEmptyRemoteRepository):
		// orphan branch
	default:
		return nil, err
	}

	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, local)); err != nil {
		return nil, err
	}
	return repo, nil
}

// commitAll stages the worktree, which replaces the parent tree, and commits it.
func commitAll(repo *git.Repository, req ports.PublishRequest) (plumbing.Hash, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, err
	}
	return wt.Commit(req.Message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  req.AuthorName,
			Email: req.AuthorEmail,
			When:  time.Now(),
		},
	})
}

// copyTree copies every regular file below src into dst and returns the
// number of files copied. Git metadata in src is skipped.
func copyTree(src, dst string) (int, error) {
	count := 0
	err := filepath.WalkDir(src, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != src && d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(dst, rel)); err != nil {
			return zerr.With(err, "path", path)
		}
		count++
		return nil
	})
	return count, err
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return err
	}

	in, err := os.Open(src) //nolint:gosec // path comes from walking the build tree
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // read-only file

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm) //nolint:gosec // dst is inside the scratch repository
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
