// Package git locates the repository a command runs in.
package git

import (
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNotGitRepository is returned when no repository encloses the directory.
var ErrNotGitRepository = errors.New("not a git repository (or any of the parent directories)")

// Client provides read-only repository discovery.
type Client struct {
	repoRoot   string // Work tree root of the enclosing repository
	workingDir string // Directory discovery started from
}

// NewClient detects the repository enclosing dir.
// It handles both regular repositories and linked worktrees.
func NewClient(dir string) (*Client, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotGitRepository
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no work tree to hold project config.
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, ErrNotGitRepository
		}
		return nil, fmt.Errorf("open worktree: %w", err)
	}

	return &Client{
		repoRoot:   wt.Filesystem.Root(),
		workingDir: abs,
	}, nil
}

// RepoRoot returns the repository work tree root.
func (c *Client) RepoRoot() string {
	return c.repoRoot
}

// WorkingDir returns the directory discovery started from.
func (c *Client) WorkingDir() string {
	return c.workingDir
}

// ProjectRoot returns the repository root enclosing dir, or dir itself when
// it is not inside a repository.
func ProjectRoot(dir string) string {
	c, err := NewClient(dir)
	if err != nil {
		if abs, absErr := filepath.Abs(dir); absErr == nil {
			return abs
		}
		return dir
	}
	return c.RepoRoot()
}
