// Package git reads the release history of the target repository with
// go-git: the repository root, the version tags on a ref, and file contents
// at a ref. It never shells out to the git CLI.
package git

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/blang/semver/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"

	"github.com/conformalize/conformalize/internal/version"
)

var (
	// ErrNoVersion is returned when no tag on a ref parses as a version.
	ErrNoVersion = errors.New("no version tag")
	// ErrRefNotFound is returned when a revision cannot be resolved.
	ErrRefNotFound = errors.New("revision not found")
	// ErrFileNotFound is returned when a path does not exist at a revision.
	ErrFileNotFound = errors.New("file not found at revision")
)

// Repo is an opened repository.
type Repo struct {
	repo   *git.Repository
	root   string
	logger *zap.Logger
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string, logger *zap.Logger) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logger.Debug("opening repository", zap.String("path", path))

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// Open opens the repository containing path. A nil logger discards output.
func Open(path string, logger *zap.Logger) (*Repo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	repo, err := openRepo(path, logger)
	if err != nil {
		return nil, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	root := worktree.Filesystem.Root()
	logger.Debug("repository opened", zap.String("root", root))
	return &Repo{repo: repo, root: root, logger: logger}, nil
}

// Root returns the absolute path of the working tree.
func (r *Repo) Root() string {
	return r.root
}

// IsGitRepository reports whether path is inside a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path, zap.NewNop())
	return err == nil
}

func (r *Repo) resolve(rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w: %s: %v", ErrRefNotFound, rev, err)
	}
	return *hash, nil
}

// TagsAt returns the names of the tags pointing at rev, sorted, following
// annotated tags to their commit.
func (r *Repo) TagsAt(rev string) ([]string, error) {
	target, err := r.resolve(rev)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tag, err := r.repo.TagObject(hash); err == nil {
			commit, err := tag.Commit()
			if err != nil {
				return nil
			}
			hash = commit.Hash
		}
		if hash == target {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// TagVersionAt returns the first tag on rev that parses as a full version.
// Tags such as "latest" or "1.2" are skipped.
func (r *Repo) TagVersionAt(rev string) (semver.Version, error) {
	names, err := r.TagsAt(rev)
	if err != nil {
		return semver.Version{}, err
	}
	for _, name := range names {
		v, err := version.Parse(name)
		if err != nil {
			continue
		}
		r.logger.Debug("version tag found", zap.String("rev", rev), zap.String("tag", name))
		return v, nil
	}
	return semver.Version{}, fmt.Errorf("%w at %s", ErrNoVersion, rev)
}

// FileAt returns the contents of path (slash-separated, relative to the
// root) in the commit rev resolves to.
func (r *Repo) FileAt(rev, path string) (string, error) {
	hash, err := r.resolve(rev)
	if err != nil {
		return "", err
	}
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return "", fmt.Errorf("reading commit %s: %w", hash, err)
	}
	file, err := commit.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return "", fmt.Errorf("%w: %s:%s", ErrFileNotFound, rev, path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s:%s: %w", rev, path, err)
	}
	contents, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("reading %s:%s: %w", rev, path, err)
	}
	return contents, nil
}
