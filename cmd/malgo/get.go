package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// cmdGet fetches a library of .mal sources from a git URL into the lib dir.
// An optional "@rev" suffix pins a branch, tag, or commit.
func cmdGet(cfg *Config, args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s get <git-url>[@rev]\n", appName)
		return 2
	}

	url, rev := splitURLRev(args[0])
	dir, err := fetchLibrary(cfg.libPath(), url, rev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	fmt.Printf("fetched %s into %s\n", url, dir)
	return 0
}

func splitURLRev(arg string) (url, rev string) {
	// The last '@' after the final '/' separates the revision, so user@host
	// URLs stay intact.
	slash := strings.LastIndexByte(arg, '/')
	at := strings.LastIndexByte(arg, '@')
	if at > slash {
		return arg[:at], arg[at+1:]
	}
	return arg, ""
}

// fetchLibrary clones url into libDir/<name> and, when rev is non-empty,
// checks out that revision. An existing checkout is left untouched.
func fetchLibrary(libDir, url, rev string) (string, error) {
	name := libraryName(url)
	if name == "" {
		return "", fmt.Errorf("get: cannot derive a library name from %q", url)
	}
	if err := os.MkdirAll(libDir, 0o755); err != nil {
		return "", err
	}

	target := filepath.Join(libDir, name)
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}

	tmpDir, err := os.MkdirTemp(libDir, "git-fetch-*")
	if err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}

	if rev != "" {
		hash, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", fmt.Errorf("resolve revision %s: %w", rev, err)
		}
		worktree, err := repo.Worktree()
		if err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", err
		}
		if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
			_ = os.RemoveAll(tmpDir)
			return "", fmt.Errorf("git checkout %s: %w", rev, err)
		}
	}

	if err := os.Rename(tmpDir, target); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return target, nil
}

func libraryName(url string) string {
	base := strings.TrimSuffix(filepath.Base(strings.TrimSuffix(url, "/")), ".git")
	if base == "." || base == "/" {
		return ""
	}
	return base
}
