package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Store reads the behavioral sensing file tree rooted at Root. The tree
// is owned by the pipeline that produced it; nothing here ever writes.
type Store struct {
	Root string
}

var defaultStore *Store

func Init(root string) {
	defaultStore = New(root)
}

func Get() *Store {
	return defaultStore
}

func New(root string) *Store {
	return &Store{Root: root}
}

// user directories are named u01, u02, ...
var userDirPattern = regexp.MustCompile(`^u[0-9]+$`)

func (s *Store) userDir(userID string) string {
	return filepath.Join(s.Root, userID)
}

// ResolveUser verifies the user's directory exists and returns its path.
func (s *Store) ResolveUser(userID string) (string, error) {
	dir := s.userDir(userID)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", notFoundf("unknown user_id: %s", userID)
	}
	return dir, nil
}

// ListUsers returns every user directory under the root, sorted.
func (s *Store) ListUsers() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("read data root %s: %w", s.Root, err)
	}
	users := []string{}
	for _, e := range entries {
		if e.IsDir() && userDirPattern.MatchString(e.Name()) {
			users = append(users, e.Name())
		}
	}
	sort.Strings(users)
	return users, nil
}
