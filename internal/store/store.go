package store

import (
	"encoding/json"
	"os"
	"sync"

	"community_pledge_system/internal/store/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrMissingDocument is returned when a store file is absent after the
// initial bootstrap. An absent file is only acceptable on first run.
var ErrMissingDocument = errors.New("store document is missing")

// CorruptError marks a document that exists but cannot be parsed. Callers
// must abort the triggering operation rather than write partial data back.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return "store document " + e.Path + " is corrupt: " + e.Err.Error()
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// ProjectStore persists the whole project collection as one pretty-printed
// JSON document. Every save rewrites the document; that full read-modify-
// write is the store's atomicity boundary.
type ProjectStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.SugaredLogger
}

// MemberStore persists the member-resolution cache with the same discipline.
type MemberStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.SugaredLogger
}

// OpenProjectStore opens the project document at path. With bootstrap set an
// absent file is initialized to an empty collection; without it absence is a
// configuration error.
func OpenProjectStore(path string, bootstrap bool, logger *zap.SugaredLogger) (*ProjectStore, error) {
	if err := ensureDocument(path, bootstrap, logger); err != nil {
		return nil, err
	}
	return &ProjectStore{path: path, logger: logger}, nil
}

// OpenMemberStore opens the member cache at path. The cache is always
// bootstrapped when absent, matching its append-only contract.
func OpenMemberStore(path string, logger *zap.SugaredLogger) (*MemberStore, error) {
	if err := ensureDocument(path, true, logger); err != nil {
		return nil, err
	}
	return &MemberStore{path: path, logger: logger}, nil
}

func ensureDocument(path string, bootstrap bool, logger *zap.SugaredLogger) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", path)
	}
	if !bootstrap {
		return errors.Wrap(ErrMissingDocument, path)
	}

	logger.Infow("bootstrapping empty store document", "path", path)
	return writeDocument(path, map[string]struct{}{})
}

func (s *ProjectStore) Load() (map[string]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ProjectStore) load() (map[string]*models.Project, error) {
	projects := make(map[string]*models.Project)
	if err := readDocument(s.path, &projects); err != nil {
		return nil, err
	}
	for id, project := range projects {
		project.ID = id
	}
	return projects, nil
}

func (s *ProjectStore) Save(projects map[string]*models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeDocument(s.path, projects)
}

// Replace runs fn against the current collection and persists the result
// while holding the document lock, serializing read-modify-write cycles.
func (s *ProjectStore) Replace(fn func(map[string]*models.Project) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(projects); err != nil {
		return err
	}
	return writeDocument(s.path, projects)
}

func (s *MemberStore) Load() (map[string]*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *MemberStore) load() (map[string]*models.Member, error) {
	members := make(map[string]*models.Member)
	if err := readDocument(s.path, &members); err != nil {
		return nil, err
	}
	for id, member := range members {
		member.ID = id
	}
	return members, nil
}

func (s *MemberStore) Replace(fn func(map[string]*models.Member) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(members); err != nil {
		return err
	}
	return writeDocument(s.path, members)
}

func readDocument(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(ErrMissingDocument, path)
		}
		return errors.Wrapf(err, "failed to read %s", path)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &CorruptError{Path: path, Err: err}
	}
	return nil
}

// writeDocument pretty-prints with sorted keys so the persisted document
// stays reviewable in audit trails.
func writeDocument(path string, doc interface{}) error {
	raw, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, append(raw, '\n'), 0o644), "failed to write %s", path)
}
