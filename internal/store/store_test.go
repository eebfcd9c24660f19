package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"community_pledge_system/internal/store/models"
)

func TestOpenProjectStore_MissingWithoutBootstrap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")

	_, err := OpenProjectStore(path, false, zap.NewNop().Sugar())
	assert.ErrorIs(t, err, ErrMissingDocument)
}

func TestOpenProjectStore_BootstrapCreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")

	store, err := OpenProjectStore(path, true, zap.NewNop().Sugar())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(raw))

	projects, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestOpenProjectStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := OpenProjectStore(path, false, zap.NewNop().Sugar())
	require.NoError(t, err)

	_, err = store.Load()

	var corrupt *CorruptError
	require.True(t, errors.As(err, &corrupt))
	assert.Equal(t, path, corrupt.Path)
}

func TestProjectStore_RoundTripAssignsIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")

	store, err := OpenProjectStore(path, true, zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, store.Save(map[string]*models.Project{
		"abc": {Title: "Laser cutter upgrade", Total: 500, Pledges: map[string]int{"1": 100}},
		"def": {Title: "New workbench", Total: 200},
	}))

	projects, err := store.Load()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "abc", projects["abc"].ID)
	assert.Equal(t, "def", projects["def"].ID)
	assert.Equal(t, 100, projects["abc"].PledgeFor("1"))
}

func TestProjectStore_DocumentIsPrettyPrintedWithSortedKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")

	store, err := OpenProjectStore(path, true, zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, store.Save(map[string]*models.Project{
		"zebra": {Title: "Listed second", Total: 1},
		"alpha": {Title: "Listed first", Total: 1},
	}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(raw)
	assert.True(t, strings.HasSuffix(text, "\n"))
	assert.Contains(t, text, "    \"alpha\"")
	assert.Less(t, strings.Index(text, "alpha"), strings.Index(text, "zebra"))
}

func TestProjectStore_ReplaceDoesNotWriteOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "projects.json")

	store, err := OpenProjectStore(path, true, zap.NewNop().Sugar())
	require.NoError(t, err)
	require.NoError(t, store.Save(map[string]*models.Project{
		"abc": {Title: "Original", Total: 1},
	}))

	boom := errors.New("boom")
	err = store.Replace(func(projects map[string]*models.Project) error {
		projects["abc"].Title = "Changed"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	projects, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Original", projects["abc"].Title)
}

func TestMemberStore_AlwaysBootstraps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "members.json")

	store, err := OpenMemberStore(path, zap.NewNop().Sugar())
	require.NoError(t, err)

	require.NoError(t, store.Replace(func(members map[string]*models.Member) error {
		members["42"] = &models.Member{DisplayName: "Alex", Handle: "alex", ContactID: 7}
		return nil
	}))

	members, err := store.Load()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "42", members["42"].ID)
	assert.True(t, members["42"].Resolved())
}
