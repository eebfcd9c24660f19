package lifecycle

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"community_pledge_system/internal/store"
	"community_pledge_system/internal/store/repositories"
)

const testNow = int64(1700000000)

func newTestEngine(t *testing.T) (*engine, repositories.ProjectRepository) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "projects.json")
	projectStore, err := store.OpenProjectStore(path, true, zap.NewNop().Sugar())
	require.NoError(t, err)

	projects := repositories.NewProjectRepository(projectStore)
	return &engine{
		projects: projects,
		logger:   zap.NewNop().Sugar(),
		now:      func() time.Time { return time.Unix(testNow, 0) },
	}, projects
}

func fields(title, description string, total int) ProjectFields {
	return ProjectFields{Title: &title, Description: &description, Total: &total}
}

var validDescription = "A long enough description of the project explaining what it is and why the space needs one of these."

func TestEngine_CreateStampsAndForcesFlags(t *testing.T) {
	e, _ := newTestEngine(t)

	project, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)

	assert.Equal(t, "100", project.CreatedBy)
	assert.Equal(t, testNow, project.CreatedAt)
	assert.Equal(t, "100", project.LastUpdatedBy)
	assert.Equal(t, testNow, project.LastUpdatedAt)
	assert.False(t, project.Approved)
	assert.False(t, project.DGR)
}

func TestEngine_CreateRejectsDuplicateID(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)

	_, err = e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	assert.ErrorIs(t, err, repositories.ErrProjectExists)
}

func TestEngine_CreateRejectsInvalidID(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("not valid!", fields("Laser cutter", validDescription, 500), "100")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "id", validation.Field)
}

func TestEngine_CreateValidatesFieldLengths(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Shrt", validDescription, 500), "100")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "title", validation.Field)

	_, err = e.Create("abc", fields("Laser cutter", "Too short.", 500), "100")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "description", validation.Field)
}

func TestEngine_UpdateMergesAndStamps(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)

	newTotal := 750
	result, err := e.Update("abc", ProjectFields{Total: &newTotal}, "200")
	require.NoError(t, err)

	assert.Equal(t, 500, result.Old.Total)
	assert.Equal(t, 750, result.New.Total)
	assert.Equal(t, "Laser cutter", result.New.Title)
	assert.Equal(t, "200", result.New.LastUpdatedBy)
}

func TestEngine_UpdateApprovedProjectLockedForHumans(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)
	_, err = e.Approve("abc", false)
	require.NoError(t, err)

	newTotal := 750
	_, err = e.Update("abc", ProjectFields{Total: &newTotal}, "100")
	assert.ErrorIs(t, err, ErrEditLocked)
}

func TestEngine_SystemUpdateSkipsLockAndStamps(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)
	_, err = e.Approve("abc", false)
	require.NoError(t, err)

	newTotal := 750
	result, err := e.Update("abc", ProjectFields{Total: &newTotal}, "")
	require.NoError(t, err)
	assert.Equal(t, 750, result.New.Total)
	assert.Equal(t, "100", result.New.LastUpdatedBy)
}

func TestEngine_PledgeRequiresApproval(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)

	_, err = e.Pledge("abc", "50", "200", false)
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestEngine_PledgeOverwritesNotAccumulates(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)
	_, err = e.Approve("abc", false)
	require.NoError(t, err)

	_, err = e.Pledge("abc", "50", "200", false)
	require.NoError(t, err)

	result, err := e.Pledge("abc", "80", "200", false)
	require.NoError(t, err)
	assert.Equal(t, 80, result.Amount)
	assert.Equal(t, 80, result.Project.PledgeTotal())
}

func TestEngine_PledgePercentageRoundsDown(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 99), "100")
	require.NoError(t, err)
	_, err = e.Approve("abc", false)
	require.NoError(t, err)

	result, err := e.Pledge("abc", "10", "200", true)
	require.NoError(t, err)
	assert.Equal(t, 9, result.Amount)
}

func TestEngine_PledgeRemainingExcludesOwnPriorPledge(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)
	_, err = e.Approve("abc", false)
	require.NoError(t, err)

	_, err = e.Pledge("abc", "100", "200", false)
	require.NoError(t, err)
	_, err = e.Pledge("abc", "150", "300", false)
	require.NoError(t, err)

	// Member 300 re-pledges "remaining": their own 150 does not count
	// against the gap, so they cover everything but member 200's 100.
	result, err := e.Pledge("abc", RemainingKeyword, "300", false)
	require.NoError(t, err)
	assert.Equal(t, 400, result.Amount)
	assert.True(t, result.Project.Funded())
}

func TestEngine_PledgeRemainingOnFundedProjectRejected(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 100), "100")
	require.NoError(t, err)
	_, err = e.Approve("abc", false)
	require.NoError(t, err)

	_, err = e.Pledge("abc", "100", "200", false)
	require.NoError(t, err)

	_, err = e.Pledge("abc", RemainingKeyword, "300", false)

	var invalid *InvalidAmountError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, invalid.Numeric)
}

func TestEngine_FundedAtStampedExactlyOnce(t *testing.T) {
	e, projects := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 100), "100")
	require.NoError(t, err)
	_, err = e.Approve("abc", false)
	require.NoError(t, err)

	result, err := e.Pledge("abc", "100", "200", false)
	require.NoError(t, err)
	assert.True(t, result.NewlyFunded)
	assert.Equal(t, testNow, result.Project.FundedAt)

	// Dropping below target and re-funding keeps the original stamp.
	_, err = e.Pledge("abc", "10", "200", false)
	require.NoError(t, err)

	result, err = e.Pledge("abc", "100", "200", false)
	require.NoError(t, err)
	assert.False(t, result.NewlyFunded)

	project, err := projects.GetOne("abc")
	require.NoError(t, err)
	assert.Equal(t, testNow, project.FundedAt)
}

func TestEngine_PlainApproveResetsDGR(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)

	project, err := e.Approve("abc", true)
	require.NoError(t, err)
	assert.True(t, project.DGR)

	project, err = e.Approve("abc", false)
	require.NoError(t, err)
	assert.False(t, project.DGR)
	assert.True(t, project.Approved)
}

func TestEngine_UnapproveKeepsPledgesAndDGR(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create("abc", fields("Laser cutter", validDescription, 500), "100")
	require.NoError(t, err)
	_, err = e.Approve("abc", true)
	require.NoError(t, err)
	_, err = e.Pledge("abc", "50", "200", false)
	require.NoError(t, err)

	project, err := e.Unapprove("abc")
	require.NoError(t, err)
	assert.False(t, project.Approved)
	assert.True(t, project.DGR)
	assert.Equal(t, 50, project.PledgeTotal())
}

func TestEngine_NewProjectIDAvoidsCollisions(t *testing.T) {
	e, _ := newTestEngine(t)

	id, err := e.NewProjectID()
	require.NoError(t, err)
	assert.Len(t, id, 16)
	assert.True(t, ValidateIdentifier(id))
}
