package lifecycle

import (
	"time"

	"community_pledge_system/internal/store/models"
	"community_pledge_system/internal/store/repositories"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// RemainingKeyword pledges whatever is still missing from the target,
// excluding the member's own prior pledge.
const RemainingKeyword = "remaining"

// PledgeResult reports the outcome of a pledge so the caller can decide
// whether to surface an invoice call-to-action.
type PledgeResult struct {
	Project     *models.Project
	MemberID    string
	Amount      int
	NewlyFunded bool
}

// UpdateResult carries before/after snapshots for the admin diff.
type UpdateResult struct {
	Old *models.Project
	New *models.Project
}

type engine struct {
	projects repositories.ProjectRepository
	logger   *zap.SugaredLogger
	now      func() time.Time
}

type Engine interface {
	NewProjectID() (string, error)
	Create(projectID string, fields ProjectFields, creator string) (*models.Project, error)
	Update(projectID string, fields ProjectFields, editor string) (*UpdateResult, error)
	Pledge(projectID, amount, memberID string, percentage bool) (*PledgeResult, error)
	Approve(projectID string, asDGR bool) (*models.Project, error)
	Unapprove(projectID string) (*models.Project, error)
	Delete(projectID string) error
}

func NewEngine(projects repositories.ProjectRepository, logger *zap.SugaredLogger) Engine {
	return &engine{
		projects: projects,
		logger:   logger,
		now:      time.Now,
	}
}

// NewProjectID generates a fresh key, retrying until it is absent from the
// store so a later Create cannot collide.
func (e *engine) NewProjectID() (string, error) {
	for {
		id, err := newProjectID()
		if err != nil {
			return "", err
		}

		exists, err := e.projects.Exists(id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
}

func (e *engine) Create(projectID string, fields ProjectFields, creator string) (*models.Project, error) {
	if !ValidateIdentifier(projectID) {
		return nil, &ValidationError{Field: "id", Message: "The project identifier contains invalid characters."}
	}
	if err := fields.Validate(true); err != nil {
		return nil, err
	}

	now := e.now().Unix()
	project := &models.Project{
		ID:            projectID,
		Title:         *fields.Title,
		Description:   *fields.Description,
		Total:         *fields.Total,
		CreatedBy:     creator,
		CreatedAt:     now,
		LastUpdatedBy: creator,
		LastUpdatedAt: now,
		Approved:      false,
		DGR:           false,
	}
	if fields.ImageURL != nil {
		project.ImageURL = *fields.ImageURL
	}

	if _, err := e.projects.Create(project); err != nil {
		return nil, err
	}

	e.logger.Infow("project created", "project", projectID, "creator", creator)
	return project, nil
}

// Update merges the supplied fields over the existing record. An empty
// editor marks a system-internal update: no last-updated stamping and no
// edit lock, since the system owns the fields it writes.
func (e *engine) Update(projectID string, fields ProjectFields, editor string) (*UpdateResult, error) {
	if err := fields.Validate(false); err != nil {
		return nil, err
	}

	var old *models.Project

	project, err := e.projects.Mutate(projectID, func(p *models.Project) error {
		if editor != "" && p.Approved {
			return errors.Wrap(ErrEditLocked, projectID)
		}

		old = p.Clone()

		if fields.Title != nil {
			p.Title = *fields.Title
		}
		if fields.Description != nil {
			p.Description = *fields.Description
		}
		if fields.ImageURL != nil {
			p.ImageURL = *fields.ImageURL
		}
		if fields.Total != nil {
			p.Total = *fields.Total
		}

		if editor != "" {
			p.LastUpdatedBy = editor
			p.LastUpdatedAt = e.now().Unix()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UpdateResult{Old: old, New: project}, nil
}

func (e *engine) Pledge(projectID, amount, memberID string, percentage bool) (*PledgeResult, error) {
	result := &PledgeResult{MemberID: memberID}

	project, err := e.projects.Mutate(projectID, func(p *models.Project) error {
		if !p.Approved {
			return errors.Wrap(ErrNotApproved, projectID)
		}

		pledged, err := resolveAmount(p, amount, memberID, percentage)
		if err != nil {
			return err
		}

		if p.Pledges == nil {
			p.Pledges = make(map[string]int)
		}

		wasFunded := p.Funded()
		p.Pledges[memberID] = pledged

		if !wasFunded && p.Funded() && p.FundedAt == 0 {
			p.FundedAt = e.now().Unix()
			result.NewlyFunded = true
		}

		result.Amount = pledged
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Project = project
	e.logger.Infow("pledge recorded",
		"project", projectID, "member", memberID, "amount", result.Amount, "newly_funded", result.NewlyFunded)
	return result, nil
}

// resolveAmount turns the raw amount or keyword into the dollar value to
// store. Pledges overwrite the member's prior pledge, so "remaining" is
// computed against everyone else's pledges only.
func resolveAmount(p *models.Project, amount, memberID string, percentage bool) (int, error) {
	if amount == RemainingKeyword {
		others := 0
		for member, pledged := range p.Pledges {
			if member != memberID {
				others += pledged
			}
		}

		remaining := p.Total - others
		if remaining < 1 {
			return 0, &InvalidAmountError{Input: amount, Numeric: true}
		}
		return remaining, nil
	}

	value, err := ValidateAmount(amount)
	if err != nil {
		return 0, err
	}

	if percentage {
		return p.Total * value / 100, nil
	}
	return value, nil
}

// Approve clears a project for public listing. The plain path always resets
// the DGR flag, so re-approving a previously tax-deductible project
// deauthorizes it unless the DGR path is used explicitly.
func (e *engine) Approve(projectID string, asDGR bool) (*models.Project, error) {
	return e.projects.Mutate(projectID, func(p *models.Project) error {
		p.Approved = true
		p.ApprovedAt = e.now().Unix()
		p.DGR = asDGR
		return nil
	})
}

// Unapprove hides the project from public listing. Pledges, DGR status and
// timestamps all survive.
func (e *engine) Unapprove(projectID string) (*models.Project, error) {
	return e.projects.Mutate(projectID, func(p *models.Project) error {
		p.Approved = false
		return nil
	})
}

func (e *engine) Delete(projectID string) error {
	if err := e.projects.Delete(projectID); err != nil {
		return err
	}

	e.logger.Infow("project deleted", "project", projectID)
	return nil
}
