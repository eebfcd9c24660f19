package repositories

import (
	"sort"
	"sync"

	"community_pledge_system/internal/store"
	"community_pledge_system/internal/store/models"

	"github.com/pkg/errors"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrProjectExists   = errors.New("project already exists")
)

type projectRepository struct {
	store *store.ProjectStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

type ProjectRepository interface {
	Create(project *models.Project) (*models.Project, error)
	Update(project *models.Project) (*models.Project, error)
	Delete(projectID string) error
	GetOne(projectID string) (*models.Project, error)
	GetMany() ([]*models.Project, error)
	Exists(projectID string) (bool, error)
	Mutate(projectID string, fn func(*models.Project) error) (*models.Project, error)
}

func NewProjectRepository(store *store.ProjectStore) ProjectRepository {
	return &projectRepository{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// keyLock returns the mutex serializing read-modify-write cycles for one
// project id. Two mutations of different projects do not block each other
// beyond the store's save granularity.
func (r *projectRepository) keyLock(projectID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[projectID] = lock
	}
	return lock
}

func (r *projectRepository) Create(project *models.Project) (*models.Project, error) {
	lock := r.keyLock(project.ID)
	lock.Lock()
	defer lock.Unlock()

	err := r.store.Replace(func(projects map[string]*models.Project) error {
		if _, ok := projects[project.ID]; ok {
			return errors.Wrap(ErrProjectExists, project.ID)
		}
		projects[project.ID] = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

func (r *projectRepository) Update(project *models.Project) (*models.Project, error) {
	lock := r.keyLock(project.ID)
	lock.Lock()
	defer lock.Unlock()

	err := r.store.Replace(func(projects map[string]*models.Project) error {
		if _, ok := projects[project.ID]; !ok {
			return errors.Wrap(ErrProjectNotFound, project.ID)
		}
		projects[project.ID] = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

func (r *projectRepository) Delete(projectID string) error {
	lock := r.keyLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	return r.store.Replace(func(projects map[string]*models.Project) error {
		if _, ok := projects[projectID]; !ok {
			return errors.Wrap(ErrProjectNotFound, projectID)
		}
		delete(projects, projectID)
		return nil
	})
}

func (r *projectRepository) GetOne(projectID string) (*models.Project, error) {
	projects, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	project, ok := projects[projectID]
	if !ok {
		return nil, errors.Wrap(ErrProjectNotFound, projectID)
	}

	return project, nil
}

func (r *projectRepository) GetMany() ([]*models.Project, error) {
	byID, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	projects := make([]*models.Project, 0, len(byID))
	for _, project := range byID {
		projects = append(projects, project)
	}

	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt != projects[j].CreatedAt {
			return projects[i].CreatedAt < projects[j].CreatedAt
		}
		return projects[i].ID < projects[j].ID
	})

	return projects, nil
}

func (r *projectRepository) Exists(projectID string) (bool, error) {
	projects, err := r.store.Load()
	if err != nil {
		return false, err
	}

	_, ok := projects[projectID]
	return ok, nil
}

// Mutate runs fn against the current record and persists the result, holding
// the project's key lock for the whole cycle. When fn fails nothing is
// written back.
func (r *projectRepository) Mutate(projectID string, fn func(*models.Project) error) (*models.Project, error) {
	lock := r.keyLock(projectID)
	lock.Lock()
	defer lock.Unlock()

	projects, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	project, ok := projects[projectID]
	if !ok {
		return nil, errors.Wrap(ErrProjectNotFound, projectID)
	}

	if err := fn(project); err != nil {
		return nil, err
	}

	err = r.store.Replace(func(current map[string]*models.Project) error {
		current[projectID] = project
		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}
