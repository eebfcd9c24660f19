package repositories

import (
	"sort"

	"community_pledge_system/internal/store"
	"community_pledge_system/internal/store/models"

	"github.com/pkg/errors"
)

var ErrMemberNotFound = errors.New("member not found")

type memberRepository struct {
	store *store.MemberStore
}

type MemberRepository interface {
	Put(member *models.Member) (*models.Member, error)
	GetOne(memberID string) (*models.Member, error)
	GetMany() ([]*models.Member, error)
}

func NewMemberRepository(store *store.MemberStore) MemberRepository {
	return &memberRepository{store: store}
}

func (r *memberRepository) Put(member *models.Member) (*models.Member, error) {
	err := r.store.Replace(func(members map[string]*models.Member) error {
		members[member.ID] = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

func (r *memberRepository) GetOne(memberID string) (*models.Member, error) {
	members, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	member, ok := members[memberID]
	if !ok {
		return nil, errors.Wrap(ErrMemberNotFound, memberID)
	}

	return member, nil
}

func (r *memberRepository) GetMany() ([]*models.Member, error) {
	byID, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	members := make([]*models.Member, 0, len(byID))
	for _, member := range byID {
		members = append(members, member)
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].ID < members[j].ID
	})

	return members, nil
}
