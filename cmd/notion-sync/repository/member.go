package repository

import (
	"context"
	"notion-sync-backend/cmd/notion-sync/model"

	"gorm.io/gorm"
)

type MemberRepo struct {
	db *gorm.DB
}

func NewMemberRepo(db *gorm.DB) *MemberRepo {
	return &MemberRepo{
		db: db,
	}
}

// ListMembers returns every member row. The id ordering is cosmetic; the
// sync matches on student number, not position.
func (r *MemberRepo) ListMembers(ctx context.Context) ([]model.Member, error) {

	var members []model.Member

	result := r.db.
		WithContext(ctx).
		Model(&model.Member{}).
		Order("id").
		Find(&members)

	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

func (r *MemberRepo) CreateMember(ctx context.Context, member model.Member) error {

	result := r.db.
		WithContext(ctx).
		Create(&member)

	if result.Error != nil {
		return result.Error
	}

	return nil
}
