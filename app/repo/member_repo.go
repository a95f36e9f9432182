package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

type MemberRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
}

type MemberRepo struct {
	DB *gorm.DB
}

func NewMemberRepo(db *gorm.DB) *MemberRepo {
	return &MemberRepo{DB: db}
}

func (r *MemberRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var member model.Member
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		return nil, translate(err, "memberrepo.FindByID")
	}
	return &member, nil
}
