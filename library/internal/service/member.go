package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/pkg/paging"
)

func (s *Service) RegisterMember(ctx context.Context, req model.RegisterMemberRequest) (model.Member, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate(req); err != nil {
		return model.Member{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Member{}, errors.Wrap(err, "hash password")
	}
	return s.repo.CreateMember(ctx, model.Member{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Active:       true,
	})
}

func (s *Service) GetMember(ctx context.Context, id int64) (model.Member, error) {
	if id <= 0 {
		return model.Member{}, errs.Invalid("memberId must be positive, got %d", id)
	}
	return s.repo.GetMember(ctx, id)
}

func (s *Service) ListMembers(ctx context.Context, page, size int) (model.ListMembers, error) {
	w := paging.Normalize(page, size)
	items, total, err := s.repo.ListMembers(ctx, w)
	if err != nil {
		return model.ListMembers{}, err
	}
	return model.ListMembers{
		Items:      items,
		Pagination: w.Summarize(total),
	}, nil
}

func (s *Service) EditMember(ctx context.Context, id int64, req model.EditMemberRequest) (model.Member, error) {
	if id <= 0 {
		return model.Member{}, errs.Invalid("memberId must be positive, got %d", id)
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if err := s.validate(req); err != nil {
		return model.Member{}, err
	}
	return s.repo.UpdateMember(ctx, id, req.FullName)
}

func (s *Service) DeleteMember(ctx context.Context, id int64) error {
	if id <= 0 {
		return errs.Invalid("memberId must be positive, got %d", id)
	}
	return s.repo.DeleteMember(ctx, id)
}
