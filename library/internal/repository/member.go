package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/pkg/paging"
)

var memberColumns = []string{
	"id", "full_name", "email", "password_hash", "is_active", "is_deleted", "created_at", "updated_at",
}

var (
	memberNotDeleted = sq.Eq{"is_deleted": false}
	// memberActive is the predicate a member must satisfy to rent.
	memberActive = sq.Eq{"is_deleted": false, "is_active": true}
)

func (r *repository) CreateMember(ctx context.Context, member model.Member) (model.Member, error) {
	b := qb.Insert(memberTableName).
		Columns("full_name", "email", "password_hash", "is_active").
		Values(member.FullName, member.Email, member.PasswordHash, member.Active).
		Suffix("returning *")

	var created model.Member
	if err := r.get(ctx, &created, b); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Member{}, errs.ErrEmailTaken.Withf("email %s is already registered", member.Email)
		}
		return model.Member{}, errors.Wrap(err, "create member")
	}
	return created, nil
}

func (r *repository) GetMember(ctx context.Context, id int64) (model.Member, error) {
	b := qb.Select(memberColumns...).
		From(memberTableName).
		Where(sq.Eq{"id": id}).
		Where(memberNotDeleted).
		Limit(1)

	var m model.Member
	if err := r.get(ctx, &m, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrMemberNotFound.Withf("member not found with id: %d", id)
		}
		return model.Member{}, errors.Wrap(err, "get member")
	}
	return m, nil
}

func (r *repository) MemberExists(ctx context.Context, id int64) (bool, error) {
	b := qb.Select("1").
		Prefix("select exists (").
		From(memberTableName).
		Where(sq.Eq{"id": id}).
		Where(memberActive).
		Suffix(")")

	var exists bool
	if err := r.get(ctx, &exists, b); err != nil {
		return false, errors.Wrap(err, "member exists")
	}
	return exists, nil
}

func (r *repository) ListMembers(ctx context.Context, w paging.Window) ([]model.Member, int, error) {
	total, err := r.count(ctx, qb.Select("count(*)").From(memberTableName).Where(memberNotDeleted))
	if err != nil {
		return nil, 0, errors.Wrap(err, "count members")
	}

	b := window(qb.Select(memberColumns...).
		From(memberTableName).
		Where(memberNotDeleted).
		OrderBy("id"), w)

	members := make([]model.Member, 0, w.Limit())
	if err := r.selectAll(ctx, &members, b); err != nil {
		return nil, 0, errors.Wrap(err, "list members")
	}
	return members, total, nil
}

func (r *repository) UpdateMember(ctx context.Context, id int64, fullName string) (model.Member, error) {
	b := qb.Update(memberTableName).
		Set("full_name", fullName).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where(memberNotDeleted).
		Suffix("returning *")

	var m model.Member
	if err := r.get(ctx, &m, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrMemberNotFound.Withf("member not found with id: %d", id)
		}
		return model.Member{}, errors.Wrap(err, "update member")
	}
	return m, nil
}

func (r *repository) DeleteMember(ctx context.Context, id int64) error {
	n, err := r.exec(ctx, qb.Update(memberTableName).
		Set("is_deleted", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where(memberNotDeleted))
	if err != nil {
		return errors.Wrap(err, "delete member")
	}
	if n == 0 {
		return errs.ErrMemberNotFound.Withf("member not found with id: %d", id)
	}
	return nil
}
