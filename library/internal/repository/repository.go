package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/pkg/paging"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type Repository interface {
	// InTx runs fn in one transaction. fn must only use the Repository it is
	// given; a nil return commits, anything else rolls back.
	InTx(ctx context.Context, fn func(tx Repository) error) error

	CreateCatalog(ctx context.Context, item model.CatalogItem) (model.CatalogItem, error)
	GetCatalog(ctx context.Context, id int64) (model.CatalogItem, error)
	ListCatalogs(ctx context.Context, w paging.Window) ([]model.CatalogItem, int, error)
	UpdateCatalog(ctx context.Context, id int64, req model.EditCatalogRequest) (model.CatalogItem, error)
	DeleteCatalog(ctx context.Context, id int64) error
	AdjustAvailable(ctx context.Context, id int64, delta int, guard Guard) (bool, error)

	CreateMember(ctx context.Context, member model.Member) (model.Member, error)
	GetMember(ctx context.Context, id int64) (model.Member, error)
	MemberExists(ctx context.Context, id int64) (bool, error)
	ListMembers(ctx context.Context, w paging.Window) ([]model.Member, int, error)
	UpdateMember(ctx context.Context, id int64, fullName string) (model.Member, error)
	DeleteMember(ctx context.Context, id int64) error

	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	FindLoan(ctx context.Context, id int64) (model.Loan, error)
	GetLoan(ctx context.Context, id int64) (model.LoanView, error)
	CloseLoan(ctx context.Context, id int64, returnDate model.Date) (model.Loan, bool, error)
	ListLoans(ctx context.Context, f model.LoanFilter, w paging.Window) ([]model.LoanView, error)
	CountLoans(ctx context.Context, f model.LoanFilter) (int, error)
}

type repository struct {
	db  *sqlx.DB
	tx  *sqlx.Tx
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	catalogTableName = `catalog`
	memberTableName  = `member`
	rentTableName    = `rent`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *repository) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) InTx(ctx context.Context, fn func(tx Repository) error) error {
	if r.tx != nil {
		return fn(r)
	}
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&repository{db: r.db, tx: tx, log: r.log}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.log.Error("rollback", zap.Error(rbErr))
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (r *repository) get(ctx context.Context, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	if err := sqlx.GetContext(ctx, r.ext(), dest, query, args...); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.log.Error("get", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		}
		return err
	}
	return nil
}

func (r *repository) selectAll(ctx context.Context, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	r.log.Debug("select", zap.String("query", query), zap.Any("args", args))
	if err := sqlx.SelectContext(ctx, r.ext(), dest, query, args...); err != nil {
		r.log.Error("select", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return err
	}
	return nil
}

func (r *repository) exec(ctx context.Context, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.ext().ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Error("exec", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) count(ctx context.Context, b sq.SelectBuilder) (int, error) {
	var total int
	if err := r.get(ctx, &total, b); err != nil {
		return 0, err
	}
	return total, nil
}

func window(b sq.SelectBuilder, w paging.Window) sq.SelectBuilder {
	return b.Limit(uint64(w.Limit())).Offset(uint64(w.Offset()))
}
