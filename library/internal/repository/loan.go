package repository

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/pkg/paging"
)

var loanColumns = []string{
	"id", "member_id", "catalog_id", "rent_date", "due_date", "return_date", "created_at", "updated_at",
}

// loanViewColumns joins member and catalog without the is_deleted filter:
// history stays readable after either side is soft-deleted.
var loanViewColumns = []string{
	"r.id", "r.rent_date", "r.due_date", "r.return_date",
	`m.id as "member.id"`, `m.full_name as "member.full_name"`, `m.email as "member.email"`,
	`c.id as "catalog.id"`, `c.title as "catalog.title"`, `c.author as "catalog.author"`,
	`c.isbn as "catalog.isbn"`, `c.publisher as "catalog.publisher"`,
	`c.total_copies as "catalog.total_copies"`, `c.available_copies as "catalog.available_copies"`,
}

func loanViewQuery(columns ...string) sq.SelectBuilder {
	return qb.Select(columns...).
		From(rentTableName + " r").
		Join(memberTableName + " m on m.id = r.member_id").
		Join(catalogTableName + " c on c.id = r.catalog_id")
}

func applyLoanFilter(b sq.SelectBuilder, f model.LoanFilter) sq.SelectBuilder {
	if f.MemberID != 0 {
		b = b.Where(sq.Eq{"r.member_id": f.MemberID})
	}
	if f.CatalogItemID != 0 {
		b = b.Where(sq.Eq{"r.catalog_id": f.CatalogItemID})
	}
	if f.OpenOnly {
		b = b.Where(sq.Eq{"r.return_date": nil})
	}
	return b
}

func (r *repository) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	b := qb.Insert(rentTableName).
		Columns("member_id", "catalog_id", "rent_date", "due_date").
		Values(loan.MemberID, loan.CatalogItemID, loan.RentDate, loan.DueDate).
		Suffix("returning " + strings.Join(loanColumns, ", "))

	var created model.Loan
	if err := r.get(ctx, &created, b); err != nil {
		return model.Loan{}, errors.Wrap(err, "create rent")
	}
	return created, nil
}

func (r *repository) FindLoan(ctx context.Context, id int64) (model.Loan, error) {
	b := qb.Select(loanColumns...).
		From(rentTableName).
		Where(sq.Eq{"id": id}).
		Limit(1)

	var loan model.Loan
	if err := r.get(ctx, &loan, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound.Withf("rent not found with id: %d", id)
		}
		return model.Loan{}, errors.Wrap(err, "find rent")
	}
	return loan, nil
}

func (r *repository) GetLoan(ctx context.Context, id int64) (model.LoanView, error) {
	b := loanViewQuery(loanViewColumns...).
		Where(sq.Eq{"r.id": id}).
		Limit(1)

	var view model.LoanView
	if err := r.get(ctx, &view, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LoanView{}, errs.ErrLoanNotFound.Withf("rent not found with id: %d", id)
		}
		return model.LoanView{}, errors.Wrap(err, "get rent")
	}
	return view, nil
}

// CloseLoan sets the return date only while the loan is open. It reports
// false when no open loan with this id exists.
func (r *repository) CloseLoan(ctx context.Context, id int64, returnDate model.Date) (model.Loan, bool, error) {
	b := qb.Update(rentTableName).
		Set("return_date", returnDate).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"return_date": nil}).
		Suffix("returning " + strings.Join(loanColumns, ", "))

	var loan model.Loan
	if err := r.get(ctx, &loan, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, false, nil
		}
		return model.Loan{}, false, errors.Wrap(err, "close rent")
	}
	return loan, true, nil
}

func (r *repository) ListLoans(ctx context.Context, f model.LoanFilter, w paging.Window) ([]model.LoanView, error) {
	b := window(applyLoanFilter(loanViewQuery(loanViewColumns...), f).OrderBy("r.id"), w)

	views := make([]model.LoanView, 0, w.Limit())
	if err := r.selectAll(ctx, &views, b); err != nil {
		return nil, errors.Wrap(err, "list rents")
	}
	return views, nil
}

func (r *repository) CountLoans(ctx context.Context, f model.LoanFilter) (int, error) {
	b := applyLoanFilter(qb.Select("count(*)").From(rentTableName+" r"), f)
	total, err := r.count(ctx, b)
	if err != nil {
		return 0, errors.Wrap(err, "count rents")
	}
	return total, nil
}
