package service

import (
	"context"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/model"
	libraryRepo "github.com/Astemirdum/school-library/library/internal/repository"
	"github.com/Astemirdum/school-library/pkg/paging"
)

// RentBook takes one copy of a catalog item for a member. The copy is taken
// and the loan recorded in one transaction; nothing is written on failure.
func (s *Service) RentBook(ctx context.Context, req model.RentRequest) (model.Loan, error) {
	if err := s.validate(req); err != nil {
		return model.Loan{}, err
	}
	if req.RentDate.IsZero() || req.DueDate.IsZero() {
		return model.Loan{}, errs.Invalid("rentDate and dueDate are required")
	}
	if req.DueDate.Before(req.RentDate) {
		return model.Loan{}, errs.Invalid("dueDate %s is before rentDate %s", req.DueDate, req.RentDate)
	}

	var loan model.Loan
	err := s.repo.InTx(ctx, func(tx libraryRepo.Repository) error {
		ok, err := tx.MemberExists(ctx, req.MemberID)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrMemberNotFound.Withf("member not found with id: %d", req.MemberID)
		}

		taken, err := tx.AdjustAvailable(ctx, req.CatalogItemID, -1, libraryRepo.GuardAvailable)
		if err != nil {
			return err
		}
		if !taken {
			if _, err := tx.GetCatalog(ctx, req.CatalogItemID); err != nil {
				return err
			}
			return errs.ErrNoCopiesAvailable
		}

		loan, err = tx.CreateLoan(ctx, model.Loan{
			MemberID:      req.MemberID,
			CatalogItemID: req.CatalogItemID,
			RentDate:      req.RentDate,
			DueDate:       req.DueDate,
		})
		return err
	})
	if err != nil {
		return model.Loan{}, err
	}

	s.publish(ctx, model.LoanRented, loan)
	return loan, nil
}

// ReturnBook closes an open loan with today's date and gives the copy back.
func (s *Service) ReturnBook(ctx context.Context, loanID int64) (model.Loan, error) {
	if loanID <= 0 {
		return model.Loan{}, errs.Invalid("rentId must be positive, got %d", loanID)
	}
	today := model.DateOf(s.clock.Now())

	var loan model.Loan
	err := s.repo.InTx(ctx, func(tx libraryRepo.Repository) error {
		closed, ok, err := tx.CloseLoan(ctx, loanID, today)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := tx.FindLoan(ctx, loanID); err != nil {
				return err
			}
			return errs.ErrAlreadyReturned.Withf("book has already been returned for rent id: %d", loanID)
		}
		loan = closed

		given, err := tx.AdjustAvailable(ctx, closed.CatalogItemID, 1, libraryRepo.GuardCapacity)
		if err != nil {
			return err
		}
		if !given {
			return errs.ErrCatalogItemNotFound.Withf("catalog not found with id: %d", closed.CatalogItemID)
		}
		return nil
	})
	if err != nil {
		return model.Loan{}, err
	}

	s.publish(ctx, model.LoanReturned, loan)
	return loan, nil
}

// GetLoan returns one loan joined with its member and catalog item.
func (s *Service) GetLoan(ctx context.Context, loanID int64) (model.LoanView, error) {
	if loanID <= 0 {
		return model.LoanView{}, errs.Invalid("rentId must be positive, got %d", loanID)
	}
	return s.repo.GetLoan(ctx, loanID)
}

// ListLoans pages through every loan in insertion order.
func (s *Service) ListLoans(ctx context.Context, page, size int) (model.ListLoans, error) {
	return s.listLoans(ctx, model.LoanFilter{}, page, size)
}

// ListMemberLoans pages through the loans of one member, optionally only open ones.
func (s *Service) ListMemberLoans(ctx context.Context, memberID int64, openOnly bool, page, size int) (model.ListLoans, error) {
	if memberID <= 0 {
		return model.ListLoans{}, errs.Invalid("memberId must be positive, got %d", memberID)
	}
	return s.listLoans(ctx, model.LoanFilter{MemberID: memberID, OpenOnly: openOnly}, page, size)
}

// ListItemLoans pages through the loans of one catalog item, optionally only open ones.
func (s *Service) ListItemLoans(ctx context.Context, catalogID int64, openOnly bool, page, size int) (model.ListLoans, error) {
	if catalogID <= 0 {
		return model.ListLoans{}, errs.Invalid("catalogId must be positive, got %d", catalogID)
	}
	return s.listLoans(ctx, model.LoanFilter{CatalogItemID: catalogID, OpenOnly: openOnly}, page, size)
}

func (s *Service) listLoans(ctx context.Context, f model.LoanFilter, page, size int) (model.ListLoans, error) {
	w := paging.Normalize(page, size)

	var (
		total int
		items []model.LoanView
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.repo.CountLoans(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		items, err = s.repo.ListLoans(gctx, f, w)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.ListLoans{}, err
	}
	if items == nil {
		items = []model.LoanView{}
	}
	return model.ListLoans{
		Items:      items,
		Pagination: w.Summarize(total),
	}, nil
}

func (s *Service) publish(ctx context.Context, typ model.LoanEventType, loan model.Loan) {
	ev := model.LoanEvent{
		EventID:       s.ids.NewID(),
		Type:          typ,
		LoanID:        loan.ID,
		MemberID:      loan.MemberID,
		CatalogItemID: loan.CatalogItemID,
		OccurredAt:    s.clock.Now(),
	}
	if err := s.publisher.Publish(ctx, strconv.FormatInt(loan.CatalogItemID, 10), ev); err != nil {
		s.log.Warn("publish loan event",
			zap.String("type", string(typ)),
			zap.Int64("rentId", loan.ID),
			zap.Error(err))
	}
}
