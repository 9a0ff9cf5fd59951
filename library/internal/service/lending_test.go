package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/model"
	libraryRepo "github.com/Astemirdum/school-library/library/internal/repository"
	repo_mocks "github.com/Astemirdum/school-library/library/internal/repository/mocks"
	"github.com/Astemirdum/school-library/library/internal/service"
	service_mocks "github.com/Astemirdum/school-library/library/internal/service/mocks"
	"github.com/Astemirdum/school-library/pkg/paging"
)

var (
	now      = time.Date(2024, time.January, 20, 15, 4, 5, 0, time.UTC)
	rentDate = model.NewDate(2024, time.January, 1)
	dueDate  = model.NewDate(2024, time.January, 15)
)

type deps struct {
	repo      *repo_mocks.MockRepository
	publisher *service_mocks.MockEventPublisher
}

func newService(t *testing.T) (*service.Service, deps) {
	t.Helper()
	c := gomock.NewController(t)
	d := deps{
		repo:      repo_mocks.NewMockRepository(c),
		publisher: service_mocks.NewMockEventPublisher(c),
	}
	clock := service_mocks.NewMockClock(c)
	clock.EXPECT().Now().Return(now).AnyTimes()
	ids := service_mocks.NewMockIDGen(c)
	ids.EXPECT().NewID().Return("01HM0000000000000000000000").AnyTimes()

	svc := service.NewService(d.repo, d.publisher, zap.NewNop(),
		service.WithClock(clock),
		service.WithIDGen(ids),
	)
	return svc, d
}

// inTx runs the closure against the same mock, as the real repository
// hands the closure a tx-bound copy of itself.
func inTx(r *repo_mocks.MockRepository) {
	r.EXPECT().
		InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(libraryRepo.Repository) error) error {
			return fn(r)
		})
}

func TestService_RentBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	req := model.RentRequest{MemberID: 3, CatalogItemID: 7, RentDate: rentDate, DueDate: dueDate}
	loan := model.Loan{ID: 1, MemberID: 3, CatalogItemID: 7, RentDate: rentDate, DueDate: dueDate}

	tests := []struct {
		name         string
		req          model.RentRequest
		mockBehavior func(d deps)
		want         model.Loan
		wantErr      error
	}{
		{
			name: "ok",
			req:  req,
			mockBehavior: func(d deps) {
				inTx(d.repo)
				d.repo.EXPECT().MemberExists(ctx, int64(3)).Return(true, nil)
				d.repo.EXPECT().AdjustAvailable(ctx, int64(7), -1, libraryRepo.GuardAvailable).Return(true, nil)
				d.repo.EXPECT().CreateLoan(ctx, model.Loan{
					MemberID: 3, CatalogItemID: 7, RentDate: rentDate, DueDate: dueDate,
				}).Return(loan, nil)
				d.publisher.EXPECT().Publish(ctx, "7", model.LoanEvent{
					EventID:       "01HM0000000000000000000000",
					Type:          model.LoanRented,
					LoanID:        1,
					MemberID:      3,
					CatalogItemID: 7,
					OccurredAt:    now,
				}).Return(nil)
			},
			want: loan,
		},
		{
			name: "ok. publish failure is not fatal",
			req:  req,
			mockBehavior: func(d deps) {
				inTx(d.repo)
				d.repo.EXPECT().MemberExists(ctx, int64(3)).Return(true, nil)
				d.repo.EXPECT().AdjustAvailable(ctx, int64(7), -1, libraryRepo.GuardAvailable).Return(true, nil)
				d.repo.EXPECT().CreateLoan(ctx, gomock.Any()).Return(loan, nil)
				d.publisher.EXPECT().Publish(ctx, "7", gomock.Any()).Return(errors.New("broker down"))
			},
			want: loan,
		},
		{
			name: "err. member not found",
			req:  req,
			mockBehavior: func(d deps) {
				inTx(d.repo)
				d.repo.EXPECT().MemberExists(ctx, int64(3)).Return(false, nil)
			},
			wantErr: errs.ErrMemberNotFound,
		},
		{
			name: "err. catalog not found",
			req:  req,
			mockBehavior: func(d deps) {
				inTx(d.repo)
				d.repo.EXPECT().MemberExists(ctx, int64(3)).Return(true, nil)
				d.repo.EXPECT().AdjustAvailable(ctx, int64(7), -1, libraryRepo.GuardAvailable).Return(false, nil)
				d.repo.EXPECT().GetCatalog(ctx, int64(7)).Return(model.CatalogItem{}, errs.ErrCatalogItemNotFound)
			},
			wantErr: errs.ErrCatalogItemNotFound,
		},
		{
			name: "err. no copies",
			req:  req,
			mockBehavior: func(d deps) {
				inTx(d.repo)
				d.repo.EXPECT().MemberExists(ctx, int64(3)).Return(true, nil)
				d.repo.EXPECT().AdjustAvailable(ctx, int64(7), -1, libraryRepo.GuardAvailable).Return(false, nil)
				d.repo.EXPECT().GetCatalog(ctx, int64(7)).Return(model.CatalogItem{ID: 7, TotalCopies: 2}, nil)
			},
			wantErr: errs.ErrNoCopiesAvailable,
		},
		{
			name: "err. insert failed",
			req:  req,
			mockBehavior: func(d deps) {
				inTx(d.repo)
				d.repo.EXPECT().MemberExists(ctx, int64(3)).Return(true, nil)
				d.repo.EXPECT().AdjustAvailable(ctx, int64(7), -1, libraryRepo.GuardAvailable).Return(true, nil)
				d.repo.EXPECT().CreateLoan(ctx, gomock.Any()).Return(model.Loan{}, errors.New("db internal"))
			},
			wantErr: errors.New("db internal"),
		},
		{
			name:         "err. due before rent",
			req:          model.RentRequest{MemberID: 3, CatalogItemID: 7, RentDate: dueDate, DueDate: rentDate},
			mockBehavior: func(d deps) {},
			wantErr:      errs.ErrInvalidInput,
		},
		{
			name:         "err. missing dates",
			req:          model.RentRequest{MemberID: 3, CatalogItemID: 7},
			mockBehavior: func(d deps) {},
			wantErr:      errs.ErrInvalidInput,
		},
		{
			name:         "err. non-positive member",
			req:          model.RentRequest{MemberID: -1, CatalogItemID: 7, RentDate: rentDate, DueDate: dueDate},
			mockBehavior: func(d deps) {},
			wantErr:      errs.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			tt.mockBehavior(d)

			got, err := svc.RentBook(ctx, tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				if _, ok := errs.As(tt.wantErr); ok {
					require.ErrorIs(t, err, tt.wantErr)
				} else {
					require.EqualError(t, err, tt.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestService_ReturnBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	today := model.DateOf(now)
	closed := model.Loan{ID: 1, MemberID: 3, CatalogItemID: 7, RentDate: rentDate, DueDate: dueDate, ReturnDate: &today}

	tests := []struct {
		name         string
		loanID       int64
		mockBehavior func(d deps)
		want         model.Loan
		wantErr      error
	}{
		{
			name:   "ok",
			loanID: 1,
			mockBehavior: func(d deps) {
				inTx(d.repo)
				d.repo.EXPECT().CloseLoan(ctx, int64(1), today).Return(closed, true, nil)
				d.repo.EXPECT().AdjustAvailable(ctx, int64(7), 1, libraryRepo.GuardCapacity).Return(true, nil)
				d.publisher.EXPECT().Publish(ctx, "7", model.LoanEvent{
					EventID:       "01HM0000000000000000000000",
					Type:          model.LoanReturned,
					LoanID:        1,
					MemberID:      3,
					CatalogItemID: 7,
					OccurredAt:    now,
				}).Return(nil)
			},
			want: closed,
		},
		{
			name:   "err. already returned",
			loanID: 1,
			mockBehavior: func(d deps) {
				inTx(d.repo)
				d.repo.EXPECT().CloseLoan(ctx, int64(1), today).Return(model.Loan{}, false, nil)
				d.repo.EXPECT().FindLoan(ctx, int64(1)).Return(closed, nil)
			},
			wantErr: errs.ErrAlreadyReturned,
		},
		{
			name:   "err. rent not found",
			loanID: 42,
			mockBehavior: func(d deps) {
				inTx(d.repo)
				d.repo.EXPECT().CloseLoan(ctx, int64(42), today).Return(model.Loan{}, false, nil)
				d.repo.EXPECT().FindLoan(ctx, int64(42)).Return(model.Loan{}, errs.ErrLoanNotFound)
			},
			wantErr: errs.ErrLoanNotFound,
		},
		{
			name:         "err. invalid id",
			loanID:       0,
			mockBehavior: func(d deps) {},
			wantErr:      errs.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, d := newService(t)
			tt.mockBehavior(d)

			got, err := svc.ReturnBook(ctx, tt.loanID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, model.LoanClosed, got.Status())
		})
	}
}

func TestService_ListLoans(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	ctx := context.Background()

	items := []model.LoanView{{ID: 1}, {ID: 2}}
	d.repo.EXPECT().CountLoans(gomock.Any(), model.LoanFilter{}).Return(25, nil)
	d.repo.EXPECT().ListLoans(gomock.Any(), model.LoanFilter{}, paging.Window{Page: 1, Size: 10}).Return(items, nil)

	got, err := svc.ListLoans(ctx, 0, 0)
	require.NoError(t, err)
	require.Equal(t, items, got.Items)
	require.Equal(t, paging.Summary{CurrentPage: 1, PageSize: 10, TotalElements: 25, TotalPages: 3}, got.Pagination)
}

func TestService_ListMemberLoans(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)
	ctx := context.Background()

	f := model.LoanFilter{MemberID: 3, OpenOnly: true}
	d.repo.EXPECT().CountLoans(gomock.Any(), f).Return(0, nil)
	d.repo.EXPECT().ListLoans(gomock.Any(), f, paging.Window{Page: 3, Size: 10}).Return(nil, nil)

	got, err := svc.ListMemberLoans(ctx, 3, true, 3, 10)
	require.NoError(t, err)
	require.Empty(t, got.Items)
	require.NotNil(t, got.Items)
	require.Equal(t, paging.Summary{CurrentPage: 3, PageSize: 10}, got.Pagination)

	_, err = svc.ListItemLoans(ctx, 0, false, 1, 10)
	require.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestService_ListLoans_Error(t *testing.T) {
	t.Parallel()
	svc, d := newService(t)

	d.repo.EXPECT().CountLoans(gomock.Any(), model.LoanFilter{CatalogItemID: 7}).Return(0, errors.New("db internal"))
	d.repo.EXPECT().ListLoans(gomock.Any(), model.LoanFilter{CatalogItemID: 7}, gomock.Any()).Return(nil, nil).MaxTimes(1)

	_, err := svc.ListItemLoans(context.Background(), 7, false, 1, 10)
	require.EqualError(t, err, "db internal")
}
