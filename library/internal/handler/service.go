package handler

import (
	"context"

	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	RentBook(ctx context.Context, req model.RentRequest) (model.Loan, error)
	ReturnBook(ctx context.Context, loanID int64) (model.Loan, error)
	GetLoan(ctx context.Context, loanID int64) (model.LoanView, error)
	ListLoans(ctx context.Context, page, size int) (model.ListLoans, error)
	ListMemberLoans(ctx context.Context, memberID int64, openOnly bool, page, size int) (model.ListLoans, error)
	ListItemLoans(ctx context.Context, catalogID int64, openOnly bool, page, size int) (model.ListLoans, error)

	AddCatalog(ctx context.Context, req model.AddCatalogRequest) (model.CatalogItem, error)
	GetCatalog(ctx context.Context, id int64) (model.CatalogItem, error)
	ListCatalogs(ctx context.Context, page, size int) (model.ListCatalogs, error)
	EditCatalog(ctx context.Context, id int64, req model.EditCatalogRequest) (model.CatalogItem, error)
	DeleteCatalog(ctx context.Context, id int64) error

	RegisterMember(ctx context.Context, req model.RegisterMemberRequest) (model.Member, error)
	GetMember(ctx context.Context, id int64) (model.Member, error)
	ListMembers(ctx context.Context, page, size int) (model.ListMembers, error)
	EditMember(ctx context.Context, id int64, req model.EditMemberRequest) (model.Member, error)
	DeleteMember(ctx context.Context, id int64) error
}

var _ LibraryService = (*service.Service)(nil)
