package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/handler"
	service_mocks "github.com/Astemirdum/school-library/library/internal/handler/mocks"
	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/pkg/paging"
)

type mockBehavior func(r *service_mocks.MockLibraryService)

type testCase struct {
	name         string
	method       string
	target       string
	body         string
	mockBehavior mockBehavior
	expectedCode int
	expectedBody string
}

func run(t *testing.T, tests []testCase) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			svc := service_mocks.NewMockLibraryService(c)
			h := handler.New(svc, zap.NewNop())
			e := h.NewRouter()

			r := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.expectedCode, w.Code)
			require.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestHandler_RentBook(t *testing.T) {
	t.Parallel()
	req := model.RentRequest{
		MemberID:      3,
		CatalogItemID: 7,
		RentDate:      model.NewDate(2024, time.January, 1),
		DueDate:       model.NewDate(2024, time.January, 15),
	}
	body := `{"memberId":3,"catalogId":7,"rentDate":"2024-01-01","dueDate":"2024-01-15"}`

	run(t, []testCase{
		{
			name:   "ok",
			method: http.MethodPost,
			target: "/api/v1/rents",
			body:   body,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().RentBook(gomock.Any(), req).Return(model.Loan{
					ID: 1, MemberID: 3, CatalogItemID: 7, RentDate: req.RentDate, DueDate: req.DueDate,
				}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"status":"success","code":201,"message":"book rented",
				"data":{"id":1,"memberId":3,"catalogId":7,"rentDate":"2024-01-01","dueDate":"2024-01-15","returnDate":null}}`,
		},
		{
			name:   "err. no copies",
			method: http.MethodPost,
			target: "/api/v1/rents",
			body:   body,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().RentBook(gomock.Any(), req).Return(model.Loan{}, errs.ErrNoCopiesAvailable)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"status":"error","code":409,"reason":"NO_COPIES_AVAILABLE","message":"no available copies for this book"}`,
		},
		{
			name:   "err. member not found",
			method: http.MethodPost,
			target: "/api/v1/rents",
			body:   body,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().RentBook(gomock.Any(), req).Return(model.Loan{}, errs.ErrMemberNotFound.Withf("member not found with id: %d", 3))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"status":"error","code":404,"reason":"MEMBER_NOT_FOUND","message":"member not found with id: 3"}`,
		},
		{
			name:         "err. malformed body",
			method:       http.MethodPost,
			target:       "/api/v1/rents",
			body:         `{"memberId":`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"error","code":400,"reason":"INVALID_INPUT","message":"malformed request body"}`,
		},
		{
			name:   "err. internal",
			method: http.MethodPost,
			target: "/api/v1/rents",
			body:   body,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().RentBook(gomock.Any(), req).Return(model.Loan{}, errors.New("db internal"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"status":"error","code":500,"message":"db internal"}`,
		},
	})
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()
	returned := model.NewDate(2024, time.January, 10)

	run(t, []testCase{
		{
			name:   "ok",
			method: http.MethodPut,
			target: "/api/v1/rents/1/return",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ReturnBook(gomock.Any(), int64(1)).Return(model.Loan{
					ID: 1, MemberID: 3, CatalogItemID: 7,
					RentDate:   model.NewDate(2024, time.January, 1),
					DueDate:    model.NewDate(2024, time.January, 15),
					ReturnDate: &returned,
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"success","code":200,"message":"book returned",
				"data":{"id":1,"memberId":3,"catalogId":7,"rentDate":"2024-01-01","dueDate":"2024-01-15","returnDate":"2024-01-10"}}`,
		},
		{
			name:   "err. already returned",
			method: http.MethodPut,
			target: "/api/v1/rents/1/return",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ReturnBook(gomock.Any(), int64(1)).Return(model.Loan{}, errs.ErrAlreadyReturned)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"status":"error","code":409,"reason":"ALREADY_RETURNED","message":"book has already been returned for this rent"}`,
		},
		{
			name:         "err. bad id",
			method:       http.MethodPut,
			target:       "/api/v1/rents/abc/return",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"error","code":400,"reason":"INVALID_INPUT","message":"rentId is invalid"}`,
		},
	})
}

func TestHandler_ListLoans(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name:   "ok",
			method: http.MethodGet,
			target: "/api/v1/rents?page=3&pageSize=10",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListLoans(gomock.Any(), 3, 10).Return(model.ListLoans{
					Items:      []model.LoanView{},
					Pagination: paging.Summary{CurrentPage: 3, PageSize: 10},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"success","code":200,"message":"rents fetched","data":[],
				"pagination":{"currentPage":3,"pageSize":10,"totalElements":0,"totalPages":0}}`,
		},
		{
			name:         "err. bad page",
			method:       http.MethodGet,
			target:       "/api/v1/rents?page=x",
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"error","code":400,"reason":"INVALID_INPUT","message":"page is invalid"}`,
		},
		{
			name:   "member rents",
			method: http.MethodGet,
			target: "/api/v1/members/3/rents?open=true",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListMemberLoans(gomock.Any(), int64(3), true, 0, 0).Return(model.ListLoans{
					Items: []model.LoanView{{
						ID:       1,
						Member:   model.MemberSummary{ID: 3, FullName: "Ada Lovelace", Email: "ada@example.com"},
						Catalog:  model.CatalogSummary{ID: 7, Title: "SICP", Author: "Abelson", ISBN: "0262510871", Publisher: "MIT", TotalCopies: 2, AvailableCopies: 1},
						RentDate: model.NewDate(2024, time.January, 1),
						DueDate:  model.NewDate(2024, time.January, 15),
					}},
					Pagination: paging.Summary{CurrentPage: 1, PageSize: 10, TotalElements: 1, TotalPages: 1},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"success","code":200,"message":"rents fetched",
				"data":[{"id":1,
					"member":{"id":3,"fullName":"Ada Lovelace","email":"ada@example.com"},
					"catalog":{"id":7,"title":"SICP","author":"Abelson","isbn":"0262510871","publisher":"MIT","totalQty":2,"availableQty":1},
					"rentDate":"2024-01-01","dueDate":"2024-01-15","returnDate":null}],
				"pagination":{"currentPage":1,"pageSize":10,"totalElements":1,"totalPages":1}}`,
		},
	})
}

func TestHandler_Catalogs(t *testing.T) {
	t.Parallel()
	add := model.AddCatalogRequest{Title: "SICP", Author: "Abelson", ISBN: "0262510871", Publisher: "MIT", TotalCopies: 2}

	run(t, []testCase{
		{
			name:   "add",
			method: http.MethodPost,
			target: "/api/v1/catalogs",
			body:   `{"title":"SICP","author":"Abelson","isbn":"0262510871","publisher":"MIT","totalQty":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().AddCatalog(gomock.Any(), add).Return(model.CatalogItem{
					ID: 7, Title: "SICP", Author: "Abelson", ISBN: "0262510871", Publisher: "MIT", TotalCopies: 2, AvailableCopies: 2,
				}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"status":"success","code":201,"message":"catalog created",
				"data":{"id":7,"title":"SICP","author":"Abelson","isbn":"0262510871","publisher":"MIT","totalQty":2,"availableQty":2}}`,
		},
		{
			name:         "add. invalid isbn",
			method:       http.MethodPost,
			target:       "/api/v1/catalogs",
			body:         `{"title":"SICP","author":"Abelson","isbn":"123","publisher":"MIT","totalQty":2}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"error","code":400,"reason":"INVALID_INPUT",
				"message":"Key: 'AddCatalogRequest.ISBN' Error:Field validation for 'ISBN' failed on the 'isbn' tag"}`,
		},
		{
			name:   "get. not found",
			method: http.MethodGet,
			target: "/api/v1/catalogs/9",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().GetCatalog(gomock.Any(), int64(9)).Return(model.CatalogItem{}, errs.ErrCatalogItemNotFound.Withf("catalog not found with id: %d", 9))
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"status":"error","code":404,"reason":"CATALOG_ITEM_NOT_FOUND","message":"catalog not found with id: 9"}`,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			target: "/api/v1/catalogs/7",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteCatalog(gomock.Any(), int64(7)).Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"success","code":200,"message":"catalog deleted"}`,
		},
	})
}

func TestHandler_Members(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name:   "register",
			method: http.MethodPost,
			target: "/api/v1/members",
			body:   `{"fullName":"Ada Lovelace","email":"ada@example.com","password":"analytical"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().RegisterMember(gomock.Any(), model.RegisterMemberRequest{
					FullName: "Ada Lovelace", Email: "ada@example.com", Password: "analytical",
				}).Return(model.Member{ID: 3, FullName: "Ada Lovelace", Email: "ada@example.com", PasswordHash: "secret"}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"status":"success","code":201,"message":"member registered",
				"data":{"id":3,"fullName":"Ada Lovelace","email":"ada@example.com"}}`,
		},
		{
			name:         "register. blank name",
			method:       http.MethodPost,
			target:       "/api/v1/members",
			body:         `{"fullName":"   ","email":"ada@example.com","password":"analytical"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"status":"error","code":400,"reason":"INVALID_INPUT",
				"message":"Key: 'RegisterMemberRequest.FullName' Error:Field validation for 'FullName' failed on the 'notblank' tag"}`,
		},
		{
			name:   "register. email taken",
			method: http.MethodPost,
			target: "/api/v1/members",
			body:   `{"fullName":"Ada Lovelace","email":"ada@example.com","password":"analytical"}`,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().RegisterMember(gomock.Any(), gomock.Any()).Return(model.Member{}, errs.ErrEmailTaken)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"status":"error","code":409,"reason":"EMAIL_TAKEN","message":"email is already registered"}`,
		},
		{
			name:   "list",
			method: http.MethodGet,
			target: "/api/v1/members?pageSize=5",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListMembers(gomock.Any(), 0, 5).Return(model.ListMembers{
					Items:      []model.Member{{ID: 3, FullName: "Ada Lovelace", Email: "ada@example.com"}},
					Pagination: paging.Summary{CurrentPage: 1, PageSize: 5, TotalElements: 1, TotalPages: 1},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"success","code":200,"message":"members fetched",
				"data":[{"id":3,"fullName":"Ada Lovelace","email":"ada@example.com"}],
				"pagination":{"currentPage":1,"pageSize":5,"totalElements":1,"totalPages":1}}`,
		},
	})
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	h := handler.New(service_mocks.NewMockLibraryService(gomock.NewController(t)), zap.NewNop())
	w := httptest.NewRecorder()
	h.NewRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/manage/health", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}
