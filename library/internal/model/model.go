package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/Astemirdum/school-library/pkg/paging"
)

// Date is a calendar day, YYYY-MM-DD on the wire, DATE in the store.
type Date struct {
	time.Time
}

func NewDate(y int, m time.Month, d int) Date {
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) Date {
	t = t.UTC()
	return NewDate(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) (err error) {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return err
	}
	d.Time = date
	return
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("model.Date: cannot scan %T", src)
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(time.DateOnly), nil
}

type CatalogItem struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	ISBN            string    `json:"isbn" db:"isbn"`
	Publisher       string    `json:"publisher" db:"publisher"`
	TotalCopies     int       `json:"totalQty" db:"total_copies"`
	AvailableCopies int       `json:"availableQty" db:"available_copies"`
	Deleted         bool      `json:"-" db:"is_deleted"`
	CreatedAt       time.Time `json:"-" db:"created_at"`
	UpdatedAt       time.Time `json:"-" db:"updated_at"`
}

type Member struct {
	ID           int64     `json:"id" db:"id"`
	FullName     string    `json:"fullName" db:"full_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Active       bool      `json:"-" db:"is_active"`
	Deleted      bool      `json:"-" db:"is_deleted"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

type LoanStatus string

const (
	LoanOpen   LoanStatus = "OPEN"
	LoanClosed LoanStatus = "CLOSED"
)

// Loan is one copy of a catalog item rented by one member.
// It is OPEN until ReturnDate is set and CLOSED afterwards.
type Loan struct {
	ID            int64     `json:"id" db:"id"`
	MemberID      int64     `json:"memberId" db:"member_id"`
	CatalogItemID int64     `json:"catalogId" db:"catalog_id"`
	RentDate      Date      `json:"rentDate" db:"rent_date"`
	DueDate       Date      `json:"dueDate" db:"due_date"`
	ReturnDate    *Date     `json:"returnDate" db:"return_date"`
	CreatedAt     time.Time `json:"-" db:"created_at"`
	UpdatedAt     time.Time `json:"-" db:"updated_at"`
}

func (l Loan) Status() LoanStatus {
	if l.ReturnDate != nil {
		return LoanClosed
	}
	return LoanOpen
}

type MemberSummary struct {
	ID       int64  `json:"id" db:"id"`
	FullName string `json:"fullName" db:"full_name"`
	Email    string `json:"email" db:"email"`
}

type CatalogSummary struct {
	ID              int64  `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	ISBN            string `json:"isbn" db:"isbn"`
	Publisher       string `json:"publisher" db:"publisher"`
	TotalCopies     int    `json:"totalQty" db:"total_copies"`
	AvailableCopies int    `json:"availableQty" db:"available_copies"`
}

// LoanView is a loan joined at read time with its member and catalog item.
type LoanView struct {
	ID         int64          `json:"id" db:"id"`
	Member     MemberSummary  `json:"member" db:"member"`
	Catalog    CatalogSummary `json:"catalog" db:"catalog"`
	RentDate   Date           `json:"rentDate" db:"rent_date"`
	DueDate    Date           `json:"dueDate" db:"due_date"`
	ReturnDate *Date          `json:"returnDate" db:"return_date"`
}

// LoanFilter narrows a ledger listing; zero values mean no restriction.
type LoanFilter struct {
	MemberID      int64
	CatalogItemID int64
	OpenOnly      bool
}

type ListLoans struct {
	Items      []LoanView     `json:"items"`
	Pagination paging.Summary `json:"pagination"`
}

type ListCatalogs struct {
	Items      []CatalogItem  `json:"items"`
	Pagination paging.Summary `json:"pagination"`
}

type ListMembers struct {
	Items      []Member       `json:"items"`
	Pagination paging.Summary `json:"pagination"`
}

type RentRequest struct {
	MemberID      int64 `json:"memberId" validate:"required,gt=0"`
	CatalogItemID int64 `json:"catalogId" validate:"required,gt=0"`
	RentDate      Date  `json:"rentDate"`
	DueDate       Date  `json:"dueDate"`
}

type AddCatalogRequest struct {
	Title       string `json:"title" validate:"required,notblank"`
	Author      string `json:"author" validate:"required,notblank"`
	ISBN        string `json:"isbn" validate:"required,isbn"`
	Publisher   string `json:"publisher" validate:"required,notblank"`
	TotalCopies int    `json:"totalQty" validate:"gte=0"`
}

type EditCatalogRequest = AddCatalogRequest

type RegisterMemberRequest struct {
	FullName string `json:"fullName" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,notblank,min=8"`
}

type EditMemberRequest struct {
	FullName string `json:"fullName" validate:"required,notblank"`
}

type LoanEventType string

const (
	LoanRented   LoanEventType = "LOAN_RENTED"
	LoanReturned LoanEventType = "LOAN_RETURNED"
)

type LoanEvent struct {
	EventID       string        `json:"eventId"`
	Type          LoanEventType `json:"type"`
	LoanID        int64         `json:"rentId"`
	MemberID      int64         `json:"memberId"`
	CatalogItemID int64         `json:"catalogId"`
	OccurredAt    time.Time     `json:"occurredAt"`
}

type RentAction string

const (
	ActionRent   RentAction = "RENT"
	ActionReturn RentAction = "RETURN"
)

// RentCommand is the message accepted on the rent command topic.
type RentCommand struct {
	Action        RentAction `json:"action"`
	MemberID      int64      `json:"memberId"`
	CatalogItemID int64      `json:"catalogId"`
	RentDate      Date       `json:"rentDate"`
	DueDate       Date       `json:"dueDate"`
	LoanID        int64      `json:"rentId"`
}

type Response struct {
	Status     string          `json:"status"`
	Code       int             `json:"code"`
	Message    string          `json:"message"`
	Data       any             `json:"data,omitempty"`
	Pagination *paging.Summary `json:"pagination,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}
