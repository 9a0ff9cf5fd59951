package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	t.Parallel()
	var req RentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"memberId":3,"catalogId":7,"rentDate":"2024-01-01","dueDate":null}`), &req))
	require.Equal(t, NewDate(2024, time.January, 1), req.RentDate)
	require.True(t, req.DueDate.IsZero())

	require.Error(t, json.Unmarshal([]byte(`{"rentDate":"01/02/2024"}`), &req))
}

func TestDate_Scan(t *testing.T) {
	t.Parallel()
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.March, 9, 23, 0, 0, 0, time.UTC)))
	require.Equal(t, "2024-03-09", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	require.Equal(t, "2024-03-09", v)

	require.NoError(t, d.Scan(nil))
	v, err = d.Value()
	require.NoError(t, err)
	require.Nil(t, v)
	require.Error(t, d.Scan(42))
}

func TestLoan_Status(t *testing.T) {
	t.Parallel()
	l := Loan{ID: 1}
	require.Equal(t, LoanOpen, l.Status())

	returned := DateOf(time.Date(2024, time.January, 10, 8, 0, 0, 0, time.FixedZone("MSK", 3*3600)))
	l.ReturnDate = &returned
	require.Equal(t, LoanClosed, l.Status())
	require.Equal(t, "2024-01-10", returned.String())

	b, err := json.Marshal(l)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"memberId":0,"catalogId":0,"rentDate":null,"dueDate":null,"returnDate":"2024-01-10"}`, string(b))
}
