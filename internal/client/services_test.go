package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monline/billing/internal/models"
)

// recordingServer captures the last request for path and body assertions.
type recordingServer struct {
	*httptest.Server
	method string
	path   string
	query  string
	body   []byte
}

func newRecordingServer(t *testing.T, status int, response any) *recordingServer {
	t.Helper()
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.method = r.Method
		rs.path = r.URL.Path
		rs.query = r.URL.RawQuery
		rs.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		if response != nil {
			json.NewEncoder(w).Encode(response)
		}
	}))
	t.Cleanup(rs.Server.Close)
	return rs
}

func TestGetCustomer_AddressesByUID(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, models.Customer{UID: "c-uid"})
	c := New(srv.URL, NewMemoryStore())

	customer, err := c.GetCustomer(context.Background(), "c-uid")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, srv.method)
	assert.Equal(t, "/customers/c-uid", srv.path)
	assert.Equal(t, "c-uid", customer.UID)
}

func TestUpdateCustomer_SendsOnlySuppliedFields(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, models.Customer{UID: "c-uid"})
	c := New(srv.URL, NewMemoryStore())

	name := "Rahim Uddin"
	free := false
	_, err := c.UpdateCustomer(context.Background(), "c-uid", models.CustomerInput{
		Name:   &name,
		IsFree: &free,
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, srv.method)
	assert.Equal(t, "/customers/c-uid", srv.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(srv.body, &sent))
	assert.Equal(t, map[string]any{
		"name":    "Rahim Uddin",
		"is_free": false,
	}, sent)
}

func TestCreateCustomerPayment_UsesNestedPath(t *testing.T) {
	srv := newRecordingServer(t, http.StatusCreated, models.Payment{UID: "p-uid"})
	c := New(srv.URL, NewMemoryStore())

	month := "AUGUST"
	amount := "500.00"
	_, err := c.CreateCustomerPayment(context.Background(), "c-uid", models.PaymentInput{
		BillingMonth: &month,
		Amount:       &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, srv.method)
	assert.Equal(t, "/customers/c-uid/payments", srv.path)
}

func TestCreatePayment_CustomerIDInBody(t *testing.T) {
	srv := newRecordingServer(t, http.StatusCreated, models.Payment{UID: "p-uid"})
	c := New(srv.URL, NewMemoryStore())

	customerID := int64(42)
	month := "AUGUST"
	_, err := c.CreatePayment(context.Background(), models.PaymentInput{
		CustomerID:   &customerID,
		BillingMonth: &month,
	})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(srv.body, &sent))
	assert.Equal(t, float64(42), sent["customer_id"])
	assert.Equal(t, "AUGUST", sent["billing_month"])
	assert.NotContains(t, sent, "bill_amount")
}

func TestGenerateBills_MonthAsQueryParam(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, models.GenerateBillsResponse{CreatedPaymentsCount: 7})
	c := New(srv.URL, NewMemoryStore())

	resp, err := c.GenerateBills(context.Background(), "AUGUST")
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, srv.method)
	assert.Equal(t, "/customers/bills/generate", srv.path)
	assert.Equal(t, "month=AUGUST", srv.query)
	assert.Equal(t, 7, resp.CreatedPaymentsCount)

	// Empty month leaves the decision to the server.
	_, err = c.GenerateBills(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, srv.query)
}

func TestToggleStatus_SendsUsernameAndExplicitBool(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, models.StatusToggleResponse{Message: "ok"})
	c := New(srv.URL, NewMemoryStore())

	_, err := c.ToggleStatus(context.Background(), "rahim01", false)
	require.NoError(t, err)
	assert.Equal(t, "/customers/status/toggle", srv.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(srv.body, &sent))
	// An explicit false must survive serialization.
	assert.Equal(t, "rahim01", sent["username"])
	assert.Equal(t, false, sent["is_active"])
}

func TestPackageCustomers_PaginatedNestedList(t *testing.T) {
	srv := newRecordingServer(t, http.StatusOK, models.Page[models.Customer]{
		Count:   1,
		Results: []models.Customer{{UID: "c-uid"}},
	})
	c := New(srv.URL, NewMemoryStore())

	page, err := c.PackageCustomers(context.Background(), "p-uid", ListOptions{Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, "/packages/p-uid/customers", srv.path)
	assert.Contains(t, srv.query, "page=2")
	assert.Contains(t, srv.query, "page_size=5")
	require.Len(t, page.Results, 1)
	assert.Equal(t, "c-uid", page.Results[0].UID)
}

func TestDeletePackage_NoBody(t *testing.T) {
	srv := newRecordingServer(t, http.StatusNoContent, nil)
	c := New(srv.URL, NewMemoryStore())

	require.NoError(t, c.DeletePackage(context.Background(), "p-uid"))
	assert.Equal(t, http.MethodDelete, srv.method)
	assert.Equal(t, "/packages/p-uid", srv.path)
}

func TestListCustomers_PageDecodes(t *testing.T) {
	next := "http://api/customers?page=2"
	srv := newRecordingServer(t, http.StatusOK, models.Page[models.Customer]{
		Count:   12,
		Next:    &next,
		Results: []models.Customer{{UID: "a"}, {UID: "b"}},
	})
	c := New(srv.URL, NewMemoryStore())

	page, err := c.ListCustomers(context.Background(), ListOptions{}, CustomerListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 12, page.Count)
	require.NotNil(t, page.Next)
	assert.Nil(t, page.Previous)
	assert.Len(t, page.Results, 2)
}
