package client

import (
	"net/url"
	"strconv"
)

// ListOptions selects one page of a list endpoint. Zero values are omitted
// so the server applies its own defaults.
type ListOptions struct {
	Page     int
	PageSize int
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(o.PageSize))
	}
	return q
}

// CustomerListFilter narrows ListCustomers. String fields serialize only
// when non-empty; boolean fields are pointers so an explicit false still
// reaches the server.
type CustomerListFilter struct {
	Name       string
	Username   string
	Phone      string
	PackageUID string
	PackageID  int64
	IsActive   *bool
	IsFree     *bool
}

func (f CustomerListFilter) apply(q url.Values) {
	setString(q, "name", f.Name)
	setString(q, "username", f.Username)
	setString(q, "phone", f.Phone)
	setString(q, "package", f.PackageUID)
	if f.PackageID > 0 {
		q.Set("package_id", strconv.FormatInt(f.PackageID, 10))
	}
	setBool(q, "is_active", f.IsActive)
	setBool(q, "is_free", f.IsFree)
}

// PaymentListFilter narrows ListPayments.
type PaymentListFilter struct {
	CustomerName  string
	CustomerPhone string
	CollectedBy   string
	Month         string
	Paid          *bool
}

func (f PaymentListFilter) apply(q url.Values) {
	setString(q, "customer_name", f.CustomerName)
	setString(q, "customer_phone", f.CustomerPhone)
	setString(q, "collected_by", f.CollectedBy)
	setString(q, "month", f.Month)
	setBool(q, "paid", f.Paid)
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setBool(q url.Values, key string, value *bool) {
	if value != nil {
		q.Set(key, strconv.FormatBool(*value))
	}
}
