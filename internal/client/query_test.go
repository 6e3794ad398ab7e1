package client

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolp(b bool) *bool { return &b }

func TestCustomerListFilter_OnlyPresentFieldsSerialize(t *testing.T) {
	tests := []struct {
		name   string
		filter CustomerListFilter
		want   url.Values
	}{
		{
			name:   "empty filter sends nothing",
			filter: CustomerListFilter{},
			want:   url.Values{},
		},
		{
			name:   "strings serialize only when non-empty",
			filter: CustomerListFilter{Name: "rahim", Phone: "01700000001"},
			want: url.Values{
				"name":  []string{"rahim"},
				"phone": []string{"01700000001"},
			},
		},
		{
			name:   "nil bool is omitted",
			filter: CustomerListFilter{Name: "rahim"},
			want:   url.Values{"name": []string{"rahim"}},
		},
		{
			name:   "explicit false still serializes",
			filter: CustomerListFilter{IsActive: boolp(false)},
			want:   url.Values{"is_active": []string{"false"}},
		},
		{
			name:   "package filters by uid and numeric id",
			filter: CustomerListFilter{PackageUID: "pkg-1", PackageID: 7},
			want: url.Values{
				"package":    []string{"pkg-1"},
				"package_id": []string{"7"},
			},
		},
		{
			name:   "explicit true serializes",
			filter: CustomerListFilter{IsActive: boolp(true), IsFree: boolp(false)},
			want: url.Values{
				"is_active": []string{"true"},
				"is_free":   []string{"false"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			tt.filter.apply(q)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestPaymentListFilter_Apply(t *testing.T) {
	q := url.Values{}
	PaymentListFilter{
		CustomerName: "karim",
		Month:        "AUGUST",
		Paid:         boolp(false),
	}.apply(q)

	assert.Equal(t, url.Values{
		"customer_name": []string{"karim"},
		"month":         []string{"AUGUST"},
		"paid":          []string{"false"},
	}, q)
	assert.NotContains(t, q, "customer_phone")
	assert.NotContains(t, q, "collected_by")
}

func TestListOptions_Values(t *testing.T) {
	assert.Equal(t, url.Values{}, ListOptions{}.values())
	assert.Equal(t, url.Values{
		"page":      []string{"3"},
		"page_size": []string{"25"},
	}, ListOptions{Page: 3, PageSize: 25}.values())
}
