package http

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePage reads ?page and ?page_size with bounds applied.
func parsePage(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.Query("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// pageEnvelope builds the count/next/previous/results list envelope. The
// next and previous links are absolute URLs reconstructed from the current
// request with only the page parameter swapped.
func pageEnvelope(c *gin.Context, results any, count, page, pageSize int) gin.H {
	var next, previous *string
	if page*pageSize < count {
		next = pageLink(c, page+1)
	}
	if page > 1 {
		previous = pageLink(c, page-1)
	}
	return gin.H{
		"count":    count,
		"next":     next,
		"previous": previous,
		"results":  results,
	}
}

func pageLink(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	link := (&url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     u.Path,
		RawQuery: u.RawQuery,
	}).String()
	return &link
}
