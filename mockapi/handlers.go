package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jrsteele09/go-nightlife-client/model"
)

const (
	msgNotFound     = "Not found."
	msgRequired     = "This field is required."
	msgNoPermission = "You do not have permission to perform this action."
)

// fieldErrors is the validation body: field name to messages.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, message string) {
	fe[field] = append(fe[field], message)
}

func detail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": message})
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		detail(c, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return false
	}
	return true
}

// pathID reads the :id parameter, answering 404 when it is not a number.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		detail(c, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

// paginate slices items by the page and page_size query parameters and wraps
// them in the list envelope.
func paginate[T any](c *gin.Context, items []T) model.Page[T] {
	size, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || size <= 0 {
		size = 20
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}

	out := model.Page[T]{Count: len(items), Results: []T{}}
	start := (page - 1) * size
	if start >= len(items) {
		return out
	}
	end := min(start+size, len(items))
	out.Results = items[start:end]

	link := func(p int) string {
		u := *c.Request.URL
		u.Scheme = "http"
		u.Host = c.Request.Host
		q := u.Query()
		q.Set("page", strconv.Itoa(p))
		u.RawQuery = q.Encode()
		return u.String()
	}
	if end < len(items) {
		out.Next = link(page + 1)
	}
	if page > 1 {
		out.Previous = link(page - 1)
	}
	return out
}
