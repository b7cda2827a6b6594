package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Page is one window over a newest-first listing such as wallet history.
type Page struct {
	Number int   `json:"page"`
	Size   int   `json:"limit"`
	Total  int64 `json:"total"`
	Pages  int   `json:"pages"`
}

// ParsePage reads ?page= and ?limit=. Missing or malformed values mean the
// first page of defaultSize; limit never exceeds maxSize.
func ParsePage(c *fiber.Ctx, defaultSize, maxSize int) Page {
	p := Page{Number: queryInt(c, "page", 1), Size: queryInt(c, "limit", defaultSize)}
	if maxSize > 0 && p.Size > maxSize {
		p.Size = maxSize
	}
	return p
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// WithTotal returns p with the row count and page count filled in.
func (p Page) WithTotal(total int64) Page {
	p.Total = total
	p.Pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	return p
}

// Paged is the body of every paginated listing.
type Paged struct {
	Items interface{} `json:"items"`
	Page  Page        `json:"pagination"`
}
