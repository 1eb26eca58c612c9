package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the textual form of CreatedAt: ISO-8601 in UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Product represents a stocked item in the inventory
type Product struct {
	ID          int64   `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Quantity    int     `json:"quantity" yaml:"quantity"`
	Category    string  `json:"category" yaml:"category"`
	CreatedAt   string  `json:"createdAt" yaml:"createdAt"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Category represents a product category. Title is its identifier.
type Category struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// FormatTimestamp renders t in the stored CreatedAt form
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// CreatedTime parses CreatedAt. The zero time is returned for unparseable values.
func (p *Product) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, p.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DescriptionText returns the description or an empty string when unset
func (p *Product) DescriptionText() string {
	if p.Description == nil {
		return ""
	}
	return *p.Description
}

// Clone returns a deep copy of the product
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.Description != nil {
		d := *p.Description
		c.Description = &d
	}
	return &c
}

// Blank reports whether s is empty once surrounding whitespace is removed
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
