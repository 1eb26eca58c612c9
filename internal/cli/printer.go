package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"inventory/internal/domain"
	"inventory/internal/view"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// productRow is a product as displayed, with its fa-IR creation date
type productRow struct {
	domain.Product `yaml:",inline"`
	DisplayDate    string `json:"displayDate" yaml:"displayDate"`
}

type printer struct {
	out    io.Writer
	errOut io.Writer
	format string
}

func newPrinter(out, errOut io.Writer, format string) (*printer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case formatTable, formatJSON, formatYAML:
		return &printer{out: out, errOut: errOut, format: format}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func toRow(p *domain.Product) productRow {
	return productRow{Product: *p, DisplayDate: view.DisplayDate(p.CreatedAt)}
}

// Products prints a derived product list. An empty table prints view.EmptyMessage.
func (p *printer) Products(products []*domain.Product) error {
	rows := make([]productRow, 0, len(products))
	for _, product := range products {
		rows = append(rows, toRow(product))
	}

	if p.format != formatTable {
		return p.encode(rows)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.out, view.EmptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQUANTITY\tCATEGORY\tCREATED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", r.ID, r.Title, r.Quantity, r.Category, r.DisplayDate)
	}
	return tw.Flush()
}

// Product prints one product in detail
func (p *printer) Product(product *domain.Product) error {
	row := toRow(product)
	if p.format != formatTable {
		return p.encode(row)
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", row.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", row.Title)
	fmt.Fprintf(tw, "Quantity:\t%d\n", row.Quantity)
	fmt.Fprintf(tw, "Category:\t%s\n", row.Category)
	fmt.Fprintf(tw, "Created:\t%s (%s)\n", row.DisplayDate, row.CreatedAt)
	if row.Description != nil {
		fmt.Fprintf(tw, "Description:\t%s\n", *row.Description)
	}
	return tw.Flush()
}

// Categories prints categories in insertion order
func (p *printer) Categories(categories []*domain.Category) error {
	items := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		items = append(items, *c)
	}

	if p.format != formatTable {
		return p.encode(items)
	}

	if len(items) == 0 {
		_, err := fmt.Fprintln(p.out, "There are no categories to display")
		return err
	}

	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tDESCRIPTION")
	for _, c := range items {
		fmt.Fprintf(tw, "%s\t%s\n", c.Title, c.Description)
	}
	return tw.Flush()
}

// Message prints a one-line confirmation in table mode, or v otherwise
func (p *printer) Message(msg string, v interface{}) error {
	if p.format != formatTable {
		return p.encode(v)
	}
	_, err := fmt.Fprintln(p.out, msg)
	return err
}

func (p *printer) encode(v interface{}) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}
