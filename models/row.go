package models

import (
	"database/sql"
	"time"
)

// Sheet column headers, in the order the Master sheet lays them out.
const (
	ColMonth        = "Bulan"
	ColDate         = "Tanggal"
	ColAccount      = "Nama Akun"
	ColRate         = "Rate"
	ColUniqueID     = "UA"
	ColVideoLink    = "Link Video"
	ColProductID    = "PID"
	ColCategory     = "KK/NK"
	ColProductName  = "Nama Produk"
	ColContentType  = "Konten"
	ColViews        = "Views"
	ColMinimumViews = "Minimal Views"
	ColStatus       = "Lolos/Tidak"
	ColLocation     = "Lokasi"
	ColPayment      = "PAYMENT"
)

// Columns lists the fixed sheet columns in sheet order.
var Columns = []string{
	ColMonth, ColDate, ColAccount, ColRate, ColUniqueID, ColVideoLink,
	ColProductID, ColCategory, ColProductName, ColContentType, ColViews,
	ColMinimumViews, ColStatus, ColLocation, ColPayment,
}

// RawTable is a values matrix as handed back by a spreadsheet source.
// The first row holds the headers. Rows may be shorter than the header row.
type RawTable struct {
	Values [][]string
}

// Row is one published video. A field with Valid == false was absent in the
// sheet (missing or empty cell). Rows are never mutated once built.
type Row struct {
	Month        sql.NullString `db:"month"`
	Date         sql.NullString `db:"date"`
	Account      sql.NullString `db:"account"`
	Rate         sql.NullString `db:"rate"`
	UniqueID     sql.NullString `db:"unique_id"`
	VideoLink    sql.NullString `db:"video_link"`
	ProductID    sql.NullString `db:"product_id"`
	Category     sql.NullString `db:"category"`
	ProductName  sql.NullString `db:"product_name"`
	ContentType  sql.NullString `db:"content_type"`
	Views        sql.NullString `db:"views"`
	MinimumViews sql.NullString `db:"minimum_views"`
	Status       sql.NullString `db:"status"`
	Location     sql.NullString `db:"location"`
	Payment      sql.NullString `db:"payment"`

	extra map[string]sql.NullString
}

// NewRow builds a Row from header → cell pairs. Headers outside the fixed
// column set are retained so exports keep every sheet column.
func NewRow(cells map[string]sql.NullString) *Row {
	r := &Row{}
	for header, v := range cells {
		if f := r.field(header); f != nil {
			*f = v
			continue
		}
		if r.extra == nil {
			r.extra = make(map[string]sql.NullString)
		}
		r.extra[header] = v
	}
	return r
}

// Get returns the cell stored under a sheet header.
func (r *Row) Get(header string) sql.NullString {
	if f := r.field(header); f != nil {
		return *f
	}
	return r.extra[header]
}

func (r *Row) field(header string) *sql.NullString {
	switch header {
	case ColMonth:
		return &r.Month
	case ColDate:
		return &r.Date
	case ColAccount:
		return &r.Account
	case ColRate:
		return &r.Rate
	case ColUniqueID:
		return &r.UniqueID
	case ColVideoLink:
		return &r.VideoLink
	case ColProductID:
		return &r.ProductID
	case ColCategory:
		return &r.Category
	case ColProductName:
		return &r.ProductName
	case ColContentType:
		return &r.ContentType
	case ColViews:
		return &r.Views
	case ColMinimumViews:
		return &r.MinimumViews
	case ColStatus:
		return &r.Status
	case ColLocation:
		return &r.Location
	case ColPayment:
		return &r.Payment
	}
	return nil
}

// Snapshot is one complete fetch of the sheet. The pipeline only ever runs
// against a whole snapshot.
type Snapshot struct {
	ID        string
	Source    string
	Headers   []string
	Rows      []*Row
	FetchedAt time.Time
}

// Present returns a valid cell, or an absent one for the empty string.
func Present(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
