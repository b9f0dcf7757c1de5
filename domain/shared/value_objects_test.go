package shared

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		cents   int64
		wantErr bool
	}{
		{"15000", 1500000, false},
		{"15000.5", 1500050, false},
		{"15000.05", 1500005, false},
		{" 99 ", 9900, false},
		{"0", 0, false},
		{"", 0, true},
		{"-1", 0, true},
		{"12.345", 0, true},
		{"12.", 0, true},
		{".5", 0, true},
		{"abc", 0, true},
		{"1e5", 0, true},
		{"100.-5", 0, true},
		{"100.+5", 0, true},
		{"1.-1", 0, true},
		{"1 00", 0, true},
		{"10.5x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePrice(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParsePrice(%q) expected error, got %v", tt.in, p)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) unexpected error: %v", tt.in, err)
			}
			if p.Cents() != tt.cents {
				t.Errorf("ParsePrice(%q) = %d cents, want %d", tt.in, p.Cents(), tt.cents)
			}
		})
	}
}

func TestPriceJSONIsNumber(t *testing.T) {
	data, err := json.Marshal(struct {
		Price Price `json:"price"`
	}{Price: NewPrice(1999999)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"price":19999.99}` {
		t.Errorf("unexpected json: %s", data)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(0, 0, 12, 50)
	if p.Page != 1 || p.PerPage != 12 {
		t.Errorf("defaults not applied: %+v", p)
	}

	p = NewPagination(3, 500, 12, 50)
	if p.PerPage != 50 {
		t.Errorf("per_page should be capped at 50, got %d", p.PerPage)
	}
	if p.Offset() != 100 {
		t.Errorf("offset = %d, want 100", p.Offset())
	}
}

func TestOffsetSaturates(t *testing.T) {
	tests := []struct {
		p    Pagination
		want int
	}{
		{Pagination{Page: 1, PerPage: 12}, 0},
		{Pagination{Page: 0, PerPage: 12}, 0},
		{Pagination{Page: math.MaxInt, PerPage: 12}, math.MaxInt},
		{Pagination{Page: math.MaxInt/12 + 2, PerPage: 12}, math.MaxInt},
		{Pagination{Page: 5, PerPage: 0}, 0},
	}
	for _, tt := range tests {
		if got := tt.p.Offset(); got != tt.want {
			t.Errorf("%+v.Offset() = %d, want %d", tt.p, got, tt.want)
		}
	}
}

func TestNewPageLastPage(t *testing.T) {
	page := NewPage[int](nil, Pagination{Page: 9, PerPage: 10}, 21)
	if page.LastPage != 3 {
		t.Errorf("last page = %d, want 3", page.LastPage)
	}
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("items should be empty, not nil")
	}

	empty := NewPage[int](nil, Pagination{Page: 1, PerPage: 10}, 0)
	if empty.LastPage != 1 {
		t.Errorf("empty result last page = %d, want 1", empty.LastPage)
	}
}
