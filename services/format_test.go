package services

import "testing"

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{1500, "Rp 1.500"},
		{1500000, "Rp 1.500.000"},
		{-2500, "-Rp 2.500"},
	}
	for _, tt := range tests {
		if got := FormatRupiah(tt.in); got != tt.want {
			t.Errorf("FormatRupiah(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1000, "1K"},
		{1234, "1.2K"},
		{15300, "15K"},
		{123456, "123K"},
		{999999, "1M"},
		{2500000, "2.5M"},
		{3000000000, "3B"},
	}
	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%d) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
