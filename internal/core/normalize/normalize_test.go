package normalize

import (
	"testing"

	"lichhen/internal/core/rules"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := New(rules.MustLoad())
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercases and keeps diacritics", "Họp Nhóm 10 Giờ SÁNG mai", "họp nhóm 10 giờ sáng mai"},
		{"collapses whitespace", "  họp   nhóm \t 9  giờ ", "họp nhóm 9 giờ"},
		{"hour marker h", "họp 15h chiều", "họp 15 giờ chiều"},
		{"hour marker g", "gặp 9g sáng", "gặp 9 giờ sáng"},
		{"compact clock untouched", "họp 9h30", "họp 9h30"},
		{"colon tighten", "họp 9 : 30 sáng", "họp 9:30 sáng"},
		{"weekday abbrev t2", "gặp team t2 tuần sau", "gặp team thứ hai tuần sau"},
		{"weekday abbrev cn", "học cn này", "học chủ nhật này"},
		{"weekday thu digit", "họp thu 5", "họp thứ 5"},
		{"fullwidth digits fold", "họp １０ giờ", "họp 10 giờ"},
		{"zero width removed", "họp​ 10 giờ", "họp 10 giờ"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := n.Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	n := New(rules.MustLoad())
	in := "Gặp Khách Hàng 14h T6 ở phòng 302, nhắc trước 30 phút"
	once := n.Normalize(in)
	twice := n.Normalize(once)
	if once != twice {
		t.Fatalf("not idempotent: %q then %q", once, twice)
	}
}
