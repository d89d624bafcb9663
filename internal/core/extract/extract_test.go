package extract

import (
	"testing"

	"lichhen/internal/core/rules"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(rules.MustLoad())
}

func TestExtractEvent(t *testing.T) {
	t.Parallel()

	e := newExtractor(t)
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"verb and object span", "họp nhóm 10 giờ sáng mai ở phòng 302", "họp nhóm"},
		{"object before verb", "khách hàng muốn gặp lúc 14 giờ", "khách hàng muốn gặp"},
		{"verb only window cut at lúc", "họp định kỳ lúc 9 giờ", "họp định kỳ"},
		{"verb only cut at comma", "training cho người mới, 14 giờ chiều", "training cho người mới"},
		{"no anchors first tokens", "đi khám bệnh chỗ quen 8 giờ sáng thứ ba", "đi khám bệnh chỗ quen"},
		{"no anchors cut at ở", "đi khám ở bệnh viện 8 giờ", "đi khám"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := e.Extract(tc.in)
			if got.Event != tc.want {
				t.Fatalf("Event = %q, want %q", got.Event, tc.want)
			}
		})
	}
}

func TestExtractTimeClock(t *testing.T) {
	t.Parallel()

	e := newExtractor(t)
	cases := []struct {
		name       string
		in         string
		wantHour   int
		wantMinute int // -1 means nil
	}{
		{"colon", "họp 9:30 sáng", 9, 30},
		{"compact h", "họp 9h30 sáng", 9, 30},
		{"gio phut", "họp 10 giờ 15 phút", 10, 15},
		{"gio ruoi", "họp 7 giờ rưỡi tối", 7, 30},
		{"gio kem", "họp 10 giờ kém 15", 9, 45},
		{"bare gio", "họp 10 giờ sáng", 10, -1},
		{"ruoi detached", "họp 7 giờ tối rưỡi", 7, 30},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := e.Extract(tc.in).Time
			if got.Hour == nil || *got.Hour != tc.wantHour {
				t.Fatalf("Hour = %v, want %d", got.Hour, tc.wantHour)
			}
			if tc.wantMinute == -1 {
				if got.Minute != nil {
					t.Fatalf("Minute = %d, want nil", *got.Minute)
				}
				return
			}
			if got.Minute == nil || *got.Minute != tc.wantMinute {
				t.Fatalf("Minute = %v, want %d", got.Minute, tc.wantMinute)
			}
		})
	}
}

func TestExtractTimeSignals(t *testing.T) {
	t.Parallel()

	e := newExtractor(t)

	tc := e.Extract("gặp team 9 giờ sáng thứ hai tuần sau").Time
	if tc.Period != "sáng" {
		t.Errorf("Period = %q, want sáng", tc.Period)
	}
	if tc.Weekday == nil || *tc.Weekday != 0 {
		t.Errorf("Weekday = %v, want 0", tc.Weekday)
	}
	if tc.Relative != "tuần sau" {
		t.Errorf("Relative = %q, want tuần sau", tc.Relative)
	}

	tc = e.Extract("họp chủ nhật 10 giờ").Time
	if tc.Weekday == nil || *tc.Weekday != 6 {
		t.Errorf("chủ nhật Weekday = %v, want 6", tc.Weekday)
	}
}

func TestExtractDate(t *testing.T) {
	t.Parallel()

	e := newExtractor(t)
	cases := []struct {
		name string
		in   string
		want DateParts
	}{
		{"day month", "họp 10/3 lúc 9 giờ", DateParts{Day: 10, Month: 3}},
		{"full year", "họp 10/3/2026", DateParts{Day: 10, Month: 3, Year: 2026}},
		{"two digit year", "họp 10/3/26", DateParts{Day: 10, Month: 3, Year: 2026}},
		{"dashes", "họp 5-12", DateParts{Day: 5, Month: 12}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := e.Extract(tc.in).Time.Date
			if got == nil || *got != tc.want {
				t.Fatalf("Date = %+v, want %+v", got, tc.want)
			}
		})
	}

	if d := e.Extract("họp 10 giờ sáng").Time.Date; d != nil {
		t.Fatalf("Date = %+v, want nil", d)
	}
}

func TestExtractLocation(t *testing.T) {
	t.Parallel()

	e := newExtractor(t)

	lc := e.Extract("họp ở phòng 302 tầng 3 tòa nhà b1").Location
	if lc.Room != "phòng 302" || lc.Floor != "tầng 3" || lc.Building != "tòa b1" {
		t.Fatalf("Location = %+v", lc)
	}
	if lc.Full != "phòng 302, tầng 3, tòa b1" {
		t.Fatalf("Full = %q", lc.Full)
	}

	// "văn phòng" must not leak a phantom room
	lc = e.Extract("làm việc ở văn phòng đà nẵng").Location
	if lc.Room != "" {
		t.Fatalf("Room = %q, want empty", lc.Room)
	}
	if lc.Office != "văn phòng đà" {
		t.Fatalf("Office = %q", lc.Office)
	}

	lc = e.Extract("họp 10 giờ sáng").Location
	if lc.Full != "" {
		t.Fatalf("Full = %q, want empty", lc.Full)
	}
}

func TestExtractReminder(t *testing.T) {
	t.Parallel()

	e := newExtractor(t)
	cases := []struct {
		name string
		in   string
		want int // -1 means nil
	}{
		{"minutes", "họp 9 giờ nhắc trước 30 phút", 30},
		{"hours to minutes", "họp 9 giờ nhắc trước 1 giờ", 60},
		{"no truoc", "họp 9 giờ nhắc 10 phút", 10},
		{"absent", "họp 9 giờ sáng", -1},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := e.Extract(tc.in).ReminderMinutes
			if tc.want == -1 {
				if got != nil {
					t.Fatalf("ReminderMinutes = %d, want nil", *got)
				}
				return
			}
			if got == nil || *got != tc.want {
				t.Fatalf("ReminderMinutes = %v, want %d", got, tc.want)
			}
		})
	}
}

func TestExtractEmpty(t *testing.T) {
	t.Parallel()

	f := newExtractor(t).Extract("")
	if f.Event != "" || !f.Time.Empty() || f.Location.Full != "" || f.ReminderMinutes != nil {
		t.Fatalf("Extract(\"\") = %+v, want zero fields", f)
	}
}
