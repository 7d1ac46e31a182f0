package domain

import "testing"

func TestFormatTime(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0:00:00"},
		{59, "0:00:59"},
		{60, "0:01:00"},
		{4230, "1:10:30"},
		{3600, "1:00:00"},
		{36000, "10:00:00"},
		{-5, "0:00:00"},
	}

	for _, tc := range cases {
		if got := FormatTime(tc.seconds); got != tc.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatTimeRoundTrip(t *testing.T) {
	for _, seconds := range []int{0, 1, 59, 60, 61, 3599, 3600, 4230, 86399} {
		formatted := FormatTime(seconds)
		parsed, err := ParseTime(formatted)
		if err != nil {
			t.Fatalf("ParseTime(%q): %v", formatted, err)
		}
		if parsed != seconds {
			t.Errorf("round trip %d -> %q -> %d", seconds, formatted, parsed)
		}
	}
}

func TestParseTimeRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "1:10", "1:10:30:00", "x:00:00", "1:xx:00", "1:00:yy"} {
		if _, err := ParseTime(raw); err == nil {
			t.Errorf("ParseTime(%q) should fail", raw)
		}
	}
}

func TestFormatPace(t *testing.T) {
	cases := []struct {
		seconds  int
		distance float64
		want     string
	}{
		// 4230s over 14km: 5.0357 min/km, seconds round to 02
		{4230, 14, `5'02"/km`},
		{0, 14, `0'00"/km`},
		// Zero distance substitutes a 1 km denominator instead of faulting.
		{300, 0, `5'00"/km`},
		{-10, 14, `0'00"/km`},
		{600, 2, `5'00"/km`},
	}

	for _, tc := range cases {
		if got := FormatPace(tc.seconds, tc.distance); got != tc.want {
			t.Errorf("FormatPace(%d, %v) = %q, want %q", tc.seconds, tc.distance, got, tc.want)
		}
	}
}

func TestFormatPaceCarriesRoundedSeconds(t *testing.T) {
	// 1799s over 5km is 5.9967 min/km; the second component rounds to 60 and
	// must carry into the minute instead of printing 5'60".
	if got := FormatPace(1799, 5); got != `6'00"/km` {
		t.Errorf("FormatPace(1799, 5) = %q, want %q", got, `6'00"/km`)
	}
}
