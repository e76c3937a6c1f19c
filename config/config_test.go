package config

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		value      string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{"06:01", 6, 1, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"9:30", 9, 30, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"", 0, 0, true},
		{"12", 0, 0, true},
	}

	for _, tt := range tests {
		hour, minute, err := ParseClock(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tt.value, err)
			continue
		}
		if hour != tt.wantHour || minute != tt.wantMinute {
			t.Errorf("ParseClock(%q) = (%d, %d), want (%d, %d)",
				tt.value, hour, minute, tt.wantHour, tt.wantMinute)
		}
	}
}
