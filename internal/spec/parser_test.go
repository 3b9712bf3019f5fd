package spec

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Request
	}{
		{
			name: "urlOnly",
			line: "https://www.twitch.tv/foo/clip/bar123",
			want: Request{
				URL:   "https://www.twitch.tv/foo/clip/bar123",
				Start: "00:00:00.000",
				End:   "00:00:00.000",
			},
		},
		{
			name: "startEndAndURL",
			line: "s:00:00:05.000,e:00:00:10.000,https://www.twitch.tv/foo/clip/bar123",
			want: Request{
				URL:   "https://www.twitch.tv/foo/clip/bar123",
				Start: "00:00:05.000",
				End:   "00:00:10.000",
			},
		},
		{
			name: "usernameAndPlatformOverrides",
			line: "u:somebody,p:youtube,https://www.youtube.com/watch?v=abc",
			want: Request{
				URL:      "https://www.youtube.com/watch?v=abc",
				Start:    "00:00:00.000",
				End:      "00:00:00.000",
				Username: "somebody",
				Platform: "youtube",
			},
		},
		{
			name: "unrecognizedTokensIgnored",
			line: "x:nope,whatever,s:00:01:00.000,https://www.twitch.tv/foo/clip/bar",
			want: Request{
				URL:   "https://www.twitch.tv/foo/clip/bar",
				Start: "00:01:00.000",
				End:   "00:00:00.000",
			},
		},
		{
			name: "firstURLWins",
			line: "https://www.twitch.tv/a/clip/one,https://www.twitch.tv/b/clip/two",
			want: Request{
				URL:   "https://www.twitch.tv/a/clip/one",
				Start: "00:00:00.000",
				End:   "00:00:00.000",
			},
		},
		{
			name: "noURL",
			line: "s:00:00:05.000,e:00:00:10.000",
			want: Request{Start: "00:00:05.000", End: "00:00:10.000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	line := "s:00:00:05.000,e:00:00:10.000,https://www.twitch.tv/foo/clip/bar123"
	first := Parse(line)
	for i := 0; i < 10; i++ {
		if got := Parse(line); got != first {
			t.Fatalf("Parse not deterministic: %+v != %+v", got, first)
		}
	}
}

func TestLines(t *testing.T) {
	content := "# header comment\n\nhttps://www.twitch.tv/a/clip/one\n  \n# another\ns:00:00:01.000,https://www.twitch.tv/b/clip/two\n"
	got := Lines(content)
	want := []string{
		"https://www.twitch.tv/a/clip/one",
		"s:00:00:01.000,https://www.twitch.tv/b/clip/two",
	}
	if len(got) != len(want) {
		t.Fatalf("Lines returned %d lines, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		ts      string
		want    float64
		wantErr bool
	}{
		{ts: "00:00:00.000", want: 0},
		{ts: "00:00:05.000", want: 5},
		{ts: "00:01:30.500", want: 90.5},
		{ts: "01:00:00.000", want: 3600},
		{ts: "00:00:12.345", want: 12.345},
		{ts: "5", wantErr: true},
		{ts: "00:61:00.000", wantErr: true},
		{ts: "aa:bb:cc.ddd", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.ts)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimestamp(%q) expected error, got %v", tt.ts, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error: %v", tt.ts, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.ts, got, tt.want)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, seconds := range []float64{0, 5, 12.345, 90.5, 3661.001} {
		ts := FormatTimestamp(seconds)
		got, err := ParseTimestamp(ts)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) error: %v", ts, err)
		}
		if math.Abs(got-seconds) > 0.001 {
			t.Errorf("round trip %v -> %q -> %v", seconds, ts, got)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := FormatTimestamp(12.345); got != "00:00:12.345" {
		t.Errorf("FormatTimestamp(12.345) = %q", got)
	}
	if got := FormatTimestamp(0); got != "00:00:00.000" {
		t.Errorf("FormatTimestamp(0) = %q", got)
	}
	// truncation, not rounding
	if got := FormatTimestamp(1.9999); got != "00:00:01.999" {
		t.Errorf("FormatTimestamp(1.9999) = %q", got)
	}
}
