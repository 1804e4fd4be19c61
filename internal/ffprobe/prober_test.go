package ffprobe

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{name: "plain seconds", raw: "30.500000\n", want: 30500 * time.Millisecond},
		{name: "integer seconds", raw: "45", want: 45 * time.Second},
		{name: "surrounding whitespace", raw: "  20.0  \n", want: 20 * time.Second},
		{name: "zero clamps to zero", raw: "0.0", want: 0},
		{name: "negative clamps to zero", raw: "-3.2", want: 0},
		{name: "empty output", raw: "", wantErr: true},
		{name: "not available", raw: "N/A\n", wantErr: true},
		{name: "garbage", raw: "twenty", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDuration(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseDuration(%q) = %v, want error", tc.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDuration(%q) error = %v", tc.raw, err)
			}
			if got != tc.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}
