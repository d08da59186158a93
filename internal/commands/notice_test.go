package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoticeArgs(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		want    noticeArgs
		wantErr bool
	}{
		{
			name:   "title only",
			tokens: []string{"Test"},
			want:   noticeArgs{title: "Test", allowBreak: true},
		},
		{
			name:   "full flag set in order",
			tokens: []string{"Test", "--context=hello", "--mask-duration=2", "--overlay-duration=0"},
			want:   noticeArgs{title: "Test", message: "hello", allowBreak: true, maskDuration: 2},
		},
		{
			name:   "flags before title",
			tokens: []string{"--context=hi", "--allow-break=false", "Exam"},
			want:   noticeArgs{title: "Exam", message: "hi", allowBreak: false},
		},
		{
			name:   "unknown flags ignored",
			tokens: []string{"Test", "--volume=11", "--bare-context"},
			want:   noticeArgs{title: "Test", allowBreak: true},
		},
		{
			name:   "bare context flag is not a value form",
			tokens: []string{"--context", "Test"},
			want:   noticeArgs{title: "Test", allowBreak: true},
		},
		{
			name:   "fractional overlay duration",
			tokens: []string{"Drill", "--overlay-duration=1.5"},
			want:   noticeArgs{title: "Drill", allowBreak: true, overlayDuration: 1.5},
		},
		{
			name:    "no tokens",
			tokens:  nil,
			wantErr: true,
		},
		{
			name:    "only flags, no title",
			tokens:  []string{"--context=hello"},
			wantErr: true,
		},
		{
			name:    "blank title",
			tokens:  []string{"   "},
			wantErr: true,
		},
		{
			name:    "invalid allow-break value",
			tokens:  []string{"Test", "--allow-break=maybe"},
			wantErr: true,
		},
		{
			name:    "non-numeric mask duration",
			tokens:  []string{"Test", "--mask-duration=abc"},
			wantErr: true,
		},
		{
			name:    "negative overlay duration",
			tokens:  []string{"Test", "--overlay-duration=-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNoticeArgs(tt.tokens)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNoticeArgsFirstNonFlagWins(t *testing.T) {
	got, err := parseNoticeArgs([]string{"First", "Second"})
	require.NoError(t, err)
	assert.Equal(t, "First", got.title)
}
