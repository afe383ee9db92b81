package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     []string
	}{
		{
			name:     "valid password",
			password: "Str0ng-pass",
			want:     nil,
		},
		{
			name:     "too short but all classes present",
			password: "Ab1!",
			want:     []string{"must be at least 8 characters long"},
		},
		{
			name:     "missing upper case",
			password: "weak-pass1",
			want:     []string{"must contain an upper-case letter"},
		},
		{
			name:     "missing symbol",
			password: "Weakpass1",
			want:     []string{"must contain a symbol"},
		},
		{
			name:     "reports every violation",
			password: "abc",
			want: []string{
				"must be at least 8 characters long",
				"must contain an upper-case letter",
				"must contain a digit",
				"must contain a symbol",
			},
		},
		{
			name:     "empty password",
			password: "",
			want: []string{
				"must be at least 8 characters long",
				"must contain an upper-case letter",
				"must contain a lower-case letter",
				"must contain a digit",
				"must contain a symbol",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, PasswordViolations(tc.password))
		})
	}
}
