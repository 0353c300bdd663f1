package google

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   string
		wantOK bool
	}{
		{
			name:   "api error",
			err:    &googleapi.Error{Code: 403, Message: "Insufficient Permission"},
			want:   "403 Insufficient Permission",
			wantOK: true,
		},
		{
			name:   "wrapped api error",
			err:    fmt.Errorf("failed to list events: %w", &googleapi.Error{Code: 404, Message: "Not Found"}),
			want:   "404 Not Found",
			wantOK: true,
		},
		{
			name:   "empty message uses status text",
			err:    &googleapi.Error{Code: 500},
			want:   "500 Internal Server Error",
			wantOK: true,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := APIErrorMessage(tt.err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&googleapi.Error{Code: 404}))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", &googleapi.Error{Code: 410})))
	assert.False(t, IsNotFound(&googleapi.Error{Code: 500}))
	assert.False(t, IsNotFound(errors.New("404")))
}

func TestInstrument(t *testing.T) {
	called := false
	err := Instrument(context.Background(), nil, "calendar", "list", "default", func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)

	want := errors.New("boom")
	err = Instrument(context.Background(), nil, "calendar", "list", "default", func(ctx context.Context) error {
		return want
	})
	assert.ErrorIs(t, err, want)
}
