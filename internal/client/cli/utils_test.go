package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/orderdesk/internal/client/client"
	"github.com/dmitrijs2005/orderdesk/internal/client/forms"
	"github.com/dmitrijs2005/orderdesk/internal/client/services"
	"github.com/dmitrijs2005/orderdesk/internal/client/tasks"
	"github.com/stretchr/testify/assert"
)

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation",
			err: &forms.ValidationError{Fields: []forms.FieldError{
				{Field: "email", Message: "email is required"},
				{Field: "password", Message: "password is required"},
			}},
			want: "Please fix the following:\n  - email is required\n  - password is required",
		},
		{name: "api", err: fmt.Errorf("login error: %w", &client.APIError{StatusCode: 401, Message: "Invalid credentials."}), want: "Invalid credentials."},
		{name: "unavailable", err: fmt.Errorf("x: %w", client.ErrUnavailable), want: "Server unavailable, please try again later."},
		{name: "malformed", err: client.ErrMalformedResponse, want: "Unexpected response from server."},
		{name: "no session", err: services.ErrNotAuthenticated, want: "Please log in first."},
		{name: "superseded", err: fmt.Errorf("task: %w", tasks.ErrSuperseded), want: "Submission replaced by a newer one."},
		{name: "cancelled", err: context.Canceled, want: "Cancelled."},
		{name: "timeout", err: context.DeadlineExceeded, want: "Request timed out."},
		{name: "other", err: errors.New("disk on fire"), want: "disk on fire"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeError(tt.err))
		})
	}
}
