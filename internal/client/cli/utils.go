package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/orderdesk/internal/client/client"
	"github.com/dmitrijs2005/orderdesk/internal/client/forms"
	"github.com/dmitrijs2005/orderdesk/internal/client/services"
	"github.com/dmitrijs2005/orderdesk/internal/client/tasks"
)

// describeError renders err as the single notification shown to the user.
func describeError(err error) string {
	var verr *forms.ValidationError
	var apiErr *client.APIError

	switch {
	case errors.As(err, &verr):
		lines := make([]string, 0, len(verr.Fields)+1)
		lines = append(lines, "Please fix the following:")
		for _, f := range verr.Fields {
			lines = append(lines, "  - "+f.Message)
		}
		return strings.Join(lines, "\n")
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, please try again later."
	case errors.Is(err, client.ErrMalformedResponse):
		return "Unexpected response from server."
	case errors.Is(err, services.ErrNotAuthenticated):
		return "Please log in first."
	case errors.Is(err, tasks.ErrSuperseded):
		return "Submission replaced by a newer one."
	case errors.Is(err, context.Canceled):
		return "Cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timed out."
	}
	return err.Error()
}
