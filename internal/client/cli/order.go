package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/orderdesk/internal/client/models"
)

// Order walks the user through the order form and submits it. It waits for
// session restore to finish; without a session the user is sent to login
// first. The draft is discarded after a
// successful submission and kept for correction otherwise.
func (a *App) Order(ctx context.Context) error {
	a.waitReady(ctx)
	if !a.isLoggedIn() {
		a.println("Please log in first.")
		if err := a.Login(ctx); err != nil || !a.isLoggedIn() {
			return err
		}
	}

	order, err := a.orderForm()
	if err != nil {
		return err
	}

	for {
		msg, err := a.orderService.Submit(ctx, order)
		if err == nil {
			a.println(msg)
			return nil
		}
		a.println(describeError(err))

		retry, rerr := getSimpleText(a.reader, "Edit and retry? (y/N)", a.out)
		if rerr != nil || !strings.EqualFold(retry, "y") {
			return err
		}
		if order, err = a.editOrder(order); err != nil {
			return err
		}
	}
}

func (a *App) orderForm() (models.Order, error) {
	return a.editOrder(models.Order{})
}

// editOrder prompts for every field; an empty answer keeps the current
// value.
func (a *App) editOrder(o models.Order) (models.Order, error) {
	text := []struct {
		prompt string
		field  *string
	}{
		{"Customer name", &o.Name},
		{"Address", &o.Address},
		{"Phone number", &o.PhoneNumber},
		{"Price", &o.Price},
	}

	for _, t := range text {
		prompt := t.prompt
		if *t.field != "" {
			prompt += " [" + *t.field + "]"
		}
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return o, err
		}
		if v != "" {
			*t.field = v
		}
	}

	details, err := getMultiline(a.reader, "Details (optional)", a.out)
	if err != nil {
		return o, err
	}
	if details != "" {
		o.Details = details
	}

	paths, err := getLines(a.reader, "Image file paths, one per line", a.out)
	if err != nil {
		return o, err
	}
	if len(paths) > 0 {
		o.Images = nil
		for _, p := range paths {
			if p = strings.TrimSpace(p); p != "" {
				o.Images = append(o.Images, p)
			}
		}
	}
	return o, nil
}
