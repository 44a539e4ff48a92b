package api

import (
	"context"

	"voyage/internal/customer"
)

type ctxKey string

const ctxKeyCustomer ctxKey = "customer"

func WithCustomer(ctx context.Context, c *customer.Customer) context.Context {
	return context.WithValue(ctx, ctxKeyCustomer, c)
}

func CustomerFromContext(ctx context.Context) *customer.Customer {
	v := ctx.Value(ctxKeyCustomer)
	if v == nil {
		return nil
	}
	c, _ := v.(*customer.Customer)
	return c
}
