package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
)

func TestGrant_RecordsOrderAndLibrary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Create(ctx, testAdmin, validInput("Paid Guide", "9.99"))
	require.NoError(t, err)

	order, err := f.grant.Grant(ctx, "reader", "paid-guide")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderSourceManual, order.Source)
	assert.Equal(t, 9.99, order.Amount)
	assert.NotEmpty(t, order.ID)

	orders, err := f.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	ok, err := f.access.OwnsContent(ctx, "reader", "paid-guide")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.grant.Grant(ctx, "reader", "paid-guide")
	assert.ErrorIs(t, err, ErrAlreadyOwned)
	orders, err = f.orders.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestGrant_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.grant.Grant(ctx, "reader", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.grant.Grant(ctx, "", "missing")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
