package bot

import (
	"context"
	"testing"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowLeavesStoredDraftAlone(t *testing.T) {
	h := newHarness(t)
	cur := &models.Draft{
		CustomerID: "1",
		Step:       models.StepNeighborhood,
		Lines:      []models.OrderLine{{Quantity: 1, Size: models.SizeLarge, Flavors: []string{"Calabresa"}}},
		Subtotal:   4500,
	}

	res, err := h.flow.HandleText(context.Background(), cur, "1", "Ana", "centro")
	require.NoError(t, err)
	require.NotNil(t, res.Draft)
	assert.Equal(t, models.StepPayment, res.Draft.Step)
	assert.False(t, res.Durable)

	assert.Equal(t, models.StepNeighborhood, cur.Step)
	assert.Nil(t, cur.Delivery)
}

func TestFlowUnknownStepResets(t *testing.T) {
	h := newHarness(t)
	cur := &models.Draft{CustomerID: "1", Step: "perdido"}

	res, err := h.flow.HandleText(context.Background(), cur, "1", "", "qualquer coisa")
	require.NoError(t, err)
	assert.Nil(t, res.Draft)
	require.Len(t, res.Replies, 1)
	assert.Contains(t, res.Replies[0], "Olá, Cliente!")
}

func TestFlowPaymentIsDurable(t *testing.T) {
	h := newHarness(t)
	cur := &models.Draft{
		CustomerID:   "1",
		Step:         models.StepPayment,
		Lines:        []models.OrderLine{{Quantity: 1, Size: models.SizeSmall, Flavors: []string{"Portuguesa"}}},
		Subtotal:     2500,
		CustomerName: "Ana",
		Address:      "Rua A",
		Delivery:     &models.Delivery{NeighborhoodRaw: "Centro", Zone: "centro", Fee: 500},
	}

	res, err := h.flow.HandleText(context.Background(), cur, "1", "Ana", "cartão")
	require.NoError(t, err)
	assert.True(t, res.Durable)
	assert.Nil(t, res.Draft)
	require.Len(t, h.ledger.all(), 1)
	assert.EqualValues(t, 3000, h.ledger.all()[0].Total)
	assert.Empty(t, cur.PaymentMethod)
}
