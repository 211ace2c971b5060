package logstore_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/site-logger/internal/application/inventory"
	"github.com/jhoicas/site-logger/internal/application/validation"
	"github.com/jhoicas/site-logger/internal/domain"
	"github.com/jhoicas/site-logger/internal/infrastructure/logstore"
)

func TestRun_SoloRegistraLotesCompletos(t *testing.T) {
	var buf bytes.Buffer
	store := logstore.New(zerolog.New(&buf))
	uc := inventory.NewSaveBatchUseCase(store, nil, nil, zerolog.Nop())

	_, err := uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{
		SubmittedBy: "a@b.com",
		Items: []validation.InventoryForm{
			{Location: "1004", WeekEnding: "2024-06-08", Material: "Wood", Quantity: "12.5", Unit: "TN"},
			{Location: "1004", WeekEnding: "2024-06-08", Material: "Gold", Quantity: "1", Unit: "TN"},
		},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, buf.Len())
	assert.Zero(t, store.Committed())

	_, err = uc.SaveInventory(context.Background(), inventory.SaveInventoryInput{
		SubmittedBy: "a@b.com",
		Items: []validation.InventoryForm{
			{Location: "1004", WeekEnding: "2024-06-08", Material: "Wood", Quantity: "12.5", Unit: "TN"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"material":"Wood"`)
	assert.Contains(t, buf.String(), `"quantity":"12.5"`)
	assert.EqualValues(t, 1, store.Committed())
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := logstore.New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Run(ctx, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}
