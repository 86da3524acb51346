package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesaja/seating/models"
)

func TestCreatePromotionAnnounces(t *testing.T) {
	store, notifier := setupStore(t)
	promotions := NewPromotionService(store)

	promotion, err := promotions.Create(ctxT(t), PromotionInput{
		Name:        "Happy hour",
		Description: "Two drinks for the price of one.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PromotionActive, promotion.Status)

	last := notifier.last()
	assert.True(t, last.Markdown)
	assert.Contains(t, last.Text, "*Happy hour*")
	assert.Contains(t, last.Text, "one\\.")
	assert.Contains(t, last.Text, "_Rules: N/A_")

	_, err = promotions.Create(ctxT(t), PromotionInput{Name: "No description"})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestPromotionUpdateAndDelete(t *testing.T) {
	store, notifier := setupStore(t)
	promotions := NewPromotionService(store)
	promotion, err := promotions.Create(ctxT(t), PromotionInput{Name: "Lunch", Description: "Soup included"})
	require.NoError(t, err)

	updated, err := promotions.Update(ctxT(t), promotion.ID, PromotionPatch{Status: strPtr(models.PromotionInactive), Rules: strPtr("Weekdays only")})
	require.NoError(t, err)
	assert.Equal(t, models.PromotionInactive, updated.Status)
	assert.Equal(t, "Weekdays only", *updated.Rules)
	assert.Equal(t, "Promotion 'Lunch' was updated.", notifier.last().Text)

	count, err := NewReportService(store.DB()).PromotionCount(ctxT(t))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, promotions.Delete(ctxT(t), promotion.ID))
	var notFound *NotFoundError
	assert.ErrorAs(t, promotions.Delete(ctxT(t), promotion.ID), &notFound)
}
