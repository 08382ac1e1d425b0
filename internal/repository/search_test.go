package repository

import (
	"testing"
	"time"

	"wfmarket/checker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearchRecord(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	res := &domain.Resolution{
		Results: []domain.SearchResult{
			{Item: "Ash Prime Set", Price: 40, Seller: "Cheap"},
			{Item: "Ash Prime Set", Price: 50, Seller: "Dear"},
		},
	}

	record := NewSearchRecord("ash_prime_set", "Ash Prime Set", res, at)
	require.NotNil(t, record)
	assert.Equal(t, 40.0, record.BestPrice)
	assert.Equal(t, "Cheap", record.BestSeller)
	assert.Len(t, record.Offers, 2)
	assert.Equal(t, at, record.SearchedAt)
}

func TestNewSearchRecordSkipsErrors(t *testing.T) {
	assert.Nil(t, NewSearchRecord("x", "X", domain.NoSellersResolution("X"), time.Now()))
	assert.Nil(t, NewSearchRecord("x", "X", domain.FailedResolution("X"), time.Now()))
	assert.Nil(t, NewSearchRecord("x", "X", nil, time.Now()))
}
