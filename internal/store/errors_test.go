package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("load: %w", ErrNoRows)))
	assert.True(t, IsNotFound(MultipleRows(2)))
	assert.False(t, IsNotFound(&Error{Code: "42501", Message: "permission denied"}))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Row not found (PGRST116)", ErrNoRows.Error())
	assert.Contains(t, MultipleRows(3).Error(), "Results contain 3 rows")
	assert.Equal(t, "plain", (&Error{Message: "plain"}).Error())
}

func TestAccessToken(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, AccessToken(ctx))
	assert.Equal(t, "tok", AccessToken(WithAccessToken(ctx, "tok")))
}
