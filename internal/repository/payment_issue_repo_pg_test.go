package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewPaymentIssueRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewPaymentIssueRepository(pool)
	assert.NotNil(t, repo)
}
