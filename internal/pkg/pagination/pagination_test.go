package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 3, TotalPages(57, 20))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestShowing(t *testing.T) {
	assert.Equal(t, "0-0 of 0", Showing(1, 20, 0))
	assert.Equal(t, "1-20 of 57", Showing(1, 20, 57))
	assert.Equal(t, "41-57 of 57", Showing(3, 20, 57))
	assert.Equal(t, "0-0 of 57", Showing(9, 20, 57))
}
