package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	assert.Equal(t, []string{"Go", "SQL"}, DedupeAndTrim([]string{"  Go ", "SQL", "Go", "", "  "}))
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{" ", ""}))
}
