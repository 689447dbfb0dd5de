package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeSet(t *testing.T) {
	set := NewCodeSet(4)

	assert.Equal(t, 0, set.Size())
	assert.False(t, set.Contains("SAVEBIG10"))

	set.Add("SAVEBIG10")
	set.Add("WELCOME25")
	set.Add("SAVEBIG10") // duplicate

	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("SAVEBIG10"))
	assert.True(t, set.Contains("WELCOME25"))
	assert.False(t, set.Contains("savebig10"), "lookups are case sensitive")
}
