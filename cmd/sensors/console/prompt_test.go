package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptText(t *testing.T) {
	assert.Equal(t, "reset? [N/y]: ", promptText("reset?", []string{No, Yes}))
	assert.Equal(t, "name", promptText("name", nil))
}

func TestMatchConstraint(t *testing.T) {
	constraints := []string{No, Yes}
	assert.Equal(t, Yes, matchConstraint(" Y ", constraints))
	assert.Equal(t, No, matchConstraint("", constraints))
	assert.Equal(t, No, matchConstraint("maybe", constraints))
}
