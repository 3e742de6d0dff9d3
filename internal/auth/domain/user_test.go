package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "Emily Johnson", User{FirstName: "Emily", LastName: "Johnson"}.FullName())
	assert.Equal(t, "Emily", User{FirstName: "Emily"}.FullName())
	assert.Equal(t, "emilys", User{Username: "emilys"}.FullName())
}
