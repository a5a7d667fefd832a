package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	valid := []string{
		"owner@example.com",
		"first.last@shop.example.co",
		"tech+1@field.example.org",
	}
	for _, addr := range valid {
		assert.True(t, IsValid(addr), addr)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"owner@",
		"owner@localhost",
		"a@b@c.com",
	}
	for _, addr := range invalid {
		assert.False(t, IsValid(addr), addr)
	}
}
