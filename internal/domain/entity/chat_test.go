package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectChatID(t *testing.T) {
	// Both participants must derive the same id regardless of argument
	// order.
	assert.Equal(t, "alice_bob", DirectChatID("alice", "bob"))
	assert.Equal(t, "alice_bob", DirectChatID("bob", "alice"))
	assert.Equal(t, DirectChatID("u1", "u2"), DirectChatID("u2", "u1"))
}
