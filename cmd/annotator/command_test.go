package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRegistry_Execute(t *testing.T) {
	r := NewCommandRegistry()

	var got []string
	r.Register(&Command{
		Name: "echo",
		Run: func(args []string) error {
			got = args
			return nil
		},
	})

	require.NoError(t, r.Execute([]string{"echo", "a", "b"}))
	assert.Equal(t, []string{"a", "b"}, got)

	got = nil
	require.NoError(t, r.Execute([]string{"echo", "--help"}))
	assert.Nil(t, got, "help must not run the command")

	assert.Error(t, r.Execute(nil))
	assert.ErrorContains(t, r.Execute([]string{"nope"}), "unknown command")
}

func TestPositionalInts(t *testing.T) {
	ids, rest, err := positionalInts([]string{"3", "120", "--out", "x"}, "project", "document")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 120}, ids)
	assert.Equal(t, []string{"--out", "x"}, rest)

	_, _, err = positionalInts([]string{"3"}, "project", "document")
	assert.ErrorContains(t, err, "<document>")

	_, _, err = positionalInts([]string{"abc"}, "project")
	assert.ErrorContains(t, err, "invalid <project>")
}

func TestRegisterCommands(t *testing.T) {
	r := NewCommandRegistry()
	registerCommands(r)

	for _, name := range []string{"me", "users", "comments", "compare", "labels", "history", "votes", "discrepancies"} {
		assert.Contains(t, r.commands, name)
	}
}
