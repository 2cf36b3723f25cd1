package main

import (
	"errors"
	"testing"

	"github.com/jrsteele09/go-nightlife-client/session"
	"github.com/stretchr/testify/require"
)

func TestParseVenueID(t *testing.T) {
	id, err := parseVenueID("12")
	require.NoError(t, err)
	require.Equal(t, int64(12), id)

	for _, arg := range []string{"", "0", "-3", "abc"} {
		_, err := parseVenueID(arg)
		require.Error(t, err, arg)
	}
}

func TestDescribe(t *testing.T) {
	plain := errors.New("boom")
	require.Equal(t, plain, describe(plain))

	err := describe(&session.Error{Kind: session.NotFound, Message: "The requested resource was not found.", Status: 404})
	require.EqualError(t, err, "The requested resource was not found.")

	err = describe(&session.Error{
		Kind:    session.InvalidRequest,
		Message: "Some of the submitted data is invalid.",
		Status:  400,
		Details: map[string]any{"vibe": []any{"bad"}, "comment": []any{"too long"}},
	})
	require.EqualError(t, err, "Some of the submitted data is invalid.\n  comment: [too long]\n  vibe: [bad]")

	err = describe(&session.Error{
		Kind:    session.ValidationFailed,
		Message: "Some of the submitted data is invalid.",
		Status:  422,
		Details: map[string]any{"score": []any{"Ensure this value is less than or equal to 5."}},
	})
	require.EqualError(t, err, "Some of the submitted data is invalid.\n  score: [Ensure this value is less than or equal to 5.]")
}
