package bike

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLocation(t *testing.T) {
	for _, l := range []string{"AB1", "AB2", "BOYS HOSTEL", "GIRLS HOSTEL"} {
		got, err := ParseLocation(l)
		assert.NoError(t, err)
		assert.Equal(t, Location(l), got)
	}

	_, err := ParseLocation("ab1")
	assert.ErrorIs(t, err, ErrInvalidLocation)
	_, err = ParseLocation("LIBRARY")
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestParseCondition(t *testing.T) {
	_, err := ParseCondition("Good")
	assert.NoError(t, err)
	_, err = ParseCondition("Broken")
	assert.ErrorIs(t, err, ErrInvalidCondition)
}

func TestBookedBy(t *testing.T) {
	holder := "USER_1"
	b := &Bike{IsAvailable: false, CurrentUser: &holder}
	assert.True(t, b.BookedBy("USER_1"))
	assert.False(t, b.BookedBy("USER_2"))

	b.IsAvailable = true
	assert.False(t, b.BookedBy("USER_1"))
}
