package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLink(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		expectedDesc string
		expectedLink string
	}{
		{
			"trailing link",
			"Severe flooding reported near Manila after heavy rain https://t.co/abc123",
			"Severe flooding reported near Manila after heavy rain",
			"https://t.co/abc123",
		},
		{
			"link in the middle",
			"Earthquake update https://t.co/q1 aftershocks expected",
			"Earthquake update aftershocks expected",
			"https://t.co/q1",
		},
		{
			"multiple links keeps first, strips all",
			"Wildfire spreading https://t.co/a1 evacuation map https://t.co/b2",
			"Wildfire spreading evacuation map",
			"https://t.co/a1",
		},
		{"no link", "Storm warning for the coast", "Storm warning for the coast", ""},
		{
			"unrelated spacing preserved",
			"Depth:  10km  Magnitude:  6.2 https://t.co/eq1",
			"Depth:  10km  Magnitude:  6.2",
			"https://t.co/eq1",
		},
		{
			"no doubled gap where the link was",
			"Bridge closed https://t.co/b1 until further notice",
			"Bridge closed until further notice",
			"https://t.co/b1",
		},
		{"http scheme", "Crash on highway http://example.com/x", "Crash on highway", "http://example.com/x"},
		{"only a link", "https://t.co/only", "", "https://t.co/only"},
		{"empty text", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, link := ExtractLink(tt.text)
			assert.Equal(t, tt.expectedDesc, desc)
			assert.Equal(t, tt.expectedLink, link)
		})
	}
}

func TestExtractLink_Idempotent(t *testing.T) {
	texts := []string{
		"Severe flooding reported near Manila after heavy rain https://t.co/abc123",
		"Wildfire spreading https://t.co/a1 evacuation map https://t.co/b2",
		"No links in this one",
	}

	for _, text := range texts {
		once, _ := ExtractLink(text)
		twice, link := ExtractLink(once)
		assert.Equal(t, once, twice)
		assert.Empty(t, link, "stripped description should contain no link")
	}
}
