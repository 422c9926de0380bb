package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "adds scheme", input: "amazon.com/dp/B0", want: "https://amazon.com/dp/B0"},
		{name: "keeps https", input: "https://flipkart.com/x", want: "https://flipkart.com/x"},
		{name: "keeps http", input: "http://shop.example/item", want: "http://shop.example/item"},
		{name: "trims", input: "  meesho.com/p  ", want: "https://meesho.com/p"},
		{name: "empty", input: "", wantErr: ErrEmptyURL},
		{name: "whitespace", input: " \t ", wantErr: ErrEmptyURL},
		{name: "no dot", input: "localhost/product", wantErr: ErrInvalidURL},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidURLMessage(t *testing.T) {
	assert.Equal(t, "Please enter a valid URL (e.g., amazon.com/product...)", ErrInvalidURL.Error())
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://www.amazon.com/dp/B0", want: "amazon.com"},
		{url: "https://shop.amazon.co.uk/item", want: "amazon.co.uk"},
		{url: "https://deals.example.xyz/offer", want: "example.xyz"},
		{url: "https://FLIPKART.COM/p", want: "flipkart.com"},
		{url: "https://", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, RegistrableDomain(tt.url))
		})
	}
}
