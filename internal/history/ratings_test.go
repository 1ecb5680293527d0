package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thomhuang/happycamper/internal/history"
	"github.com/thomhuang/happycamper/internal/model"
)

func Test_AverageStars(t *testing.T) {
	tests := []struct {
		name    string
		ratings []model.Rating
		want    float64
	}{
		{"no_ratings", nil, history.NoRating},
		{"single", []model.Rating{{ID: 1, Stars: 4}}, 4},
		{"mixed", []model.Rating{{ID: 1, Stars: 4}, {ID: 2, Stars: 2}, {ID: 3, Stars: 3}}, 3},
		{"fractional", []model.Rating{{ID: 1, Stars: 4}, {ID: 2, Stars: 3}}, 3.5},
		{"unstarred_ignored", []model.Rating{{ID: 1, Stars: 0}, {ID: 2, Stars: 2}}, 2},
		{"only_unstarred", []model.Rating{{ID: 1, Comments: "meh"}}, history.NoRating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, history.AverageStars(tt.ratings))
		})
	}
}

func Test_FormatPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"ten_digits", "5105551234", "(510) 555-1234"},
		{"too_short", "555123", "555123"},
		{"empty", "", ""},
		{"already_formatted", "(510) 555-1234", "(510) 555-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, history.FormatPhone(tt.phone))
		})
	}
}
