package inventory

import (
	"testing"

	"github.com/mazraaty/backend/pkg/db/models"
)

func TestCrossedIntoStock(t *testing.T) {
	tests := []struct {
		name  string
		level *models.InventoryLevel
		delta int
		want  bool
	}{
		{"restock from zero", &models.InventoryLevel{OnHand: 5}, 5, true},
		{"restock with stock remaining", &models.InventoryLevel{OnHand: 7}, 5, false},
		{"adjustment from zero", &models.InventoryLevel{OnHand: 1}, 1, true},
		{"negative movement", &models.InventoryLevel{OnHand: 0}, -3, false},
		{"sale leaving stock", &models.InventoryLevel{OnHand: 4}, -2, false},
		{"missing level", nil, 5, false},
	}

	for _, tt := range tests {
		if got := CrossedIntoStock(tt.level, tt.delta); got != tt.want {
			t.Fatalf("%s: expected %v got %v", tt.name, tt.want, got)
		}
	}
}
