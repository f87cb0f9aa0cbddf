package stocknotify

import (
	"strings"
	"testing"

	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/types"
)

func composeTestService() *service {
	return &service{
		store: config.StoreConfig{
			NameEN: "Mazraaty Poultry Equipment",
			NameAR: "مزرعتي لمعدات الدواجن",
		},
	}
}

func composeTestProduct() *models.Product {
	return &models.Product{
		Name: types.LocalizedText{
			EN: "Automatic Chicken Feeder",
			AR: "معلفة دجاج أوتوماتيكية",
		},
	}
}

func TestComposeEnglishMessage(t *testing.T) {
	subject, body := composeTestService().compose(composeTestProduct(), "en")

	if !strings.Contains(subject, "Automatic Chicken Feeder") || !strings.Contains(subject, "back in stock") {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "Mazraaty Poultry Equipment") {
		t.Fatalf("body missing store name:\n%s", body)
	}
}

func TestComposeArabicMessage(t *testing.T) {
	subject, body := composeTestService().compose(composeTestProduct(), "ar")

	if !strings.Contains(subject, "معلفة دجاج أوتوماتيكية") {
		t.Fatalf("unexpected subject %q", subject)
	}
	if !strings.Contains(body, "مزرعتي لمعدات الدواجن") {
		t.Fatalf("body missing store name:\n%s", body)
	}
	if strings.Contains(body, "Automatic Chicken Feeder") {
		t.Fatal("arabic message should not fall back to the english name")
	}
}
