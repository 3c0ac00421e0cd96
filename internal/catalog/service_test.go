package catalog

import (
	"context"
	"testing"

	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
)

func TestDefaultCatalogFilters(t *testing.T) {
	t.Parallel()

	svc := DefaultService()
	ctx := context.Background()

	models, _ := svc.PhoneModels(ctx)
	if len(models) != 4 {
		t.Fatalf("expected 4 phone models, got %d", len(models))
	}
	popular, _ := svc.PopularPhoneModels(ctx)
	if len(popular) != 3 {
		t.Fatalf("expected 3 popular models, got %d", len(popular))
	}
	text, _ := svc.GalleryByCategory(ctx, "text")
	if len(text) != 2 {
		t.Fatalf("expected 2 text designs, got %d", len(text))
	}
	trending, _ := svc.TrendingGallery(ctx)
	if len(trending) != 4 {
		t.Fatalf("expected 4 trending designs, got %d", len(trending))
	}
	none, _ := svc.GalleryByCategory(ctx, "sports")
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", none)
	}
}

func TestFindReturnsSharedReference(t *testing.T) {
	t.Parallel()

	svc := DefaultService()
	ctx := context.Background()

	a, err := svc.FindPhoneModel(ctx, "samsung-s24")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := svc.FindPhoneModel(ctx, "samsung-s24")
	if a != b {
		t.Fatal("expected lookups to return the same reference")
	}

	if _, err := svc.FindPhoneModel(ctx, "nokia-3310"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.FindDesign(ctx, "nope"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNewServiceRejectsDuplicates(t *testing.T) {
	t.Parallel()

	models := []PhoneModel{{ID: "a"}, {ID: "a"}}
	if _, err := NewService(models, nil); err == nil {
		t.Fatal("expected duplicate model error")
	}
}

func TestNewUploadedDesign(t *testing.T) {
	t.Parallel()

	d := NewUploadedDesign("/static/uploads/abc.png")
	if d.Origin != enums.DesignOriginUpload || d.ImageURL != "/static/uploads/abc.png" || d.ID != UploadedDesignID {
		t.Fatalf("unexpected upload design %+v", d)
	}
}
