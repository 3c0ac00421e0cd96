// Package catalog serves the read-only phone model and gallery reference data.
package catalog

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
)

// Service exposes catalog lookups.
type Service interface {
	PhoneModels(ctx context.Context) ([]*PhoneModel, error)
	PopularPhoneModels(ctx context.Context) ([]*PhoneModel, error)
	FindPhoneModel(ctx context.Context, id string) (*PhoneModel, error)
	Gallery(ctx context.Context) ([]*DesignAsset, error)
	GalleryByCategory(ctx context.Context, category string) ([]*DesignAsset, error)
	TrendingGallery(ctx context.Context) ([]*DesignAsset, error)
	FindDesign(ctx context.Context, id string) (*DesignAsset, error)
}

type service struct {
	models      []*PhoneModel
	modelsByID  map[string]*PhoneModel
	designs     []*DesignAsset
	designsByID map[string]*DesignAsset
}

// NewService builds an in-memory catalog. Ids must be unique.
func NewService(models []PhoneModel, designs []DesignAsset) (Service, error) {
	svc := &service{
		modelsByID:  make(map[string]*PhoneModel, len(models)),
		designsByID: make(map[string]*DesignAsset, len(designs)),
	}
	for i := range models {
		m := models[i]
		if strings.TrimSpace(m.ID) == "" {
			return nil, fmt.Errorf("phone model id required")
		}
		if _, dup := svc.modelsByID[m.ID]; dup {
			return nil, fmt.Errorf("duplicate phone model %q", m.ID)
		}
		svc.models = append(svc.models, &m)
		svc.modelsByID[m.ID] = &m
	}
	for i := range designs {
		d := designs[i]
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("design id required")
		}
		if _, dup := svc.designsByID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate design %q", d.ID)
		}
		svc.designs = append(svc.designs, &d)
		svc.designsByID[d.ID] = &d
	}
	return svc, nil
}

func (s *service) PhoneModels(ctx context.Context) ([]*PhoneModel, error) {
	return append([]*PhoneModel(nil), s.models...), nil
}

func (s *service) PopularPhoneModels(ctx context.Context) ([]*PhoneModel, error) {
	out := []*PhoneModel{}
	for _, m := range s.models {
		if m.Popular {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *service) FindPhoneModel(ctx context.Context, id string) (*PhoneModel, error) {
	if m, ok := s.modelsByID[id]; ok {
		return m, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("phone model %q not found", id))
}

func (s *service) Gallery(ctx context.Context) ([]*DesignAsset, error) {
	return append([]*DesignAsset(nil), s.designs...), nil
}

func (s *service) GalleryByCategory(ctx context.Context, category string) ([]*DesignAsset, error) {
	out := []*DesignAsset{}
	for _, d := range s.designs {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *service) TrendingGallery(ctx context.Context) ([]*DesignAsset, error) {
	out := []*DesignAsset{}
	for _, d := range s.designs {
		if d.Trending {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *service) FindDesign(ctx context.Context, id string) (*DesignAsset, error) {
	if d, ok := s.designsByID[id]; ok {
		return d, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("design %q not found", id))
}
