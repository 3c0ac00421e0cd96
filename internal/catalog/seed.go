package catalog

import "github.com/angelmondragon/casecraft-backend/pkg/enums"

// DefaultService returns the catalog shipped with the storefront.
func DefaultService() Service {
	svc, err := NewService(DefaultPhoneModels(), DefaultGallery())
	if err != nil {
		panic(err)
	}
	return svc
}

func DefaultPhoneModels() []PhoneModel {
	return []PhoneModel{
		{
			ID:         "iphone15-pro",
			Name:       "iPhone 15 Pro",
			Brand:      "Apple",
			ImageURL:   "/static/models/iphone15-pro.png",
			Dimensions: &Dimensions{Width: 76.7, Height: 159.9, Thickness: 8.25},
			Popular:    true,
		},
		{
			ID:         "iphone15",
			Name:       "iPhone 15",
			Brand:      "Apple",
			ImageURL:   "/static/models/iphone15.png",
			Dimensions: &Dimensions{Width: 77.8, Height: 157.8, Thickness: 7.8},
			Popular:    true,
		},
		{
			ID:         "samsung-s24",
			Name:       "Galaxy S24",
			Brand:      "Samsung",
			ImageURL:   "/static/models/galaxy-s24.png",
			Dimensions: &Dimensions{Width: 79.0, Height: 167.0, Thickness: 7.9},
			Popular:    true,
		},
		{
			ID:         "iphone14",
			Name:       "iPhone 14",
			Brand:      "Apple",
			ImageURL:   "/static/models/iphone14.png",
			Dimensions: &Dimensions{Width: 71.5, Height: 146.7, Thickness: 7.8},
		},
	}
}

func DefaultGallery() []DesignAsset {
	item := func(id, title, category string, trending bool) DesignAsset {
		return DesignAsset{
			ID:           id,
			Title:        title,
			ImageURL:     "/static/gallery/" + id + ".png",
			ThumbnailURL: "/static/gallery/thumbs/" + id + ".jpg",
			Origin:       enums.DesignOriginGallery,
			Category:     category,
			Trending:     trending,
			Customizable: true,
		}
	}
	return []DesignAsset{
		item("hearts-floating", "Floating Hearts", "romantic", true),
		item("manuscript-name", "Handwritten Name", "text", true),
		item("delicate-flowers", "Delicate Flowers", "nature", false),
		item("geometric-modern", "Geometric Patterns", "modern", true),
		item("motivational-quote", "Motivational Quote", "text", false),
		item("minimal-elegant", "Elegant Minimalist", "minimal", true),
	}
}
