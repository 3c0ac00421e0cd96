package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/casecraft-backend/api/responses"
	"github.com/angelmondragon/casecraft-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
)

// Counter reports how many records a store holds.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type statsResponse struct {
	TotalDesigns   int64 `json:"total_designs"`
	TotalOrders    int64 `json:"total_orders"`
	PopularModels  int   `json:"popular_models"`
	GalleryItems   int   `json:"gallery_items"`
	ActiveSessions int   `json:"active_sessions"`
}

// SessionCounter reports live sessions.
type SessionCounter interface {
	Len() int
}

func Stats(designs, orders Counter, cat catalog.Service, sessions SessionCounter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		totalDesigns, err := designs.Count(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count designs"))
			return
		}
		totalOrders, err := orders.Count(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders"))
			return
		}
		popular, err := cat.PopularPhoneModels(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		gallery, err := cat.Gallery(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		resp := statsResponse{
			TotalDesigns:  totalDesigns,
			TotalOrders:   totalOrders,
			PopularModels: len(popular),
			GalleryItems:  len(gallery),
		}
		if sessions != nil {
			resp.ActiveSessions = sessions.Len()
		}
		responses.WriteSuccess(w, resp)
	}
}
