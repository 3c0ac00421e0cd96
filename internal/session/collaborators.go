package session

import (
	"context"

	"github.com/angelmondragon/casecraft-backend/internal/placement"
	"github.com/angelmondragon/casecraft-backend/internal/pricing"
	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
)

// DesignCommit is what the persistence collaborator receives when a
// placement is committed.
type DesignCommit struct {
	PhoneModelID string
	DesignType   enums.DesignOrigin
	GalleryID    string
	ImageRef     string
	Placement    placement.Placement
}

// DesignCommitter persists a design and returns its identifier.
type DesignCommitter interface {
	CommitDesign(ctx context.Context, commit DesignCommit) (string, error)
}

// DesignCommitterFunc adapts a function into a DesignCommitter.
type DesignCommitterFunc func(ctx context.Context, commit DesignCommit) (string, error)

func (fn DesignCommitterFunc) CommitDesign(ctx context.Context, commit DesignCommit) (string, error) {
	return fn(ctx, commit)
}

// OrderRequest is what the order collaborator receives on checkout. Quote is
// the client-side price shown to the shopper, recorded for reference only.
type OrderRequest struct {
	DesignID string
	Customer types.CustomerInfo
	Quote    pricing.Quote
}

// OrderSubmitter places an order and returns its identifier.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, req OrderRequest) (string, error)
}

// OrderSubmitterFunc adapts a function into an OrderSubmitter.
type OrderSubmitterFunc func(ctx context.Context, req OrderRequest) (string, error)

func (fn OrderSubmitterFunc) SubmitOrder(ctx context.Context, req OrderRequest) (string, error) {
	return fn(ctx, req)
}
