package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/angelmondragon/casecraft-backend/internal/catalog"
	"github.com/angelmondragon/casecraft-backend/internal/placement"
	"github.com/angelmondragon/casecraft-backend/internal/pricing"
	"github.com/angelmondragon/casecraft-backend/internal/workflow"
	"github.com/angelmondragon/casecraft-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/casecraft-backend/pkg/errors"
	"github.com/angelmondragon/casecraft-backend/pkg/logger"
	"github.com/angelmondragon/casecraft-backend/pkg/metrics"
	"github.com/angelmondragon/casecraft-backend/pkg/types"
	"github.com/google/uuid"
)

const (
	opSelectModel     = "select_model"
	opSelectDesign    = "select_design"
	opUploadDesign    = "upload_design"
	opApplyPlacement  = "apply_placement"
	opUndo            = "undo"
	opRedo            = "redo"
	opResetPlacement  = "reset_placement"
	opLock            = "lock"
	opUnlock          = "unlock"
	opSetMaterial     = "set_material"
	opSetQuantity     = "set_quantity"
	opSetShipping     = "set_shipping"
	opSetPricing      = "set_pricing"
	opEnterStep       = "enter_step"
	opCommitPlacement = "commit_placement"
	opCompleteOrder   = "complete_order"

	collaboratorDesigns = "design_commit"
	collaboratorOrders  = "order_submit"
)

// Params wires an Engine to its collaborators.
type Params struct {
	ID      string
	Pricing *pricing.Table
	Designs DesignCommitter
	Orders  OrderSubmitter
	Logger  *logger.Logger
	Metrics *metrics.SessionMetrics
	Clock   func() time.Time
}

// state is everything a session owns. A fresh value is the default session.
type state struct {
	model      *catalog.PhoneModel
	design     *catalog.DesignAsset
	history    *placement.History
	machine    *workflow.Machine
	materialID string
	quantity   int
	shippingID string
	designID   *string
}

func newState(table *pricing.Table) *state {
	return &state{
		history:    placement.NewHistory(),
		machine:    workflow.NewMachine(),
		materialID: table.DefaultMaterialID(),
		quantity:   1,
		shippingID: table.CheapestShippingID(),
	}
}

func (s *state) facts() workflow.Facts {
	return workflow.Facts{
		HasModel:    s.model != nil,
		HasDesign:   s.design != nil,
		HasDesignID: s.designID != nil,
	}
}

// Engine is the single mutation surface of one customization session. It
// keeps the workflow, placement history and pricing selection consistent and
// publishes a complete View after every successful change.
type Engine struct {
	id      string
	pricing *pricing.Table
	designs DesignCommitter
	orders  OrderSubmitter
	logg    *logger.Logger
	metrics *metrics.SessionMetrics
	now     func() time.Time

	mu         sync.Mutex
	emitMu     sync.Mutex
	st         *state
	pending    bool
	lastActive time.Time
	observers  map[int]Observer
	nextObs    int
}

// NewEngine builds a session in its default state.
func NewEngine(p Params) (*Engine, error) {
	if p.Pricing == nil {
		return nil, fmt.Errorf("pricing table is required")
	}
	if p.Designs == nil {
		return nil, fmt.Errorf("design committer is required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("order submitter is required")
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.Clock == nil {
		p.Clock = time.Now
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return &Engine{
		id:         p.ID,
		pricing:    p.Pricing,
		designs:    p.Designs,
		orders:     p.Orders,
		logg:       p.Logger,
		metrics:    p.Metrics,
		now:        p.Clock,
		st:         newState(p.Pricing),
		lastActive: p.Clock(),
		observers:  map[int]Observer{},
	}, nil
}

func (e *Engine) ID() string { return e.id }

// View returns the current view without mutating anything.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Pending reports whether a commit or order submission is in flight.
func (e *Engine) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// LastActive is the time of the last accepted mutation.
func (e *Engine) LastActive() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastActive
}

// Subscribe registers obs for every emitted view and returns a function that
// removes it.
func (e *Engine) Subscribe(obs Observer) func() {
	if obs == nil {
		return func() {}
	}
	e.mu.Lock()
	id := e.nextObs
	e.nextObs++
	e.observers[id] = obs
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.observers, id)
			e.mu.Unlock()
		})
	}
}

func (e *Engine) SelectModel(ctx context.Context, model *catalog.PhoneModel) (View, error) {
	return e.mutate(ctx, opSelectModel, func(st *state) error {
		if model == nil || model.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "phone model is required")
		}
		st.model = model
		st.machine.Complete(workflow.ModelSelection)
		return nil
	})
}

func (e *Engine) SelectDesign(ctx context.Context, design *catalog.DesignAsset) (View, error) {
	return e.mutate(ctx, opSelectDesign, func(st *state) error {
		if err := workflow.Require(workflow.DesignSelection, st.facts()); err != nil {
			return err
		}
		if design == nil || design.ID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "design is required")
		}
		st.design = design
		st.machine.Complete(workflow.DesignSelection)
		return nil
	})
}

// UploadDesign selects a shopper-supplied image. The reference is opaque to
// the engine.
func (e *Engine) UploadDesign(ctx context.Context, imageRef string) (View, error) {
	return e.mutate(ctx, opUploadDesign, func(st *state) error {
		if err := workflow.Require(workflow.DesignSelection, st.facts()); err != nil {
			return err
		}
		if imageRef == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image reference is required")
		}
		st.design = catalog.NewUploadedDesign(imageRef)
		st.machine.Complete(workflow.DesignSelection)
		return nil
	})
}

// ApplyPlacement records a new placement. While locked it is a no-op.
func (e *Engine) ApplyPlacement(ctx context.Context, p placement.Placement) (View, error) {
	return e.mutate(ctx, opApplyPlacement, func(st *state) error {
		_, err := st.history.Apply(p)
		return err
	})
}

func (e *Engine) Undo(ctx context.Context) (View, error) {
	return e.mutate(ctx, opUndo, func(st *state) error {
		st.history.Undo()
		return nil
	})
}

func (e *Engine) Redo(ctx context.Context) (View, error) {
	return e.mutate(ctx, opRedo, func(st *state) error {
		st.history.Redo()
		return nil
	})
}

func (e *Engine) ResetPlacement(ctx context.Context) (View, error) {
	return e.mutate(ctx, opResetPlacement, func(st *state) error {
		_, err := st.history.Reset()
		return err
	})
}

func (e *Engine) Lock(ctx context.Context) (View, error) {
	return e.mutate(ctx, opLock, func(st *state) error {
		st.history.Lock()
		return nil
	})
}

func (e *Engine) Unlock(ctx context.Context) (View, error) {
	return e.mutate(ctx, opUnlock, func(st *state) error {
		st.history.Unlock()
		return nil
	})
}

func (e *Engine) SetMaterial(ctx context.Context, materialID string) (View, error) {
	return e.mutate(ctx, opSetMaterial, func(st *state) error {
		return e.applyPricing(st, materialID, st.quantity, st.shippingID)
	})
}

func (e *Engine) SetQuantity(ctx context.Context, quantity int) (View, error) {
	return e.mutate(ctx, opSetQuantity, func(st *state) error {
		return e.applyPricing(st, st.materialID, quantity, st.shippingID)
	})
}

func (e *Engine) SetShipping(ctx context.Context, shippingID string) (View, error) {
	return e.mutate(ctx, opSetShipping, func(st *state) error {
		return e.applyPricing(st, st.materialID, st.quantity, shippingID)
	})
}

// SetPricing changes material, quantity and shipping together. Either all
// three are accepted or none is.
func (e *Engine) SetPricing(ctx context.Context, materialID string, quantity int, shippingID string) (View, error) {
	return e.mutate(ctx, opSetPricing, func(st *state) error {
		return e.applyPricing(st, materialID, quantity, shippingID)
	})
}

// PricingUpdate carries optional pricing selections. Nil fields keep the
// session's current value.
type PricingUpdate struct {
	MaterialID *string
	Quantity   *int
	ShippingID *string
}

// UpdatePricing merges update into the current selection under the session
// lock. Either every given field is accepted or none is.
func (e *Engine) UpdatePricing(ctx context.Context, update PricingUpdate) (View, error) {
	return e.mutate(ctx, opSetPricing, func(st *state) error {
		materialID, quantity, shippingID := st.materialID, st.quantity, st.shippingID
		if update.MaterialID != nil {
			materialID = *update.MaterialID
		}
		if update.Quantity != nil {
			quantity = *update.Quantity
		}
		if update.ShippingID != nil {
			shippingID = *update.ShippingID
		}
		return e.applyPricing(st, materialID, quantity, shippingID)
	})
}

// EnterStep navigates to step, keeping completed marks and earlier choices.
func (e *Engine) EnterStep(ctx context.Context, step workflow.Step) (View, error) {
	return e.mutate(ctx, opEnterStep, func(st *state) error {
		return st.machine.Enter(step, st.facts())
	})
}

// CommitPlacement persists the current design and placement and advances to
// checkout. The session is pending while the committer runs; on failure or
// cancellation nothing but the pending flag changes.
func (e *Engine) CommitPlacement(ctx context.Context) (View, error) {
	ctx = e.logg.WithSessionID(ctx, e.id)

	var commit DesignCommit
	view, err := e.begin(ctx, opCommitPlacement, func(st *state) error {
		if err := workflow.Require(workflow.Placement, st.facts()); err != nil {
			return err
		}
		commit = DesignCommit{
			PhoneModelID: st.model.ID,
			DesignType:   st.design.Origin,
			GalleryID:    galleryID(st.design),
			ImageRef:     st.design.ImageURL,
			Placement:    st.history.Current(),
		}
		return nil
	})
	if err != nil {
		return view, err
	}

	start := e.now()
	designID, callErr := e.designs.CommitDesign(ctx, commit)
	if callErr == nil && designID == "" {
		callErr = fmt.Errorf("design committer returned an empty id")
	}
	callErr = abandoned(ctx, callErr)
	e.observeCollaborator(collaboratorDesigns, callErr, start)

	e.mu.Lock()
	e.pending = false
	if callErr != nil {
		return e.failPublished(ctx, opCommitPlacement, pkgerrors.Wrap(pkgerrors.CodeCollaboratorFailure, callErr, "design commit failed"))
	}
	e.st.designID = &designID
	e.st.machine.Complete(workflow.Placement)
	e.lastActive = e.now()
	view = e.viewLocked()
	e.publishAndUnlock(view)

	e.metrics.IncOperation(opCommitPlacement, metrics.OutcomeOK)
	e.logg.Info(e.logg.WithDesignID(ctx, designID), "session design committed")
	return view, nil
}

// CompleteOrder submits the order for the committed design. On success the
// all-complete view is emitted and the session is reset to defaults; the
// returned view is the reset one.
func (e *Engine) CompleteOrder(ctx context.Context, customer types.CustomerInfo) (OrderReceipt, View, error) {
	ctx = e.logg.WithSessionID(ctx, e.id)

	var req OrderRequest
	view, err := e.begin(ctx, opCompleteOrder, func(st *state) error {
		if st.machine.Current() != workflow.Checkout {
			return pkgerrors.New(
				pkgerrors.CodePrerequisiteNotMet,
				fmt.Sprintf("order requires the %s step, session is at %s", workflow.Checkout, st.machine.Current()),
			).WithDetails(map[string]any{"step": int(workflow.Checkout), "current": int(st.machine.Current())})
		}
		if err := workflow.Require(workflow.Checkout, st.facts()); err != nil {
			return err
		}
		if missing := customer.MissingFields(); len(missing) > 0 {
			sort.Strings(missing)
			return pkgerrors.New(
				pkgerrors.CodeInvalidCustomerInfo,
				fmt.Sprintf("customer info is missing %v", missing),
			).WithDetails(map[string]any{"missing": missing})
		}
		quote, err := e.pricing.Quote(st.materialID, st.quantity, st.shippingID)
		if err != nil {
			return err
		}
		req = OrderRequest{DesignID: *st.designID, Customer: customer, Quote: quote}
		return nil
	})
	if err != nil {
		return OrderReceipt{}, view, err
	}

	start := e.now()
	orderID, callErr := e.orders.SubmitOrder(ctx, req)
	if callErr == nil && orderID == "" {
		callErr = fmt.Errorf("order submitter returned an empty id")
	}
	callErr = abandoned(ctx, callErr)
	e.observeCollaborator(collaboratorOrders, callErr, start)

	e.mu.Lock()
	e.pending = false
	if callErr != nil {
		view, err := e.failPublished(ctx, opCompleteOrder, pkgerrors.Wrap(pkgerrors.CodeCollaboratorFailure, callErr, "order submission failed"))
		return OrderReceipt{}, view, err
	}

	e.st.machine.CompleteAll()
	completed := e.viewLocked()
	e.st = newState(e.pricing)
	e.lastActive = e.now()
	view = e.viewLocked()

	observers := e.observerSnapshot()
	e.emitMu.Lock()
	e.mu.Unlock()
	for _, obs := range observers {
		obs(completed)
	}
	for _, obs := range observers {
		obs(view)
	}
	e.emitMu.Unlock()

	e.metrics.IncOperation(opCompleteOrder, metrics.OutcomeOK)
	e.logg.Info(e.logg.WithOrderID(ctx, orderID), "session order completed")
	return OrderReceipt{OrderID: orderID, DesignID: req.DesignID, Quote: req.Quote}, view, nil
}

// mutate runs fn under the session lock. fn must leave the state untouched
// when it returns an error.
func (e *Engine) mutate(ctx context.Context, op string, fn func(st *state) error) (View, error) {
	e.mu.Lock()
	if e.pending {
		return e.fail(ctx, op, busyError())
	}
	if err := fn(e.st); err != nil {
		return e.fail(ctx, op, err)
	}
	e.lastActive = e.now()
	view := e.viewLocked()
	e.publishAndUnlock(view)

	e.metrics.IncOperation(op, metrics.OutcomeOK)
	e.logg.Debug(e.logg.WithFields(ctx, map[string]any{"session_id": e.id, "op": op, "step": view.Step.String()}), "session updated")
	return view, nil
}

// begin validates and snapshots under the lock, then marks the session
// pending and publishes that. The caller runs the collaborator unlocked.
func (e *Engine) begin(ctx context.Context, op string, prepare func(st *state) error) (View, error) {
	e.mu.Lock()
	if e.pending {
		return e.fail(ctx, op, busyError())
	}
	if err := ctx.Err(); err != nil {
		return e.fail(ctx, op, pkgerrors.Wrap(pkgerrors.CodeCollaboratorFailure, err, "request abandoned before submission"))
	}
	if err := prepare(e.st); err != nil {
		return e.fail(ctx, op, err)
	}
	e.pending = true
	view := e.viewLocked()
	e.publishAndUnlock(view)
	return view, nil
}

// fail unlocks and reports a rejected operation. Must be called with mu held.
func (e *Engine) fail(ctx context.Context, op string, err error) (View, error) {
	view := e.viewLocked()
	e.mu.Unlock()
	e.report(ctx, op, err)
	return view, err
}

// failPublished is fail for a call that was pending: the cleared flag is
// published so consumers can re-enable submission.
func (e *Engine) failPublished(ctx context.Context, op string, err error) (View, error) {
	view := e.viewLocked()
	e.publishAndUnlock(view)
	e.report(ctx, op, err)
	return view, err
}

func (e *Engine) report(ctx context.Context, op string, err error) {
	fields := map[string]any{"session_id": e.id, "op": op}
	if pkgerrors.IsCode(err, pkgerrors.CodeCollaboratorFailure) {
		e.metrics.IncOperation(op, metrics.OutcomeFailed)
		e.logg.Error(e.logg.WithFields(ctx, fields), "session collaborator failed", err)
		return
	}
	e.metrics.IncOperation(op, metrics.OutcomeRejected)
	e.logg.Warn(e.logg.WithFields(ctx, fields), err.Error())
}

// publishAndUnlock hands view to observers in mutation order. emitMu is taken
// before mu is released so a later mutation cannot overtake this emission.
func (e *Engine) publishAndUnlock(view View) {
	observers := e.observerSnapshot()
	e.emitMu.Lock()
	e.mu.Unlock()
	for _, obs := range observers {
		obs(view)
	}
	e.emitMu.Unlock()
}

func (e *Engine) observerSnapshot() []Observer {
	if len(e.observers) == 0 {
		return nil
	}
	ids := make([]int, 0, len(e.observers))
	for id := range e.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Observer, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.observers[id])
	}
	return out
}

func (e *Engine) applyPricing(st *state, materialID string, quantity int, shippingID string) error {
	if _, err := e.pricing.Quote(materialID, quantity, shippingID); err != nil {
		return err
	}
	st.materialID = materialID
	st.quantity = quantity
	st.shippingID = shippingID
	return nil
}

func (e *Engine) viewLocked() View {
	st := e.st
	view := View{
		SessionID:      e.id,
		Step:           st.machine.Current(),
		CompletedSteps: st.machine.Completed(),
		Model:          st.model,
		Design:         st.design,
		Placement:      st.history.Current(),
		Locked:         st.history.Locked(),
		CanUndo:        st.history.CanUndo(),
		CanRedo:        st.history.CanRedo(),
		MaterialID:     st.materialID,
		Quantity:       st.quantity,
		ShippingID:     st.shippingID,
		Pending:        e.pending,
	}
	if st.designID != nil {
		id := *st.designID
		view.DesignID = &id
	}
	// Selections are validated before they are stored, so the quote only
	// fails if the table itself is inconsistent.
	if quote, err := e.pricing.Quote(st.materialID, st.quantity, st.shippingID); err == nil {
		view.Quote = quote
		e.metrics.IncQuote()
	}
	return view
}

func (e *Engine) observeCollaborator(name string, err error, start time.Time) {
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeFailed
	}
	e.metrics.ObserveCollaborator(name, outcome, e.now().Sub(start))
}

func busyError() error {
	return pkgerrors.New(pkgerrors.CodeSessionBusy, "a design commit or order submission is already in flight")
}

// abandoned turns a result that arrived after the caller gave up into a
// failure so the session is left as it was.
func abandoned(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("request abandoned: %w", ctxErr)
	}
	return nil
}

func galleryID(design *catalog.DesignAsset) string {
	if design.Origin == enums.DesignOriginGallery {
		return design.ID
	}
	return ""
}
