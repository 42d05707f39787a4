package api

import (
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/dakshbank/ledger-service/pkg/admission"
	"github.com/dakshbank/ledger-service/pkg/auth"
	"github.com/dakshbank/ledger-service/pkg/core/diag"
	"github.com/dakshbank/ledger-service/pkg/core/router"
	"github.com/dakshbank/ledger-service/pkg/dal"
	"github.com/dakshbank/ledger-service/pkg/ledger"
	"github.com/dakshbank/ledger-service/pkg/query"
	"github.com/dakshbank/ledger-service/pkg/types"
)

var logger = diag.CreateLogger()

// API registers the http surface of the service
type API struct {
	authSvc   auth.Service
	ledgerSvc ledger.Service
	querySvc  query.Service
	filter    admission.Filter
}

// Opt is an option for the api
type Opt func(*API)

// WithAuthService will init the api with an auth service
func WithAuthService(svc auth.Service) Opt {
	return func(a *API) { a.authSvc = svc }
}

// WithLedgerService will init the api with a transaction engine
func WithLedgerService(svc ledger.Service) Opt {
	return func(a *API) { a.ledgerSvc = svc }
}

// WithQueryService will init the api with a query service
func WithQueryService(svc query.Service) Opt {
	return func(a *API) { a.querySvc = svc }
}

// WithAdmissionFilter will init the api with an admission filter
func WithAdmissionFilter(filter admission.Filter) Opt {
	return func(a *API) { a.filter = filter }
}

// New returns an api instance
func New(opts ...Opt) *API {
	a := &API{filter: admission.NewFilter()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register binds all routes. Sessions and healthcheck are open,
// everything else needs a bearer token
func (a *API) Register(r router.Router) {
	admit := func(class admission.Class, handler http.Handler) http.Handler {
		return admission.NewMiddleware(a.filter, class)(handler)
	}

	r.Handle("GET", "/v1/healthcheck/ping",
		router.ToolkitHandlerFunc(a.handlePing))
	r.Handle("POST", "/v1/sessions",
		admit(admission.ClassAuth, router.ToolkitHandlerFunc(a.handleCreateSession)))
	r.Handle("POST", "/v1/entries",
		admit(admission.ClassTransaction, a.authenticated(a.handleSubmitEntry)))
	r.Handle("GET", "/v1/principals/:id/balance",
		admit(admission.ClassGeneral, a.authenticated(a.handleGetBalance)))
	r.Handle("GET", "/v1/entries",
		admit(admission.ClassGeneral, a.authenticated(a.handleListEntries)))
	r.Handle("GET", "/v1/entries/export",
		admit(admission.ClassGeneral, a.authenticated(a.handleExportEntries)))
}

// translateError maps domain sentinels to http errors. Anything not
// recognized stays as is and surfaces as a generic 500
func translateError(err error) error {
	switch errors.Cause(err) {
	case ledger.ErrInvalidAmount, ledger.ErrInvalidKind, ledger.ErrDescriptionTooLong:
		return router.BadRequestError(errors.Cause(err).Error())
	case ledger.ErrForbidden:
		return router.ForbiddenError(errors.Cause(err).Error())
	case dal.ErrInsufficientBalance:
		return router.UnprocessableEntityError(errors.Cause(err).Error())
	case dal.ErrPrincipalNotFound:
		return router.ResourceNotFoundError(errors.Cause(err).Error())
	case dal.ErrPrincipalExists:
		return router.NewHTTPError(http.StatusConflict, errors.Cause(err).Error())
	case auth.ErrInvalidCredentials, auth.ErrInvalidToken, auth.ErrTokenExpired:
		return router.UnauthorizedError(errors.Cause(err).Error())
	}
	return err
}

type authenticatedHandlerFunc func(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit, principalID string) error

// authenticated resolves the bearer token before calling the handler
func (a *API) authenticated(handler authenticatedHandlerFunc) router.ToolkitHandlerFunc {
	return func(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
		token, err := types.BearerTokenFromAuthHeader(req.Header.Get("Authorization"))
		if err != nil {
			return router.UnauthorizedError("Missing or malformed authorization header")
		}
		principalID, err := a.authSvc.Authenticate(req.Context(), token)
		if err != nil {
			return translateError(err)
		}
		return handler(w, req, h, principalID)
	}
}

func (a *API) handlePing(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	return h.WriteJSON(map[string]interface{}{"ok": true})
}

type createSessionPayload struct {
	PrincipalID string `json:"principalId" validate:"required"`
	Secret      string `json:"secret" validate:"required"`
}

func (a *API) handleCreateSession(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit) error {
	var payload createSessionPayload
	if err := h.BindPayload(&payload); err != nil {
		return err
	}

	session, err := a.authSvc.IssueToken(req.Context(), payload.PrincipalID, payload.Secret)
	if err != nil {
		return translateError(err)
	}
	return h.WriteJSON(session, h.WithStatus(http.StatusCreated))
}

type submitEntryPayload struct {
	PrincipalID string           `json:"principalId" validate:"required"`
	Kind        ledger.EntryKind `json:"kind" validate:"required"`
	Amount      string           `json:"amount" validate:"required"`
	Description string           `json:"description"`

	// ActingPrincipalID defaults to the authenticated caller. The engine
	// rejects a value naming anybody else
	ActingPrincipalID string `json:"actingPrincipalId"`
}

func (a *API) handleSubmitEntry(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit, principalID string) error {
	var payload submitEntryPayload
	if err := h.BindPayload(&payload); err != nil {
		return err
	}
	amount, err := ledger.ParseAmount(payload.Amount)
	if err != nil {
		return router.BadRequestError("Amount is not a valid number")
	}
	acting := payload.ActingPrincipalID
	if acting == "" {
		acting = principalID
	}

	result, err := a.ledgerSvc.Submit(req.Context(), principalID, ledger.SubmitRequest{
		PrincipalID:       payload.PrincipalID,
		Kind:              payload.Kind,
		Amount:            amount,
		Description:       payload.Description,
		ActingPrincipalID: acting,
	})
	if err != nil {
		return translateError(err)
	}
	return h.WriteJSON(result, h.WithStatus(http.StatusCreated))
}

func (a *API) handleGetBalance(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit, principalID string) error {
	var id string
	if err := h.BindParams().PathParam("id").String(&id).Validate(nil); err != nil {
		return err
	}

	balance, err := a.ledgerSvc.GetBalance(req.Context(), principalID, id)
	if err != nil {
		return translateError(err)
	}
	return h.WriteJSON(balance)
}

func optionalTime(rawValue string) (interface{}, error) {
	if rawValue == "" {
		return (*time.Time)(nil), nil
	}
	parsed, err := time.Parse(time.RFC3339, rawValue)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func bindEntryFilter(h router.HandlerToolkit, filter *query.Filter) error {
	var kind string
	binder := h.BindParams().
		QueryParam("principalId").String(&filter.PrincipalID).
		QueryParam("kind").String(&kind).
		QueryParam("from").Custom(&filter.From, optionalTime).
		QueryParam("to").Custom(&filter.To, optionalTime)
	if err := binder.Validate(nil); err != nil {
		return err
	}
	if kind != "" && !ledger.EntryKind(kind).Valid() {
		return router.ParamValidationError(router.QueryParam, "kind")
	}
	filter.Kind = ledger.EntryKind(kind)
	return nil
}

func (a *API) handleListEntries(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit, principalID string) error {
	var listReq query.ListRequest
	if err := bindEntryFilter(h, &listReq.Filter); err != nil {
		return err
	}
	if err := h.BindParams().
		QueryParam("limit").Default("0").Int(&listReq.Limit).
		QueryParam("offset").Default("0").Int(&listReq.Offset).
		Validate(nil); err != nil {
		return err
	}

	result, err := a.querySvc.List(req.Context(), listReq)
	if err != nil {
		return translateError(err)
	}
	return h.WriteJSON(result)
}

func (a *API) handleExportEntries(w http.ResponseWriter, req *http.Request, h router.HandlerToolkit, principalID string) error {
	var filter query.Filter
	if err := bindEntryFilter(h, &filter); err != nil {
		return err
	}

	export, err := a.querySvc.Export(req.Context(), filter)
	if err != nil {
		return translateError(err)
	}

	w.Header().Set("content-type", "text/csv")
	w.Header().Set("content-disposition", `attachment; filename="entries.csv"`)
	if err := export.WriteCSV(w); err != nil {
		// The status line is out at this point, the best we can do is log
		logger.WithError(err).Error(req.Context(), "Failed to render entries export")
		return nil
	}
	return nil
}
