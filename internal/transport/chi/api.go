package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ExpertID is the path parameter naming an expert.
type ExpertID = string

// ListExpertsParams defines parameters for ListExperts.
type ListExpertsParams struct {
	Q            *string   `form:"q,omitempty" json:"q,omitempty"`
	Category     *[]string `form:"category,omitempty" json:"category,omitempty"`
	MinPrice     *int      `form:"min_price,omitempty" json:"min_price,omitempty"`
	MaxPrice     *int      `form:"max_price,omitempty" json:"max_price,omitempty"`
	Experience   *[]string `form:"experience,omitempty" json:"experience,omitempty"`
	Availability *[]string `form:"availability,omitempty" json:"availability,omitempty"`
	Page         *int      `form:"page,omitempty" json:"page,omitempty"`
	PageSize     *int      `form:"page_size,omitempty" json:"page_size,omitempty"`
}

// ListRelatedExpertsParams defines parameters for ListRelatedExperts.
type ListRelatedExpertsParams struct {
	Count *int `form:"count,omitempty" json:"count,omitempty"`
}

// GetExpertCalendarParams defines parameters for GetExpertCalendar.
type GetExpertCalendarParams struct {
	Date *openapi_types.Date `form:"date,omitempty" json:"date,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
	// (GET /api/experts)
	ListExperts(w http.ResponseWriter, r *http.Request, params ListExpertsParams)
	// (GET /api/experts/{id})
	GetExpert(w http.ResponseWriter, r *http.Request, id ExpertID)
	// (GET /api/experts/{id}/related)
	ListRelatedExperts(w http.ResponseWriter, r *http.Request, id ExpertID, params ListRelatedExpertsParams)
	// (GET /api/experts/{id}/calendar)
	GetExpertCalendar(w http.ResponseWriter, r *http.Request, id ExpertID, params GetExpertCalendarParams)
	// (GET /api/filters)
	ListFilters(w http.ResponseWriter, r *http.Request)
	// (POST /api/chat)
	Chat(w http.ResponseWriter, r *http.Request)
	// (POST /api/auth/signin)
	SignIn(w http.ResponseWriter, r *http.Request)
	// (GET /api/auth/session)
	GetSession(w http.ResponseWriter, r *http.Request)
	// (POST /api/auth/signout)
	SignOut(w http.ResponseWriter, r *http.Request)
}

// MiddlewareFunc wraps a single route handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper binds request parameters before calling the handlers.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.Handler) {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}
	h.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindID(w http.ResponseWriter, r *http.Request) (ExpertID, bool) {
	var id ExpertID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return "", false
	}
	return id, true
}

func (siw *ServerInterfaceWrapper) bindQuery(w http.ResponseWriter, r *http.Request, name string, explode bool, dest any) bool {
	if err := runtime.BindQueryParameter("form", explode, false, name, r.URL.Query(), dest); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// HealthCheck operation middleware
func (siw *ServerInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.HealthCheck))
}

// Metrics operation middleware
func (siw *ServerInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.Metrics))
}

// ListExperts operation middleware
func (siw *ServerInterfaceWrapper) ListExperts(w http.ResponseWriter, r *http.Request) {
	var params ListExpertsParams
	if !siw.bindQuery(w, r, "q", true, &params.Q) ||
		!siw.bindQuery(w, r, "category", true, &params.Category) ||
		!siw.bindQuery(w, r, "min_price", true, &params.MinPrice) ||
		!siw.bindQuery(w, r, "max_price", true, &params.MaxPrice) ||
		!siw.bindQuery(w, r, "experience", true, &params.Experience) ||
		!siw.bindQuery(w, r, "availability", true, &params.Availability) ||
		!siw.bindQuery(w, r, "page", true, &params.Page) ||
		!siw.bindQuery(w, r, "page_size", true, &params.PageSize) {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListExperts(w, r, params)
	}))
}

// GetExpert operation middleware
func (siw *ServerInterfaceWrapper) GetExpert(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetExpert(w, r, id)
	}))
}

// ListRelatedExperts operation middleware
func (siw *ServerInterfaceWrapper) ListRelatedExperts(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	var params ListRelatedExpertsParams
	if !siw.bindQuery(w, r, "count", true, &params.Count) {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListRelatedExperts(w, r, id, params)
	}))
}

// GetExpertCalendar operation middleware
func (siw *ServerInterfaceWrapper) GetExpertCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := siw.bindID(w, r)
	if !ok {
		return
	}
	var params GetExpertCalendarParams
	if !siw.bindQuery(w, r, "date", true, &params.Date) {
		return
	}
	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetExpertCalendar(w, r, id, params)
	}))
}

// ListFilters operation middleware
func (siw *ServerInterfaceWrapper) ListFilters(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.ListFilters))
}

// Chat operation middleware
func (siw *ServerInterfaceWrapper) Chat(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.Chat))
}

// SignIn operation middleware
func (siw *ServerInterfaceWrapper) SignIn(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.SignIn))
}

// GetSession operation middleware
func (siw *ServerInterfaceWrapper) GetSession(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.GetSession))
}

// SignOut operation middleware
func (siw *ServerInterfaceWrapper) SignOut(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.SignOut))
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates an http.Handler with routing matching the API.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions creates an http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	base := options.BaseURL
	r.Get(base+"/health", wrapper.HealthCheck)
	r.Get(base+"/metrics", wrapper.Metrics)
	r.Get(base+"/api/experts", wrapper.ListExperts)
	r.Get(base+"/api/experts/{id}", wrapper.GetExpert)
	r.Get(base+"/api/experts/{id}/related", wrapper.ListRelatedExperts)
	r.Get(base+"/api/experts/{id}/calendar", wrapper.GetExpertCalendar)
	r.Get(base+"/api/filters", wrapper.ListFilters)
	r.Post(base+"/api/chat", wrapper.Chat)
	r.Post(base+"/api/auth/signin", wrapper.SignIn)
	r.Get(base+"/api/auth/session", wrapper.GetSession)
	r.Post(base+"/api/auth/signout", wrapper.SignOut)
	return r
}
