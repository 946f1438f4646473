package view

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hwStore/client/state"
	"hwStore/models"
)

const (
	routeHome     = "home"
	routeCatalog  = "catalog"
	routeProduct  = "product"
	routeCart     = "cart"
	routeDelivery = "delivery"
	routeContacts = "contacts"
)

// App is the page-level orchestration: it resolves a client route, dispatches the
// fetches the page depends on and renders header plus page.
type App struct {
	st     *state.Container
	router *mux.Router
}

func NewApp(st *state.Container) *App {
	r := mux.NewRouter()
	r.NewRoute().Path("/").Name(routeHome)
	r.NewRoute().Path("/catalog").Name(routeCatalog)
	r.NewRoute().Path("/catalog/{id:[0-9]+}").Name(routeProduct)
	r.NewRoute().Path("/cart").Name(routeCart)
	r.NewRoute().Path("/delivery").Name(routeDelivery)
	r.NewRoute().Path("/contacts").Name(routeContacts)
	return &App{st: st, router: r}
}

func (a *App) State() *state.Container {
	return a.st
}

// Open navigates to path. Fetch failures are rendered into the page, not returned.
func (a *App) Open(ctx context.Context, path string) (string, error) {
	name, id := a.match(path)
	switch name {
	case routeCatalog:
		_ = a.st.LoadProducts(ctx)
	case routeProduct:
		_ = a.st.LoadProduct(ctx, id)
	}
	return a.Render(path)
}

// Render draws path from the current state without fetching anything.
func (a *App) Render(path string) (string, error) {
	name, id := a.match(path)
	snap := a.st.State()

	header, err := RenderHeader(snap)
	if err != nil {
		return "", errors.Wrap(err, "render header")
	}

	var body string
	switch name {
	case routeCatalog:
		body, err = RenderCatalog(snap)
	case routeProduct:
		body, err = RenderProduct(snap, id)
	case routeCart:
		body, err = RenderCart(snap)
	case routeHome, routeDelivery, routeContacts:
		body, err = RenderStatic(name)
	default:
		body, err = RenderStatic("notfound")
	}
	if err != nil {
		return "", errors.Wrapf(err, "render %s", path)
	}
	return header + body, nil
}

// match resolves path to a route name and, for product pages, the product id.
// Unknown paths and ids that do not fit an int resolve to "".
func (a *App) match(path string) (string, int) {
	u, err := url.Parse(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Debug("view: bad path")
		return "", 0
	}
	if u.Path == "" {
		u.Path = "/"
	}
	if u.Path != "/" {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	req := &http.Request{Method: http.MethodGet, URL: u}
	var m mux.RouteMatch
	if !a.router.Match(req, &m) || m.Route == nil {
		return "", 0
	}
	name := m.Route.GetName()
	if name != routeProduct {
		return name, 0
	}
	id, err := strconv.Atoi(m.Vars["id"])
	if err != nil {
		log.WithError(err).WithField("path", path).Debug("view: bad product id")
		return "", 0
	}
	return name, id
}

func errorText(err error) string {
	var fe models.FieldErrors
	switch {
	case errors.As(err, &fe):
		return "please check the highlighted fields"
	case errors.Is(err, models.ErrNetwork):
		return "network error, please try again"
	case errors.Is(err, models.ErrNotFoundError):
		return "not found"
	default:
		return err.Error()
	}
}
