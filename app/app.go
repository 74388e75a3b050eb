// Package app is the root that owns the merchant session and hands it, by
// reference, to the gateway and the screen controllers.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"merchant/agents"
	"merchant/auth"
	"merchant/categories"
	"merchant/config"
	"merchant/db"
	"merchant/gateway"
	"merchant/kv"
	"merchant/orders"
	"merchant/products"
	"merchant/profile"
	"merchant/rdx"
	"merchant/reviews"
	"merchant/screen"
	"merchant/session"
)

type App struct {
	Config  *config.Config
	Session *session.Manager
	API     *gateway.Client

	Auth       *auth.Controller
	Categories *categories.Controller
	Products   *products.Controller
	Orders     *orders.Service
	Profile    *profile.Controller
	Agents     *agents.Controller
	Geocoder   *agents.Geocoder
	Reviews    *reviews.Controller

	nav    screen.Navigator
	closer func() error
}

// New opens the configured storage backend and wires everything on top.
func New(ctx context.Context, cfg *config.Config, nav screen.Navigator) (*App, error) {
	store, closer, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a, err := NewWithStorage(cfg, store, nav)
	if err != nil {
		_ = closer()
		return nil, err
	}
	a.closer = closer
	return a, nil
}

// NewWithStorage wires the app over an already open store.
func NewWithStorage(cfg *config.Config, store session.Storage, nav screen.Navigator, opts ...session.Option) (*App, error) {
	sess := session.NewManager(store, opts...)
	api, err := gateway.New(cfg.APIURL, sess, gateway.WithTimeout(cfg.APITimeout))
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:     cfg,
		Session:    sess,
		API:        api,
		Auth:       auth.NewController(api, sess),
		Categories: categories.NewController(api),
		Products:   products.NewController(api),
		Orders:     orders.NewService(api),
		Profile:    profile.NewController(api),
		Agents:     agents.NewController(api),
		Geocoder:   agents.NewGeocoder(cfg.GeoapifyKey),
		Reviews:    reviews.NewController(api),
		nav:        nav,
		closer:     func() error { return nil },
	}
	// Expire notifies once per session, so this is the only redirect a burst
	// of rejected requests produces.
	sess.OnExpired(func() { a.nav.Navigate(screen.RouteLogin) })
	return a, nil
}

// Start loads the persisted session and routes to home or login.
func (a *App) Start(ctx context.Context) screen.Route {
	a.Session.Load(ctx)
	route := screen.RouteLogin
	if a.Session.IsValid() {
		route = screen.RouteHome
	}
	a.nav.Navigate(route)
	return route
}

// Login runs the login screen and moves to home on success.
func (a *App) Login(ctx context.Context, email, password string) error {
	if err := a.Auth.Login(ctx, email, password); err != nil {
		return err
	}
	a.nav.Navigate(screen.RouteHome)
	return nil
}

// Logout is the explicit logout button.
func (a *App) Logout(ctx context.Context) error {
	err := a.Auth.Logout(ctx)
	a.nav.Navigate(screen.RouteLogin)
	return err
}

// OrdersBoard mounts the orders screen.
func (a *App) OrdersBoard(ctx context.Context) *orders.Board {
	return orders.NewBoard(ctx, a.Orders)
}

// ProductsScreen mounts the products tab.
func (a *App) ProductsScreen(ctx context.Context) *products.Screen {
	return products.NewScreen(ctx, a.Products, a.Categories)
}

func (a *App) Close() error {
	return a.closer()
}

// OpenStorage opens the backend named by cfg.StorageBackend.
func OpenStorage(ctx context.Context, cfg *config.Config) (session.Storage, func() error, error) {
	switch cfg.StorageBackend {
	case "", "sqlite":
		s, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "redis":
		s, err := rdx.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "mongo":
		s, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return s.Close(context.Background()) }, nil
	case "memory":
		log.Println("[app] using in-memory storage; the session will not survive a restart")
		return kv.NewMemory(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("app: %w: %q", ErrUnknownBackend, cfg.StorageBackend)
	}
}

var ErrUnknownBackend = errors.New("unknown storage backend")
