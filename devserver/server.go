// Package devserver is an in-memory stand-in for the merchant REST API. It
// implements the endpoints the client uses with the same status codes, so
// the client can be exercised end to end on a laptop.
package devserver

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"merchant/media"
	"merchant/models"
	"merchant/utils"
)

const tokenTTL = 24 * time.Hour

type user struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash []byte
	UserType     string
	Profile      models.Profile
}

type product struct {
	owner string
	models.Product
}

type category struct {
	owner string
	models.Category
}

type order struct {
	owner string
	notes []string
	models.Order
}

type agent struct {
	owner string
	models.Agent
}

type review struct {
	owner string
	models.Review
}

type Server struct {
	secret    []byte
	uploadDir string
	tokenTTL  time.Duration

	mu         sync.Mutex
	nextID     int64
	users      map[string]*user // by email
	categories map[int64]*category
	products   map[int64]*product
	orders     map[int64]*order
	agents     map[string]*agent // by email
	reviews    []review
}

// New returns an empty backend. Uploaded images go to uploadDir; an empty
// uploadDir keeps them out of the filesystem.
func New(secret []byte, uploadDir string) *Server {
	return &Server{
		secret:     secret,
		uploadDir:  uploadDir,
		tokenTTL:   tokenTTL,
		users:      make(map[string]*user),
		categories: make(map[int64]*category),
		products:   make(map[int64]*product),
		orders:     make(map[int64]*order),
		agents:     make(map[string]*agent),
	}
}

// Secret is the HS256 key tokens are signed with.
func (s *Server) Secret() []byte { return s.secret }

// SetTokenTTL changes the lifetime of tokens issued from now on.
func (s *Server) SetTokenTTL(d time.Duration) {
	s.mu.Lock()
	s.tokenTTL = d
	s.mu.Unlock()
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// AddUser registers an account directly, bypassing the HTTP handler.
func (s *Server) AddUser(name, email, password, userType string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("devserver: hash password: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[email]; exists {
		return "", fmt.Errorf("devserver: user %s already exists", email)
	}
	u := &user{
		ID:           fmt.Sprintf("u%d", s.id()),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		UserType:     userType,
		Profile:      models.Profile{BusinessName: name},
	}
	s.users[email] = u
	return u.ID, nil
}

// AddOrder places an order for merchantID and returns it with its id.
func (s *Server) AddOrder(merchantID, customer string, status models.OrderStatus, items []models.OrderItem) models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := &order{owner: merchantID}
	o.ID = s.id()
	o.Status = status
	o.CustomerName = customer
	o.CreatedAt = time.Now().UTC()
	o.TotalAmount = decimal.Zero
	for _, it := range items {
		it.ID = s.id()
		it.Subtotal = it.LineTotal()
		o.TotalAmount = o.TotalAmount.Add(it.Subtotal)
		o.Items = append(o.Items, it)
	}
	o.QRCodeURL = fmt.Sprintf("/api/merchant/orders/%d/qr", o.ID)
	s.orders[o.ID] = o
	return o.Order
}

// Seed creates one merchant with a small catalogue, orders and reviews.
func (s *Server) Seed(email, password string) error {
	merchantID, err := s.AddUser("Corner Grocer", email, password, "merchant")
	if err != nil {
		return err
	}

	s.mu.Lock()
	fruit := &category{owner: merchantID, Category: models.Category{ID: s.id(), Name: "Fruit"}}
	bakery := &category{owner: merchantID, Category: models.Category{ID: s.id(), Name: "Bakery"}}
	s.categories[fruit.ID] = fruit
	s.categories[bakery.ID] = bakery
	for _, p := range []models.Product{
		{Name: "Apples (1kg)", Price: decimal.RequireFromString("2.40"), CategoryID: fruit.ID, IsAvailable: true},
		{Name: "Bananas", Price: decimal.RequireFromString("1.10"), CategoryID: fruit.ID, IsAvailable: true},
		{Name: "Sourdough loaf", Price: decimal.RequireFromString("3.80"), CategoryID: bakery.ID, IsAvailable: false},
	} {
		p.ID = s.id()
		s.products[p.ID] = &product{owner: merchantID, Product: p}
	}
	s.reviews = append(s.reviews,
		review{owner: merchantID, Review: models.Review{ID: s.id(), CustomerName: "Priya", Rating: 5, Comment: "Always fresh", CreatedAt: time.Now().UTC()}},
		review{owner: merchantID, Review: models.Review{ID: s.id(), CustomerName: "Tom", Rating: 4, Comment: "Quick collection", CreatedAt: time.Now().UTC()}},
	)
	s.mu.Unlock()

	s.AddOrder(merchantID, "Priya Shah", models.StatusPending, []models.OrderItem{
		{ProductName: "Apples (1kg)", Quantity: 2, UnitPrice: decimal.RequireFromString("2.40")},
		{ProductName: "Sourdough loaf", Quantity: 1, UnitPrice: decimal.RequireFromString("3.80"), Notes: "sliced please"},
	})
	s.AddOrder(merchantID, "Tom Baker", models.StatusPreparing, []models.OrderItem{
		{ProductName: "Bananas", Quantity: 6, UnitPrice: decimal.RequireFromString("1.10")},
	})
	log.Printf("[devserver] seeded merchant %s", email)
	return nil
}

func (s *Server) userByID(id string) *user {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// saveUpload stores an uploaded image and returns its public URL.
func (s *Server) saveUpload(data []byte) (string, error) {
	name := utils.GetUUID() + ".jpg"
	if s.uploadDir == "" {
		return "/static/uploads/" + name, nil
	}
	thumbDir := filepath.Join(s.uploadDir, "thumb")
	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return "", err
	}
	if err := media.SaveWithThumb(data, filepath.Join(s.uploadDir, name), filepath.Join(thumbDir, name)); err != nil {
		return "", err
	}
	return "/static/uploads/" + name, nil
}
