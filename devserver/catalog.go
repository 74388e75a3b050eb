package devserver

import (
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"

	"merchant/models"
	"merchant/utils"
)

const maxUploadBytes = 10 << 20

func (s *Server) ownCategory(owner string, id int64) *category {
	c := s.categories[id]
	if c == nil || c.owner != owner {
		return nil
	}
	return c
}

func (s *Server) ownProduct(owner string, id int64) *product {
	p := s.products[id]
	if p == nil || p.owner != owner {
		return nil
	}
	return p
}

// ListCategories handles GET /api/merchant/categories
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner := utils.GetUserIDFromRequest(r)
	s.mu.Lock()
	list := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if c.owner == owner {
			list = append(list, c.Category)
		}
	}
	s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetCategory handles GET /api/categories/:id
func (s *Server) GetCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	c := s.ownCategory(utils.GetUserIDFromRequest(r), id)
	s.mu.Unlock()
	if c == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c.Category)
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.Category
	if !utils.DecodeJSON(w, r, &input) {
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Category name is required")
		return
	}
	s.mu.Lock()
	c := &category{owner: utils.GetUserIDFromRequest(r), Category: models.Category{ID: s.id(), Name: name}}
	s.categories[c.ID] = c
	s.mu.Unlock()
	utils.RespondWithJSON(w, http.StatusCreated, c.Category)
}

// UpdateCategory handles PUT /api/categories/:id
func (s *Server) UpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return
	}
	var input models.Category
	if !utils.DecodeJSON(w, r, &input) {
		return
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Category name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.ownCategory(utils.GetUserIDFromRequest(r), id)
	if c == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	c.Name = name
	utils.RespondWithJSON(w, http.StatusOK, c.Category)
}

// DeleteCategory handles DELETE /api/categories/:id. Categories still
// referenced by a product are kept.
func (s *Server) DeleteCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return
	}
	owner := utils.GetUserIDFromRequest(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownCategory(owner, id) == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}
	for _, p := range s.products {
		if p.owner == owner && p.CategoryID == id {
			utils.RespondWithError(w, http.StatusConflict, "Category still has products")
			return
		}
	}
	delete(s.categories, id)
	utils.RespondWithJSON(w, http.StatusOK, models.Message{Message: "Category deleted"})
}

func (s *Server) listProducts(owner string, match func(*product) bool) []models.Product {
	s.mu.Lock()
	list := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.owner == owner && match(p) {
			list = append(list, p.Product)
		}
	}
	s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// ListProducts handles GET /api/merchant/products
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list := s.listProducts(utils.GetUserIDFromRequest(r), func(*product) bool { return true })
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// ProductsByCategory handles GET /api/products/category/:id
func (s *Server) ProductsByCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return
	}
	list := s.listProducts(utils.GetUserIDFromRequest(r), func(p *product) bool { return p.CategoryID == id })
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetProduct handles GET /api/merchant/products/:id
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	p := s.ownProduct(utils.GetUserIDFromRequest(r), id)
	s.mu.Unlock()
	if p == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p.Product)
}

type productForm struct {
	name        string
	price       decimal.Decimal
	description string
	categoryID  int64
	isAvailable bool
	image       []byte
}

// parseProductForm reads the multipart product form and answers 400 itself.
func parseProductForm(w http.ResponseWriter, r *http.Request) (productForm, bool) {
	var f productForm
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return f, false
	}
	f.name = strings.TrimSpace(r.FormValue("name"))
	f.description = strings.TrimSpace(r.FormValue("description"))
	price, err := decimal.NewFromString(r.FormValue("price"))
	catID, err2 := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	if f.name == "" || err != nil || !price.IsPositive() || err2 != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, price and category are required")
		return f, false
	}
	f.price, f.categoryID = price, catID
	f.isAvailable = r.FormValue("is_available") != "false"

	file, _, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		f.image, err = io.ReadAll(file)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid image")
			return f, false
		}
	}
	return f, true
}

// CreateProduct handles POST /api/products (multipart)
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	f, ok := parseProductForm(w, r)
	if !ok {
		return
	}
	owner := utils.GetUserIDFromRequest(r)
	var imageURL string
	if len(f.image) > 0 {
		url, err := s.saveUpload(f.image)
		if err != nil {
			log.Printf("[devserver] saving product image failed: %v", err)
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid image")
			return
		}
		imageURL = url
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownCategory(owner, f.categoryID) == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Category does not exist")
		return
	}
	p := &product{owner: owner, Product: models.Product{
		ID:          s.id(),
		Name:        f.name,
		Price:       f.price,
		Description: f.description,
		ImageURL:    imageURL,
		IsAvailable: f.isAvailable,
		CategoryID:  f.categoryID,
	}}
	s.products[p.ID] = p
	utils.RespondWithJSON(w, http.StatusCreated, p.Product)
}

// UpdateProduct handles PUT /api/products/:id (multipart). Without a new
// image the current one is kept.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return
	}
	f, ok := parseProductForm(w, r)
	if !ok {
		return
	}
	owner := utils.GetUserIDFromRequest(r)
	var imageURL string
	if len(f.image) > 0 {
		url, err := s.saveUpload(f.image)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid image")
			return
		}
		imageURL = url
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ownProduct(owner, id)
	if p == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if s.ownCategory(owner, f.categoryID) == nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Category does not exist")
		return
	}
	p.Name, p.Price, p.Description = f.name, f.price, f.description
	p.CategoryID, p.IsAvailable = f.categoryID, f.isAvailable
	if imageURL != "" {
		p.ImageURL = imageURL
	}
	utils.RespondWithJSON(w, http.StatusOK, p.Product)
}

// DeleteProduct handles DELETE /api/products/:id
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ownProduct(utils.GetUserIDFromRequest(r), id) == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	delete(s.products, id)
	utils.RespondWithJSON(w, http.StatusOK, models.Message{Message: "Product deleted"})
}

// ClearImage handles DELETE /product/:id/clear-image
func (s *Server) ClearImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ownProduct(utils.GetUserIDFromRequest(r), id)
	if p == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	p.ImageURL = ""
	utils.RespondWithJSON(w, http.StatusOK, models.Message{Message: "Image cleared"})
}
