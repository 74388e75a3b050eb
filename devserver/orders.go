package devserver

import (
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/julienschmidt/httprouter"

	"merchant/models"
	"merchant/receipt"
	"merchant/utils"
)

// ListOrders handles GET /api/merchant/orders, newest first.
func (s *Server) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner := utils.GetUserIDFromRequest(r)
	s.mu.Lock()
	list := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.owner == owner {
			list = append(list, o.Order)
		}
	}
	s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// UpdateOrderStatus handles PUT /api/merchant/orders/:id/status. Collected
// orders are final; any other move is accepted.
func (s *Server) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return
	}
	var input models.StatusUpdate
	if !utils.DecodeJSON(w, r, &input) {
		return
	}
	status, known := models.ParseOrderStatus(string(input.Status))
	if !known {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	if o == nil || o.owner != utils.GetUserIDFromRequest(r) {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	if o.Status.Terminal() {
		utils.RespondWithError(w, http.StatusConflict, "Order already collected")
		return
	}
	o.Status = status
	if note := strings.TrimSpace(input.Notes); note != "" {
		o.notes = append(o.notes, note)
	}
	log.Printf("[devserver] order %d -> %s", o.ID, o.Status)
	utils.RespondWithJSON(w, http.StatusOK, o.Order)
}

// ownOrder copies the caller's order and answers 404 itself when the
// order is missing or belongs to someone else.
func (s *Server) ownOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (models.Order, string, bool) {
	id, ok := utils.ParseID(w, ps, "id")
	if !ok {
		return models.Order{}, "", false
	}
	owner := utils.GetUserIDFromRequest(r)
	s.mu.Lock()
	o := s.orders[id]
	var (
		snapshot models.Order
		business string
	)
	if o != nil && o.owner == owner {
		snapshot = o.Order
		if u := s.userByID(owner); u != nil {
			business = u.Profile.BusinessName
		}
	}
	s.mu.Unlock()
	if snapshot.ID == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Order not found")
		return models.Order{}, "", false
	}
	return snapshot, business, true
}

// OrderQR handles GET /api/merchant/orders/:id/qr
func (s *Server) OrderQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snapshot, _, ok := s.ownOrder(w, r, ps)
	if !ok {
		return
	}
	id := snapshot.ID

	png, err := receipt.QRCode(snapshot, 256)
	if err != nil {
		log.Printf("[devserver] qr for order %d: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// OrderReceipt handles GET /api/merchant/orders/:id/receipt, the printable
// collection slip.
func (s *Server) OrderReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snapshot, business, ok := s.ownOrder(w, r, ps)
	if !ok {
		return
	}
	pdf, err := receipt.Render(snapshot, business)
	if err != nil {
		log.Printf("[devserver] receipt for order %d: %v", snapshot.ID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render receipt")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="order-%d.pdf"`, snapshot.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
