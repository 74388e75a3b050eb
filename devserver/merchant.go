package devserver

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"

	"merchant/models"
	"merchant/utils"
)

// GetProfile handles GET /api/merchant/profile
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.Lock()
	u := s.userByID(utils.GetUserIDFromRequest(r))
	var p models.Profile
	if u != nil {
		p = u.Profile
	}
	s.mu.Unlock()
	if u == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Merchant not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// UpdateProfile handles PUT /api/merchant/profile. The logo is changed
// through UploadLogo only.
func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.Profile
	if !utils.DecodeJSON(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.BusinessName) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Business name is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByID(utils.GetUserIDFromRequest(r))
	if u == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Merchant not found")
		return
	}
	u.Profile.BusinessName = strings.TrimSpace(input.BusinessName)
	u.Profile.Description = input.Description
	u.Profile.Address = input.Address
	utils.RespondWithJSON(w, http.StatusOK, u.Profile)
}

// UploadLogo handles POST /api/merchant/logo (multipart field "logo").
func (s *Server) UploadLogo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	file, _, err := r.FormFile("logo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Logo file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil || len(data) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Logo file is required")
		return
	}
	url, err := s.saveUpload(data)
	if err != nil {
		log.Printf("[devserver] saving logo failed: %v", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid image")
		return
	}

	s.mu.Lock()
	if u := s.userByID(utils.GetUserIDFromRequest(r)); u != nil {
		u.Profile.LogoURL = url
	}
	s.mu.Unlock()
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"logo_url": url})
}

// CreateAgent handles POST /api/merchant/create-agent
func (s *Server) CreateAgent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.Agent
	if !utils.DecodeJSON(w, r, &input) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || email == "" || input.Password == "" || input.LocationName == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.agents[email]; exists {
		utils.RespondWithError(w, http.StatusConflict, "Agent already exists")
		return
	}
	a := &agent{owner: utils.GetUserIDFromRequest(r), Agent: input}
	a.ID = uuid.NewString()
	a.Email = email
	a.Password = ""
	s.agents[email] = a
	utils.RespondWithJSON(w, http.StatusCreated, a.Agent)
}

// ListReviews handles GET /api/merchant/reviews
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner := utils.GetUserIDFromRequest(r)
	s.mu.Lock()
	list := make([]models.Review, 0, len(s.reviews))
	for _, rv := range s.reviews {
		if rv.owner == owner {
			list = append(list, rv.Review)
		}
	}
	s.mu.Unlock()
	utils.RespondWithJSON(w, http.StatusOK, list)
}
