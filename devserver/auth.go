package devserver

import (
	"log"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	"merchant/middleware"
	"merchant/models"
	"merchant/utils"
)

// Login handles POST /api/auth/login
func (s *Server) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.Credentials
	if !utils.DecodeJSON(w, r, &input) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	s.mu.Lock()
	u := s.users[email]
	ttl := s.tokenTTL
	s.mu.Unlock()
	if u == nil || bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(input.Password)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := middleware.IssueToken(s.secret, u.ID, u.Email, u.UserType, ttl)
	if err != nil {
		log.Printf("[devserver] signing token failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.LoginResponse{
		Token:      token,
		IsMerchant: u.UserType == "merchant",
		UserType:   u.UserType,
	})
}

// Register handles POST /api/auth/register
func (s *Server) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input models.Registration
	if !utils.DecodeJSON(w, r, &input) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	userType := input.UserType
	if userType == "" {
		userType = "customer"
	}

	id, err := s.AddUser(input.Name, email, input.Password, userType)
	if err != nil {
		utils.RespondWithError(w, http.StatusConflict, "User already exists")
		return
	}

	s.mu.Lock()
	if u := s.userByID(id); u != nil {
		u.Phone = input.Phone
		u.Profile = models.Profile{
			BusinessName: input.BusinessName,
			Description:  input.Description,
			Address:      input.Address,
		}
	}
	s.mu.Unlock()

	utils.RespondWithJSON(w, http.StatusCreated, models.Message{Message: "Registration successful"})
}

// UserType handles GET /api/get-user-type
func (s *Server) UserType(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{
		"user_type": utils.GetUserTypeFromRequest(r),
	})
}
