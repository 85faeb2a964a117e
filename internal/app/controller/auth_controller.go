package controller

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/session"
	"github.com/ikkim/storefront-backend/pkg/util"
)

type AuthController struct {
	authService     service.AuthService
	cartService     service.CartService
	checkoutService service.CheckoutService
}

func NewAuthController(
	authService service.AuthService,
	cartService service.CartService,
	checkoutService service.CheckoutService,
) *AuthController {
	return &AuthController{
		authService:     authService,
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

type RegisterForm struct {
	Name            string `form:"nome"`
	Email           string `form:"email"`
	Password        string `form:"senha"`
	ConfirmPassword string `form:"confirmar_senha"`
}

type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"senha"`
}

type ProfileForm struct {
	Address string `form:"endereco"`
	Phone   string `form:"telefone"`
}

const (
	registerPath = "/cadastro"
	profilePath  = "/perfil"
	homePath     = "/"
)

var registerMessages = map[error]string{
	service.ErrMissingFields:       "All fields are required.",
	service.ErrPasswordMismatch:    "Passwords do not match.",
	service.ErrPasswordTooShort:    fmt.Sprintf("Password must be at least %d characters long.", service.MinPasswordLength),
	service.ErrPasswordTooLong:     fmt.Sprintf("Password must be at most %d characters long.", util.MaxPasswordBytes),
	service.ErrInvalidEmail:        "Please enter a valid email address.",
	service.ErrEmailAlreadyExists:  "This email is already registered.",
	service.ErrProfileFieldTooLong: "Name is too long.",
}

// RegisterPage shows the registration form
// GET /cadastro
func (ctrl *AuthController) RegisterPage(c *gin.Context) {
	renderPage(c, "register", nil)
}

// Register handles customer registration
// POST /cadastro
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		log.Warn("Invalid registration form", map[string]interface{}{
			"error": err.Error(),
		})
		redirectWithFlash(c, registerPath, session.FlashDanger, "Invalid registration data.")
		return
	}

	customer, err := ctrl.authService.Register(service.RegisterInput{
		Name:            form.Name,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		for sentinel, message := range registerMessages {
			if errors.Is(err, sentinel) {
				log.Warn("Registration rejected", map[string]interface{}{
					"reason": sentinel.Error(),
				})
				redirectWithFlash(c, registerPath, session.FlashDanger, message)
				return
			}
		}
		log.Error("Registration failed", err)
		info := apperrors.ParseError(err, "register")
		redirectWithFlash(c, registerPath, session.FlashDanger, info.Message)
		return
	}

	log.Info("Customer registered", map[string]interface{}{
		"customer_id": customer.ID,
	})
	redirectWithFlash(c, middleware.LoginPath, session.FlashSuccess, "Registration complete! Please log in to continue.")
}

// LoginPage shows the login form
// GET /login
func (ctrl *AuthController) LoginPage(c *gin.Context) {
	renderPage(c, "login", nil)
}

// Login authenticates the customer and moves the anonymous cart into the account
// POST /login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, middleware.LoginPath, session.FlashDanger, "Invalid login data.")
		return
	}

	customer, err := ctrl.authService.Login(form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			redirectWithFlash(c, middleware.LoginPath, session.FlashDanger, "Email and password are required.")
		case errors.Is(err, service.ErrInvalidCredentials):
			redirectWithFlash(c, middleware.LoginPath, session.FlashDanger, "Incorrect email or password.")
		default:
			log.Error("Login failed", err)
			redirectWithFlash(c, middleware.LoginPath, session.FlashDanger, apperrors.ParseError(err, "login").Message)
		}
		return
	}

	state := middleware.GetSession(c)
	if token := state.CartToken(); token != "" {
		if err := ctrl.cartService.MergeOnLogin(token, customer.ID); err != nil {
			// login still succeeds; the stale session cart is purged later
			log.Error("Failed to merge session cart on login", err, map[string]interface{}{
				"customer_id": customer.ID,
			})
			state.AddFlash(session.FlashWarning, "We could not move your previous cart into your account.")
		}
	}
	state.Login(customer.ID, customer.Name, customer.Email)

	log.Info("Customer logged in", map[string]interface{}{
		"customer_id": customer.ID,
	})
	redirectWithFlash(c, homePath, session.FlashSuccess, fmt.Sprintf("Welcome, %s!", customer.Name))
}

// Logout clears the session
// GET /logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	state := middleware.GetSession(c)
	customerID, _ := state.CustomerID()

	state.Logout()

	middleware.GetLoggerFromContext(c).Info("Customer logged out", map[string]interface{}{
		"customer_id": customerID,
	})
	redirectWithFlash(c, homePath, session.FlashInfo, "You have been logged out.")
}

// Profile shows the customer's data and order history
// GET /perfil
func (ctrl *AuthController) Profile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	customerID, _ := middleware.GetCustomerID(c)

	customer, err := ctrl.authService.GetCustomer(customerID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			expireSession(c)
			return
		}
		log.Error("Failed to load profile", err, map[string]interface{}{
			"customer_id": customerID,
		})
		apperrors.RespondWithParsedError(c, err, "customer")
		return
	}

	orders, err := ctrl.checkoutService.GetCustomerOrders(customerID)
	if err != nil {
		log.Error("Failed to load order history", err, map[string]interface{}{
			"customer_id": customerID,
		})
		apperrors.RespondWithParsedError(c, err, "order")
		return
	}

	renderPage(c, "profile", gin.H{
		"customer": customer,
		"orders":   orders,
	})
}

// UpdateProfile saves address and phone
// POST /perfil
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	customerID, _ := middleware.GetCustomerID(c)

	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		redirectWithFlash(c, profilePath, session.FlashDanger, "Invalid profile data.")
		return
	}

	customer, err := ctrl.authService.UpdateProfile(customerID, service.ProfileInput{
		Address: form.Address,
		Phone:   form.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			expireSession(c)
		case errors.Is(err, service.ErrProfileFieldTooLong):
			redirectWithFlash(c, profilePath, session.FlashDanger, "Address or phone is too long.")
		default:
			log.Error("Failed to update profile", err, map[string]interface{}{
				"customer_id": customerID,
			})
			redirectWithFlash(c, profilePath, session.FlashDanger, apperrors.ParseError(err, "update profile").Message)
		}
		return
	}

	middleware.GetSession(c).RenameCustomer(customer.Name)
	redirectWithFlash(c, profilePath, session.FlashSuccess, "Your profile was updated successfully!")
}
