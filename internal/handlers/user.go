package handlers

import (
	"sfstore/internal/services/user"
	"sfstore/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users user.Service
}

func NewUserHandler(users user.Service) *UserHandler {
	return &UserHandler{users: users}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	u, w, err := h.users.Signup(c.UserContext(), user.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, fiber.Map{
		"user":   u,
		"wallet": w,
	})
}

// List is the admin view of every account, paginated with ?page= and ?limit=.
func (h *UserHandler) List(c *fiber.Ctx) error {
	page := utils.ParsePage(c, user.DefaultListLimit, user.MaxListLimit)
	users, total, err := h.users.ListUsers(c.UserContext(), page.Size, page.Offset())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, utils.Paged{Items: users, Page: page.WithTotal(total)})
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return utils.BadRequest(c, "Invalid user id")
	}

	u, err := h.users.GetUser(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"user": u})
}
