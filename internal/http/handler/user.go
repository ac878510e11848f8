package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/service"
)

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterUser creates a new account. New accounts always get the viewer
// role; elevation is a separate admin operation.
func RegisterUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req registerRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, err := svc.Register(c.UserContext(), service.RegisterInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns the user with an access token.
func Login(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, token, err := svc.Login(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"user":         user,
			"access_token": token,
		})
	}
}

// CurrentUser returns the profile of the authenticated actor.
func CurrentUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := actorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized)
		}

		user, err := svc.Get(c.UserContext(), actor.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	}
}

// ListUsers returns all accounts. Admin only.
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(users)
	}
}

// GetUser returns one account by id. Admin only.
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		user, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	}
}

type updateUserRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	IsActive  *bool   `json:"is_active"`
}

// UpdateUser applies a partial profile update. Admin only.
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, err := svc.Update(c.UserContext(), id, service.UpdateUserInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			IsActive:  req.IsActive,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	}
}

type updateRoleRequest struct {
	Role model.Role `json:"role"`
}

// UpdateUserRole changes an account's role. Admin only.
func UpdateUserRole(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateRoleRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		user, err := svc.UpdateRole(c.UserContext(), id, req.Role)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(user)
	}
}

// DeleteUser removes an account. Admin only.
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
