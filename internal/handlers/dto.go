package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"cinereview-backend/internal/models"
	"cinereview-backend/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100" example:"Ana"`
	Email    string `json:"email" validate:"required,email,max=254" example:"ana@example.com"`
	Password string `json:"password" validate:"required,min=6,max=72" example:"segredo"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ana@example.com"`
	Password string `json:"password" validate:"required" example:"segredo"`
}

type LoginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type ReviewRequest struct {
	MovieID int      `json:"movie_id" validate:"required,gt=0" example:"550"`
	Rating  *float64 `json:"rating" validate:"required,gte=0,lte=5" example:"4.5"`
	Comment *string  `json:"comment" validate:"omitempty,max=2000" example:"Melhor filme do Fincher"`
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=300" example:"O final de Interestelar"`
	Content string `json:"content" validate:"required,max=10000" example:"Alguém mais chorou?"`
	MovieID *int   `json:"movie_id" validate:"omitempty,gt=0" example:"157336"`
}

type VoteRequest struct {
	Vote string `json:"vote" validate:"required,oneof=up down" example:"up"`
}

// FieldError is one failed validation rule of a request body.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// parseAndValidate decodes the JSON body into req and runs its validate tags. It writes the
// 400 response itself and reports whether the handler may continue.
func parseAndValidate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return false, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
		}

		fields := make([]FieldError, 0, len(validationErrs))
		names := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
			names = append(names, fe.Field())
		}
		message := fmt.Sprintf("Invalid fields: %s", strings.Join(names, ", "))
		return false, utils.ErrorWithDataResponse(c, fiber.StatusBadRequest, message, fields)
	}

	return true, nil
}
