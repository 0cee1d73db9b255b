package web

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// loginForm is posted by the login page and the token API.
type loginForm struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required"`
}

type refreshForm struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token" validate:"required"`
}

type influencerForm struct {
	FullName  string   `form:"fullName" validate:"required,max=120"`
	Email     string   `form:"email" validate:"required,email"`
	Password  string   `form:"password" validate:"required,min=8,max=72"`
	Category  string   `form:"category" validate:"max=80"`
	Platforms []string `form:"platforms" validate:"dive,max=40"`
}

// userForm is used by both steps of the user creation wizard.
type userForm struct {
	FullName    string   `form:"fullName" validate:"required,max=120"`
	Email       string   `form:"email" validate:"required,email"`
	Password    string   `form:"password" validate:"required,min=8,max=72"`
	Role        string   `form:"role" validate:"required"`
	Permissions []string `form:"permissions"`
}

type assignForm struct {
	Title        string `form:"title" validate:"required,max=200"`
	TaskType     string `form:"taskType" validate:"max=80"`
	InfluencerID string `form:"influencerId" validate:"required"`
	DueDate      string `form:"dueDate"`
}

type statusForm struct {
	Status string `form:"status" json:"status" validate:"required"`
}

type categoryForm struct {
	Name  string `form:"categoryName" json:"name" validate:"required,max=80"`
	Color string `form:"categoryColor" json:"color" validate:"omitempty,hexcolor"`
}

type taskTypeForm struct {
	Name string `form:"taskTypeName" json:"name" validate:"required,max=80"`
}

// bulkForm activates and deactivates catalog entries in one request.
type bulkForm struct {
	ActivateIDs   []string `json:"activateIds"`
	DeactivateIDs []string `json:"deactivateIds"`
}

type generalSettingsForm struct {
	LogoURL              string `form:"logoUrl" validate:"omitempty,max=500"`
	NotificationsEnabled string `form:"notificationsEnabled"`
}

type announcementForm struct {
	AnnouncementText string `form:"announcementText" validate:"max=2000"`
}

// bind parses the request body into dst and validates it.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "min", "max":
		return fmt.Sprintf("%s must have %s %s characters", fe.Field(), boundWord(fe.Tag()), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func boundWord(tag string) string {
	if tag == "min" {
		return "at least"
	}
	return "at most"
}

// parseDueDate reads an HTML date input value. Empty input means no due date.
func parseDueDate(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid due date")
	}
	// due at the end of the chosen day
	end := t.Add(24*time.Hour - time.Second)
	return &end, nil
}

// compact trims values and drops empty ones.
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
