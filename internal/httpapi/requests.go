package httpapi

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/radarobras/radar_api/internal/obras"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		return strings.TrimSpace(field.String()) != ""
	})
	validate.RegisterValidation("trimmedemail", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return false
		}
		email := strings.TrimSpace(field.String())
		if email == "" {
			return false
		}
		if len(email) > 254 {
			return false
		}
		return validate.Var(email, "email") == nil
	})
}

type UserCreateDTO struct {
	Name     string `json:"name" validate:"required,notblank,max=120"`
	Email    string `json:"email" validate:"required,notblank,trimmedemail"`
	Password string `json:"password" validate:"required,notblank,min=8,max=72"`
	Avatar   string `json:"avatar" validate:"omitempty,max=500"`
	Role     string `json:"role" validate:"omitempty,oneof=admin gerente vendedor"`
	LojaID   string `json:"lojaId"`
}

func (r *UserCreateDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Name": {
				"required": "name, email and password are required",
				"notblank": "name, email and password are required",
				"max":      "name is too long",
			},
			"Email": {
				"required":     "name, email and password are required",
				"notblank":     "name, email and password are required",
				"trimmedemail": "invalid email",
			},
			"Password": {
				"required": "name, email and password are required",
				"notblank": "name, email and password are required",
				"min":      "password is too short",
			},
			"Role": {
				"oneof": "invalid role",
			},
		}, "invalid request")
	}
	return nil
}

type UserUpdateDTO struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	Email    *string `json:"email,omitempty" validate:"omitempty,trimmedemail"`
	Avatar   *string `json:"avatar,omitempty" validate:"omitempty,max=500"`
	Password *string `json:"password,omitempty" validate:"omitempty,notblank,min=8,max=72"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=admin gerente vendedor"`
	LojaID   *string `json:"lojaId,omitempty"`
}

func (r *UserUpdateDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Name": {
				"notblank": "invalid name",
			},
			"Email": {
				"trimmedemail": "invalid email",
			},
			"Password": {
				"notblank": "invalid password",
				"min":      "password is too short",
			},
			"Role": {
				"oneof": "invalid role",
			},
		}, "invalid request")
	}
	return nil
}

type ContactDTO struct {
	Name  string `json:"name" validate:"required,notblank,max=120"`
	Type  string `json:"type" validate:"required,oneof=dono mestre_de_obras engenheiro arquiteto empreiteiro outro"`
	Phone string `json:"phone" validate:"omitempty,max=30"`
}

type ObraCreateDTO struct {
	Street       string       `json:"street" validate:"required,notblank,max=200"`
	Number       string       `json:"number" validate:"omitempty,max=20"`
	Neighborhood string       `json:"neighborhood" validate:"required,notblank,max=120"`
	Stage        string       `json:"stage" validate:"required,oneof=fundacao alvenaria acabamento pintura telhado"`
	LojaID       string       `json:"lojaId" validate:"required,notblank"`
	Details      string       `json:"details" validate:"omitempty,max=5000"`
	Contacts     []ContactDTO `json:"contacts" validate:"omitempty,max=20,dive"`
}

func (r *ObraCreateDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Street": {
				"required": "street and neighborhood are required",
				"notblank": "street and neighborhood are required",
			},
			"Neighborhood": {
				"required": "street and neighborhood are required",
				"notblank": "street and neighborhood are required",
			},
			"Stage": {
				"required": "invalid stage",
				"oneof":    "invalid stage",
			},
			"LojaID": {
				"required": "loja is required",
				"notblank": "loja is required",
			},
			"Contacts": {
				"max": "too many contacts",
			},
			"Name": {
				"required": "invalid contact",
				"notblank": "invalid contact",
			},
			"Type": {
				"required": "invalid contact",
				"oneof":    "invalid contact",
			},
		}, "invalid request")
	}
	return nil
}

type ObraUpdateDTO struct {
	Street       *string      `json:"street,omitempty" validate:"omitempty,notblank,max=200"`
	Number       *string      `json:"number,omitempty" validate:"omitempty,max=20"`
	Neighborhood *string      `json:"neighborhood,omitempty" validate:"omitempty,notblank,max=120"`
	Stage        *string      `json:"stage,omitempty" validate:"omitempty,oneof=fundacao alvenaria acabamento pintura telhado"`
	LojaID       *string      `json:"lojaId,omitempty" validate:"omitempty,notblank"`
	Details      *string      `json:"details,omitempty" validate:"omitempty,max=5000"`
	Contacts     []ContactDTO `json:"contacts,omitempty" validate:"omitempty,max=20,dive"`
}

func (r *ObraUpdateDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Street": {
				"notblank": "street cannot be blank",
			},
			"Neighborhood": {
				"notblank": "neighborhood cannot be blank",
			},
			"Stage": {
				"oneof": "invalid stage",
			},
			"LojaID": {
				"notblank": "loja is required",
			},
			"Name": {
				"required": "invalid contact",
				"notblank": "invalid contact",
			},
			"Type": {
				"required": "invalid contact",
				"oneof":    "invalid contact",
			},
		}, "invalid request")
	}
	return nil
}

type MoveObraDTO struct {
	Status string `json:"status" validate:"required,oneof=entrada triagem atribuida em_negociacao ganha perdida arquivada"`
}

func (r *MoveObraDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Status": {
				"required": "invalid status",
				"oneof":    "invalid status",
			},
		}, "invalid request")
	}
	return nil
}

type AssignSellerDTO struct {
	SellerID string `json:"sellerId" validate:"required,notblank"`
}

func (r *AssignSellerDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"SellerID": {
				"required": "seller is required",
				"notblank": "seller is required",
			},
		}, "invalid request")
	}
	return nil
}

type SaleDTO struct {
	OrderNumber string    `json:"orderNumber" validate:"omitempty,max=60"`
	Value       float64   `json:"value" validate:"required,gt=0"`
	Date        time.Time `json:"date" validate:"required"`
}

func (r *SaleDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Value": {
				"required": "sale value must be a positive number",
				"gt":       "sale value must be a positive number",
			},
			"Date": {
				"required": "sale date is required",
			},
		}, "invalid request")
	}
	return nil
}

type LojaCreateDTO struct {
	Name          string   `json:"name" validate:"required,notblank,max=120"`
	Neighborhoods []string `json:"neighborhoods" validate:"omitempty,max=200,dive,notblank,max=120"`
}

func (r *LojaCreateDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Name": {
				"required": "name is required",
				"notblank": "name is required",
			},
			"Neighborhoods": {
				"max":      "too many neighborhoods",
				"notblank": "invalid neighborhood",
			},
		}, "invalid request")
	}
	return nil
}

type LojaRenameDTO struct {
	Name string `json:"name" validate:"required,notblank,max=120"`
}

func (r *LojaRenameDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Name": {
				"required": "name is required",
				"notblank": "name is required",
			},
		}, "invalid request")
	}
	return nil
}

type NeighborhoodDTO struct {
	Neighborhood string `json:"neighborhood" validate:"required,notblank,max=120"`
}

func (r *NeighborhoodDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Neighborhood": {
				"required": "neighborhood is required",
				"notblank": "neighborhood is required",
			},
		}, "invalid request")
	}
	return nil
}

type CommentCreateDTO struct {
	Text string `json:"text" validate:"required,notblank,max=2000"`
}

func (r *CommentCreateDTO) Validate() error {
	if err := validate.Struct(r); err != nil {
		return validationMessage(err, map[string]map[string]string{
			"Text": {
				"required": "text is required",
				"notblank": "text is required",
				"max":      "text is too long",
			},
		}, "invalid request")
	}
	return nil
}

func contactsFromDTO(in []ContactDTO) []obras.Contact {
	if in == nil {
		return nil
	}
	out := make([]obras.Contact, 0, len(in))
	for _, c := range in {
		out = append(out, obras.Contact{
			Name:  strings.TrimSpace(c.Name),
			Type:  obras.ContactType(c.Type),
			Phone: strings.TrimSpace(c.Phone),
		})
	}
	return out
}

func validationMessage(err error, messages map[string]map[string]string, fallback string) error {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return errors.New(fallback)
	}
	for _, valErr := range valErrs {
		if fieldMessages, ok := messages[valErr.Field()]; ok {
			if msg, ok := fieldMessages[valErr.Tag()]; ok {
				return errors.New(msg)
			}
			if msg, ok := fieldMessages["*"]; ok {
				return errors.New(msg)
			}
		}
	}
	return errors.New(fallback)
}
