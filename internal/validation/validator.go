// Package validation checks product form fields. Every rule maps a field name and
// its raw text to an error message; an empty message means the value is valid.
package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tair/catalog-console/internal/catalog/domain"
)

// Form field names, matching the remote product attributes
const (
	FieldTitle              = "title"
	FieldDescription        = "description"
	FieldPrice              = "price"
	FieldCategory           = "category"
	FieldBrand              = "brand"
	FieldStock              = "stock"
	FieldDiscountPercentage = "discountPercentage"
)

// Fields lists the form fields in display order
var Fields = []string{
	FieldTitle,
	FieldDescription,
	FieldPrice,
	FieldCategory,
	FieldBrand,
	FieldStock,
	FieldDiscountPercentage,
}

const (
	msgTitleRequired       = "Title is required"
	msgTitleMin            = "Title must be at least 3 characters"
	msgDescriptionRequired = "Description is required"
	msgDescriptionMin      = "Description must be at least 10 characters"
	msgPrice               = "Price must be greater than 0"
	msgCategoryRequired    = "Category is required"
	msgBrandRequired       = "Brand is required"
	msgStock               = "Stock must be greater than or equal to 0"
	msgDiscount            = "Discount must be between 0 and 100"
)

var validate = validator.New()

// Validate returns the error message for one field, or "" when valid.
// Unknown fields are always valid.
func Validate(field, raw string) string {
	value := strings.TrimSpace(raw)

	switch field {
	case FieldTitle:
		return requiredMin(value, "min=3", msgTitleRequired, msgTitleMin)
	case FieldDescription:
		return requiredMin(value, "min=10", msgDescriptionRequired, msgDescriptionMin)
	case FieldPrice:
		price, ok := parseFloat(value)
		if !ok || validate.Var(price, "gt=0") != nil {
			return msgPrice
		}
	case FieldCategory:
		if validate.Var(value, "required") != nil {
			return msgCategoryRequired
		}
	case FieldBrand:
		if validate.Var(value, "required") != nil {
			return msgBrandRequired
		}
	case FieldStock:
		stock, ok := parseInt(value)
		if !ok || validate.Var(stock, "gte=0") != nil {
			return msgStock
		}
	case FieldDiscountPercentage:
		discount, ok := parseFloat(value)
		if !ok || validate.Var(discount, "gte=0,lte=100") != nil {
			return msgDiscount
		}
	}
	return ""
}

func requiredMin(value, minTag, requiredMsg, minMsg string) string {
	if validate.Var(value, "required") != nil {
		return requiredMsg
	}
	if validate.Var(value, minTag) != nil {
		return minMsg
	}
	return ""
}

// empty numeric text counts as zero
func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormValues is the raw text of a submitted product form
type FormValues struct {
	Title              string
	Description        string
	Price              string
	Category           string
	Brand              string
	Stock              string
	DiscountPercentage string
}

// FormValuesFromProduct pre-fills the edit form
func FormValuesFromProduct(p domain.Product) FormValues {
	return FormValues{
		Title:              p.Title,
		Description:        p.Description,
		Price:              strconv.FormatFloat(p.Price, 'f', -1, 64),
		Category:           p.Category,
		Brand:              p.Brand,
		Stock:              strconv.Itoa(p.Stock),
		DiscountPercentage: strconv.FormatFloat(p.DiscountPercentage, 'f', -1, 64),
	}
}

// Get returns the raw value of field
func (f FormValues) Get(field string) string {
	switch field {
	case FieldTitle:
		return f.Title
	case FieldDescription:
		return f.Description
	case FieldPrice:
		return f.Price
	case FieldCategory:
		return f.Category
	case FieldBrand:
		return f.Brand
	case FieldStock:
		return f.Stock
	case FieldDiscountPercentage:
		return f.DiscountPercentage
	}
	return ""
}

// ValidateForm validates every field and returns the failures keyed by field.
// Submission must be blocked unless the result is empty.
func ValidateForm(f FormValues) map[string]string {
	errs := make(map[string]string)
	for _, field := range Fields {
		if msg := Validate(field, f.Get(field)); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// ToCreateData converts a validated form into a create payload
func (f FormValues) ToCreateData() domain.CreateProductData {
	price, _ := parseFloat(strings.TrimSpace(f.Price))
	stock, _ := parseInt(strings.TrimSpace(f.Stock))
	discount, _ := parseFloat(strings.TrimSpace(f.DiscountPercentage))

	return domain.CreateProductData{
		Title:              strings.TrimSpace(f.Title),
		Description:        strings.TrimSpace(f.Description),
		Price:              price,
		Category:           strings.TrimSpace(f.Category),
		Brand:              strings.TrimSpace(f.Brand),
		Stock:              stock,
		DiscountPercentage: discount,
	}
}

// ToUpdateData converts a validated form into an update payload carrying every field
func (f FormValues) ToUpdateData() domain.UpdateProductData {
	d := f.ToCreateData()
	return domain.UpdateProductData{
		Title:              &d.Title,
		Description:        &d.Description,
		Price:              &d.Price,
		Category:           &d.Category,
		Brand:              &d.Brand,
		Stock:              &d.Stock,
		DiscountPercentage: &d.DiscountPercentage,
	}
}
