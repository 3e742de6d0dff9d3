package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/catalog-console/internal/catalog/domain"
)

func validForm() FormValues {
	return FormValues{
		Title:              "iPhone 15",
		Description:        "A very capable phone",
		Price:              "999.99",
		Category:           "smartphones",
		Brand:              "Apple",
		Stock:              "12",
		DiscountPercentage: "5",
	}
}

func TestValidate_Title(t *testing.T) {
	assert.Equal(t, "Title is required", Validate(FieldTitle, ""))
	assert.Equal(t, "Title is required", Validate(FieldTitle, "   "))
	assert.Equal(t, "Title must be at least 3 characters", Validate(FieldTitle, "ab"))
	assert.Equal(t, "Title must be at least 3 characters", Validate(FieldTitle, "  ab  "))
	assert.Empty(t, Validate(FieldTitle, "abc"))
}

func TestValidate_Description(t *testing.T) {
	assert.Equal(t, "Description is required", Validate(FieldDescription, ""))
	assert.Equal(t, "Description must be at least 10 characters", Validate(FieldDescription, "too short"))
	assert.Empty(t, Validate(FieldDescription, "ten chars!"))
}

func TestValidate_Price(t *testing.T) {
	assert.Equal(t, "Price must be greater than 0", Validate(FieldPrice, ""))
	assert.Equal(t, "Price must be greater than 0", Validate(FieldPrice, "0"))
	assert.Equal(t, "Price must be greater than 0", Validate(FieldPrice, "-1"))
	assert.Equal(t, "Price must be greater than 0", Validate(FieldPrice, "abc"))
	for _, v := range []string{"Inf", "+Inf", "infinity", "NaN"} {
		assert.Equal(t, "Price must be greater than 0", Validate(FieldPrice, v), v)
	}
	assert.Empty(t, Validate(FieldPrice, "0.01"))
}

func TestValidate_RequiredText(t *testing.T) {
	assert.Equal(t, "Category is required", Validate(FieldCategory, " "))
	assert.Empty(t, Validate(FieldCategory, "laptops"))
	assert.Equal(t, "Brand is required", Validate(FieldBrand, ""))
	assert.Empty(t, Validate(FieldBrand, "Apple"))
}

func TestValidate_Stock(t *testing.T) {
	assert.Equal(t, "Stock must be greater than or equal to 0", Validate(FieldStock, "-1"))
	assert.Equal(t, "Stock must be greater than or equal to 0", Validate(FieldStock, "many"))
	assert.Empty(t, Validate(FieldStock, "0"))
	assert.Empty(t, Validate(FieldStock, ""))
}

func TestValidate_Discount(t *testing.T) {
	assert.Equal(t, "Discount must be between 0 and 100", Validate(FieldDiscountPercentage, "101"))
	assert.Equal(t, "Discount must be between 0 and 100", Validate(FieldDiscountPercentage, "-0.5"))
	assert.Equal(t, "Discount must be between 0 and 100", Validate(FieldDiscountPercentage, "NaN"))
	assert.Equal(t, "Discount must be between 0 and 100", Validate(FieldDiscountPercentage, "-Inf"))
	assert.Empty(t, Validate(FieldDiscountPercentage, "100"))
	assert.Empty(t, Validate(FieldDiscountPercentage, "0"))
	assert.Empty(t, Validate(FieldDiscountPercentage, ""))
}

func TestValidate_UnknownField(t *testing.T) {
	assert.Empty(t, Validate("color", ""))
}

func TestValidateForm_Valid(t *testing.T) {
	assert.Empty(t, ValidateForm(validForm()))
}

func TestValidateForm_AggregatesErrors(t *testing.T) {
	f := validForm()
	f.Title = "ab"
	f.DiscountPercentage = "101"
	f.Brand = ""

	errs := ValidateForm(f)
	assert.Len(t, errs, 3)
	assert.Equal(t, "Title must be at least 3 characters", errs[FieldTitle])
	assert.Equal(t, "Discount must be between 0 and 100", errs[FieldDiscountPercentage])
	assert.Equal(t, "Brand is required", errs[FieldBrand])

	f.Title = "abc"
	assert.NotContains(t, ValidateForm(f), FieldTitle)
}

func TestValidateForm_RejectsNonFinitePrice(t *testing.T) {
	f := validForm()
	f.Price = "+Inf"

	errs := ValidateForm(f)
	assert.Equal(t, "Price must be greater than 0", errs[FieldPrice])
}

func TestToCreateData(t *testing.T) {
	f := validForm()
	f.Title = "  iPhone 15 "

	d := f.ToCreateData()
	assert.Equal(t, domain.CreateProductData{
		Title:              "iPhone 15",
		Description:        "A very capable phone",
		Price:              999.99,
		Category:           "smartphones",
		Brand:              "Apple",
		Stock:              12,
		DiscountPercentage: 5,
	}, d)
}

func TestToUpdateData(t *testing.T) {
	d := validForm().ToUpdateData()

	require.NotNil(t, d.Price)
	assert.Equal(t, 999.99, *d.Price)
	require.NotNil(t, d.Stock)
	assert.Equal(t, 12, *d.Stock)
}

func TestFormValuesFromProduct(t *testing.T) {
	f := FormValuesFromProduct(domain.Product{
		Title:              "Essence Mascara",
		Description:        "Popular mascara",
		Price:              9.99,
		Category:           "beauty",
		Brand:              "Essence",
		Stock:              5,
		DiscountPercentage: 7.17,
	})

	assert.Equal(t, "9.99", f.Price)
	assert.Equal(t, "5", f.Stock)
	assert.Equal(t, "7.17", f.DiscountPercentage)
	assert.Empty(t, ValidateForm(f))
}
