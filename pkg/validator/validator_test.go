package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shippingForm struct {
	Name    string `validate:"required"`
	Phone   string `validate:"required,in_phone"`
	Pincode string `validate:"required,in_pincode"`
	Email   string `validate:"omitempty,email"`
}

func TestValidate_Valid(t *testing.T) {
	form := shippingForm{
		Name:    "Asha Rao",
		Phone:   "9876543210",
		Pincode: "560001",
		Email:   "asha@example.com",
	}
	assert.NoError(t, Validate(form))
}

func TestValidate_OptionalEmailOmitted(t *testing.T) {
	form := shippingForm{Name: "Asha Rao", Phone: "7012345678", Pincode: "110011"}
	assert.NoError(t, Validate(form))
}

func TestValidate_PhonePattern(t *testing.T) {
	bad := []string{"12345", "1234567890", "98765432101", "98765abc10", ""}
	for _, phone := range bad {
		form := shippingForm{Name: "A", Phone: phone, Pincode: "560001"}
		err := Validate(form)
		require.Error(t, err, "phone %q should fail", phone)

		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Contains(t, valErr.Fields(), "Phone")
	}
}

func TestValidate_PincodePattern(t *testing.T) {
	form := shippingForm{Name: "A", Phone: "9876543210", Pincode: "5600"}
	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "must be a 6-digit pincode", valErr.Fields()["Pincode"])
}

func TestValidate_FieldMessages(t *testing.T) {
	form := shippingForm{Phone: "9876543210", Pincode: "560001", Email: "not-an-email"}
	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Name"])
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Contains(t, valErr.Error(), "field 'Name'")
}
