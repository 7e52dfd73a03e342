package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xausdorf/cashi/internal/domain/validator"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"  bob@example.io  ", true},
		{"", false},
		{"   ", false},
		{"alice", false},
		{"alice@", false},
		{"@example.com", false},
		{"alice@example", false},
		{"alice@example.c", false},
		{"alice@@example.com", false},
		{"al ice@example.com", false},
		{"alice@example.c0m", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.IsValidEmail(tt.email))
		})
	}
}

func TestIsPositiveAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"12.5", true},
		{"1", true},
		{"0.01", true},
		{"10000", true},
		{"0", false},
		{"0.00", false},
		{"-5", false},
		{"", false},
		{"abc", false},
		{"12,5", false},
		{"NaN", false},
		{"Inf", false},
		{"1e3", true},
		{"1e400", false},
		{"1e-400", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.IsPositiveAmount(tt.amount))
		})
	}
}

func TestIsNonEmptyCurrency(t *testing.T) {
	assert.True(t, validator.IsNonEmptyCurrency("USD"))
	assert.True(t, validator.IsNonEmptyCurrency("NGN"))
	assert.False(t, validator.IsNonEmptyCurrency(""))
}

func TestValidate_FirstFailureWins(t *testing.T) {
	err := validator.Validate("not-an-email", "-1", "")

	var vErr *validator.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, validator.FieldRecipientEmail, vErr.Field)

	err = validator.Validate("alice@example.com", "-1", "")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, validator.FieldAmount, vErr.Field)

	err = validator.Validate("alice@example.com", "5", "")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, validator.FieldCurrency, vErr.Field)
	assert.Equal(t, "Select a currency", vErr.Message)

	assert.NoError(t, validator.Validate("alice@example.com", "5", "USD"))
}
