package deposit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dongaltd/dongpay-bot/internal/errors"
)

func TestAmountRule_ValidateAmount(t *testing.T) {
	rule := AmountRule{Min: 2000}

	testCases := []struct {
		name      string
		input     string
		expected  int
		expectErr bool
	}{
		{name: "at minimum", input: "2000", expected: 2000},
		{name: "above minimum", input: "5000", expected: 5000},
		{name: "trims surrounding whitespace", input: "  2500 ", expected: 2500},
		{name: "below minimum", input: "500", expectErr: true},
		{name: "just below minimum", input: "1999", expectErr: true},
		{name: "zero", input: "0", expectErr: true},
		{name: "empty", input: "", expectErr: true},
		{name: "not a number", input: "abc", expectErr: true},
		{name: "signed", input: "+2000", expectErr: true},
		{name: "negative", input: "-2000", expectErr: true},
		{name: "decimal point", input: "2000.50", expectErr: true},
		{name: "embedded space", input: "2 000", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := rule.ValidateAmount(tc.input)

			if tc.expectErr {
				require.Error(t, err)
				var appErr *apperrors.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, apperrors.CodeInvalidAmount, appErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, amount)
		})
	}
}

func TestPhoneRule_ValidatePhone(t *testing.T) {
	rule := PhoneRule{Length: 10, Prefix: "07"}

	testCases := []struct {
		name      string
		input     string
		expected  string
		expectErr bool
	}{
		{name: "valid", input: "0712345678", expected: "0712345678"},
		{name: "trims surrounding whitespace", input: " 0712345678 ", expected: "0712345678"},
		{name: "wrong prefix", input: "0812345678", expectErr: true},
		{name: "too short", input: "071234567", expectErr: true},
		{name: "too long", input: "07123456789", expectErr: true},
		{name: "non-digit", input: "07123ab678", expectErr: true},
		{name: "international format", input: "+254712345", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			phone, err := rule.ValidatePhone(tc.input)

			if tc.expectErr {
				require.Error(t, err)
				var appErr *apperrors.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, apperrors.CodeInvalidPhone, appErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, phone)
		})
	}
}

func TestPhoneRule_AlternateNumberingPlan(t *testing.T) {
	rule := PhoneRule{Length: 9, Prefix: "25"}

	_, err := rule.ValidatePhone("0712345678")
	require.Error(t, err)

	phone, err := rule.ValidatePhone("251234567")
	require.NoError(t, err)
	assert.Equal(t, "251234567", phone)
}
