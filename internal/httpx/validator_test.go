package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signupInput struct {
	Email    string   `json:"email" validate:"required,email"`
	Username string   `json:"username" validate:"required,min=3,max=50"`
	Password string   `json:"password" validate:"required,password_strength"`
	Rating   int      `json:"rating" validate:"gte=1,lte=5"`
	Tags     []string `json:"tags" validate:"omitempty,max=2"`
}

func fieldsOf(details []ErrorDetail) map[string]string {
	out := make(map[string]string, len(details))
	for _, d := range details {
		out[d.Field] = d.Message
	}
	return out
}

func TestValidateStruct_Valid(t *testing.T) {
	details := ValidateStruct(signupInput{
		Email:    "ayesha@example.com",
		Username: "ayesha",
		Password: "Clean123!",
		Rating:   5,
	})
	assert.Empty(t, details)
}

func TestValidateStruct_UsesJSONFieldNames(t *testing.T) {
	fields := fieldsOf(ValidateStruct(signupInput{}))

	assert.Contains(t, fields["email"], "required")
	assert.Contains(t, fields["username"], "required")
	assert.Contains(t, fields["password"], "required")
	assert.Contains(t, fields["rating"], "greater than or equal to 1")
}

func TestValidateStruct_PasswordStrength(t *testing.T) {
	weak := []string{"short1!", "alllower123!", "ALLUPPER123!", "NoDigits!!", "NoSpecial123"}
	for _, pw := range weak {
		fields := fieldsOf(ValidateStruct(signupInput{
			Email: "a@b.co", Username: "abc", Password: pw, Rating: 3,
		}))
		assert.Contains(t, fields, "password", pw)
	}
}

func TestValidateStruct_LengthMessages(t *testing.T) {
	fields := fieldsOf(ValidateStruct(signupInput{
		Email: "a@b.co", Username: "ab", Password: "Clean123!", Rating: 3,
		Tags: []string{"a", "b", "c"},
	}))

	assert.Contains(t, fields["username"], "at least 3")
	assert.Contains(t, fields["tags"], "at most 2")
}
