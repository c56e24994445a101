package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"omitempty,role"`
	Token    string `json:"token" binding:"omitempty,token"`
}

func engine(t *testing.T) *validator.Validate {
	t.Helper()
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v
}

func TestAliases(t *testing.T) {
	v := engine(t)

	ok := sample{
		Email:    "a@x.com",
		Password: "pw",
		Role:     "admin",
		Token:    "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
	}
	assert.NoError(t, v.Struct(ok))

	assert.Error(t, v.Struct(sample{Email: "a@x.com", Password: "pw", Role: "owner"}))
	assert.Error(t, v.Struct(sample{Email: "a@x.com", Password: "pw", Token: "zz"}))
	assert.Error(t, v.Struct(sample{Email: "not-an-email", Password: "pw"}))
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	v := engine(t)

	err := v.Struct(sample{})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "is required", details["email"])
	assert.Equal(t, "is required", details["password"])
}

func TestToDetailsFallbacks(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(assert.AnError))
}
