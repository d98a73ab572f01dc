package validate_test

import (
	"riskblock/pkg/serrors"
	"riskblock/pkg/validate"
	"testing"

	"github.com/stretchr/testify/require"
)

type credentials struct {
	Key    string `name:"UMBRELLA_POLICIES_API_KEY"    validate:"required"`
	Secret string `name:"UMBRELLA_POLICIES_API_SECRET" validate:"required"`
}

type entry struct {
	Value string `validate:"required"`
	Kind  string `validate:"oneof=domain url"`
}

func TestStruct_OK(t *testing.T) {
	require.NoError(t, validate.Struct(credentials{Key: "k", Secret: "s"}))
	require.NoError(t, validate.Struct(entry{Value: "example.com", Kind: "domain"}))
}

func TestStruct_UsesNameTag(t *testing.T) {
	err := validate.Struct(credentials{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "UMBRELLA_POLICIES_API_KEY is required")
	require.Contains(t, err.Error(), "UMBRELLA_POLICIES_API_SECRET is required")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestStruct_OneOf(t *testing.T) {
	err := validate.Struct(entry{Value: "x", Kind: "ip"})
	require.Error(t, err)
	require.Equal(t, "Kind must be one of: domain url", err.Error())
}
