package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":    "9000",
		"BAD_INT": "x",
		"DEBUG":   " true ",
		"ORIGINS": " a.com, ,b.com,",
		"TIMEOUT": "5",
	}

	assert.Equal(t, "9000", GetString(c, "PORT", "8000"))
	assert.Equal(t, "8000", GetString(nil, "PORT", "8000"))
	assert.Equal(t, 9000, GetInt(c, "PORT", 1))
	assert.Equal(t, 1, GetInt(c, "BAD_INT", 1))
	assert.True(t, GetBool(c, "DEBUG", false))
	assert.True(t, GetBool(c, "MISSING", true))
	assert.False(t, GetBool(c, "BAD_INT", false))
	assert.Equal(t, []string{"a.com", "b.com"}, GetList(c, "ORIGINS"))
	assert.Nil(t, GetList(c, "MISSING"))
	assert.Equal(t, 5*time.Second, GetDuration(c, "TIMEOUT", 30, time.Second))
	assert.Equal(t, 30*time.Minute, GetDuration(c, "MISSING", 30, time.Minute))
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_KEY", "a=b")
	assert.Equal(t, "a=b", New()["PORTFOLIO_TEST_KEY"])
}

type fakeParameters struct {
	values map[string]string
	fail   error
}

func (f fakeParameters) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	v, ok := f.values[aws.ToString(params.Name)]
	if !ok {
		return nil, &types.ParameterNotFound{Message: aws.String("missing")}
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(v)}}, nil
}

func TestOverlaySecrets(t *testing.T) {
	cfg := map[string]string{"JWT_SECRET": "from-env", "DB_PASSWORD": "env-pw"}
	client := fakeParameters{values: map[string]string{"/portfolio/JWT_SECRET": "from-ssm"}}

	require.NoError(t, OverlaySecrets(context.Background(), client, "/portfolio/", cfg))
	assert.Equal(t, "from-ssm", cfg["JWT_SECRET"])
	assert.Equal(t, "env-pw", cfg["DB_PASSWORD"])

	err := OverlaySecrets(context.Background(), fakeParameters{fail: errors.New("denied")}, "/portfolio", cfg)
	assert.ErrorContains(t, err, "denied")
}

func TestLoadSecretsWithoutPrefix(t *testing.T) {
	cfg := map[string]string{"JWT_SECRET": "x"}
	require.NoError(t, LoadSecrets(context.Background(), cfg))
	assert.Equal(t, "x", cfg["JWT_SECRET"])
}
