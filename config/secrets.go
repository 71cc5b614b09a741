package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/rs/zerolog/log"
)

// SecretKeys are the config keys that may be sourced from Parameter Store.
var SecretKeys = []string{"JWT_SECRET", "DB_PASSWORD", "RESEND_API_KEY"}

// ParameterGetter is the subset of the SSM client used to read secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// LoadSecrets overlays SecretKeys read from SSM under SECRETS_SSM_PREFIX onto cfg.
// It is a no-op when the prefix is unset.
func LoadSecrets(ctx context.Context, cfg map[string]string) error {
	prefix := GetString(cfg, "SECRETS_SSM_PREFIX", "")
	if prefix == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	return OverlaySecrets(ctx, ssm.NewFromConfig(awsCfg), prefix, cfg)
}

// OverlaySecrets reads prefix/KEY for every secret key. Parameters that do not exist are skipped.
func OverlaySecrets(ctx context.Context, client ParameterGetter, prefix string, cfg map[string]string) error {
	prefix = strings.TrimSuffix(prefix, "/")
	for _, key := range SecretKeys {
		name := prefix + "/" + key
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(name),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			var notFound *types.ParameterNotFound
			if errors.As(err, &notFound) {
				log.Debug().Str("parameter", name).Msg("secret not in parameter store, keeping environment value")
				continue
			}
			return fmt.Errorf("read parameter %s: %w", name, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			continue
		}
		cfg[key] = *out.Parameter.Value
	}
	return nil
}
