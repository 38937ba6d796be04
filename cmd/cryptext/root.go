package main

import (
	"Cryptext/internal/adapters/security"
	"Cryptext/internal/core/domain"
	"Cryptext/internal/shared/config"
	"Cryptext/internal/shared/logger"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	errDecryptFailed    = errors.New("decryption failed")
	errPasswordRequired = errors.New("password is required for AES")
)

// newRootCmd builds the cryptext command tree. Flags fall back to
// CRYPTEXT_* environment variables.
func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CRYPTEXT")
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "cryptext",
		Short:         "Encrypt and decode text with AES or Base64",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("method", "m", "aes", "Transform method: aes or base64")
	flags.StringP("password", "p", "", "Password for AES (or set CRYPTEXT_PASSWORD)")
	flags.Int("iterations", security.DefaultKDFIterations, "PBKDF2 iterations, must match between encode and decode")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	for _, name := range []string{"method", "password", "iterations", "log-level"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "encode [text...]",
			Short: "Encode text (reads stdin when no text is given)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEncode(cmd, v, args)
			},
		},
		&cobra.Command{
			Use:   "decode [text...]",
			Short: "Decode text produced by encode",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDecode(cmd, v, args)
			},
		},
	)
	return rootCmd
}

// options resolves the flags shared by encode and decode.
func options(cmd *cobra.Command, v *viper.Viper) (*security.TransformEngine, domain.EncryptionMethod, error) {
	method, err := domain.ParseMethod(v.GetString("method"))
	if err != nil {
		return nil, "", err
	}

	iterations := v.GetInt("iterations")
	if iterations < config.MinKDFIterations {
		return nil, "", fmt.Errorf("iterations must be at least %d, but got %d", config.MinKDFIterations, iterations)
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), true, v.GetString("log-level")).
		With().Str("cli", cmd.Name()).Logger()
	engine := security.NewTransformEngine(&log, security.WithKDFIterations(iterations))
	return engine, method, nil
}

func runEncode(cmd *cobra.Command, v *viper.Viper, args []string) error {
	engine, method, err := options(cmd, v)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	// Shells add a newline to piped input; keep the rest verbatim.
	text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")

	out := engine.Encode(text, v.GetString("password"), method)
	if out == "" {
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func runDecode(cmd *cobra.Command, v *viper.Viper, args []string) error {
	engine, method, err := options(cmd, v)
	if err != nil {
		return err
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	input = strings.TrimSpace(input)

	password := v.GetString("password")
	if method.RequiresPassword() && password == "" && input != "" {
		return errPasswordRequired
	}

	text, err := engine.Decode(input, password, method)
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return nil
	case err != nil:
		return errDecryptFailed
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

// readInput joins the arguments, or reads stdin when there are none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("could not read stdin: %w", err)
	}
	return string(data), nil
}
