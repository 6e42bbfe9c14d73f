package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the target bucket, credentials, compression defaults
and the staging directory.

Settings are stored in ~/.bucketdrop/config.toml. BUCKETDROP_* environment
variables take precedence over the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsBucketCmd = &cobra.Command{
	Use:   "bucket [name]",
	Short: "Set the target bucket",
	Long: `Set the bucket uploads are written to.

A gs:// prefix is accepted, e.g. gs://my-app.appspot.com/ for a Firebase
project's default bucket.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsBucket,
}

var settingsCompressionCmd = &cobra.Command{
	Use:   "compression",
	Short: "Set compression defaults",
	Long: `Set the bounding box, quality and format used when staging images.
Flags that are not given keep their current value.`,
	Args: cobra.NoArgs,
	RunE: runSettingsCompression,
}

var settingsStagingCmd = &cobra.Command{
	Use:   "staging [dir]",
	Short: "Set the staging directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsStaging,
}

var settingsCredentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Configure bucket credentials",
	Long: `Configure how bucketdrop authenticates against the bucket.

Use --file for a service-account JSON key, or --token to be prompted for a
static OAuth2 access token. With neither, Application Default Credentials
are used.`,
	Args: cobra.NoArgs,
	RunE: runSettingsCredentials,
}

var (
	settingsMaxWidth  float64
	settingsMaxHeight float64
	settingsQuality   int
	settingsFormat    string

	credentialsFile  string
	credentialsToken bool
)

func init() {
	settingsCompressionCmd.Flags().Float64Var(&settingsMaxWidth, "max-width", 0, "maximum output width")
	settingsCompressionCmd.Flags().Float64Var(&settingsMaxHeight, "max-height", 0, "maximum output height")
	settingsCompressionCmd.Flags().IntVarP(&settingsQuality, "quality", "q", 0, "encoder quality (1-100)")
	settingsCompressionCmd.Flags().StringVarP(&settingsFormat, "format", "f", "", "output format (jpeg, png)")

	settingsCredentialsCmd.Flags().StringVar(&credentialsFile, "file", "", "service-account JSON key file")
	settingsCredentialsCmd.Flags().BoolVar(&credentialsToken, "token", false, "prompt for an access token")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsBucketCmd)
	settingsCmd.AddCommand(settingsCompressionCmd)
	settingsCmd.AddCommand(settingsStagingCmd)
	settingsCmd.AddCommand(settingsCredentialsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Storage")
	cmd.Printf("  Bucket:           %s\n", orNotSet(settings.Storage.Bucket)+source("storage.bucket"))
	cmd.Printf("  Credentials file: %s\n",
		orNotSet(settings.Storage.CredentialsFile)+source("storage.credentials_file"))
	token := orNotSet("")
	if settings.Storage.AccessToken != "" {
		token = maskSecret(settings.Storage.AccessToken)
	}
	cmd.Printf("  Access token:     %s\n", token+source("storage.access_token"))
	if settings.Storage.Endpoint != "" {
		cmd.Printf("  Endpoint:         %s\n", settings.Storage.Endpoint+source("storage.endpoint"))
	}
	cmd.Printf("  Auth:             %s\n", authMethod(settings.Storage))
	cmd.Println()

	cmd.Println("Compression")
	cmd.Printf("  Max size:         %gx%g\n", settings.Compression.MaxWidth, settings.Compression.MaxHeight)
	cmd.Printf("  Quality:          %d%s\n", settings.Compression.Quality, source("compression.quality"))
	cmd.Printf("  Format:           %s\n", settings.Compression.Format)
	cmd.Println()

	cmd.Println("Staging")
	cmd.Printf("  Directory:        %s\n", orDefault(settings.Staging.Dir, "~/.bucketdrop/staging")+source("staging.dir"))

	if err := settingsService.Validate(); err != nil {
		cmd.Println()
		cmd.Println("Warning: settings are incomplete")
		for _, line := range strings.Split(err.Error(), "\n") {
			cmd.Printf("  - %s\n", line)
		}
	}
	return nil
}

func runSettingsBucket(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetBucket(args[0]); err != nil {
		return fmt.Errorf("failed to set bucket: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Bucket set to: %s\n", settings.Storage.Bucket)
	warnOverridden(cmd, "storage.bucket")
	return nil
}

func runSettingsCompression(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	c := settings.Compression

	flags := cmd.Flags()
	if flags.Changed("max-width") {
		c.MaxWidth = settingsMaxWidth
	}
	if flags.Changed("max-height") {
		c.MaxHeight = settingsMaxHeight
	}
	if flags.Changed("quality") {
		c.Quality = settingsQuality
	}
	if flags.Changed("format") {
		format, err := domain.ParseCompressFormat(settingsFormat)
		if err != nil {
			return err
		}
		c.Format = format
	}

	if err := settingsService.SetCompression(c); err != nil {
		return fmt.Errorf("failed to set compression: %w", err)
	}

	cmd.Printf("Compression set to: %gx%g, quality %d, %s\n", c.MaxWidth, c.MaxHeight, c.Quality, c.Format)
	warnOverridden(cmd, "compression.max_width", "compression.max_height", "compression.quality")
	return nil
}

func runSettingsStaging(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetStagingDir(args[0]); err != nil {
		return fmt.Errorf("failed to set staging directory: %w", err)
	}

	cmd.Printf("Staging directory set to: %s\n", args[0])
	warnOverridden(cmd, "staging.dir")
	return nil
}

func runSettingsCredentials(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	file := strings.TrimSpace(credentialsFile)
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("credentials file: %w", err)
		}
	}

	token := ""
	if credentialsToken {
		cmd.Print("Access token: ")
		token = readPassword()
		cmd.Println()
		if token == "" {
			return fmt.Errorf("%w: access token cannot be empty", domain.ErrInvalidInput)
		}
	}

	if err := settingsService.SetCredentials(file, token); err != nil {
		return fmt.Errorf("failed to set credentials: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Auth: %s\n", authMethod(settings.Storage))
	warnOverridden(cmd, "storage.credentials_file", "storage.access_token")
	return nil
}

// authMethod mirrors the order the object store picks credentials in.
func authMethod(s domain.StorageSettings) string {
	switch {
	case s.Endpoint != "":
		return "none (custom endpoint)"
	case s.AccessToken != "":
		return "access token"
	case s.CredentialsFile != "":
		return "service account"
	default:
		return "application default credentials"
	}
}

// source returns a suffix naming the environment variable a key comes from.
func source(key string) string {
	if envOverrides == nil {
		return ""
	}
	if name, ok := envOverrides.EnvVar(key); ok {
		return " (from " + name + ")"
	}
	return ""
}

func warnOverridden(cmd *cobra.Command, keys ...string) {
	if envOverrides == nil {
		return
	}
	for _, key := range keys {
		if name, ok := envOverrides.EnvVar(key); ok {
			cmd.Printf("Note: %s is set and takes precedence\n", name)
		}
	}
}

func orNotSet(s string) string {
	return orDefault(s, "(not set)")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec // G115: fd fits in int
		password, err := term.ReadPassword(int(os.Stdin.Fd())) //nolint:gosec // G115: fd fits in int
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n') //nolint:errcheck // empty input is handled by the caller
	return strings.TrimSpace(input)
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
