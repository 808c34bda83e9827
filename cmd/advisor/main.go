package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/loan-advisor/internal/cli"
	"github.com/Veraticus/loan-advisor/internal/common"
	"github.com/Veraticus/loan-advisor/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// rootOptions is shared by every subcommand.
type rootOptions struct {
	v        *viper.Viper
	settings config.Settings
	cfgFile  string
	// releaseSignals detaches the process-wide signal handler. Commands
	// that install their own InterruptHandler call it once theirs is live.
	releaseSignals func()
}

func newRootCmd(releaseSignals func()) *cobra.Command {
	if releaseSignals == nil {
		releaseSignals = func() {}
	}
	opts := &rootOptions{v: viper.New(), releaseSignals: releaseSignals}

	cmd := &cobra.Command{
		Use:   "advisor",
		Short: "🏦 Loan advisor chat",
		Long: `advisor: a local loan-advisor chat.

Ask about loan eligibility, credit scores, EMIs and required documents.
Answers are computed from your profile file; nothing leaves your machine.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.initConfig(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: $HOME/.config/advisor/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("profile", "", "profile file (default: $HOME/.config/advisor/profile.yaml)")

	_ = opts.v.BindPFlag(config.KeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))
	_ = opts.v.BindPFlag(config.KeyLogFormat, cmd.PersistentFlags().Lookup("log-format"))
	_ = opts.v.BindPFlag(config.KeyProfilePath, cmd.PersistentFlags().Lookup("profile"))

	cmd.AddCommand(chatCmd(opts))
	cmd.AddCommand(askCmd(opts))
	cmd.AddCommand(emiCmd(opts))
	cmd.AddCommand(replayCmd(opts))
	cmd.AddCommand(profileCmd(opts))
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(stop).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func (o *rootOptions) initConfig(logOut io.Writer) error {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	v := o.v
	config.SetDefaults(v)

	if o.cfgFile != "" {
		v.SetConfigFile(o.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		v.AddConfigPath(fmt.Sprintf("%s/.config/advisor", home))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(config.EnvKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	settings, err := config.Load(v)
	if err != nil {
		return common.NewUserError("Invalid configuration", err)
	}
	o.settings = settings

	if err := setupLogging(logOut, settings); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func setupLogging(w io.Writer, settings config.Settings) error {
	level, err := common.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	return common.SetupLogger(w, level, settings.LogFormat)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "advisor %s\n", version)
		},
	}
}
