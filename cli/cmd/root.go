package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/joho/godotenv"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/takaryo1010/OneTimeChat/client/repository"
)

var (
	cfgFile string
	verbose bool

	logger    *slog.Logger
	lifecycle *repository.Repository
	cookieJar http.CookieJar
)

const (
	apiURLKey   = "api_url"
	wsURLKey    = "ws_url"
	userNameKey = "user_name"

	sessionIDKey = "session_id"
	roomIDKey    = "room_id"
	isOwnerKey   = "is_owner"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "onetimechat",
	Short: "Client for ephemeral OneTimeChat rooms",
	Long: `onetimechat creates or joins an ephemeral chat room and exchanges
realtime messages with the other members until the room expires.

Typical flow:
  onetimechat create --name standup --ttl 1h
  onetimechat chat

and on another machine:
  onetimechat join <room_id>
  onetimechat chat`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		repo, jar, err := repository.New(viper.GetString(apiURLKey), logger)
		if err != nil {
			return fmt.Errorf("failed to build API client: %w", err)
		}
		lifecycle = repo
		cookieJar = jar

		// Resume the persisted session, if any, so the session cookie
		// travels on every request and on the websocket upgrade.
		if id := loadIdentity(); id.IsValid() {
			lifecycle.RestoreIdentity(id)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// one‑shot
	if len(os.Args) > 1 {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	// REPL
	fmt.Println("entering interactive mode, type 'exit' to quit")
	for {
		line := strings.TrimSpace(prompt.Input("❯❯❯ ", completeCommands))
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return
		}
		args, err := shellwords.Parse(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "parse error:", err)
			continue
		}
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func completeCommands(d prompt.Document) []prompt.Suggest {
	var suggestions []prompt.Suggest
	for _, c := range rootCmd.Commands() {
		if c.Hidden {
			continue
		}
		suggestions = append(suggestions, prompt.Suggest{Text: c.Name(), Description: c.Short})
	}
	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.onetimechat.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("api-url", "http://localhost:8080", "Base URL of the room REST API")
	rootCmd.PersistentFlags().String("ws-url", "ws://localhost:8080", "Base URL of the websocket endpoint")

	viper.BindPFlag(apiURLKey, rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag(wsURLKey, rootCmd.PersistentFlags().Lookup("ws-url"))
	viper.SetDefault(apiURLKey, "http://localhost:8080")
	viper.SetDefault(wsURLKey, "ws://localhost:8080")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A local .env may carry the endpoint URLs during development.
	godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".onetimechat" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".onetimechat")
	}

	viper.SetEnvPrefix("onetimechat")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		}
	}
}
